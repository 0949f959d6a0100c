package paysliphandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"payslip/internal/domain/lifecycle"
	"payslip/internal/domain/payroll"
	"payslip/internal/platform/requestctx"
	"payslip/internal/transport/http/api"
	"payslip/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
}

func NewHandler(service *payroll.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payslips", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{payslipID}", h.handleGet)
		r.Post("/{payslipID}/inputs", h.handleAddInput)
		r.Get("/{payslipID}/inputs", h.handleListInputs)
		r.Post("/{payslipID}/compute", h.handleCompute)
		r.Get("/{payslipID}/lines", h.handleListLines)
		r.Post("/{payslipID}/confirm", h.transitionHandler(lifecycle.EventConfirm))
		r.Post("/{payslipID}/done", h.transitionHandler(lifecycle.EventDone))
		r.Post("/{payslipID}/cancel", h.handleCancel)
		r.Post("/{payslipID}/reject", h.transitionHandler(lifecycle.EventReject))
		r.Post("/{payslipID}/restart", h.transitionHandler(lifecycle.EventRestart))
		r.Get("/{payslipID}/pdf", h.handleDownloadPDF)
		r.Get("/{payslipID}/journal-entry", h.handleJournalEntry)
		r.Post("/{payslipID}/journal-entry/post", h.handlePostJournalEntry)
	})

	r.Get("/salary-structures", h.handleListStructures)
	r.Get("/salary-rules", h.handleListRules)
	r.Get("/salary-rule-categories", h.handleListCategories)
	r.Get("/payslip-types", h.handleListTypes)
	r.Get("/payslip-input-types", h.handleListInputTypes)
}

type createPayslipPayload struct {
	EmployeeID  string `json:"employeeId"`
	TypeID      string `json:"typeId"`
	StructureID string `json:"structureId"`
	JournalID   string `json:"journalId"`
	DateFrom    string `json:"dateFrom"`
	DateTo      string `json:"dateTo"`
	Date        string `json:"date"`
	CreditNote  bool   `json:"creditNote"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	var payload createPayslipPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employeeId is required")
	v.Required("typeId", payload.TypeID, "typeId is required")
	v.Required("structureId", payload.StructureID, "structureId is required")
	dateFrom, _ := v.Date("dateFrom", payload.DateFrom)
	dateTo, _ := v.Date("dateTo", payload.DateTo)
	v.DateOrder("dateFrom", dateFrom, "dateTo", dateTo)
	if v.Reject(w, requestID) {
		return
	}

	slip := payroll.Payslip{
		EmployeeID:  payload.EmployeeID,
		TypeID:      payload.TypeID,
		StructureID: payload.StructureID,
		JournalID:   payload.JournalID,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
		CreditNote:  payload.CreditNote,
	}
	if payload.Date != "" {
		date, ok := v.Date("date", payload.Date)
		if v.Reject(w, requestID) {
			return
		}
		if ok {
			slip.Date = date
		}
	}

	created, err := h.Service.CreatePayslip(r.Context(), slip)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePageQuery(r)
	slips, err := h.Service.ListPayslips(r.Context(), r.URL.Query().Get("employeeId"), page.Limit, page.Offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, slips, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	slip, err := h.Service.GetPayslip(r.Context(), chi.URLParam(r, "payslipID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, slip, requestctx.GetRequestID(r.Context()))
}

type inputPayload struct {
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
}

func (h *Handler) handleAddInput(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	var payload inputPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("code", payload.Code, "code is required")
	if v.Reject(w, requestID) {
		return
	}

	if err := h.Service.AddInput(r.Context(), chi.URLParam(r, "payslipID"), payload.Code, payload.Amount); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]string{"status": "ok"}, requestID)
}

func (h *Handler) handleListInputs(w http.ResponseWriter, r *http.Request) {
	inputs, err := h.Service.ListInputs(r.Context(), chi.URLParam(r, "payslipID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, inputs, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCompute(w http.ResponseWriter, r *http.Request) {
	lines, err := h.Service.Compute(r.Context(), chi.URLParam(r, "payslipID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, lines, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleListLines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.Service.ListLines(r.Context(), chi.URLParam(r, "payslipID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, lines, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) transitionHandler(event lifecycle.Event) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payslipID := chi.URLParam(r, "payslipID")
		var slip payroll.Payslip
		var err error
		switch event {
		case lifecycle.EventConfirm:
			slip, err = h.Service.Confirm(r.Context(), payslipID)
		case lifecycle.EventDone:
			slip, err = h.Service.Done(r.Context(), payslipID)
		case lifecycle.EventReject:
			slip, err = h.Service.Reject(r.Context(), payslipID)
		case lifecycle.EventRestart:
			slip, err = h.Service.Restart(r.Context(), payslipID)
		}
		if err != nil {
			h.fail(w, r, err)
			return
		}
		api.Success(w, slip, requestctx.GetRequestID(r.Context()))
	}
}

type cancelPayload struct {
	Reason string `json:"reason"`
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	var payload cancelPayload
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
			return
		}
	}

	slip, err := h.Service.Cancel(r.Context(), chi.URLParam(r, "payslipID"), payload.Reason)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, slip, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	payslipID := chi.URLParam(r, "payslipID")
	document, err := h.Service.PayslipPDF(r.Context(), payslipID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="payslip-`+payslipID+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(document)))
	_, _ = w.Write(document)
}

func (h *Handler) handleJournalEntry(w http.ResponseWriter, r *http.Request) {
	lines, err := h.Service.JournalEntryLines(r.Context(), chi.URLParam(r, "payslipID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, lines, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handlePostJournalEntry(w http.ResponseWriter, r *http.Request) {
	payslipID := chi.URLParam(r, "payslipID")
	if err := h.Service.PostJournalEntry(r.Context(), payslipID); err != nil {
		h.fail(w, r, err)
		return
	}
	slip, err := h.Service.GetPayslip(r.Context(), payslipID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, slip, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleListStructures(w http.ResponseWriter, r *http.Request) {
	structures, err := h.Service.Store().ListStructures(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, structures, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.Service.Store().ListRules(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, rules, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.Store().ListCategories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, categories, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Service.Store().ListPayslipTypes(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, types, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleListInputTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Service.Store().ListInputTypes(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, types, requestctx.GetRequestID(r.Context()))
}

// fail maps domain errors onto HTTP statuses.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.GetRequestID(r.Context())
	switch {
	case errors.Is(err, payroll.ErrPayslipNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payslip not found", requestID)
	case errors.Is(err, payroll.ErrPayslipNotDraft):
		api.Fail(w, http.StatusConflict, "not_draft", "payslip is not in draft state", requestID)
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), requestID)
	case errors.Is(err, payroll.ErrMovePosted):
		api.Fail(w, http.StatusConflict, "move_posted", "cannot cancel a payslip whose journal entry is posted", requestID)
	case errors.Is(err, payroll.ErrNoJournalEntry):
		api.Fail(w, http.StatusConflict, "no_journal_entry", "payslip has no journal entry", requestID)
	case errors.Is(err, payroll.ErrNoDefaultAccount):
		api.Fail(w, http.StatusUnprocessableEntity, "no_default_account", err.Error(), requestID)
	case errors.Is(err, payroll.ErrStructureNotFound), errors.Is(err, payroll.ErrCategoryNotFound),
		errors.Is(err, payroll.ErrStructureCycle), errors.Is(err, payroll.ErrRuleEvaluation):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_configuration", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}
