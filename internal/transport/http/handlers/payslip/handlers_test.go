package paysliphandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateRejectsMissingRequiredFields(t *testing.T) {
	h := NewHandler(nil)
	req := httptest.NewRequest(http.MethodPost, "/payslips", strings.NewReader(
		`{"employeeId":"e1","dateFrom":"2024-01-01","dateTo":"2024-01-31"}`))
	rec := httptest.NewRecorder()

	h.handleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var envelope struct {
		Success bool `json:"success"`
		Error   *struct {
			Code    string `json:"code"`
			Details struct {
				Fields []struct {
					Field string `json:"field"`
				} `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Success || envelope.Error == nil {
		t.Fatal("expected failure envelope")
	}
	if envelope.Error.Code != "validation_error" {
		t.Fatalf("expected validation_error, got %q", envelope.Error.Code)
	}

	fields := map[string]bool{}
	for _, issue := range envelope.Error.Details.Fields {
		fields[issue.Field] = true
	}
	if !fields["typeId"] || !fields["structureId"] {
		t.Fatalf("expected typeId and structureId issues, got %v", fields)
	}
}

func TestCreateRejectsInvertedPeriod(t *testing.T) {
	h := NewHandler(nil)
	req := httptest.NewRequest(http.MethodPost, "/payslips", strings.NewReader(
		`{"employeeId":"e1","typeId":"t1","structureId":"s1","dateFrom":"2024-02-01","dateTo":"2024-01-01"}`))
	rec := httptest.NewRecorder()

	h.handleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inverted period, got %d", rec.Code)
	}
}

func TestCreateRejectsMalformedBody(t *testing.T) {
	h := NewHandler(nil)
	req := httptest.NewRequest(http.MethodPost, "/payslips", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	h.handleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}
