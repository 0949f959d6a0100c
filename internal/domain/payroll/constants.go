package payroll

const (
	StateDraft   = "draft"
	StateConfirm = "confirm"
	StateDone    = "done"
	StateCancel  = "cancel"
	StateReject  = "reject"
)

const adjustmentEntryName = "Adjustment Entry"
