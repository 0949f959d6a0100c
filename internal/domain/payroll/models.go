package payroll

import "time"

type Employee struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	CompanyID  string             `json:"companyId"`
	Attributes map[string]float64 `json:"attributes"`
}

type SalaryRuleCategory struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	ParentID string `json:"parentId"`
}

// SalaryRule is one payroll computation unit. Condition decides whether
// the rule applies; AmountExpr, QuantityExpr and RateExpr yield the
// line figures (quantity defaults to 1, rate to 100 when empty).
// ChildIDs lists the rules this rule implies: when the condition fails,
// the whole child closure is excluded from the pass.
type SalaryRule struct {
	ID              string   `json:"id"`
	Code            string   `json:"code"`
	Name            string   `json:"name"`
	Sequence        int      `json:"sequence"`
	CategoryID      string   `json:"categoryId"`
	Condition       string   `json:"condition"`
	AmountExpr      string   `json:"amountExpr"`
	QuantityExpr    string   `json:"quantityExpr"`
	RateExpr        string   `json:"rateExpr"`
	ChildIDs        []string `json:"childIds"`
	DebitAccountID  string   `json:"debitAccountId"`
	CreditAccountID string   `json:"creditAccountId"`
}

type SalaryStructure struct {
	ID       string   `json:"id"`
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	ParentID string   `json:"parentId"`
	RuleIDs  []string `json:"ruleIds"`
}

type PayslipType struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	JournalID string `json:"journalId"`
}

type InputType struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type Payslip struct {
	ID               string    `json:"id"`
	Number           string    `json:"number"`
	EmployeeID       string    `json:"employeeId"`
	TypeID           string    `json:"typeId"`
	StructureID      string    `json:"structureId"`
	JournalID        string    `json:"journalId"`
	DateFrom         time.Time `json:"dateFrom"`
	DateTo           time.Time `json:"dateTo"`
	Date             time.Time `json:"date"`
	State            string    `json:"state"`
	CreditNote       bool      `json:"creditNote"`
	MoveID           string    `json:"moveId,omitempty"`
	MoveLineDebitID  string    `json:"moveLineDebitId,omitempty"`
	MoveLineCreditID string    `json:"moveLineCreditId,omitempty"`
	CancelReason     string    `json:"cancelReason,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type InputLine struct {
	ID        string  `json:"id"`
	PayslipID string  `json:"payslipId"`
	Code      string  `json:"code"`
	Amount    float64 `json:"amount"`
}

// PayslipLine is derived data: one line per rule that fired, rebuilt
// wholesale on every compute while the payslip is in draft.
type PayslipLine struct {
	ID               string  `json:"id"`
	PayslipID        string  `json:"payslipId"`
	RuleID           string  `json:"ruleId"`
	Code             string  `json:"code"`
	Name             string  `json:"name"`
	Sequence         int     `json:"sequence"`
	CategoryID       string  `json:"categoryId"`
	Amount           float64 `json:"amount"`
	Quantity         float64 `json:"quantity"`
	Rate             float64 `json:"rate"`
	Total            float64 `json:"total"`
	MoveLineDebitID  string  `json:"moveLineDebitId,omitempty"`
	MoveLineCreditID string  `json:"moveLineCreditId,omitempty"`
}

// RuleRef pairs a rule id with its sequence for resolver output.
type RuleRef struct {
	ID       string
	Sequence int
}

// Result is one engine output entry, keyed by rule code.
type Result struct {
	RuleID   string
	Code     string
	Amount   float64
	Quantity float64
	Rate     float64
	Total    float64
}
