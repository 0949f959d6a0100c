package ledger

import "time"

type Account struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type Journal struct {
	ID               string `json:"id"`
	Code             string `json:"code"`
	Name             string `json:"name"`
	CompanyID        string `json:"companyId"`
	DefaultAccountID string `json:"defaultAccountId"`
}

type Move struct {
	ID        string    `json:"id"`
	Narration string    `json:"narration"`
	Ref       string    `json:"ref"`
	JournalID string    `json:"journalId"`
	Date      time.Time `json:"date"`
	State     string    `json:"state"`
}

type MoveLine struct {
	ID        string    `json:"id"`
	MoveID    string    `json:"moveId"`
	Name      string    `json:"name"`
	PartnerID string    `json:"partnerId"`
	AccountID string    `json:"accountId"`
	JournalID string    `json:"journalId"`
	Date      time.Time `json:"date"`
	Debit     float64   `json:"debit"`
	Credit    float64   `json:"credit"`
}

const (
	MoveStateDraft  = "draft"
	MoveStatePosted = "posted"
)
