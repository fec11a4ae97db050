package domain

import "time"

type LoanType string

const (
	LoanTypePurchase  LoanType = "purchase"
	LoanTypeRefinance LoanType = "refinance"
	LoanTypeFHA       LoanType = "fha"
	LoanTypeVA        LoanType = "va"
	LoanTypeUSDA      LoanType = "usda"
	LoanTypeJumbo     LoanType = "jumbo"
	LoanTypeHELOC     LoanType = "heloc"
	LoanTypeOther     LoanType = "other"
)

// LeadInput is the JSON body accepted by the lead endpoint. Consent is a
// pointer so that a missing field can be told apart from false.
type LeadInput struct {
	Name     string   `json:"name" validate:"min=2,max=120"`
	Email    string   `json:"email" validate:"required,email"`
	Phone    string   `json:"phone" validate:"min=10,max=30"`
	LoanType LoanType `json:"loanType" validate:"required,oneof=purchase refinance fha va usda jumbo heloc other"`
	Message  string   `json:"message,omitempty" validate:"max=500"`
	Consent  *bool    `json:"consent"`
}

// Lead is a validated submission as forwarded to the CRM. It is never
// stored locally.
type Lead struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenantId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	LoanType   LoanType  `json:"loanType"`
	Message    string    `json:"message,omitempty"`
	Consent    bool      `json:"consent"`
	ClientIP   string    `json:"clientIp"`
	Source     string    `json:"source"`
	ReceivedAt time.Time `json:"receivedAt"`
}
