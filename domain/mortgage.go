package domain

type ProgramType string

const (
	ProgramConventional ProgramType = "conventional"
	ProgramFHA          ProgramType = "fha"
	ProgramVA           ProgramType = "va"
	ProgramUSDA         ProgramType = "usda"
	ProgramJumbo        ProgramType = "jumbo"
	ProgramRefinance    ProgramType = "refinance"
)

type DownPaymentUnit string

const (
	DownPaymentPercent DownPaymentUnit = "percent"
	DownPaymentAmount  DownPaymentUnit = "amount"
)

type FundingFeeOption string

const (
	FundingFeeFirstUse FundingFeeOption = "first_use"
	FundingFeeAfterUse FundingFeeOption = "after_use"
	FundingFeeExempt   FundingFeeOption = "exempt"
)

// LoanScenario is the borrower/loan input shared by every program.
// PropertyTax and HomeownersInsurance are annual, HOADues is monthly.
// Nil rate overrides fall back to the configured program defaults.
type LoanScenario struct {
	HomePrice           float64         `json:"homePrice"`
	DownPayment         float64         `json:"downPayment"`
	DownPaymentUnit     DownPaymentUnit `json:"downPaymentUnit"`
	InterestRate        float64         `json:"interestRate"`
	TermYears           int             `json:"termYears"`
	CreditScore         int             `json:"creditScore"`
	PropertyTax         float64         `json:"propertyTax"`
	HomeownersInsurance float64         `json:"homeownersInsurance"`
	HOADues             float64         `json:"hoaDues"`
	Program             ProgramType     `json:"program"`

	PMIRate           *float64         `json:"pmiRate,omitempty"`
	UFMIPRate         *float64         `json:"ufmipRate,omitempty"`
	AnnualMIPRate     *float64         `json:"annualMipRate,omitempty"`
	GuaranteeFeeRate  *float64         `json:"guaranteeFeeRate,omitempty"`
	USDAAnnualFeeRate *float64         `json:"usdaAnnualFeeRate,omitempty"`
	FundingFeeRate    *float64         `json:"fundingFeeRate,omitempty"`
	FundingFeeOption  FundingFeeOption `json:"fundingFeeOption,omitempty"`
}

type PMIRateEntry struct {
	Label    string  `json:"label"`
	MinScore int     `json:"minScore"`
	Rate     float64 `json:"rate"`
}

// ProgramFeeResult holds an upfront fee rolled into the loan balance
// (FHA UFMIP, USDA guarantee fee, VA funding fee).
type ProgramFeeResult struct {
	BaseLoanAmount  float64 `json:"baseLoanAmount"`
	FeeAmount       float64 `json:"feeAmount"`
	TotalLoanAmount float64 `json:"totalLoanAmount"`
}

type MonthlyPaymentBreakdown struct {
	PrincipalAndInterest float64 `json:"principalAndInterest"`
	PMI                  float64 `json:"pmi"`
	PropertyTaxMonthly   float64 `json:"propertyTaxMonthly"`
	InsuranceMonthly     float64 `json:"insuranceMonthly"`
	HOADues              float64 `json:"hoaDues"`
	Total                float64 `json:"total"`
}

type PaymentQuote struct {
	Program           ProgramType             `json:"program"`
	DownPaymentAmount float64                 `json:"downPaymentAmount"`
	BaseLoanAmount    float64                 `json:"baseLoanAmount"`
	Fee               *ProgramFeeResult       `json:"fee,omitempty"`
	FinancedAmount    float64                 `json:"financedAmount"`
	LTV               float64                 `json:"ltv"`
	PMIRate           float64                 `json:"pmiRate"`
	Monthly           MonthlyPaymentBreakdown `json:"monthly"`
}

// RefinanceAnalysis reports a nil BreakEvenMonths when the proposed loan
// never pays back its costs.
type RefinanceAnalysis struct {
	RefinanceCosts  float64 `json:"refinanceCosts"`
	CurrentPayment  float64 `json:"currentPayment"`
	ProposedPayment float64 `json:"proposedPayment"`
	MonthlySavings  float64 `json:"monthlySavings"`
	BreakEvenMonths *int    `json:"breakEvenMonths"`
}

type RefinanceInput struct {
	Current        LoanScenario `json:"current"`
	Proposed       LoanScenario `json:"proposed"`
	RefinanceCosts float64      `json:"refinanceCosts"`
}
