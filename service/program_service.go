package service

import (
	"errors"
	"fmt"
	"math"

	"lo-site/domain"
)

var ErrUnknownProgram = errors.New("unknown loan program")

// ProgramDefaults are the rates used when a scenario carries no override.
// FHAAnnualMIPRate has no built-in value and must come from configuration.
// PMIWaiverLTV gates conventional/jumbo PMI: when positive, PMI is only
// charged above that LTV. Zero charges PMI regardless of LTV.
type ProgramDefaults struct {
	FHAUpfrontMIPRate    float64
	FHAAnnualMIPRate     float64
	USDAGuaranteeFeeRate float64
	USDAAnnualFeeRate    float64
	PMIWaiverLTV         float64
}

func DefaultProgramDefaults() ProgramDefaults {
	return ProgramDefaults{
		FHAUpfrontMIPRate:    DefaultFHAUpfrontMIPRate,
		USDAGuaranteeFeeRate: DefaultUSDAGuaranteeFee,
		USDAAnnualFeeRate:    DefaultUSDAAnnualFeeRate,
	}
}

type ProgramService struct {
	defaults ProgramDefaults
}

func NewProgramService(defaults ProgramDefaults) *ProgramService {
	return &ProgramService{defaults: defaults}
}

func (s *ProgramService) Defaults() ProgramDefaults {
	return s.defaults
}

// roundTo2Decimals redondea un float64 a 2 decimales
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

// Quote composes the engine functions for the scenario's program. A
// scenario without a program is priced as conventional; a refinance
// scenario describes the new loan and is priced the same way.
func (s *ProgramService) Quote(sc domain.LoanScenario) (domain.PaymentQuote, error) {
	program := sc.Program
	if program == "" {
		program = domain.ProgramConventional
	}

	dp := DownPaymentAmount(sc.HomePrice, sc.DownPayment, sc.DownPaymentUnit)
	base := LoanAmount(sc.HomePrice, dp)

	quote := domain.PaymentQuote{
		Program:           program,
		DownPaymentAmount: roundTo2Decimals(dp),
		BaseLoanAmount:    roundTo2Decimals(base),
		LTV:               roundTo2Decimals(LTV(base, sc.HomePrice)),
	}

	var fee *domain.ProgramFeeResult
	var pmi float64

	switch program {
	case domain.ProgramConventional, domain.ProgramJumbo, domain.ProgramRefinance:
		quote.PMIRate = s.conventionalPMIRate(sc, base)
		pmi = MonthlyPMI(base, quote.PMIRate)

	case domain.ProgramFHA:
		r := FHALoanAmount(sc.HomePrice, dp, valueOr(sc.UFMIPRate, s.defaults.FHAUpfrontMIPRate))
		fee = &r
		quote.PMIRate = valueOr(sc.AnnualMIPRate, s.defaults.FHAAnnualMIPRate)
		pmi = MonthlyPMI(r.TotalLoanAmount, quote.PMIRate)

	case domain.ProgramVA:
		option := sc.FundingFeeOption
		if option == "" {
			option = domain.FundingFeeFirstUse
		}
		rate := valueOr(sc.FundingFeeRate, VAFundingFeeRate(option, downPaymentPercent(sc.HomePrice, dp)))
		r := VALoanAmount(sc.HomePrice, dp, rate, option)
		fee = &r
		// VA nunca lleva PMI

	case domain.ProgramUSDA:
		r := USDALoanAmount(sc.HomePrice, dp, valueOr(sc.GuaranteeFeeRate, s.defaults.USDAGuaranteeFeeRate))
		fee = &r
		quote.PMIRate = valueOr(sc.USDAAnnualFeeRate, s.defaults.USDAAnnualFeeRate)
		pmi = USDAMonthlyInsurance(r.TotalLoanAmount, quote.PMIRate)

	default:
		return domain.PaymentQuote{}, fmt.Errorf("%w: %q", ErrUnknownProgram, program)
	}

	financed := base
	if fee != nil {
		financed = fee.TotalLoanAmount
		rounded := roundFee(*fee)
		quote.Fee = &rounded
	}
	quote.FinancedAmount = roundTo2Decimals(financed)
	quote.Monthly = breakdown(
		MonthlyPrincipalAndInterest(financed, sc.InterestRate, sc.TermYears),
		pmi,
		sc,
	)
	return quote, nil
}

// Refinance prices both loans and reports how long the new one takes to
// pay back its closing costs.
func (s *ProgramService) Refinance(input domain.RefinanceInput) (domain.RefinanceAnalysis, error) {
	current, err := s.Quote(input.Current)
	if err != nil {
		return domain.RefinanceAnalysis{}, fmt.Errorf("current loan: %w", err)
	}
	proposed, err := s.Quote(input.Proposed)
	if err != nil {
		return domain.RefinanceAnalysis{}, fmt.Errorf("proposed loan: %w", err)
	}

	savings := roundTo2Decimals(current.Monthly.Total - proposed.Monthly.Total)
	return domain.RefinanceAnalysis{
		RefinanceCosts:  input.RefinanceCosts,
		CurrentPayment:  current.Monthly.Total,
		ProposedPayment: proposed.Monthly.Total,
		MonthlySavings:  savings,
		BreakEvenMonths: BreakEvenMonths(input.RefinanceCosts, savings),
	}, nil
}

func (s *ProgramService) conventionalPMIRate(sc domain.LoanScenario, base float64) float64 {
	if s.defaults.PMIWaiverLTV > 0 && LTV(base, sc.HomePrice) <= s.defaults.PMIWaiverLTV {
		return 0
	}
	if sc.PMIRate != nil {
		return *sc.PMIRate
	}
	return PMIRateForScore(sc.CreditScore)
}

// breakdown rounds each component to cents and totals the rounded values
// so that Total always equals the sum of the lines shown.
func breakdown(principalAndInterest, pmi float64, sc domain.LoanScenario) domain.MonthlyPaymentBreakdown {
	b := domain.MonthlyPaymentBreakdown{
		PrincipalAndInterest: roundTo2Decimals(principalAndInterest),
		PMI:                  roundTo2Decimals(pmi),
		PropertyTaxMonthly:   roundTo2Decimals(MonthlyPropertyTax(sc.PropertyTax)),
		InsuranceMonthly:     roundTo2Decimals(MonthlyInsurance(sc.HomeownersInsurance)),
		HOADues:              roundTo2Decimals(sc.HOADues),
	}
	b.Total = roundTo2Decimals(TotalMonthlyPayment(
		b.PrincipalAndInterest,
		b.PropertyTaxMonthly,
		b.InsuranceMonthly,
		b.HOADues,
		b.PMI,
	))
	return b
}

func roundFee(r domain.ProgramFeeResult) domain.ProgramFeeResult {
	base := roundTo2Decimals(r.BaseLoanAmount)
	fee := roundTo2Decimals(r.FeeAmount)
	return domain.ProgramFeeResult{
		BaseLoanAmount:  base,
		FeeAmount:       fee,
		TotalLoanAmount: roundTo2Decimals(base + fee),
	}
}

func downPaymentPercent(homePrice, downPaymentAmount float64) float64 {
	if homePrice <= 0 {
		return 0
	}
	return downPaymentAmount / homePrice * 100
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
