package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lo-site/domain"
)

func ptr(v float64) *float64 { return &v }

func testDefaults() ProgramDefaults {
	d := DefaultProgramDefaults()
	d.FHAAnnualMIPRate = 0.55
	return d
}

func TestQuote_Conventional(t *testing.T) {
	svc := NewProgramService(testDefaults())

	quote, err := svc.Quote(domain.LoanScenario{
		HomePrice:           400000,
		DownPayment:         20,
		DownPaymentUnit:     domain.DownPaymentPercent,
		InterestRate:        6.5,
		TermYears:           30,
		CreditScore:         740,
		PropertyTax:         4800,
		HomeownersInsurance: 1200,
		HOADues:             50,
		Program:             domain.ProgramConventional,
	})
	require.NoError(t, err)

	assert.Equal(t, 80000.0, quote.DownPaymentAmount)
	assert.Equal(t, 320000.0, quote.BaseLoanAmount)
	assert.Equal(t, 320000.0, quote.FinancedAmount)
	assert.Nil(t, quote.Fee)
	assert.Equal(t, 80.0, quote.LTV)
	assert.Equal(t, 0.39, quote.PMIRate)

	m := quote.Monthly
	assert.Equal(t, 2022.62, m.PrincipalAndInterest)
	assert.Equal(t, 104.0, m.PMI)
	assert.Equal(t, 400.0, m.PropertyTaxMonthly)
	assert.Equal(t, 100.0, m.InsuranceMonthly)
	assert.Equal(t, 50.0, m.HOADues)
	assert.InDelta(t, 2676.62, m.Total, 0.001)
}

func TestQuote_TotalIsSumOfLines(t *testing.T) {
	svc := NewProgramService(testDefaults())
	programs := []domain.ProgramType{
		domain.ProgramConventional, domain.ProgramJumbo, domain.ProgramFHA,
		domain.ProgramVA, domain.ProgramUSDA, domain.ProgramRefinance,
	}
	for _, p := range programs {
		t.Run(string(p), func(t *testing.T) {
			quote, err := svc.Quote(domain.LoanScenario{
				HomePrice:           512345,
				DownPayment:         7,
				DownPaymentUnit:     domain.DownPaymentPercent,
				InterestRate:        6.875,
				TermYears:           30,
				CreditScore:         705,
				PropertyTax:         6123,
				HomeownersInsurance: 1789,
				HOADues:             33.33,
				Program:             p,
			})
			require.NoError(t, err)
			m := quote.Monthly
			sum := m.PrincipalAndInterest + m.PMI + m.PropertyTaxMonthly + m.InsuranceMonthly + m.HOADues
			assert.InDelta(t, sum, m.Total, 0.005)
		})
	}
}

func TestQuote_MissingOptionalAmountsAreZero(t *testing.T) {
	svc := NewProgramService(testDefaults())

	quote, err := svc.Quote(domain.LoanScenario{
		HomePrice:    300000,
		DownPayment:  60000,
		InterestRate: 6,
		TermYears:    30,
		PMIRate:      ptr(0),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ProgramConventional, quote.Program)
	assert.Equal(t, 0.0, quote.Monthly.PropertyTaxMonthly)
	assert.Equal(t, 0.0, quote.Monthly.InsuranceMonthly)
	assert.Equal(t, 0.0, quote.Monthly.HOADues)
	assert.Equal(t, 0.0, quote.Monthly.PMI)
	assert.Equal(t, quote.Monthly.PrincipalAndInterest, quote.Monthly.Total)
}

func TestQuote_JumboMatchesConventional(t *testing.T) {
	svc := NewProgramService(testDefaults())
	sc := domain.LoanScenario{
		HomePrice:       1500000,
		DownPayment:     10,
		DownPaymentUnit: domain.DownPaymentPercent,
		InterestRate:    7.1,
		TermYears:       30,
		CreditScore:     780,
		Program:         domain.ProgramConventional,
	}
	conv, err := svc.Quote(sc)
	require.NoError(t, err)

	sc.Program = domain.ProgramJumbo
	jumbo, err := svc.Quote(sc)
	require.NoError(t, err)

	assert.Equal(t, conv.Monthly, jumbo.Monthly)
	assert.Equal(t, conv.FinancedAmount, jumbo.FinancedAmount)
}

func TestQuote_PMIWaiverGate(t *testing.T) {
	sc := domain.LoanScenario{
		HomePrice:       400000,
		DownPayment:     20,
		DownPaymentUnit: domain.DownPaymentPercent,
		InterestRate:    6.5,
		TermYears:       30,
		CreditScore:     700,
	}

	ungated, err := NewProgramService(testDefaults()).Quote(sc)
	require.NoError(t, err)
	assert.Greater(t, ungated.Monthly.PMI, 0.0)

	d := testDefaults()
	d.PMIWaiverLTV = 80
	gated := NewProgramService(d)

	quote, err := gated.Quote(sc)
	require.NoError(t, err)
	assert.Equal(t, 0.0, quote.Monthly.PMI)
	assert.Equal(t, 0.0, quote.PMIRate)

	sc.DownPayment = 10
	quote, err = gated.Quote(sc)
	require.NoError(t, err)
	assert.Equal(t, 0.62, quote.PMIRate)
	assert.Greater(t, quote.Monthly.PMI, 0.0)
}

func TestQuote_PMIOverride(t *testing.T) {
	quote, err := NewProgramService(testDefaults()).Quote(domain.LoanScenario{
		HomePrice:    200000,
		DownPayment:  10000,
		InterestRate: 6,
		TermYears:    30,
		CreditScore:  800,
		PMIRate:      ptr(0.8),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.8, quote.PMIRate)
	assert.Equal(t, 126.67, quote.Monthly.PMI)
}

func TestQuote_FHA(t *testing.T) {
	quote, err := NewProgramService(testDefaults()).Quote(domain.LoanScenario{
		HomePrice:    300000,
		DownPayment:  10500,
		InterestRate: 6.25,
		TermYears:    30,
		Program:      domain.ProgramFHA,
	})
	require.NoError(t, err)

	require.NotNil(t, quote.Fee)
	assert.Equal(t, 289500.0, quote.Fee.BaseLoanAmount)
	assert.Equal(t, 5066.25, quote.Fee.FeeAmount)
	assert.Equal(t, 294566.25, quote.Fee.TotalLoanAmount)
	assert.Equal(t, 294566.25, quote.FinancedAmount)

	// P&I is computed on the financed amount, not the base loan.
	assert.Equal(t, 1813.70, quote.Monthly.PrincipalAndInterest)
	assert.Equal(t, 0.55, quote.PMIRate)
	assert.Equal(t, 135.01, quote.Monthly.PMI)
}

func TestQuote_FHAOverrides(t *testing.T) {
	quote, err := NewProgramService(testDefaults()).Quote(domain.LoanScenario{
		HomePrice:     300000,
		DownPayment:   10500,
		InterestRate:  6.25,
		TermYears:     30,
		Program:       domain.ProgramFHA,
		UFMIPRate:     ptr(0),
		AnnualMIPRate: ptr(0.8),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, quote.Fee.FeeAmount)
	assert.Equal(t, 289500.0, quote.FinancedAmount)
	assert.Equal(t, 0.8, quote.PMIRate)
}

func TestQuote_VANeverCarriesPMI(t *testing.T) {
	svc := NewProgramService(testDefaults())
	for _, dp := range []float64{0, 3, 5, 10, 25} {
		quote, err := svc.Quote(domain.LoanScenario{
			HomePrice:       300000,
			DownPayment:     dp,
			DownPaymentUnit: domain.DownPaymentPercent,
			InterestRate:    6.25,
			TermYears:       30,
			CreditScore:     580,
			PMIRate:         ptr(1.5),
			Program:         domain.ProgramVA,
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, quote.Monthly.PMI, "down %.0f%%", dp)
		assert.Equal(t, 0.0, quote.PMIRate)
	}
}

func TestQuote_VAFundingFee(t *testing.T) {
	svc := NewProgramService(testDefaults())
	sc := domain.LoanScenario{
		HomePrice:    300000,
		InterestRate: 6.25,
		TermYears:    30,
		Program:      domain.ProgramVA,
	}

	quote, err := svc.Quote(sc)
	require.NoError(t, err)
	assert.Equal(t, 6450.0, quote.Fee.FeeAmount)
	assert.Equal(t, 306450.0, quote.FinancedAmount)
	assert.Equal(t, 1886.87, quote.Monthly.PrincipalAndInterest)

	sc.FundingFeeOption = domain.FundingFeeExempt
	sc.FundingFeeRate = ptr(2.15)
	quote, err = svc.Quote(sc)
	require.NoError(t, err)
	assert.Equal(t, 0.0, quote.Fee.FeeAmount)
	assert.Equal(t, 300000.0, quote.FinancedAmount)

	sc.FundingFeeOption = domain.FundingFeeAfterUse
	sc.FundingFeeRate = nil
	sc.DownPayment = 10
	sc.DownPaymentUnit = domain.DownPaymentPercent
	quote, err = svc.Quote(sc)
	require.NoError(t, err)
	assert.Equal(t, 3375.0, quote.Fee.FeeAmount)
}

func TestQuote_USDA(t *testing.T) {
	quote, err := NewProgramService(testDefaults()).Quote(domain.LoanScenario{
		HomePrice:    200000,
		InterestRate: 6,
		TermYears:    30,
		Program:      domain.ProgramUSDA,
	})
	require.NoError(t, err)

	assert.Equal(t, 2000.0, quote.Fee.FeeAmount)
	assert.Equal(t, 202000.0, quote.FinancedAmount)
	assert.Equal(t, 1211.09, quote.Monthly.PrincipalAndInterest)
	assert.Equal(t, DefaultUSDAAnnualFeeRate, quote.PMIRate)
	assert.Equal(t, 58.92, quote.Monthly.PMI)
}

func TestQuote_DegenerateInputDoesNotFail(t *testing.T) {
	quote, err := NewProgramService(testDefaults()).Quote(domain.LoanScenario{
		Program: domain.ProgramFHA,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, quote.Monthly.PrincipalAndInterest)
	assert.Equal(t, 0.0, quote.LTV)
}

func TestQuote_UnknownProgram(t *testing.T) {
	_, err := NewProgramService(testDefaults()).Quote(domain.LoanScenario{Program: "balloon"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownProgram))
}

func TestRefinance_BreakEven(t *testing.T) {
	svc := NewProgramService(testDefaults())
	current := domain.LoanScenario{
		HomePrice:    300000,
		InterestRate: 7.5,
		TermYears:    30,
		PMIRate:      ptr(0),
	}
	proposed := current
	proposed.InterestRate = 6

	analysis, err := svc.Refinance(domain.RefinanceInput{
		Current:        current,
		Proposed:       proposed,
		RefinanceCosts: 6000,
	})
	require.NoError(t, err)

	assert.Equal(t, 2097.64, analysis.CurrentPayment)
	assert.Equal(t, 1798.65, analysis.ProposedPayment)
	assert.Equal(t, 298.99, analysis.MonthlySavings)
	require.NotNil(t, analysis.BreakEvenMonths)
	assert.Equal(t, 21, *analysis.BreakEvenMonths)
}

func TestRefinance_NoSavingsHasNoBreakEven(t *testing.T) {
	svc := NewProgramService(testDefaults())
	current := domain.LoanScenario{HomePrice: 300000, InterestRate: 6, TermYears: 30, PMIRate: ptr(0)}
	proposed := current
	proposed.InterestRate = 6.5

	analysis, err := svc.Refinance(domain.RefinanceInput{Current: current, Proposed: proposed, RefinanceCosts: 4000})
	require.NoError(t, err)
	assert.Less(t, analysis.MonthlySavings, 0.0)
	assert.Nil(t, analysis.BreakEvenMonths)
}

func TestRefinance_PropagatesProgramError(t *testing.T) {
	_, err := NewProgramService(testDefaults()).Refinance(domain.RefinanceInput{
		Current:  domain.LoanScenario{Program: "bogus"},
		Proposed: domain.LoanScenario{},
	})
	assert.ErrorIs(t, err, ErrUnknownProgram)
}
