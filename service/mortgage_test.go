package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lo-site/domain"
)

func TestDownPaymentAmount(t *testing.T) {
	assert.Equal(t, 80000.0, DownPaymentAmount(400000, 20, domain.DownPaymentPercent))
	assert.Equal(t, 15000.0, DownPaymentAmount(400000, 15000, domain.DownPaymentAmount))
	assert.Equal(t, 15000.0, DownPaymentAmount(400000, 15000, ""))
}

func TestLoanAmount_NoFloor(t *testing.T) {
	assert.Equal(t, 320000.0, LoanAmount(400000, 80000))
	assert.Equal(t, -10000.0, LoanAmount(100000, 110000))
}

func TestMonthlyPrincipalAndInterest_Scenario(t *testing.T) {
	loan := LoanAmount(400000, DownPaymentAmount(400000, 20, domain.DownPaymentPercent))
	require.Equal(t, 320000.0, loan)

	payment := MonthlyPrincipalAndInterest(loan, 6.5, 30)
	assert.InDelta(t, 2022.62, payment, 1.0)
}

func TestMonthlyPrincipalAndInterest_DegenerateInput(t *testing.T) {
	cases := []struct {
		name  string
		loan  float64
		rate  float64
		years int
	}{
		{"zero loan", 0, 6.5, 30},
		{"negative loan", -1000, 6.5, 30},
		{"zero rate", 320000, 0, 30},
		{"negative rate", 320000, -1, 30},
		{"zero term", 320000, 6.5, 0},
		{"negative term", 320000, 6.5, -5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, 0.0, MonthlyPrincipalAndInterest(tc.loan, tc.rate, tc.years))
		})
	}
}

func TestMonthlyPrincipalAndInterest_TotalInterestPositive(t *testing.T) {
	for _, rate := range []float64{0.5, 3, 6.5, 12} {
		for _, years := range []int{10, 15, 30} {
			loan := 250000.0
			payment := MonthlyPrincipalAndInterest(loan, rate, years)
			totalInterest := payment*float64(years*12) - loan
			assert.Greater(t, totalInterest, 0.0, "rate %.2f years %d", rate, years)
		}
	}
}

func TestMonthlyPMI(t *testing.T) {
	assert.InDelta(t, 104.0, MonthlyPMI(320000, 0.39), 1e-9)
	assert.Equal(t, 0.0, MonthlyPMI(320000, 0))
	assert.Equal(t, 0.0, MonthlyPMI(320000, math.NaN()))
}

func TestPMIRateForScore_Table(t *testing.T) {
	cases := map[int]float64{
		850: 0.25,
		760: 0.25,
		759: 0.39,
		740: 0.39,
		720: 0.50,
		700: 0.62,
		680: 0.78,
		660: 0.95,
		640: 1.05,
		639: 1.20,
		0:   1.20,
	}
	for score, want := range cases {
		assert.Equal(t, want, PMIRateForScore(score), "score %d", score)
	}
}

func TestPMIRateForScore_NonIncreasingAndTotal(t *testing.T) {
	prev := PMIRateForScore(-1000)
	assert.Equal(t, 1.20, prev)
	for score := -999; score <= 1200; score++ {
		rate := PMIRateForScore(score)
		assert.LessOrEqual(t, rate, prev, "score %d", score)
		prev = rate
	}
	assert.Equal(t, 1.20, PMIRateForScore(math.MinInt))
	assert.Equal(t, 0.25, PMIRateForScore(math.MaxInt))
}

func TestMonthlyTaxAndInsurance(t *testing.T) {
	assert.Equal(t, 400.0, MonthlyPropertyTax(4800))
	assert.Equal(t, 125.0, MonthlyInsurance(1500))
	assert.Equal(t, 0.0, MonthlyPropertyTax(0))
}

func TestTotalMonthlyPayment(t *testing.T) {
	assert.InDelta(t, 2676.62, TotalMonthlyPayment(2022.62, 400, 100, 50, 104), 1e-9)
	assert.Equal(t, 0.0, TotalMonthlyPayment(0, 0, 0, 0, 0))
}

func TestFHALoanAmount_Scenario(t *testing.T) {
	r := FHALoanAmount(300000, 10500, DefaultFHAUpfrontMIPRate)
	assert.Equal(t, 289500.0, r.BaseLoanAmount)
	assert.InDelta(t, 5066.25, r.FeeAmount, 1e-9)
	assert.InDelta(t, 294566.25, r.TotalLoanAmount, 1e-9)
}

func TestUSDALoanAmount_TotalIsBasePlusFee(t *testing.T) {
	for _, price := range []float64{0, 1, 150000, 425000.5} {
		for _, dp := range []float64{0, 1000, 25000} {
			for _, rate := range []float64{0, 1, 2.75} {
				r := USDALoanAmount(price, dp, rate)
				assert.Equal(t, r.BaseLoanAmount+r.FeeAmount, r.TotalLoanAmount)
				assert.Equal(t, price-dp, r.BaseLoanAmount)
			}
		}
	}
}

func TestUSDAMonthlyInsurance(t *testing.T) {
	assert.InDelta(t, 58.9167, USDAMonthlyInsurance(202000, DefaultUSDAAnnualFeeRate), 1e-4)
}

func TestVALoanAmount(t *testing.T) {
	r := VALoanAmount(300000, 0, 2.15, domain.FundingFeeFirstUse)
	assert.Equal(t, 300000.0, r.BaseLoanAmount)
	assert.InDelta(t, 6450.0, r.FeeAmount, 1e-9)
	assert.InDelta(t, 306450.0, r.TotalLoanAmount, 1e-9)
}

func TestVALoanAmount_ExemptAlwaysZeroFee(t *testing.T) {
	for _, rate := range []float64{0, 1.25, 2.15, 3.3, 99, -4} {
		r := VALoanAmount(300000, 15000, rate, domain.FundingFeeExempt)
		assert.Equal(t, 0.0, r.FeeAmount, "rate %.2f", rate)
		assert.Equal(t, r.BaseLoanAmount, r.TotalLoanAmount)
	}
}

func TestVAFundingFeeRate(t *testing.T) {
	assert.Equal(t, 2.15, VAFundingFeeRate(domain.FundingFeeFirstUse, 0))
	assert.Equal(t, 1.50, VAFundingFeeRate(domain.FundingFeeFirstUse, 5))
	assert.Equal(t, 1.25, VAFundingFeeRate(domain.FundingFeeFirstUse, 10))
	assert.Equal(t, 3.30, VAFundingFeeRate(domain.FundingFeeAfterUse, 3))
	assert.Equal(t, 1.25, VAFundingFeeRate(domain.FundingFeeAfterUse, 20))
	assert.Equal(t, 0.0, VAFundingFeeRate(domain.FundingFeeExempt, 0))
}

func TestLTV(t *testing.T) {
	assert.Equal(t, 80.0, LTV(320000, 400000))
	assert.Equal(t, 0.0, LTV(320000, 0))
	assert.Equal(t, 0.0, LTV(320000, -5))
}

func TestBreakEvenMonths(t *testing.T) {
	assert.Nil(t, BreakEvenMonths(5000, 0))
	assert.Nil(t, BreakEvenMonths(5000, -20))

	m := BreakEvenMonths(3000, 100)
	require.NotNil(t, m)
	assert.Equal(t, 30, *m)

	m = BreakEvenMonths(3001, 100)
	require.NotNil(t, m)
	assert.Equal(t, 31, *m, "must round up, never down or to nearest")
}

func TestBreakEvenMonths_SmallestCoveringMonth(t *testing.T) {
	for _, costs := range []float64{1, 999, 2500, 4321.5, 10000} {
		for _, savings := range []float64{7, 45.5, 150, 333.33} {
			m := BreakEvenMonths(costs, savings)
			require.NotNil(t, m)
			assert.GreaterOrEqual(t, float64(*m)*savings, costs)
			assert.Less(t, float64(*m-1)*savings, costs)
		}
	}
}

func TestBreakEvenMonths_FloatQuotientJustAboveInteger(t *testing.T) {
	m := BreakEvenMonths(0.07, 0.01)
	require.NotNil(t, m)
	assert.Equal(t, 7, *m)

	m = BreakEvenMonths(0.14, 0.02)
	require.NotNil(t, m)
	assert.Equal(t, 7, *m)
}

func TestBreakEvenMonths_Saturates(t *testing.T) {
	m := BreakEvenMonths(1e6, 1e-300)
	require.NotNil(t, m)
	assert.Equal(t, math.MaxInt, *m)

	m = BreakEvenMonths(math.Inf(1), 10)
	require.NotNil(t, m)
	assert.Equal(t, math.MaxInt, *m)

	assert.Nil(t, BreakEvenMonths(math.NaN(), 10))
	assert.Nil(t, BreakEvenMonths(1000, math.NaN()))
}
