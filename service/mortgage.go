package service

import (
	"math"

	"lo-site/domain"
)

// The functions in this file are total: degenerate input resolves to 0 or
// nil instead of an error, so a form can render while values are typed.

// DownPaymentAmount converts a down payment given as percent of the price
// or as a plain amount into an amount.
func DownPaymentAmount(homePrice, downPayment float64, unit domain.DownPaymentUnit) float64 {
	if unit == domain.DownPaymentPercent {
		return homePrice * downPayment / 100
	}
	return downPayment
}

// LoanAmount does no bounds checking; a down payment above the price
// yields a negative loan.
func LoanAmount(homePrice, downPaymentAmount float64) float64 {
	return homePrice - downPaymentAmount
}

// MonthlyPrincipalAndInterest is the standard amortized payment. It returns
// 0 when the loan, rate or term is not positive.
func MonthlyPrincipalAndInterest(loanAmount, annualRatePercent float64, termYears int) float64 {
	if loanAmount <= 0 || annualRatePercent <= 0 || termYears <= 0 {
		return 0
	}
	r := annualRatePercent / 100 / 12
	n := float64(termYears * 12)
	return loanAmount * (r / (1 - math.Pow(1+r, -n)))
}

func MonthlyPMI(loanAmount, annualPMIRatePercent float64) float64 {
	if annualPMIRatePercent == 0 || math.IsNaN(annualPMIRatePercent) {
		return 0
	}
	return (loanAmount * annualPMIRatePercent / 100) / 12
}

// PMIRateEntryForScore scans the table from the highest threshold down and
// returns the first entry the score reaches. Scores below every threshold
// get the floor entry.
func PMIRateEntryForScore(score int) domain.PMIRateEntry {
	for _, entry := range pmiRateTable {
		if score >= entry.MinScore {
			return entry
		}
	}
	return pmiRateTable[len(pmiRateTable)-1]
}

func PMIRateForScore(score int) float64 {
	return PMIRateEntryForScore(score).Rate
}

func MonthlyPropertyTax(annualPropertyTax float64) float64 {
	return annualPropertyTax / 12
}

func MonthlyInsurance(annualInsurance float64) float64 {
	return annualInsurance / 12
}

func TotalMonthlyPayment(principalAndInterest, tax, insurance, hoa, pmi float64) float64 {
	return principalAndInterest + tax + insurance + hoa + pmi
}

// FHALoanAmount rolls the upfront MIP into the base loan.
func FHALoanAmount(homePrice, downPaymentAmount, ufmipRatePercent float64) domain.ProgramFeeResult {
	return rollInFee(LoanAmount(homePrice, downPaymentAmount), ufmipRatePercent)
}

// USDALoanAmount rolls the upfront guarantee fee into the base loan.
func USDALoanAmount(homePrice, downPaymentAmount, guaranteeFeeRatePercent float64) domain.ProgramFeeResult {
	return rollInFee(LoanAmount(homePrice, downPaymentAmount), guaranteeFeeRatePercent)
}

// USDAMonthlyInsurance is the annual guarantee fee spread over twelve
// payments.
func USDAMonthlyInsurance(usdaLoanAmount, annualFeeRatePercent float64) float64 {
	return (usdaLoanAmount * annualFeeRatePercent / 100) / 12
}

// VALoanAmount rolls the funding fee into the base loan. An exempt
// borrower pays no fee whatever rate is passed.
func VALoanAmount(homeValue, downPaymentAmount, fundingFeeRatePercent float64, option domain.FundingFeeOption) domain.ProgramFeeResult {
	if option == domain.FundingFeeExempt {
		fundingFeeRatePercent = 0
	}
	return rollInFee(LoanAmount(homeValue, downPaymentAmount), fundingFeeRatePercent)
}

func rollInFee(base, ratePercent float64) domain.ProgramFeeResult {
	fee := base * ratePercent / 100
	return domain.ProgramFeeResult{
		BaseLoanAmount:  base,
		FeeAmount:       fee,
		TotalLoanAmount: base + fee,
	}
}

// LTV is the loan-to-value ratio in percent, 0 when the price is not
// positive.
func LTV(loanAmount, homePrice float64) float64 {
	if homePrice <= 0 {
		return 0
	}
	return (loanAmount / homePrice) * 100
}

// BreakEvenMonths is the first month at which cumulative savings cover the
// refinance costs. It is nil when the refinance saves nothing or the costs
// are not a number, and saturates at math.MaxInt.
func BreakEvenMonths(refinanceCosts, monthlySavings float64) *int {
	if monthlySavings <= 0 || math.IsNaN(monthlySavings) || math.IsNaN(refinanceCosts) {
		return nil
	}
	q := math.Ceil(refinanceCosts / monthlySavings)
	if q >= math.MaxInt {
		months := math.MaxInt
		return &months
	}
	if q <= math.MinInt {
		months := math.MinInt
		return &months
	}
	months := int(q)
	// el cociente puede quedar apenas por encima de un entero (0.07/0.01)
	if float64(months-1)*monthlySavings >= refinanceCosts {
		months--
	}
	return &months
}
