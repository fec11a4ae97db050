package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lo-site/config"
	"lo-site/domain"
	"lo-site/service"
)

var quoteFlags struct {
	price      float64
	down       float64
	downUnit   string
	rate       float64
	term       int
	score      int
	program    string
	tax        float64
	insurance  float64
	hoa        float64
	annualMIP  float64
	fundingFee string
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a loan scenario and print the monthly breakdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath, ".env")
		if err != nil {
			return err
		}
		defaults := cfg.ProgramDefaults()
		if quoteFlags.annualMIP > 0 {
			defaults.FHAAnnualMIPRate = quoteFlags.annualMIP
		}
		if domain.ProgramType(quoteFlags.program) == domain.ProgramFHA && defaults.FHAAnnualMIPRate <= 0 {
			return errors.New("calculator.fha_annual_mip_rate or --annual-mip is required for FHA quotes")
		}

		quote, err := service.NewProgramService(defaults).Quote(domain.LoanScenario{
			HomePrice:           quoteFlags.price,
			DownPayment:         quoteFlags.down,
			DownPaymentUnit:     domain.DownPaymentUnit(quoteFlags.downUnit),
			InterestRate:        quoteFlags.rate,
			TermYears:           quoteFlags.term,
			CreditScore:         quoteFlags.score,
			PropertyTax:         quoteFlags.tax,
			HomeownersInsurance: quoteFlags.insurance,
			HOADues:             quoteFlags.hoa,
			Program:             domain.ProgramType(quoteFlags.program),
			FundingFeeOption:    domain.FundingFeeOption(quoteFlags.fundingFee),
		})
		if err != nil {
			return err
		}
		printQuote(cmd.OutOrStdout(), quote)
		return nil
	},
}

var breakEvenFlags struct {
	costs   float64
	savings float64
}

var breakEvenCmd = &cobra.Command{
	Use:   "breakeven",
	Short: "Months until monthly savings cover refinance costs",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		months := service.BreakEvenMonths(breakEvenFlags.costs, breakEvenFlags.savings)
		if months == nil {
			fmt.Fprintln(out, "never: the refinance does not lower the payment")
			return nil
		}
		fmt.Fprintf(out, "%d months\n", *months)
		return nil
	},
}

var pmiScore int

var pmiCmd = &cobra.Command{
	Use:   "pmi",
	Short: "Show the PMI rate for a credit score",
	RunE: func(cmd *cobra.Command, args []string) error {
		entry := service.PMIRateEntryForScore(pmiScore)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %.2f%%\n", entry.Label, entry.Rate)
		return nil
	},
}

func init() {
	f := quoteCmd.Flags()
	f.Float64Var(&quoteFlags.price, "price", 0, "home price")
	f.Float64Var(&quoteFlags.down, "down", 20, "down payment")
	f.StringVar(&quoteFlags.downUnit, "down-unit", string(domain.DownPaymentPercent), "down payment unit: percent or amount")
	f.Float64Var(&quoteFlags.rate, "rate", 0, "annual interest rate in percent")
	f.IntVar(&quoteFlags.term, "term", 30, "term in years")
	f.IntVar(&quoteFlags.score, "score", 740, "credit score")
	f.StringVar(&quoteFlags.program, "program", string(domain.ProgramConventional), "conventional, fha, va, usda or jumbo")
	f.Float64Var(&quoteFlags.tax, "tax", 0, "annual property tax")
	f.Float64Var(&quoteFlags.insurance, "insurance", 0, "annual homeowners insurance")
	f.Float64Var(&quoteFlags.hoa, "hoa", 0, "monthly HOA dues")
	f.Float64Var(&quoteFlags.annualMIP, "annual-mip", 0, "FHA annual MIP rate in percent (overrides config)")
	f.StringVar(&quoteFlags.fundingFee, "funding-fee", string(domain.FundingFeeFirstUse), "VA funding fee option: first_use, after_use or exempt")
	_ = quoteCmd.MarkFlagRequired("price")
	_ = quoteCmd.MarkFlagRequired("rate")

	breakEvenCmd.Flags().Float64Var(&breakEvenFlags.costs, "costs", 0, "refinance closing costs")
	breakEvenCmd.Flags().Float64Var(&breakEvenFlags.savings, "savings", 0, "monthly savings")

	pmiCmd.Flags().IntVar(&pmiScore, "score", 740, "credit score")
}

func printQuote(out io.Writer, q domain.PaymentQuote) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Program\t%s\n", q.Program)
	fmt.Fprintf(tw, "Down payment\t%s\n", service.FormatCurrency(q.DownPaymentAmount))
	fmt.Fprintf(tw, "Base loan\t%s\n", service.FormatCurrency(q.BaseLoanAmount))
	if q.Fee != nil {
		fmt.Fprintf(tw, "Upfront fee\t%s\n", service.FormatCurrency(q.Fee.FeeAmount))
	}
	fmt.Fprintf(tw, "Financed\t%s\n", service.FormatCurrency(q.FinancedAmount))
	fmt.Fprintf(tw, "LTV\t%.2f%%\n", q.LTV)
	fmt.Fprintf(tw, "Principal & interest\t%s\n", service.FormatCurrency(q.Monthly.PrincipalAndInterest))
	fmt.Fprintf(tw, "Mortgage insurance\t%s\n", service.FormatCurrency(q.Monthly.PMI))
	fmt.Fprintf(tw, "Property tax\t%s\n", service.FormatCurrency(q.Monthly.PropertyTaxMonthly))
	fmt.Fprintf(tw, "Insurance\t%s\n", service.FormatCurrency(q.Monthly.InsuranceMonthly))
	fmt.Fprintf(tw, "HOA\t%s\n", service.FormatCurrency(q.Monthly.HOADues))
	fmt.Fprintf(tw, "Total monthly\t%s\n", service.FormatCurrency(q.Monthly.Total))
	tw.Flush()
}
