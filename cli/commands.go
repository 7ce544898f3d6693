package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/kudiwise/kudicore/classifier"
	"github.com/kudiwise/kudicore/currency"
	"github.com/kudiwise/kudicore/logger"
	"github.com/kudiwise/kudicore/report"
	"github.com/kudiwise/kudicore/scenario"
	"github.com/kudiwise/kudicore/tax"
	"github.com/spf13/cobra"
)

func deductionFlags(cmd *cobra.Command, d *tax.Deductions, period string) {
	cmd.Flags().Float64Var(&d.Pension, "pension", 0, period+" pension contribution")
	cmd.Flags().Float64Var(&d.NHF, "nhf", 0, period+" National Housing Fund contribution")
	cmd.Flags().Float64Var(&d.NHIS, "nhis", 0, period+" National Health Insurance contribution")
}

func (cli *CLI) newPITCmd() *cobra.Command {
	var (
		gross       float64
		deductions  tax.Deductions
		minimumWage bool
	)

	cmd := &cobra.Command{
		Use:   "pit",
		Short: "Calculate personal income tax",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := tax.NewPIT(tax.DefaultPITConfig()).Calculate(gross, deductions, minimumWage)
			if err != nil {
				return err
			}
			return cli.reporter.Handle(result)
		},
	}

	cmd.Flags().Float64Var(&gross, "gross", 0, "Annual gross income in Naira")
	deductionFlags(cmd, &deductions, "Annual")
	cmd.Flags().Float64Var(&deductions.LifeInsurance, "life-insurance", 0, "Annual life insurance premium")
	cmd.Flags().Float64Var(&deductions.HousingLoanInterest, "housing-loan-interest", 0, "Annual housing loan interest")
	cmd.Flags().Float64Var(&deductions.AnnualRentPaid, "rent", 0, "Annual rent paid")
	cmd.Flags().BoolVar(&minimumWage, "minimum-wage", false, "Earner is on the national minimum wage")
	_ = cmd.MarkFlagRequired("gross")

	return cmd
}

func (cli *CLI) newPAYECmd() *cobra.Command {
	var (
		monthlyGross float64
		monthly      tax.Deductions
	)

	cmd := &cobra.Command{
		Use:   "paye",
		Short: "Estimate monthly PAYE from a monthly salary",
		RunE: func(cmd *cobra.Command, args []string) error {
			annual := tax.Deductions{
				Pension: tax.Mul(monthly.Pension, 12),
				NHF:     tax.Mul(monthly.NHF, 12),
				NHIS:    tax.Mul(monthly.NHIS, 12),
			}

			result, err := tax.NewPIT(tax.DefaultPITConfig()).EstimateMonthlyPAYE(monthlyGross, annual)
			if err != nil {
				return err
			}
			return cli.reporter.Handle(result)
		},
	}

	cmd.Flags().Float64Var(&monthlyGross, "monthly-gross", 0, "Monthly gross salary in Naira")
	deductionFlags(cmd, &monthly, "Monthly")
	_ = cmd.MarkFlagRequired("monthly-gross")

	return cmd
}

func (cli *CLI) newCITCmd() *cobra.Command {
	var (
		in   tax.CITInput
		size string
	)

	cmd := &cobra.Command{
		Use:   "cit",
		Short: "Calculate companies income tax and development levy",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.CompanySize = tax.CompanySize(size)
			result, err := tax.NewCIT().Calculate(in)
			if err != nil {
				return err
			}
			return cli.reporter.Handle(result)
		},
	}

	cmd.Flags().Float64Var(&in.GrossProfit, "gross-profit", 0, "Gross profit in Naira")
	cmd.Flags().Float64Var(&in.AllowableDeductions, "deductions", 0, "Allowable deductions in Naira")
	cmd.Flags().Float64Var(&in.AnnualTurnover, "turnover", 0, "Annual turnover in Naira")
	cmd.Flags().BoolVar(&in.IsMNE, "mne", false, "Company belongs to a multinational group")
	cmd.Flags().StringVar(&size, "size", "", "Override size classification: small, medium or large")
	_ = cmd.MarkFlagRequired("gross-profit")

	return cmd
}

func (cli *CLI) newVATCmd() *cobra.Command {
	var (
		amount    float64
		inclusive bool
	)

	cmd := &cobra.Command{
		Use:   "vat",
		Short: "Calculate or extract VAT at the standard rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			vat := tax.NewVAT()
			if inclusive {
				result, err := vat.ExtractVATFromInclusive(amount)
				if err != nil {
					return err
				}
				return cli.reporter.Handle(result)
			}

			result, err := vat.CalculateSimple(amount)
			if err != nil {
				return err
			}
			return cli.reporter.Handle(result)
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "Amount in Naira")
	cmd.Flags().BoolVar(&inclusive, "inclusive", false, "Amount already includes VAT")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func (cli *CLI) newWHTCmd() *cobra.Command {
	var (
		amount      float64
		paymentType string
		recipient   string
	)

	cmd := &cobra.Command{
		Use:   "wht",
		Short: "Calculate withholding tax on a payment",
		RunE: func(cmd *cobra.Command, args []string) error {
			pt, err := tax.ParsePaymentType(paymentType)
			if err != nil {
				return err
			}

			rt, err := tax.ParseRecipientType(recipient)
			if err != nil {
				return err
			}

			result, err := tax.NewWHT().CalculateSingle(amount, pt, rt)
			if err != nil {
				return err
			}
			return cli.reporter.Handle(result)
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "Gross payment in Naira")
	cmd.Flags().StringVar(&paymentType, "payment-type", "", "Payment type, e.g. consultancy or rent")
	cmd.Flags().StringVar(&recipient, "recipient", string(tax.RecipientCompany), "Recipient: individual or company")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("payment-type")

	return cmd
}

func (cli *CLI) newClassifyCmd() *cobra.Command {
	var (
		amount float64
		debit  bool
	)

	cmd := &cobra.Command{
		Use:   "classify <description>",
		Short: "Classify a bank transaction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.reporter.Handle(classifier.New().Classify(strings.Join(args, " "), amount, !debit))
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "Transaction amount")
	cmd.Flags().BoolVar(&debit, "debit", false, "Money was paid out")

	return cmd
}

func (cli *CLI) newConvertCmd() *cobra.Command {
	var (
		amount float64
		cur    string
		date   string
		live   bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a foreign amount to Naira",
		RunE: func(cmd *cobra.Command, args []string) error {
			var day time.Time
			if date != "" {
				d, err := time.Parse(currency.DateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", date, err)
				}
				day = d
			}

			engine := currency.NewEngine(currency.WithLogger(logger.Log))
			if live {
				client := currency.NewCBNClient(
					currency.WithBaseURL(cli.cfg.CBNRateURL),
					currency.WithTimeout(cli.cfg.RateFetchTimeout),
					currency.WithClientLogger(logger.Log),
				)
				engine = currency.NewEngine(currency.WithFetcher(client), currency.WithLogger(logger.Log))
				engine.RefreshRates(cmd.Context())
			}

			result, err := engine.ConvertToNGN(amount, cur, day)
			if err != nil {
				return err
			}
			return cli.reporter.Handle(result)
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "Amount in the source currency")
	cmd.Flags().StringVar(&cur, "currency", "", "Source currency: USD, GBP or EUR")
	cmd.Flags().StringVar(&date, "date", "", "Rate date as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&live, "live", false, "Fetch today's CBN rates before converting")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("currency")

	return cmd
}

func (cli *CLI) newScenarioCmd() *cobra.Command {
	var (
		in        scenario.Input
		kind      string
		projected float64
	)

	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Compare current and projected tax",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.ScenarioType = scenario.Type(kind)
			if cmd.Flags().Changed("projected") {
				in.ProjectedGrossIncome = &projected
			}

			result, err := scenario.NewDefault().Run(in)
			if err != nil {
				return err
			}
			return cli.reporter.Handle(result)
		},
	}

	cmd.Flags().StringVar(&kind, "type", string(scenario.IncomeChange), "income_change, deduction_impact or individual_vs_company")
	cmd.Flags().Float64Var(&in.CurrentGrossIncome, "income", 0, "Current annual gross income")
	cmd.Flags().Float64Var(&projected, "projected", 0, "Projected annual gross income")
	cmd.Flags().Float64Var(&in.BusinessExpenses, "expenses", 0, "Annual business expenses")
	cmd.Flags().Float64Var(&in.CurrentDeductions.Pension, "pension", 0, "Current annual pension")
	cmd.Flags().Float64Var(&in.ProjectedDeductions.Pension, "projected-pension", 0, "Projected annual pension")
	cmd.Flags().Float64Var(&in.CurrentDeductions.AnnualRentPaid, "rent", 0, "Current annual rent paid")
	cmd.Flags().Float64Var(&in.ProjectedDeductions.AnnualRentPaid, "projected-rent", 0, "Projected annual rent paid")
	_ = cmd.MarkFlagRequired("income")

	return cmd
}

func (cli *CLI) newChecklistCmd() *cobra.Command {
	var (
		in   report.ChecklistInput
		date string
	)

	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "List the filings due for a tax year",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch in.UserType {
			case "individual", "freelancer", "sme":
			default:
				return fmt.Errorf("%w: unknown user type: %s", tax.ErrInvalidInput, in.UserType)
			}

			if date != "" {
				d, err := time.Parse(currency.DateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", date, err)
				}
				in.CurrentDate = d
			}

			return cli.reporter.Handle(report.NewDefault().ComplianceChecklist(in))
		},
	}

	cmd.Flags().StringVar(&in.UserName, "name", "", "Taxpayer name")
	cmd.Flags().StringVar(&in.UserType, "user-type", "individual", "individual, freelancer or sme")
	cmd.Flags().IntVar(&in.Year, "year", time.Now().Year()-1, "Tax year")
	cmd.Flags().StringSliceVar(&in.FiledReturns, "filed", nil, "Returns already filed, e.g. pit_annual,tcc")
	cmd.Flags().StringVar(&date, "date", "", "Evaluate statuses as of YYYY-MM-DD (default today)")

	return cmd
}
