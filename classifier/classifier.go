// Package classifier tags bank transactions by tax relevance using ordered
// keyword tables. The first matching keyword wins.
package classifier

import (
	"fmt"
	"slices"
	"strings"
)

type Classification string

const (
	IncomeSalary         Classification = "income_salary"
	IncomeFreelance      Classification = "income_freelance"
	IncomeBusiness       Classification = "income_business"
	IncomeInvestment     Classification = "income_investment"
	IncomeRental         Classification = "income_rental"
	IncomeCapitalGains   Classification = "income_capital_gains"
	IncomeForexGains     Classification = "income_forex_gains"
	IncomeCryptoGains    Classification = "income_crypto_gains"
	IncomeDividend       Classification = "income_dividend"
	IncomeOther          Classification = "income_other"
	ExpenseBusiness      Classification = "expense_business"
	ExpensePersonal      Classification = "expense_personal"
	ExpenseDeductible    Classification = "expense_deductible"
	ExpenseNonDeductible Classification = "expense_non_deductible"
	CapitalInflow        Classification = "capital_inflow"
	CapitalOutflow       Classification = "capital_outflow"
	Transfer             Classification = "transfer"
	Unknown              Classification = "unknown"
)

type keyword struct {
	pattern        string
	classification Classification
}

var incomeKeywords = []keyword{
	{"salary", IncomeSalary},
	{"wage", IncomeSalary},
	{"paye", IncomeSalary},
	{"payroll", IncomeSalary},
	{"freelance", IncomeFreelance},
	{"contract", IncomeFreelance},
	{"upwork", IncomeFreelance},
	{"fiverr", IncomeFreelance},
	{"toptal", IncomeFreelance},
	{"invoice", IncomeFreelance},
	{"consulting", IncomeFreelance},
	{"sales", IncomeBusiness},
	{"revenue", IncomeBusiness},
	{"business income", IncomeBusiness},
	{"interest", IncomeInvestment},
	{"dividend", IncomeDividend},
	{"rental", IncomeRental},
	{"rent received", IncomeRental},
	{"property income", IncomeRental},
	{"forex", IncomeForexGains},
	{"fx gain", IncomeForexGains},
	{"crypto", IncomeCryptoGains},
	{"bitcoin", IncomeCryptoGains},
	{"trading profit", IncomeForexGains},
}

var expenseKeywords = []keyword{
	{"office", ExpenseBusiness},
	{"equipment", ExpenseBusiness},
	{"software", ExpenseBusiness},
	{"subscription", ExpenseBusiness},
	{"internet", ExpenseBusiness},
	{"transport", ExpenseBusiness},
	{"fuel", ExpenseBusiness},
	{"travel", ExpenseBusiness},
	{"advertising", ExpenseBusiness},
	{"marketing", ExpenseBusiness},
	{"rent paid", ExpenseDeductible},
	{"pension", ExpenseDeductible},
	{"nhf", ExpenseDeductible},
	{"nhis", ExpenseDeductible},
	{"insurance", ExpenseDeductible},
	{"food", ExpensePersonal},
	{"groceries", ExpensePersonal},
	{"entertainment", ExpensePersonal},
	{"clothing", ExpensePersonal},
}

var capitalKeywords = []string{
	"loan received",
	"capital injection",
	"investment deposit",
	"principal",
	"deposit",
	"funding",
	"equity",
	"loan repayment",
	"capital withdrawal",
}

var vatApplicable = []Classification{IncomeBusiness, IncomeFreelance, ExpenseBusiness}

var whtApplicable = []Classification{IncomeFreelance, IncomeRental, IncomeDividend, IncomeInvestment}

type Result struct {
	Classification    Classification `json:"classification"`
	Confidence        float64        `json:"confidence"`
	IsIncome          bool           `json:"is_income"`
	IsExpense         bool           `json:"is_expense"`
	IsCapital         bool           `json:"is_capital"`
	IsVATApplicable   bool           `json:"is_vat_applicable"`
	IsWHTApplicable   bool           `json:"is_wht_applicable"`
	IsTaxable         bool           `json:"is_taxable"`
	SuggestedCategory string         `json:"suggested_category"`
	Reasoning         string         `json:"reasoning"`
}

type CapitalCheck struct {
	IsCapital bool   `json:"is_capital"`
	IsProfit  bool   `json:"is_profit"`
	Reasoning string `json:"reasoning"`
}

type Classifier struct{}

func New() *Classifier {
	return &Classifier{}
}

// Classify checks capital keywords first, then income keywords for credits
// or expense keywords for debits. The amount does not affect the outcome.
func (c *Classifier) Classify(description string, amount float64, isCredit bool) Result {
	desc := strings.ToLower(strings.TrimSpace(description))

	if kw, ok := matchCapital(desc); ok {
		class := CapitalOutflow
		if isCredit {
			class = CapitalInflow
		}

		return Result{
			Classification:    class,
			Confidence:        0.7,
			IsCapital:         true,
			SuggestedCategory: "capital",
			Reasoning:         fmt.Sprintf("Matched capital keyword: '%s'", kw),
		}
	}

	if isCredit {
		return classifyIncome(desc)
	}

	return classifyExpense(desc)
}

func classifyIncome(desc string) Result {
	for _, kw := range incomeKeywords {
		if strings.Contains(desc, kw.pattern) {
			return Result{
				Classification:    kw.classification,
				Confidence:        0.75,
				IsIncome:          true,
				IsVATApplicable:   slices.Contains(vatApplicable, kw.classification),
				IsWHTApplicable:   slices.Contains(whtApplicable, kw.classification),
				IsTaxable:         true,
				SuggestedCategory: strings.TrimPrefix(string(kw.classification), "income_"),
				Reasoning:         fmt.Sprintf("Matched income keyword: '%s'", kw.pattern),
			}
		}
	}

	return Result{
		Classification:    IncomeOther,
		Confidence:        0.3,
		IsIncome:          true,
		IsTaxable:         true,
		SuggestedCategory: "other_income",
		Reasoning:         "No specific keyword matched; classified as other income",
	}
}

func classifyExpense(desc string) Result {
	for _, kw := range expenseKeywords {
		if strings.Contains(desc, kw.pattern) {
			return Result{
				Classification:    kw.classification,
				Confidence:        0.75,
				IsExpense:         true,
				IsVATApplicable:   slices.Contains(vatApplicable, kw.classification),
				SuggestedCategory: strings.TrimPrefix(string(kw.classification), "expense_"),
				Reasoning:         fmt.Sprintf("Matched expense keyword: '%s'", kw.pattern),
			}
		}
	}

	return Result{
		Classification:    ExpensePersonal,
		Confidence:        0.3,
		IsExpense:         true,
		SuggestedCategory: "personal",
		Reasoning:         "No specific keyword matched; classified as personal expense",
	}
}

func matchCapital(desc string) (string, bool) {
	for _, kw := range capitalKeywords {
		if strings.Contains(desc, kw) {
			return kw, true
		}
	}

	return "", false
}

// IsCapitalVsProfit separates capital movements (loans, deposits, equity)
// from taxable profit.
func (c *Classifier) IsCapitalVsProfit(description string, amount float64) CapitalCheck {
	_, isCapital := matchCapital(strings.ToLower(description))

	reasoning := "Transaction appears to be profit/income"
	if isCapital {
		reasoning = "Transaction appears to be capital (principal/deposit/loan)"
	}

	return CapitalCheck{
		IsCapital: isCapital,
		IsProfit:  !isCapital,
		Reasoning: reasoning,
	}
}
