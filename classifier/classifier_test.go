package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	type TC struct {
		name        string
		description string
		isCredit    bool
		expected    Result
	}

	tcs := []TC{
		{
			name:        "salary credit",
			description: "  SALARY for March ",
			isCredit:    true,
			expected: Result{
				Classification:    IncomeSalary,
				Confidence:        0.75,
				IsIncome:          true,
				IsTaxable:         true,
				SuggestedCategory: "salary",
				Reasoning:         "Matched income keyword: 'salary'",
			},
		},
		{
			name:        "upwork payout is freelance with VAT and WHT",
			description: "Upwork payout",
			isCredit:    true,
			expected: Result{
				Classification:    IncomeFreelance,
				Confidence:        0.75,
				IsIncome:          true,
				IsVATApplicable:   true,
				IsWHTApplicable:   true,
				IsTaxable:         true,
				SuggestedCategory: "freelance",
				Reasoning:         "Matched income keyword: 'upwork'",
			},
		},
		{
			name:        "first keyword in table order wins",
			description: "dividend and interest",
			isCredit:    true,
			expected: Result{
				Classification:    IncomeInvestment,
				Confidence:        0.75,
				IsIncome:          true,
				IsWHTApplicable:   true,
				IsTaxable:         true,
				SuggestedCategory: "investment",
				Reasoning:         "Matched income keyword: 'interest'",
			},
		},
		{
			name:        "capital beats income regardless of direction",
			description: "Loan received for salary advance",
			isCredit:    true,
			expected: Result{
				Classification:    CapitalInflow,
				Confidence:        0.7,
				IsCapital:         true,
				SuggestedCategory: "capital",
				Reasoning:         "Matched capital keyword: 'loan received'",
			},
		},
		{
			name:        "capital debit is an outflow",
			description: "Loan repayment",
			isCredit:    false,
			expected: Result{
				Classification:    CapitalOutflow,
				Confidence:        0.7,
				IsCapital:         true,
				SuggestedCategory: "capital",
				Reasoning:         "Matched capital keyword: 'loan repayment'",
			},
		},
		{
			name:        "unmatched credit",
			description: "gift from aunty",
			isCredit:    true,
			expected: Result{
				Classification:    IncomeOther,
				Confidence:        0.3,
				IsIncome:          true,
				IsTaxable:         true,
				SuggestedCategory: "other_income",
				Reasoning:         "No specific keyword matched; classified as other income",
			},
		},
		{
			name:        "business expense",
			description: "Office chairs",
			expected: Result{
				Classification:    ExpenseBusiness,
				Confidence:        0.75,
				IsExpense:         true,
				IsVATApplicable:   true,
				SuggestedCategory: "business",
				Reasoning:         "Matched expense keyword: 'office'",
			},
		},
		{
			name:        "deductible expense",
			description: "NHIS contribution",
			expected: Result{
				Classification:    ExpenseDeductible,
				Confidence:        0.75,
				IsExpense:         true,
				SuggestedCategory: "deductible",
				Reasoning:         "Matched expense keyword: 'nhis'",
			},
		},
		{
			name:        "unmatched debit",
			description: "POS withdrawal",
			expected: Result{
				Classification:    ExpensePersonal,
				Confidence:        0.3,
				IsExpense:         true,
				SuggestedCategory: "personal",
				Reasoning:         "No specific keyword matched; classified as personal expense",
			},
		},
	}

	c := New()

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(tc.description, 1000, tc.isCredit)

			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestIsCapitalVsProfit(t *testing.T) {
	c := New()

	assert.Equal(t, CapitalCheck{
		IsCapital: true,
		Reasoning: "Transaction appears to be capital (principal/deposit/loan)",
	}, c.IsCapitalVsProfit("Equity injection from partner", 5_000_000))

	assert.Equal(t, CapitalCheck{
		IsProfit:  true,
		Reasoning: "Transaction appears to be profit/income",
	}, c.IsCapitalVsProfit("Client payment", 200_000))
}
