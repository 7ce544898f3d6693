package anomaly

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCheckMissedDeductions(t *testing.T) {
	type TC struct {
		name      string
		userType  UserType
		claimed   []string
		hasSalary bool
		expected  []string
	}

	tcs := []TC{
		{name: "salaried individual misses everything", userType: Individual, hasSalary: true, expected: []string{"pension", "nhf", "nhis", "life_insurance", "rent_relief"}},
		{name: "individual without salary skips nhf", userType: Individual, expected: []string{"pension", "nhis", "life_insurance", "rent_relief"}},
		{name: "freelancer never gets nhf", userType: Freelancer, hasSalary: true, claimed: []string{"pension"}, expected: []string{"nhis", "life_insurance", "rent_relief"}},
		{name: "sme only life insurance", userType: SME, expected: []string{"life_insurance"}},
		{name: "everything claimed", userType: SME, claimed: []string{"life_insurance"}, expected: []string{}},
	}

	d := New()

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			alerts := d.CheckMissedDeductions(tc.userType, tc.claimed, tc.hasSalary)

			got := []string{}
			for _, a := range alerts {
				assert.Equal(t, MissedDeduction, a.Type)
				assert.Equal(t, Warning, a.Severity)
				got = append(got, a.Data["deduction_type"].(string))
			}
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestMissedDeductionText(t *testing.T) {
	alerts := New().CheckMissedDeductions(SME, nil, false)

	require.Len(t, alerts, 1)
	assert.Equal(t, "Potential missed deduction: Life Insurance Premium", alerts[0].Title)
	assert.Equal(t, "You haven't claimed Life Insurance Premium. Annual life insurance premium (self or spouse).", alerts[0].Message)
	assert.Equal(t, "If you make life insurance premium payments, add them as deductions to reduce your tax liability.", alerts[0].Recommendation)
}

func TestCheckFilingDeadlines(t *testing.T) {
	type TC struct {
		name     string
		userType UserType
		current  time.Time
		filed    []string
		expected []Alert
	}

	tcs := []TC{
		{
			name:     "pit approaching more than a week out",
			userType: Individual,
			current:  day(2026, time.March, 14),
			expected: []Alert{{
				Type:           DeadlineApproaching,
				Severity:       Warning,
				Title:          "Upcoming: Annual PIT return filing deadline",
				Message:        "Due in 17 days (2026-03-31).",
				Recommendation: "Prepare your documents and file before the deadline to avoid penalties.",
				Data:           map[string]any{"deadline_key": "pit_annual", "deadline_date": "2026-03-31", "days_remaining": 17},
			}},
		},
		{
			name:     "pit within a week is critical",
			userType: Freelancer,
			current:  day(2026, time.March, 28),
			expected: []Alert{{
				Type:           DeadlineApproaching,
				Severity:       Critical,
				Title:          "Upcoming: Annual PIT return filing deadline",
				Message:        "Due in 3 days (2026-03-31).",
				Recommendation: "Prepare your documents and file before the deadline to avoid penalties.",
				Data:           map[string]any{"deadline_key": "pit_annual", "deadline_date": "2026-03-31", "days_remaining": 3},
			}},
		},
		{
			name:     "pit overdue",
			userType: Individual,
			current:  day(2026, time.April, 5),
			expected: []Alert{{
				Type:           DeadlineOverdue,
				Severity:       Critical,
				Title:          "OVERDUE: Annual PIT return filing deadline",
				Message:        "This deadline was 5 days ago (2026-03-31). Late filing may attract penalties.",
				Recommendation: "File your return immediately to minimize penalties and interest charges.",
				Data:           map[string]any{"deadline_key": "pit_annual", "deadline_date": "2026-03-31", "days_overdue": 5},
			}},
		},
		{
			name:     "pit far away",
			userType: Individual,
			current:  day(2026, time.January, 1),
			expected: []Alert{},
		},
		{
			name:     "filed returns are skipped",
			userType: Individual,
			current:  day(2026, time.April, 5),
			filed:    []string{"pit_annual"},
			expected: []Alert{},
		},
	}

	d := New()

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, d.CheckFilingDeadlines(tc.userType, tc.current, tc.filed))
		})
	}
}

func TestSMEDeadlines(t *testing.T) {
	d := New()

	t.Run("december rolls monthly deadlines into next year", func(t *testing.T) {
		alerts := d.CheckFilingDeadlines(SME, day(2026, time.December, 25), []string{"cit_annual", "development_levy"})

		require.Len(t, alerts, 2)
		for _, a := range alerts {
			assert.Equal(t, DeadlineApproaching, a.Type)
			assert.Equal(t, Warning, a.Severity)
			assert.Equal(t, "2027-01-21", a.Data["deadline_date"])
			assert.Equal(t, 27, a.Data["days_remaining"])
		}
		assert.Equal(t, "vat_monthly", alerts[0].Data["deadline_key"])
		assert.Equal(t, "wht_monthly", alerts[1].Data["deadline_key"])
	})

	t.Run("annual sme deadlines overdue", func(t *testing.T) {
		alerts := d.CheckFilingDeadlines(SME, day(2026, time.December, 10), nil)

		require.Len(t, alerts, 2)
		assert.Equal(t, "cit_annual", alerts[0].Data["deadline_key"])
		assert.Equal(t, "development_levy", alerts[1].Data["deadline_key"])
		assert.Equal(t, 163, alerts[0].Data["days_overdue"])
	})
}

func TestZeroDateUsesClock(t *testing.T) {
	d := New(WithClock(func() time.Time { return time.Date(2026, time.March, 30, 18, 45, 0, 0, time.UTC) }))

	alerts := d.CheckFilingDeadlines(Individual, time.Time{}, nil)

	require.Len(t, alerts, 1)
	assert.Equal(t, 1, alerts[0].Data["days_remaining"])
}

func TestCheckTransactionAnomalies(t *testing.T) {
	txns := []Transaction{
		{ID: "t1", Description: "Client payment", Amount: 1_000_000, Type: "income", Classification: "income_freelance"},
		{ID: "t2", Description: "Laptop", Amount: 950_000, Type: "expense", Classification: "unknown"},
		{ID: "t3", Amount: 50_000, Type: "expense", Classification: "unknown"},
	}

	alerts := New().CheckTransactionAnomalies(txns, 200_000)

	require.Len(t, alerts, 4)

	assert.Equal(t, UnclassifiedTransaction, alerts[0].Type)
	assert.Equal(t, Info, alerts[0].Severity)
	assert.Equal(t, "2 unclassified transaction(s)", alerts[0].Title)

	assert.Equal(t, UnusualTransaction, alerts[1].Type)
	assert.Equal(t, "Large transaction detected: ₦1,000,000.00", alerts[1].Title)
	assert.Equal(t, "Transaction 'Client payment' is significantly larger than your average monthly income.", alerts[1].Message)
	assert.Equal(t, "t1", alerts[1].Data["transaction_id"])

	assert.Equal(t, "Transaction 'Laptop' is significantly larger than your average monthly income.", alerts[2].Message)

	assert.Equal(t, HighExpenseRatio, alerts[3].Type)
	assert.Equal(t, "Your expenses (1,000,000.00) are 100% of your income. This may trigger audit attention.", alerts[3].Message)
	assert.Equal(t, 1.0, alerts[3].Data["expense_ratio"])
}

func TestTransactionAnomaliesQuiet(t *testing.T) {
	txns := []Transaction{
		{Amount: 1_000_000, Type: "income"},
		{Amount: 900_000, Type: "expense"},
	}

	alerts := New().CheckTransactionAnomalies(txns, 0)

	assert.Empty(t, alerts)
}

func TestRunAllChecksOrdersBySeverity(t *testing.T) {
	alerts := New().RunAllChecks(Profile{
		UserType:          Individual,
		ClaimedDeductions: []string{"pension", "nhis", "life_insurance"},
		Transactions:      []Transaction{{Amount: 10, Type: "income", Classification: "unknown"}},
		CurrentDate:       day(2026, time.April, 5),
	})

	require.Len(t, alerts, 3)
	assert.Equal(t, []Severity{Critical, Warning, Info}, []Severity{alerts[0].Severity, alerts[1].Severity, alerts[2].Severity})
	assert.Equal(t, DeadlineOverdue, alerts[0].Type)
	assert.Equal(t, MissedDeduction, alerts[1].Type)
	assert.Equal(t, UnclassifiedTransaction, alerts[2].Type)
}

func TestRunAllChecksIsStable(t *testing.T) {
	alerts := New().RunAllChecks(Profile{UserType: Individual, HasSalaryIncome: true, CurrentDate: day(2026, time.January, 1)})

	kinds := []string{}
	for _, a := range alerts {
		kinds = append(kinds, a.Data["deduction_type"].(string))
	}
	assert.Equal(t, []string{"pension", "nhf", "nhis", "life_insurance", "rent_relief"}, kinds)
}
