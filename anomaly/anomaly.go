// Package anomaly evaluates compliance rules over a user's profile and
// transactions and raises alerts. It performs no I/O.
package anomaly

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/kudiwise/kudicore/tax"
)

type Severity string

const (
	Critical Severity = "critical"
	Warning  Severity = "warning"
	Info     Severity = "info"
)

func (s Severity) rank() int {
	switch s {
	case Critical:
		return 0
	case Warning:
		return 1
	default:
		return 2
	}
}

type AlertType string

const (
	MissedDeduction         AlertType = "missed_deduction"
	DeadlineApproaching     AlertType = "deadline_approaching"
	DeadlineOverdue         AlertType = "deadline_overdue"
	UnusualTransaction      AlertType = "unusual_transaction"
	IncomeSpike             AlertType = "income_spike"
	UnclassifiedTransaction AlertType = "unclassified_transaction"
	HighExpenseRatio        AlertType = "high_expense_ratio"
	MissingVATRemittance    AlertType = "missing_vat_remittance"
	WHTCertificateMissing   AlertType = "wht_certificate_missing"
	PotentialAuditTrigger   AlertType = "potential_audit_trigger"
)

type UserType string

const (
	Individual UserType = "individual"
	Freelancer UserType = "freelancer"
	SME        UserType = "sme"
)

type Alert struct {
	Type           AlertType      `json:"alert_type"`
	Severity       Severity       `json:"severity"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	Recommendation string         `json:"recommendation"`
	Data           map[string]any `json:"data"`
}

type deadline struct {
	key         string
	month       time.Month // zero for monthly obligations
	day         int
	description string
}

var (
	pitAnnual       = deadline{"pit_annual", time.March, 31, "Annual PIT return filing deadline"}
	citAnnual       = deadline{"cit_annual", time.June, 30, "Annual CIT return filing deadline (6 months after year-end)"}
	vatMonthly      = deadline{"vat_monthly", 0, 21, "Monthly VAT remittance deadline (21st of following month)"}
	whtMonthly      = deadline{"wht_monthly", 0, 21, "Monthly WHT remittance deadline (21st of following month)"}
	developmentLevy = deadline{"development_levy", time.June, 30, "Development levy payment deadline"}
)

func deadlinesFor(userType UserType) []deadline {
	switch userType {
	case Individual, Freelancer:
		return []deadline{pitAnnual}
	case SME:
		return []deadline{citAnnual, vatMonthly, whtMonthly, developmentLevy}
	default:
		return nil
	}
}

type deduction struct {
	kind        string
	name        string
	description string
	appliesTo   []UserType
}

var commonDeductions = []deduction{
	{"pension", "Pension Contribution", "Employee pension contribution under the Pension Reform Act", []UserType{Individual, Freelancer}},
	{"nhf", "National Housing Fund", "NHF contribution (2.5% of basic salary)", []UserType{Individual}},
	{"nhis", "National Health Insurance", "NHIS contribution", []UserType{Individual, Freelancer}},
	{"life_insurance", "Life Insurance Premium", "Annual life insurance premium (self or spouse)", []UserType{Individual, Freelancer, SME}},
	{"rent_relief", "Rent Relief", "20% of annual rent paid (max ₦500,000)", []UserType{Individual, Freelancer}},
}

const (
	approachingWindowDays = 30
	urgentWindowDays      = 7
	largeTransactionRatio = 3.0
	highExpenseRatio      = 0.9
)

// Transaction is the subset of a ledger entry the detector inspects.
type Transaction struct {
	ID             string  `json:"id"`
	Description    string  `json:"description"`
	Amount         float64 `json:"amount"`
	Type           string  `json:"type"` // income or expense
	Classification string  `json:"classification"`
}

type Detector struct {
	now func() time.Time
}

type Option func(*Detector)

func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		d.now = now
	}
}

func New(opts ...Option) *Detector {
	d := &Detector{now: time.Now}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Detector) CheckMissedDeductions(userType UserType, claimed []string, hasSalaryIncome bool) []Alert {
	alerts := []Alert{}

	for _, ded := range commonDeductions {
		if !slices.Contains(ded.appliesTo, userType) || slices.Contains(claimed, ded.kind) {
			continue
		}

		// NHF is only deducted from salaried pay
		if ded.kind == "nhf" && !hasSalaryIncome {
			continue
		}

		alerts = append(alerts, Alert{
			Type:           MissedDeduction,
			Severity:       Warning,
			Title:          "Potential missed deduction: " + ded.name,
			Message:        fmt.Sprintf("You haven't claimed %s. %s.", ded.name, ded.description),
			Recommendation: fmt.Sprintf("If you make %s payments, add them as deductions to reduce your tax liability.", strings.ToLower(ded.name)),
			Data:           map[string]any{"deduction_type": ded.kind},
		})
	}

	return alerts
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (dl deadline) due(current time.Time) time.Time {
	if dl.month != 0 {
		return time.Date(current.Year(), dl.month, dl.day, 0, 0, 0, 0, time.UTC)
	}

	// the first of next month, then the filing day
	next := time.Date(current.Year(), current.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return time.Date(next.Year(), next.Month(), dl.day, 0, 0, 0, 0, time.UTC)
}

// CheckFilingDeadlines flags obligations overdue or due within 30 days of
// currentDate. A zero currentDate means today.
func (d *Detector) CheckFilingDeadlines(userType UserType, currentDate time.Time, filed []string) []Alert {
	if currentDate.IsZero() {
		currentDate = d.now()
	}
	current := dateOnly(currentDate)

	alerts := []Alert{}

	for _, dl := range deadlinesFor(userType) {
		if slices.Contains(filed, dl.key) {
			continue
		}

		due := dl.due(current)
		dueISO := due.Format("2006-01-02")
		days := int(math.Round(due.Sub(current).Hours() / 24))

		switch {
		case days < 0:
			alerts = append(alerts, Alert{
				Type:           DeadlineOverdue,
				Severity:       Critical,
				Title:          "OVERDUE: " + dl.description,
				Message:        fmt.Sprintf("This deadline was %d days ago (%s). Late filing may attract penalties.", -days, dueISO),
				Recommendation: "File your return immediately to minimize penalties and interest charges.",
				Data:           map[string]any{"deadline_key": dl.key, "deadline_date": dueISO, "days_overdue": -days},
			})
		case days <= approachingWindowDays:
			severity := Critical
			if days > urgentWindowDays {
				severity = Warning
			}

			alerts = append(alerts, Alert{
				Type:           DeadlineApproaching,
				Severity:       severity,
				Title:          "Upcoming: " + dl.description,
				Message:        fmt.Sprintf("Due in %d days (%s).", days, dueISO),
				Recommendation: "Prepare your documents and file before the deadline to avoid penalties.",
				Data:           map[string]any{"deadline_key": dl.key, "deadline_date": dueISO, "days_remaining": days},
			})
		}
	}

	return alerts
}

func (d *Detector) CheckTransactionAnomalies(txns []Transaction, averageMonthlyIncome float64) []Alert {
	alerts := []Alert{}

	unclassified := 0
	for _, t := range txns {
		if t.Classification == "unknown" {
			unclassified++
		}
	}

	if unclassified > 0 {
		alerts = append(alerts, Alert{
			Type:           UnclassifiedTransaction,
			Severity:       Info,
			Title:          fmt.Sprintf("%d unclassified transaction(s)", unclassified),
			Message:        "Some transactions haven't been classified. This may affect your tax calculations.",
			Recommendation: "Review and classify these transactions for accurate tax reporting.",
			Data:           map[string]any{"count": unclassified},
		})
	}

	for _, t := range txns {
		if averageMonthlyIncome <= 0 || t.Amount <= averageMonthlyIncome*largeTransactionRatio {
			continue
		}

		description := t.Description
		if description == "" {
			description = "N/A"
		}

		alerts = append(alerts, Alert{
			Type:           UnusualTransaction,
			Severity:       Warning,
			Title:          "Large transaction detected: " + tax.FormatNaira(t.Amount),
			Message:        fmt.Sprintf("Transaction '%s' is significantly larger than your average monthly income.", description),
			Recommendation: "Ensure this transaction is correctly classified. Large unusual transactions may attract scrutiny.",
			Data:           map[string]any{"transaction_id": t.ID, "amount": t.Amount},
		})
	}

	var income, expense float64
	for _, t := range txns {
		switch t.Type {
		case "income":
			income += t.Amount
		case "expense":
			expense += t.Amount
		}
	}

	if income > 0 && expense/income > highExpenseRatio {
		alerts = append(alerts, Alert{
			Type:     HighExpenseRatio,
			Severity: Warning,
			Title:    "High expense-to-income ratio",
			Message: fmt.Sprintf("Your expenses (%s) are %.0f%% of your income. This may trigger audit attention.",
				tax.FormatAmount(expense), expense/income*100),
			Recommendation: "Review your expense classifications. Ensure all business expenses are properly documented.",
			Data:           map[string]any{"expense_ratio": tax.Round(expense / income)},
		})
	}

	return alerts
}

// Profile bundles the inputs of RunAllChecks.
type Profile struct {
	UserType             UserType      `json:"user_type" validate:"required,oneof=individual freelancer sme"`
	ClaimedDeductions    []string      `json:"claimed_deductions"`
	HasSalaryIncome      bool          `json:"has_salary_income"`
	FiledReturns         []string      `json:"filed_returns"`
	Transactions         []Transaction `json:"transactions"`
	AverageMonthlyIncome float64       `json:"average_monthly_income" validate:"gte=0"`
	CurrentDate          time.Time     `json:"-"`
}

// RunAllChecks merges every check, critical alerts first. Alerts of equal
// severity keep their check order.
func (d *Detector) RunAllChecks(p Profile) []Alert {
	alerts := d.CheckMissedDeductions(p.UserType, p.ClaimedDeductions, p.HasSalaryIncome)
	alerts = append(alerts, d.CheckFilingDeadlines(p.UserType, p.CurrentDate, p.FiledReturns)...)
	alerts = append(alerts, d.CheckTransactionAnomalies(p.Transactions, p.AverageMonthlyIncome)...)

	slices.SortStableFunc(alerts, func(a, b Alert) int {
		return a.Severity.rank() - b.Severity.rank()
	})

	return alerts
}
