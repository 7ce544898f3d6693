// Package report assembles tax summaries and compliance checklists from
// calculator output.
package report

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/kudiwise/kudicore/tax"
)

const (
	summaryDisclaimer = "DISCLAIMER: This report is generated for educational and informational purposes only. " +
		"It does not constitute professional tax advice. Please consult a qualified tax professional " +
		"for advice specific to your situation. KudiWise is not liable for any decisions made based " +
		"on this report."

	checklistDisclaimer = "DISCLAIMER: This checklist is generated for educational and informational purposes only. " +
		"Filing deadlines and requirements may change. Always verify with FIRS or a qualified " +
		"tax professional."
)

const (
	StatusCompleted = "completed"
	StatusOverdue   = "overdue"
	StatusPending   = "pending"
)

type Line struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
}

// IncomeLine and DeductionLine are caller-supplied rows. Empty labels become "Other".
type IncomeLine struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount" validate:"gte=0"`
	Note     string  `json:"note"`
}

type DeductionLine struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount" validate:"gte=0"`
	Note   string  `json:"note"`
}

// TaxResults carries liabilities already computed by the calculators.
type TaxResults struct {
	PIT             float64                `json:"pit"`
	CIT             float64                `json:"cit"`
	VAT             float64                `json:"vat"`
	WHT             float64                `json:"wht"`
	DevelopmentLevy float64                `json:"development_levy"`
	PITBreakdown    []tax.BracketBreakdown `json:"pit_breakdown"`
}

type SummaryInput struct {
	UserName   string          `json:"user_name"`
	UserType   string          `json:"user_type" validate:"required,oneof=individual freelancer sme"`
	Year       int             `json:"year" validate:"required,gte=2000,lte=2100"`
	Period     string          `json:"period"`
	Income     []IncomeLine    `json:"income" validate:"dive"`
	Deductions []DeductionLine `json:"deductions" validate:"dive"`
	TaxResults TaxResults      `json:"tax_results"`
}

type TaxSummaryReport struct {
	ReportID           string                 `json:"report_id"`
	UserName           string                 `json:"user_name"`
	UserType           string                 `json:"user_type"`
	ReportPeriod       string                 `json:"report_period"`
	Year               int                    `json:"year"`
	GeneratedAt        string                 `json:"generated_at"`
	TotalIncome        float64                `json:"total_income"`
	IncomeBreakdown    []Line                 `json:"income_breakdown"`
	TotalDeductions    float64                `json:"total_deductions"`
	DeductionBreakdown []Line                 `json:"deduction_breakdown"`
	TaxableIncome      float64                `json:"taxable_income"`
	PITLiability       float64                `json:"pit_liability"`
	CITLiability       float64                `json:"cit_liability"`
	VATLiability       float64                `json:"vat_liability"`
	WHTDeducted        float64                `json:"wht_deducted"`
	DevelopmentLevy    float64                `json:"development_levy"`
	TotalTaxLiability  float64                `json:"total_tax_liability"`
	EffectiveRate      float64                `json:"effective_rate"`
	PITBreakdown       []tax.BracketBreakdown `json:"pit_breakdown"`
	Disclaimer         string                 `json:"disclaimer"`
}

type ChecklistItem struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	DueDate        *string `json:"due_date"`
	Status         string  `json:"status"`
	TaxType        string  `json:"tax_type"`
	ActionRequired string  `json:"action_required"`
}

type ComplianceChecklist struct {
	UserName    string          `json:"user_name"`
	UserType    string          `json:"user_type"`
	Year        int             `json:"year"`
	GeneratedAt string          `json:"generated_at"`
	Items       []ChecklistItem `json:"items"`
	Summary     string          `json:"summary"`
	Disclaimer  string          `json:"disclaimer"`
}

type PITCalculator interface {
	Calculate(grossIncome float64, deductions tax.Deductions, isMinimumWageEarner bool) (tax.PITResult, error)
}

type CITCalculator interface {
	Calculate(in tax.CITInput) (tax.CITResult, error)
}

type Generator struct {
	pit   PITCalculator
	cit   CITCalculator
	now   func() time.Time
	newID func() string
}

type Option func(*Generator)

func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(g *Generator) {
		g.newID = newID
	}
}

func New(pit PITCalculator, cit CITCalculator, opts ...Option) *Generator {
	g := &Generator{
		pit:   pit,
		cit:   cit,
		now:   time.Now,
		newID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

func NewDefault(opts ...Option) *Generator {
	return New(tax.NewPIT(tax.DefaultPITConfig()), tax.NewCIT(), opts...)
}

func orOther(s string) string {
	if s == "" {
		return "Other"
	}

	return s
}

// TaxSummary totals the income and deduction lines and combines them with
// precomputed liabilities. WHT is reported but not added to the total since
// it is a credit against the final liability.
func (g *Generator) TaxSummary(in SummaryInput) (TaxSummaryReport, error) {
	period := in.Period
	if period == "" {
		period = "annual"
	}

	incomeLines := make([]Line, 0, len(in.Income))
	incomeAmounts := make([]float64, 0, len(in.Income))
	for _, l := range in.Income {
		if l.Amount < 0 {
			return TaxSummaryReport{}, fmt.Errorf("%w: income amount cannot be negative", tax.ErrInvalidInput)
		}
		incomeLines = append(incomeLines, Line{Label: orOther(l.Category), Amount: l.Amount, Note: l.Note})
		incomeAmounts = append(incomeAmounts, l.Amount)
	}

	deductionLines := make([]Line, 0, len(in.Deductions))
	deductionAmounts := make([]float64, 0, len(in.Deductions))
	for _, l := range in.Deductions {
		if l.Amount < 0 {
			return TaxSummaryReport{}, fmt.Errorf("%w: deduction amount cannot be negative", tax.ErrInvalidInput)
		}
		deductionLines = append(deductionLines, Line{Label: orOther(l.Type), Amount: l.Amount, Note: l.Note})
		deductionAmounts = append(deductionAmounts, l.Amount)
	}

	totalIncome := tax.Sum(incomeAmounts...)
	totalDeductions := tax.Sum(deductionAmounts...)

	r := in.TaxResults
	totalTax := tax.Sum(r.PIT, r.CIT, r.VAT, r.DevelopmentLevy)

	breakdown := slices.Clone(r.PITBreakdown)
	if breakdown == nil {
		breakdown = []tax.BracketBreakdown{}
	}

	return TaxSummaryReport{
		ReportID:           g.newID(),
		UserName:           in.UserName,
		UserType:           in.UserType,
		ReportPeriod:       period,
		Year:               in.Year,
		GeneratedAt:        g.now().Format(time.RFC3339),
		TotalIncome:        totalIncome,
		IncomeBreakdown:    incomeLines,
		TotalDeductions:    totalDeductions,
		DeductionBreakdown: deductionLines,
		TaxableIncome:      tax.Round(max(totalIncome-totalDeductions, 0)),
		PITLiability:       tax.Round(r.PIT),
		CITLiability:       tax.Round(r.CIT),
		VATLiability:       tax.Round(r.VAT),
		WHTDeducted:        tax.Round(r.WHT),
		DevelopmentLevy:    tax.Round(r.DevelopmentLevy),
		TotalTaxLiability:  totalTax,
		EffectiveRate:      tax.Percent(totalTax, totalIncome),
		PITBreakdown:       breakdown,
		Disclaimer:         summaryDisclaimer,
	}, nil
}

// YearSummary computes the year's liabilities from the income and deduction
// lines before building the summary: PIT on total income for individuals and
// freelancers, CIT and the development levy for SMEs.
func (g *Generator) YearSummary(in SummaryInput) (TaxSummaryReport, error) {
	var income, deductions []float64
	for _, l := range in.Income {
		if l.Amount < 0 {
			return TaxSummaryReport{}, fmt.Errorf("%w: income amount cannot be negative", tax.ErrInvalidInput)
		}
		income = append(income, l.Amount)
	}
	for _, l := range in.Deductions {
		if l.Amount < 0 {
			return TaxSummaryReport{}, fmt.Errorf("%w: deduction amount cannot be negative", tax.ErrInvalidInput)
		}
		deductions = append(deductions, l.Amount)
	}
	totalIncome := tax.Sum(income...)
	totalDeductions := tax.Sum(deductions...)

	results := TaxResults{VAT: in.TaxResults.VAT, WHT: in.TaxResults.WHT}

	switch in.UserType {
	case "individual", "freelancer":
		pit, err := g.pit.Calculate(totalIncome, tax.Deductions{}, false)
		if err != nil {
			return TaxSummaryReport{}, err
		}
		results.PIT = pit.TaxLiability
		results.PITBreakdown = pit.BracketBreakdown
	case "sme":
		cit, err := g.cit.Calculate(tax.CITInput{
			GrossProfit:         totalIncome,
			AllowableDeductions: totalDeductions,
			AnnualTurnover:      totalIncome,
		})
		if err != nil {
			return TaxSummaryReport{}, err
		}
		results.CIT = cit.CITLiability
		results.DevelopmentLevy = cit.DevelopmentLevy
	default:
		return TaxSummaryReport{}, fmt.Errorf("%w: unknown user type: %s", tax.ErrInvalidInput, in.UserType)
	}

	in.TaxResults = results
	return g.TaxSummary(in)
}

type ChecklistInput struct {
	UserName     string    `json:"user_name"`
	UserType     string    `json:"user_type" validate:"required,oneof=individual freelancer sme"`
	Year         int       `json:"year" validate:"required,gte=2000,lte=2100"`
	FiledReturns []string  `json:"filed_returns"`
	CurrentDate  time.Time `json:"-"`
}

func dueStatus(filed bool, current, due time.Time) string {
	switch {
	case filed:
		return StatusCompleted
	case current.After(due):
		return StatusOverdue
	default:
		return StatusPending
	}
}

func filedStatus(filed bool) string {
	if filed {
		return StatusCompleted
	}

	return StatusPending
}

func ptr(s string) *string {
	return &s
}

// ComplianceChecklist lists the filings due for the tax year. A zero
// CurrentDate means today.
func (g *Generator) ComplianceChecklist(in ChecklistInput) ComplianceChecklist {
	current := in.CurrentDate
	if current.IsZero() {
		current = g.now()
	}
	current = time.Date(current.Year(), current.Month(), current.Day(), 0, 0, 0, 0, time.UTC)

	filed := func(key string) bool { return slices.Contains(in.FiledReturns, key) }
	items := []ChecklistItem{}

	switch in.UserType {
	case "individual", "freelancer":
		due := time.Date(in.Year+1, time.March, 31, 0, 0, 0, 0, time.UTC)
		status := dueStatus(filed("pit_annual"), current, due)

		action := "File Form A (Self-Assessment) with your state tax authority"
		if status == StatusCompleted {
			action = "None (already filed)"
		}

		items = append(items,
			ChecklistItem{
				Title:          "Annual Personal Income Tax Return",
				Description:    fmt.Sprintf("File your %d PIT return with the relevant State Internal Revenue Service.", in.Year),
				DueDate:        ptr(due.Format("2006-01-02")),
				Status:         status,
				TaxType:        "PIT",
				ActionRequired: action,
			},
			ChecklistItem{
				Title:          "Tax Clearance Certificate",
				Description:    "Obtain TCC showing taxes paid for the past 3 years.",
				Status:         filedStatus(filed("tcc")),
				TaxType:        "PIT",
				ActionRequired: "Apply for TCC from your state tax authority after filing returns",
			},
		)
	case "sme":
		due := time.Date(in.Year+1, time.June, 30, 0, 0, 0, 0, time.UTC)
		status := dueStatus(filed("cit_annual"), current, due)

		action := "File via FIRS TaxPro Max portal"
		if status == StatusCompleted {
			action = "None (already filed)"
		}

		monthly := fmt.Sprintf("%d-XX-21 (monthly)", in.Year)

		items = append(items,
			ChecklistItem{
				Title:          "Annual Company Income Tax Return",
				Description:    fmt.Sprintf("File your %d CIT return with FIRS.", in.Year),
				DueDate:        ptr(due.Format("2006-01-02")),
				Status:         status,
				TaxType:        "CIT",
				ActionRequired: action,
			},
			ChecklistItem{
				Title:          "Monthly VAT Returns",
				Description:    "File and remit VAT collected on taxable supplies by the 21st of the following month.",
				DueDate:        ptr(monthly),
				Status:         StatusPending,
				TaxType:        "VAT",
				ActionRequired: "File monthly VAT returns via FIRS TaxPro Max",
			},
			ChecklistItem{
				Title:          "Monthly WHT Remittance",
				Description:    "Remit withholding tax deducted at source by the 21st of the following month.",
				DueDate:        ptr(monthly),
				Status:         StatusPending,
				TaxType:        "WHT",
				ActionRequired: "Remit WHT and file returns via FIRS TaxPro Max",
			},
			ChecklistItem{
				Title:          "Development Levy",
				Description:    "4% development levy on assessable profits (non-small companies).",
				DueDate:        ptr(due.Format("2006-01-02")),
				Status:         filedStatus(filed("development_levy")),
				TaxType:        "Development Levy",
				ActionRequired: "Paid alongside CIT return",
			},
		)
	}

	completed := 0
	for _, it := range items {
		if it.Status == StatusCompleted {
			completed++
		}
	}

	return ComplianceChecklist{
		UserName:    in.UserName,
		UserType:    in.UserType,
		Year:        in.Year,
		GeneratedAt: g.now().Format(time.RFC3339),
		Items:       items,
		Summary:     fmt.Sprintf("%d/%d compliance items completed for %d.", completed, len(items), in.Year),
		Disclaimer:  checklistDisclaimer,
	}
}
