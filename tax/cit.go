package tax

import "fmt"

type CompanySize string

const (
	CompanySmall  CompanySize = "small"
	CompanyMedium CompanySize = "medium"
	CompanyLarge  CompanySize = "large"
)

const (
	SmallCompanyTurnover = 25_000_000.0
	LargeCompanyTurnover = 100_000_000.0
	MNETurnover          = 20_000_000_000.0

	SmallCompanyCITRate = 0.0
	StandardCITRate     = 0.30
	MinimumETR          = 0.15
	DevelopmentLevyRate = 0.04
)

// ClassifyCompany buckets a company by annual turnover.
func ClassifyCompany(annualTurnover float64) CompanySize {
	switch {
	case annualTurnover <= SmallCompanyTurnover:
		return CompanySmall
	case annualTurnover <= LargeCompanyTurnover:
		return CompanyMedium
	default:
		return CompanyLarge
	}
}

type CITInput struct {
	GrossProfit         float64     `json:"gross_profit"`
	AllowableDeductions float64     `json:"allowable_deductions"`
	AnnualTurnover      float64     `json:"annual_turnover"`
	IsMNE               bool        `json:"is_mne"`
	CompanySize         CompanySize `json:"company_size,omitempty"` // overrides turnover classification
}

type CITBreakdown struct {
	CITRateApplied        float64 `json:"cit_rate_applied"`
	CITAmount             float64 `json:"cit_amount"`
	DevelopmentLevyRate   float64 `json:"development_levy_rate"`
	DevelopmentLevyAmount float64 `json:"development_levy_amount"`
}

type CITResult struct {
	CompanySize         CompanySize  `json:"company_size"`
	GrossProfit         float64      `json:"gross_profit"`
	AllowableDeductions float64      `json:"allowable_deductions"`
	AssessableProfit    float64      `json:"assessable_profit"`
	CITRate             float64      `json:"cit_rate"`
	CITLiability        float64      `json:"cit_liability"`
	DevelopmentLevy     float64      `json:"development_levy"`
	TotalTaxLiability   float64      `json:"total_tax_liability"`
	EffectiveRate       float64      `json:"effective_rate"`
	MinimumTaxApplied   bool         `json:"minimum_tax_applied"`
	Breakdown           CITBreakdown `json:"breakdown"`
}

// CIT computes companies income tax and the development levy.
type CIT struct{}

func NewCIT() *CIT {
	return &CIT{}
}

func (in CITInput) validate() error {
	switch {
	case in.GrossProfit < 0:
		return fmt.Errorf("%w: gross profit cannot be negative", ErrInvalidInput)
	case in.AllowableDeductions < 0:
		return fmt.Errorf("%w: allowable deductions cannot be negative", ErrInvalidInput)
	case in.AnnualTurnover < 0:
		return fmt.Errorf("%w: annual turnover cannot be negative", ErrInvalidInput)
	}

	switch in.CompanySize {
	case "", CompanySmall, CompanyMedium, CompanyLarge:
		return nil
	default:
		return fmt.Errorf("%w: unknown company size: %s", ErrInvalidInput, in.CompanySize)
	}
}

func (c *CIT) Calculate(in CITInput) (CITResult, error) {
	if err := in.validate(); err != nil {
		return CITResult{}, err
	}

	size := in.CompanySize
	if size == "" {
		size = ClassifyCompany(in.AnnualTurnover)
	}

	assessable := Round(max(in.GrossProfit-in.AllowableDeductions, 0))

	rate := StandardCITRate
	levyRate := DevelopmentLevyRate
	if size == CompanySmall {
		rate = SmallCompanyCITRate
		levyRate = 0
	}

	cit := Mul(assessable, rate)
	levy := Mul(assessable, levyRate)

	minimumApplied := false
	if (in.IsMNE || in.AnnualTurnover >= MNETurnover) && assessable > 0 {
		// unrounded (cit+levy)/assessable is the combined rate
		if rate+levyRate < MinimumETR {
			// top CIT up so that CIT plus levy reaches the minimum rate
			cit = Sum(Mul(assessable, MinimumETR), -levy)
			minimumApplied = true
		}
	}

	total := Sum(cit, levy)

	return CITResult{
		CompanySize:         size,
		GrossProfit:         in.GrossProfit,
		AllowableDeductions: in.AllowableDeductions,
		AssessableProfit:    assessable,
		CITRate:             rate,
		CITLiability:        cit,
		DevelopmentLevy:     levy,
		TotalTaxLiability:   total,
		EffectiveRate:       Percent(total, assessable),
		MinimumTaxApplied:   minimumApplied,
		Breakdown: CITBreakdown{
			CITRateApplied:        AsPercent(rate),
			CITAmount:             cit,
			DevelopmentLevyRate:   AsPercent(levyRate),
			DevelopmentLevyAmount: levy,
		},
	}, nil
}
