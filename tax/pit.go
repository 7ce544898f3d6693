package tax

import "fmt"

// Bracket is one slice of a progressive schedule. Width is the size of the
// slice, -1 marks the unbounded top bracket.
type Bracket struct {
	Width float64
	Rate  float64
	Label string
}

func (b Bracket) unbounded() bool {
	return b.Width < 0
}

// PITBrackets is the Fourth Schedule individuals' rate table (Nigeria Tax Act 2025).
var PITBrackets = []Bracket{
	{Width: 800_000, Rate: 0, Label: "First ₦800,000"},
	{Width: 2_200_000, Rate: 0.15, Label: "Next ₦2,200,000"},
	{Width: 9_000_000, Rate: 0.18, Label: "Next ₦9,000,000"},
	{Width: 13_000_000, Rate: 0.21, Label: "Next ₦13,000,000"},
	{Width: 25_000_000, Rate: 0.23, Label: "Next ₦25,000,000"},
	{Width: -1, Rate: 0.25, Label: "Above ₦50,000,000"},
}

const (
	RentReliefRate     = 0.20
	RentReliefMax      = 500_000.0
	MinimumWageMonthly = 70_000.0
	MinimumWageAnnual  = MinimumWageMonthly * 12
)

// Deductions are the Section 30 reliefs claimed by an individual, all annual.
type Deductions struct {
	Pension             float64 `json:"pension"`
	NHF                 float64 `json:"nhf"`
	NHIS                float64 `json:"nhis"`
	LifeInsurance       float64 `json:"life_insurance"`
	HousingLoanInterest float64 `json:"housing_loan_interest"`
	AnnualRentPaid      float64 `json:"annual_rent_paid"`
}

// RentRelief is 20% of annual rent paid, capped at ₦500,000.
func (d Deductions) RentRelief() float64 {
	return min(Mul(d.AnnualRentPaid, RentReliefRate), RentReliefMax)
}

// Total sums every relief, counting rent through RentRelief.
func (d Deductions) Total() float64 {
	return Sum(d.Pension, d.NHF, d.NHIS, d.LifeInsurance, d.HousingLoanInterest, d.RentRelief())
}

func (d Deductions) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"pension", d.Pension},
		{"nhf", d.NHF},
		{"nhis", d.NHIS},
		{"life insurance", d.LifeInsurance},
		{"housing loan interest", d.HousingLoanInterest},
		{"annual rent paid", d.AnnualRentPaid},
	}

	for _, f := range fields {
		if f.value < 0 {
			return fmt.Errorf("%w: %s cannot be negative", ErrInvalidInput, f.name)
		}
	}

	return nil
}

func (d Deductions) details() map[string]float64 {
	return map[string]float64{
		"pension":               d.Pension,
		"nhf":                   d.NHF,
		"nhis":                  d.NHIS,
		"life_insurance":        d.LifeInsurance,
		"housing_loan_interest": d.HousingLoanInterest,
		"rent_relief":           d.RentRelief(),
		"annual_rent_paid":      d.AnnualRentPaid,
	}
}

type BracketBreakdown struct {
	BracketFloor     float64  `json:"bracket_floor"`
	BracketCeiling   *float64 `json:"bracket_ceiling"` // nil for the top bracket
	Rate             float64  `json:"rate"`
	Label            string   `json:"label"`
	TaxableInBracket float64  `json:"taxable_in_bracket"`
	TaxInBracket     float64  `json:"tax_in_bracket"`
}

type PITResult struct {
	GrossIncome         float64            `json:"gross_income"`
	TotalDeductions     float64            `json:"total_deductions"`
	DeductionDetails    map[string]float64 `json:"deduction_details"`
	TaxableIncome       float64            `json:"taxable_income"`
	TaxLiability        float64            `json:"tax_liability"`
	EffectiveRate       float64            `json:"effective_rate"`
	BracketBreakdown    []BracketBreakdown `json:"bracket_breakdown"`
	IsMinimumWageExempt bool               `json:"is_minimum_wage_exempt"`
}

type PAYEEstimate struct {
	MonthlyGross  float64 `json:"monthly_gross"`
	AnnualGross   float64 `json:"annual_gross"`
	AnnualTax     float64 `json:"annual_tax"`
	MonthlyPAYE   float64 `json:"monthly_paye"`
	EffectiveRate float64 `json:"effective_rate"`
}

type PITConfig struct {
	Brackets          []Bracket
	MinimumWageAnnual float64 // gross at or below this is exempt
}

func DefaultPITConfig() PITConfig {
	return PITConfig{
		Brackets:          PITBrackets,
		MinimumWageAnnual: MinimumWageAnnual,
	}
}

// PIT computes personal income tax. It holds no state beyond its
// configuration and is safe for concurrent use.
type PIT struct {
	conf PITConfig
}

func NewPIT(conf PITConfig) *PIT {
	return &PIT{conf: conf}
}

func (p *PIT) Calculate(grossIncome float64, deductions Deductions, isMinimumWageEarner bool) (PITResult, error) {
	if grossIncome < 0 {
		return PITResult{}, fmt.Errorf("%w: gross income cannot be negative", ErrInvalidInput)
	}

	if err := deductions.Validate(); err != nil {
		return PITResult{}, err
	}

	if isMinimumWageEarner || grossIncome <= p.conf.MinimumWageAnnual {
		return PITResult{
			GrossIncome:         grossIncome,
			DeductionDetails:    map[string]float64{},
			BracketBreakdown:    []BracketBreakdown{},
			IsMinimumWageExempt: true,
		}, nil
	}

	totalDeductions := deductions.Total()
	taxableIncome := Round(max(grossIncome-totalDeductions, 0))

	breakdown := p.calculateBrackets(taxableIncome)

	taxes := make([]float64, 0, len(breakdown))
	for _, b := range breakdown {
		taxes = append(taxes, b.TaxInBracket)
	}
	taxLiability := Sum(taxes...)

	return PITResult{
		GrossIncome:      grossIncome,
		TotalDeductions:  totalDeductions,
		DeductionDetails: deductions.details(),
		TaxableIncome:    taxableIncome,
		TaxLiability:     taxLiability,
		EffectiveRate:    Percent(taxLiability, grossIncome),
		BracketBreakdown: breakdown,
	}, nil
}

func (p *PIT) calculateBrackets(taxableIncome float64) []BracketBreakdown {
	breakdown := make([]BracketBreakdown, 0, len(p.conf.Brackets))

	remain := taxableIncome
	var floor float64

	for _, b := range p.conf.Brackets {
		if remain <= 0 {
			break
		}

		taxable := remain
		var ceiling *float64

		if !b.unbounded() {
			taxable = min(remain, b.Width)
			c := floor + b.Width
			ceiling = &c
		}

		breakdown = append(breakdown, BracketBreakdown{
			BracketFloor:     floor,
			BracketCeiling:   ceiling,
			Rate:             b.Rate,
			Label:            b.Label,
			TaxableInBracket: Round(taxable),
			TaxInBracket:     Mul(taxable, b.Rate),
		})

		remain -= taxable
		floor += b.Width
	}

	return breakdown
}

// EstimateMonthlyPAYE annualises a monthly salary, runs Calculate and spreads
// the annual tax over twelve months. Deductions must already be annual amounts.
func (p *PIT) EstimateMonthlyPAYE(monthlyGross float64, deductions Deductions) (PAYEEstimate, error) {
	annualGross := Mul(monthlyGross, 12)

	result, err := p.Calculate(annualGross, deductions, false)
	if err != nil {
		return PAYEEstimate{}, err
	}

	return PAYEEstimate{
		MonthlyGross:  monthlyGross,
		AnnualGross:   annualGross,
		AnnualTax:     result.TaxLiability,
		MonthlyPAYE:   Round(result.TaxLiability / 12),
		EffectiveRate: result.EffectiveRate,
	}, nil
}
