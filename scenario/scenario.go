// Package scenario compares tax outcomes of what-if changes to income,
// deductions or filing status.
package scenario

import (
	"fmt"

	"github.com/kudiwise/kudicore/tax"
)

type Type string

const (
	IncomeChange        Type = "income_change"
	DeductionImpact     Type = "deduction_impact"
	IndividualVsCompany Type = "individual_vs_company"
)

const (
	labelIncomeChange        = "Income Change Scenario"
	labelDeductionImpact     = "Deduction Impact Scenario"
	labelIndividualVsCompany = "Individual vs Company Scenario"
)

type PITCalculator interface {
	Calculate(grossIncome float64, deductions tax.Deductions, isMinimumWageEarner bool) (tax.PITResult, error)
}

type CITCalculator interface {
	Calculate(in tax.CITInput) (tax.CITResult, error)
}

type Comparison struct {
	Label                  string   `json:"label"`
	CurrentTax             float64  `json:"current_tax"`
	ProjectedTax           float64  `json:"projected_tax"`
	Difference             float64  `json:"difference"`
	PercentageChange       float64  `json:"percentage_change"`
	CurrentEffectiveRate   float64  `json:"current_effective_rate"`
	ProjectedEffectiveRate float64  `json:"projected_effective_rate"`
	MarginalRate           *float64 `json:"marginal_rate,omitempty"`
	Insights               []string `json:"insights"`
}

// Input drives Run. ProjectedGrossIncome defaults to CurrentGrossIncome.
type Input struct {
	ScenarioType         Type           `json:"scenario_type" validate:"required,oneof=income_change deduction_impact individual_vs_company"`
	CurrentGrossIncome   float64        `json:"current_gross_income" validate:"gte=0"`
	CurrentDeductions    tax.Deductions `json:"current_deductions"`
	ProjectedGrossIncome *float64       `json:"projected_gross_income,omitempty" validate:"omitempty,gte=0"`
	ProjectedDeductions  tax.Deductions `json:"projected_deductions"`
	BusinessExpenses     float64        `json:"business_expenses" validate:"gte=0"`
}

type Modeler struct {
	pit PITCalculator
	cit CITCalculator
}

func New(pit PITCalculator, cit CITCalculator) *Modeler {
	return &Modeler{pit: pit, cit: cit}
}

// NewDefault wires the statutory calculators.
func NewDefault() *Modeler {
	return New(tax.NewPIT(tax.DefaultPITConfig()), tax.NewCIT())
}

func percentageChange(difference, base float64) float64 {
	if base <= 0 {
		return 0
	}

	return tax.Percent(difference, base)
}

func (m *Modeler) CompareIncomeChange(currentIncome, projectedIncome float64, deductions tax.Deductions) (Comparison, error) {
	current, err := m.pit.Calculate(currentIncome, deductions, false)
	if err != nil {
		return Comparison{}, err
	}

	projected, err := m.pit.Calculate(projectedIncome, deductions, false)
	if err != nil {
		return Comparison{}, err
	}

	difference := tax.Sum(projected.TaxLiability, -current.TaxLiability)
	incomeDelta := tax.Sum(projectedIncome, -currentIncome)

	insights := []string{}
	switch {
	case difference > 0:
		insights = append(insights, fmt.Sprintf("Increasing your income by %s would increase your tax by %s.",
			naira(incomeDelta), naira(difference)))
	case difference < 0:
		insights = append(insights, fmt.Sprintf("Decreasing your income by %s would save you %s in taxes.",
			naira(-incomeDelta), naira(abs(difference))))
	}

	if projected.EffectiveRate > current.EffectiveRate {
		insights = append(insights, fmt.Sprintf("Your effective tax rate would increase from %s%% to %s%%.",
			rate(current.EffectiveRate), rate(projected.EffectiveRate)))
	}

	var marginal *float64
	if incomeDelta > 0 {
		mr := difference / incomeDelta * 100
		insights = append(insights, fmt.Sprintf("The marginal tax rate on the additional %s is %s%%.",
			naira(incomeDelta), oneDecimal(mr)))

		rounded := tax.Round(mr)
		marginal = &rounded
	}

	return Comparison{
		Label:                  labelIncomeChange,
		CurrentTax:             current.TaxLiability,
		ProjectedTax:           projected.TaxLiability,
		Difference:             difference,
		PercentageChange:       percentageChange(difference, current.TaxLiability),
		CurrentEffectiveRate:   current.EffectiveRate,
		ProjectedEffectiveRate: projected.EffectiveRate,
		MarginalRate:           marginal,
		Insights:               insights,
	}, nil
}

func (m *Modeler) CompareDeductionImpact(grossIncome float64, currentDeductions, projectedDeductions tax.Deductions) (Comparison, error) {
	current, err := m.pit.Calculate(grossIncome, currentDeductions, false)
	if err != nil {
		return Comparison{}, err
	}

	projected, err := m.pit.Calculate(grossIncome, projectedDeductions, false)
	if err != nil {
		return Comparison{}, err
	}

	difference := tax.Sum(projected.TaxLiability, -current.TaxLiability)

	insights := []string{}
	additional := tax.Sum(projectedDeductions.Total(), -currentDeductions.Total())
	if additional > 0 && difference < 0 {
		insights = append(insights, fmt.Sprintf("Claiming an additional %s in deductions would save you %s in taxes.",
			naira(additional), naira(abs(difference))))
	}

	if currentDeductions.AnnualRentPaid == 0 && projectedDeductions.AnnualRentPaid > 0 {
		insights = append(insights, fmt.Sprintf("Adding rent relief (%s) contributes to your tax savings.",
			naira(projectedDeductions.RentRelief())))
	}

	if currentDeductions.Pension == 0 && projectedDeductions.Pension > 0 {
		insights = append(insights, fmt.Sprintf("Pension contributions of %s are tax-deductible and reduce your liability.",
			naira(projectedDeductions.Pension)))
	}

	return Comparison{
		Label:                  labelDeductionImpact,
		CurrentTax:             current.TaxLiability,
		ProjectedTax:           projected.TaxLiability,
		Difference:             difference,
		PercentageChange:       percentageChange(difference, current.TaxLiability),
		CurrentEffectiveRate:   current.EffectiveRate,
		ProjectedEffectiveRate: projected.EffectiveRate,
		Insights:               insights,
	}, nil
}

// CompareIndividualVsCompany prices the same income filed personally and
// through a company. The company's turnover is taken to be the gross income.
func (m *Modeler) CompareIndividualVsCompany(grossIncome float64, deductions tax.Deductions, businessExpenses float64) (Comparison, error) {
	if businessExpenses < 0 {
		return Comparison{}, fmt.Errorf("%w: business expenses cannot be negative", tax.ErrInvalidInput)
	}

	pit, err := m.pit.Calculate(grossIncome, deductions, false)
	if err != nil {
		return Comparison{}, err
	}

	companyProfit := tax.Sum(grossIncome, -businessExpenses)
	cit, err := m.cit.Calculate(tax.CITInput{
		GrossProfit:    companyProfit,
		AnnualTurnover: grossIncome,
	})
	if err != nil {
		return Comparison{}, err
	}

	difference := tax.Sum(cit.TotalTaxLiability, -pit.TaxLiability)

	insights := []string{}
	switch {
	case cit.CompanySize == tax.CompanySmall:
		insights = append(insights, fmt.Sprintf("As a small company (turnover ≤ ₦25M), your CIT rate would be 0%%. You'd save %s compared to individual filing.",
			naira(abs(difference))))
	case difference < 0:
		insights = append(insights, fmt.Sprintf("Registering as a company could save you %s in taxes.",
			naira(abs(difference))))
	default:
		insights = append(insights, fmt.Sprintf("Filing as an individual is currently more tax-efficient, saving you %s compared to company filing.",
			naira(difference)))
	}

	insights = append(insights, fmt.Sprintf("Individual effective rate: %s%% | Company effective rate: %s%%",
		rate(pit.EffectiveRate), rate(cit.EffectiveRate)))

	if businessExpenses > 0 {
		insights = append(insights, fmt.Sprintf("Note: Company calculation accounts for %s in business expenses, reducing assessable profit to %s.",
			naira(businessExpenses), naira(companyProfit)))
	}

	return Comparison{
		Label:                  labelIndividualVsCompany,
		CurrentTax:             pit.TaxLiability,
		ProjectedTax:           cit.TotalTaxLiability,
		Difference:             difference,
		PercentageChange:       percentageChange(difference, pit.TaxLiability),
		CurrentEffectiveRate:   pit.EffectiveRate,
		ProjectedEffectiveRate: cit.EffectiveRate,
		Insights:               insights,
	}, nil
}

func (m *Modeler) Run(in Input) (Comparison, error) {
	switch in.ScenarioType {
	case IncomeChange:
		projected := in.CurrentGrossIncome
		if in.ProjectedGrossIncome != nil {
			projected = *in.ProjectedGrossIncome
		}
		return m.CompareIncomeChange(in.CurrentGrossIncome, projected, in.CurrentDeductions)
	case DeductionImpact:
		return m.CompareDeductionImpact(in.CurrentGrossIncome, in.CurrentDeductions, in.ProjectedDeductions)
	case IndividualVsCompany:
		return m.CompareIndividualVsCompany(in.CurrentGrossIncome, in.CurrentDeductions, in.BusinessExpenses)
	default:
		return Comparison{}, fmt.Errorf("%w: unknown scenario type: %s", tax.ErrInvalidInput, in.ScenarioType)
	}
}
