package tax

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

const VATRate = 0.075

type VATCategory string

const (
	VATStandard  VATCategory = "standard"
	VATExempt    VATCategory = "exempt"
	VATZeroRated VATCategory = "zero_rated"
)

// ExemptSupplies are charged no VAT and carry no input credit.
var ExemptSupplies = []string{
	"medical_pharmaceutical",
	"basic_food_items",
	"books_educational_materials",
	"baby_products",
	"fertilizer_agricultural_equipment",
	"agricultural_produce",
	"veterinary_medicine",
	"farming_machinery",
	"locally_produced_sanitary_towels",
	"renewable_energy_equipment",
}

// ZeroRatedSupplies are taxable at 0%.
var ZeroRatedSupplies = []string{
	"non_oil_exports",
	"goods_services_to_free_trade_zones",
	"humanitarian_donor_funded_projects",
}

// ClassifySupply maps a supply name to its VAT category. Anything not listed
// is standard rated.
func ClassifySupply(name string) VATCategory {
	name = strings.ToLower(name)

	switch {
	case slices.Contains(ExemptSupplies, name):
		return VATExempt
	case slices.Contains(ZeroRatedSupplies, name):
		return VATZeroRated
	default:
		return VATStandard
	}
}

// resolveCategory accepts the exact category values; anything else, including
// "EXEMPT", is classified as a supply name.
func resolveCategory(category string) VATCategory {
	switch c := VATCategory(category); c {
	case "":
		return VATStandard
	case VATStandard, VATExempt, VATZeroRated:
		return c
	default:
		return ClassifySupply(category)
	}
}

// Supply is one sale or purchase line. Category is either a VATCategory value
// or a supply name resolved through ClassifySupply.
type Supply struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Category    string  `json:"category"`
}

type VATLineItem struct {
	Description  string      `json:"description"`
	Amount       float64     `json:"amount"`
	Category     VATCategory `json:"category"`
	VATAmount    float64     `json:"vat_amount"`
	TotalWithVAT float64     `json:"total_with_vat"`
}

type VATBreakdown struct {
	VATRate    float64 `json:"vat_rate"`
	OutputVAT  float64 `json:"output_vat"`
	InputVAT   float64 `json:"input_vat"`
	NetPayable float64 `json:"net_payable"`
}

type VATResult struct {
	TotalSupplies     float64       `json:"total_supplies"`
	TaxableSupplies   float64       `json:"taxable_supplies"`
	ExemptSupplies    float64       `json:"exempt_supplies"`
	ZeroRatedSupplies float64       `json:"zero_rated_supplies"`
	OutputVAT         float64       `json:"output_vat"`
	InputVAT          float64       `json:"input_vat"`
	NetVATPayable     float64       `json:"net_vat_payable"`
	EffectiveRate     float64       `json:"effective_rate"`
	LineItems         []VATLineItem `json:"line_items"`
	Breakdown         VATBreakdown  `json:"breakdown"`
}

type SimpleVAT struct {
	Amount       float64 `json:"amount"`
	VATRate      float64 `json:"vat_rate"`
	VATAmount    float64 `json:"vat_amount"`
	TotalWithVAT float64 `json:"total_with_vat"`
}

type InclusiveVAT struct {
	InclusiveAmount float64 `json:"inclusive_amount"`
	AmountBeforeVAT float64 `json:"amount_before_vat"`
	VATAmount       float64 `json:"vat_amount"`
	VATRate         float64 `json:"vat_rate"`
}

// VAT computes value added tax at the standard rate.
type VAT struct{}

func NewVAT() *VAT {
	return &VAT{}
}

func negativeAmount(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("%w: amount cannot be negative", ErrInvalidInput)
	}

	return nil
}

func (v *VAT) CalculateSimple(amount float64) (SimpleVAT, error) {
	if amount <= 0 {
		return SimpleVAT{}, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	vat := Mul(amount, VATRate)

	return SimpleVAT{
		Amount:       amount,
		VATRate:      AsPercent(VATRate),
		VATAmount:    vat,
		TotalWithVAT: Sum(amount, vat),
	}, nil
}

// ExtractVATFromInclusive splits a VAT-inclusive amount into net and VAT.
func (v *VAT) ExtractVATFromInclusive(inclusive float64) (InclusiveVAT, error) {
	if err := negativeAmount(inclusive); err != nil {
		return InclusiveVAT{}, err
	}

	before := decimal.NewFromFloat(inclusive).
		Div(decimal.NewFromFloat(1 + VATRate)).
		Round(2).
		InexactFloat64()

	return InclusiveVAT{
		InclusiveAmount: inclusive,
		AmountBeforeVAT: before,
		VATAmount:       Sum(inclusive, -before),
		VATRate:         AsPercent(VATRate),
	}, nil
}

func (v *VAT) CalculateVATOnSupply(amount float64, category VATCategory) (float64, error) {
	if err := negativeAmount(amount); err != nil {
		return 0, err
	}

	return supplyVAT(amount, category), nil
}

func supplyVAT(amount float64, category VATCategory) float64 {
	if category != VATStandard {
		return 0
	}

	return Mul(amount, VATRate)
}

// Calculate builds a VAT ledger: output VAT on sales minus input VAT on
// standard-rated purchases.
func (v *VAT) Calculate(outputs, inputs []Supply) (VATResult, error) {
	var taxable, exempt, zeroRated []float64
	var outputVATs []float64
	lineItems := make([]VATLineItem, 0, len(outputs))

	for _, s := range outputs {
		if err := negativeAmount(s.Amount); err != nil {
			return VATResult{}, err
		}

		category := resolveCategory(s.Category)
		vat := supplyVAT(s.Amount, category)

		switch category {
		case VATExempt:
			exempt = append(exempt, s.Amount)
		case VATZeroRated:
			zeroRated = append(zeroRated, s.Amount)
		default:
			taxable = append(taxable, s.Amount)
			outputVATs = append(outputVATs, vat)
		}

		lineItems = append(lineItems, VATLineItem{
			Description:  s.Description,
			Amount:       s.Amount,
			Category:     category,
			VATAmount:    vat,
			TotalWithVAT: Sum(s.Amount, vat),
		})
	}

	var inputVATs []float64
	for _, s := range inputs {
		if err := negativeAmount(s.Amount); err != nil {
			return VATResult{}, err
		}

		if resolveCategory(s.Category) == VATStandard {
			inputVATs = append(inputVATs, Mul(s.Amount, VATRate))
		}
	}

	taxableTotal := Sum(taxable...)
	exemptTotal := Sum(exempt...)
	zeroRatedTotal := Sum(zeroRated...)
	outputVAT := Sum(outputVATs...)
	inputVAT := Sum(inputVATs...)
	net := Sum(outputVAT, -inputVAT)

	return VATResult{
		TotalSupplies:     Sum(taxableTotal, exemptTotal, zeroRatedTotal),
		TaxableSupplies:   taxableTotal,
		ExemptSupplies:    exemptTotal,
		ZeroRatedSupplies: zeroRatedTotal,
		OutputVAT:         outputVAT,
		InputVAT:          inputVAT,
		NetVATPayable:     net,
		EffectiveRate:     Percent(outputVAT, taxableTotal),
		LineItems:         lineItems,
		Breakdown: VATBreakdown{
			VATRate:    AsPercent(VATRate),
			OutputVAT:  outputVAT,
			InputVAT:   inputVAT,
			NetPayable: net,
		},
	}, nil
}
