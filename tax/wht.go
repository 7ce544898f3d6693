package tax

import (
	"fmt"
	"strings"
)

type PaymentType string

const (
	PaymentDividend         PaymentType = "dividend"
	PaymentInterest         PaymentType = "interest"
	PaymentRent             PaymentType = "rent"
	PaymentRoyalty          PaymentType = "royalty"
	PaymentCommission       PaymentType = "commission"
	PaymentConsultancy      PaymentType = "consultancy"
	PaymentProfessionalFees PaymentType = "professional_fees"
	PaymentTechnicalFees    PaymentType = "technical_fees"
	PaymentManagementFees   PaymentType = "management_fees"
	PaymentConstruction     PaymentType = "construction"
	PaymentSupplyOfGoods    PaymentType = "supply_of_goods"
	PaymentContract         PaymentType = "contract"
	PaymentDirectorsFees    PaymentType = "directors_fees"
)

type RecipientType string

const (
	RecipientIndividual RecipientType = "individual"
	RecipientCompany    RecipientType = "company"
)

// DefaultWHTRate applies when a payment type has no entry for the recipient.
const DefaultWHTRate = 0.10

// PaymentTypes lists every payment type in table order.
var PaymentTypes = []PaymentType{
	PaymentDividend,
	PaymentInterest,
	PaymentRent,
	PaymentRoyalty,
	PaymentCommission,
	PaymentConsultancy,
	PaymentProfessionalFees,
	PaymentTechnicalFees,
	PaymentManagementFees,
	PaymentConstruction,
	PaymentSupplyOfGoods,
	PaymentContract,
	PaymentDirectorsFees,
}

var whtRates = map[PaymentType]map[RecipientType]float64{
	PaymentDividend:         {RecipientIndividual: 0.10, RecipientCompany: 0.10},
	PaymentInterest:         {RecipientIndividual: 0.10, RecipientCompany: 0.10},
	PaymentRent:             {RecipientIndividual: 0.10, RecipientCompany: 0.10},
	PaymentRoyalty:          {RecipientIndividual: 0.10, RecipientCompany: 0.10},
	PaymentCommission:       {RecipientIndividual: 0.05, RecipientCompany: 0.10},
	PaymentConsultancy:      {RecipientIndividual: 0.05, RecipientCompany: 0.10},
	PaymentProfessionalFees: {RecipientIndividual: 0.05, RecipientCompany: 0.10},
	PaymentTechnicalFees:    {RecipientIndividual: 0.05, RecipientCompany: 0.10},
	PaymentManagementFees:   {RecipientIndividual: 0.05, RecipientCompany: 0.10},
	PaymentConstruction:     {RecipientIndividual: 0.05, RecipientCompany: 0.05},
	PaymentSupplyOfGoods:    {RecipientIndividual: 0.05, RecipientCompany: 0.05},
	PaymentContract:         {RecipientIndividual: 0.10, RecipientCompany: 0.10},
	PaymentDirectorsFees:    {RecipientIndividual: 0.10, RecipientCompany: 0.10},
}

func ParsePaymentType(s string) (PaymentType, error) {
	pt := PaymentType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := whtRates[pt]; !ok {
		return "", fmt.Errorf("%w: unknown payment type: %s", ErrInvalidInput, s)
	}

	return pt, nil
}

func ParseRecipientType(s string) (RecipientType, error) {
	switch rt := RecipientType(strings.ToLower(strings.TrimSpace(s))); rt {
	case RecipientIndividual, RecipientCompany:
		return rt, nil
	default:
		return "", fmt.Errorf("%w: unknown recipient type: %s", ErrInvalidInput, s)
	}
}

type WHTLineItem struct {
	PaymentType   PaymentType   `json:"payment_type"`
	RecipientType RecipientType `json:"recipient_type"`
	GrossAmount   float64       `json:"gross_amount"`
	WHTRate       float64       `json:"wht_rate"`
	WHTAmount     float64       `json:"wht_amount"`
	NetAmount     float64       `json:"net_amount"`
}

type WHTTypeBreakdown struct {
	Gross float64 `json:"gross"`
	WHT   float64 `json:"wht"`
	Rate  float64 `json:"rate"`
}

type WHTResult struct {
	TotalGross float64                          `json:"total_gross"`
	TotalWHT   float64                          `json:"total_wht"`
	TotalNet   float64                          `json:"total_net"`
	LineItems  []WHTLineItem                    `json:"line_items"`
	Breakdown  map[PaymentType]WHTTypeBreakdown `json:"breakdown"`
}

// Payment is one batch entry. Empty types default to contract paid to a company.
type Payment struct {
	Amount        float64       `json:"amount"`
	PaymentType   PaymentType   `json:"payment_type"`
	RecipientType RecipientType `json:"recipient_type"`
}

// WHT computes withholding tax deductions at source.
type WHT struct{}

func NewWHT() *WHT {
	return &WHT{}
}

// Rate looks up the withholding rate. Unknown payment types reject, a missing
// recipient entry falls back to DefaultWHTRate.
func (w *WHT) Rate(pt PaymentType, rt RecipientType) (float64, error) {
	rates, ok := whtRates[pt]
	if !ok {
		return 0, fmt.Errorf("%w: unknown payment type: %s", ErrInvalidInput, pt)
	}

	rate, ok := rates[rt]
	if !ok {
		return DefaultWHTRate, nil
	}

	return rate, nil
}

func (w *WHT) CalculateSingle(grossAmount float64, pt PaymentType, rt RecipientType) (WHTLineItem, error) {
	if grossAmount < 0 {
		return WHTLineItem{}, fmt.Errorf("%w: gross amount cannot be negative", ErrInvalidInput)
	}

	rate, err := w.Rate(pt, rt)
	if err != nil {
		return WHTLineItem{}, err
	}

	wht := Mul(grossAmount, rate)

	return WHTLineItem{
		PaymentType:   pt,
		RecipientType: rt,
		GrossAmount:   grossAmount,
		WHTRate:       rate,
		WHTAmount:     wht,
		NetAmount:     Sum(grossAmount, -wht),
	}, nil
}

func (w *WHT) CalculateBatch(payments []Payment) (WHTResult, error) {
	result := WHTResult{
		LineItems: make([]WHTLineItem, 0, len(payments)),
		Breakdown: make(map[PaymentType]WHTTypeBreakdown),
	}

	for _, p := range payments {
		pt := p.PaymentType
		if pt == "" {
			pt = PaymentContract
		}
		rt := p.RecipientType
		if rt == "" {
			rt = RecipientCompany
		}

		item, err := w.CalculateSingle(p.Amount, pt, rt)
		if err != nil {
			return WHTResult{}, err
		}

		result.LineItems = append(result.LineItems, item)
		result.TotalGross = Sum(result.TotalGross, item.GrossAmount)
		result.TotalWHT = Sum(result.TotalWHT, item.WHTAmount)
		result.TotalNet = Sum(result.TotalNet, item.NetAmount)

		b := result.Breakdown[pt]
		result.Breakdown[pt] = WHTTypeBreakdown{
			Gross: Sum(b.Gross, item.GrossAmount),
			WHT:   Sum(b.WHT, item.WHTAmount),
			Rate:  AsPercent(item.WHTRate), // last item of the type wins
		}
	}

	return result, nil
}
