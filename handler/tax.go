package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/kudiwise/kudicore/anomaly"
	"github.com/kudiwise/kudicore/metrics"
	"github.com/kudiwise/kudicore/scenario"
	"github.com/kudiwise/kudicore/tax"
	"github.com/labstack/echo/v4"
)

type PITRequest struct {
	GrossIncome         *float64       `json:"gross_income" validate:"required,gte=0"`
	Deductions          tax.Deductions `json:"deductions"`
	IsMinimumWageEarner bool           `json:"is_minimum_wage_earner"`
}

type PITCSV struct {
	GrossIncome   float64 `json:"gross_income"`
	TaxLiability  float64 `json:"tax_liability"`
	EffectiveRate float64 `json:"effective_rate"`
}

type PITCSVResponse struct {
	Taxes []PITCSV `json:"taxes"`
}

type CITRequest struct {
	GrossProfit         *float64 `json:"gross_profit" validate:"required,gte=0"`
	AllowableDeductions float64  `json:"allowable_deductions" validate:"gte=0"`
	AnnualTurnover      float64  `json:"annual_turnover" validate:"gte=0"`
	IsMNE               bool     `json:"is_mne"`
	CompanySize         string   `json:"company_size" validate:"omitempty,oneof=small medium large"`
}

type VATRequest struct {
	Amount      *float64 `json:"amount" validate:"required,gte=0"`
	IsInclusive bool     `json:"is_inclusive"`
}

type VATLedgerRequest struct {
	Outputs []tax.Supply `json:"outputs" validate:"dive"`
	Inputs  []tax.Supply `json:"inputs" validate:"dive"`
}

type WHTRequest struct {
	GrossAmount   *float64 `json:"gross_amount" validate:"required,gte=0"`
	PaymentType   string   `json:"payment_type" validate:"required"`
	RecipientType string   `json:"recipient_type"`
}

type WHTPaymentRequest struct {
	Amount        float64 `json:"amount" validate:"gte=0"`
	PaymentType   string  `json:"payment_type"`
	RecipientType string  `json:"recipient_type"`
}

type WHTBatchRequest struct {
	Payments []WHTPaymentRequest `json:"payments" validate:"required,min=1,dive"`
}

type AlertsResponse struct {
	Alerts []anomaly.Alert `json:"alerts"`
	Count  int             `json:"count"`
}

type TaxHandler struct {
	vl       *validator.Validate
	pit      *tax.PIT
	cit      *tax.CIT
	vat      *tax.VAT
	wht      *tax.WHT
	scenario *scenario.Modeler
	detector *anomaly.Detector
}

func NewTaxHandler(vl *validator.Validate, detector *anomaly.Detector) *TaxHandler {
	pit := tax.NewPIT(tax.DefaultPITConfig())
	cit := tax.NewCIT()

	return &TaxHandler{
		vl:       vl,
		pit:      pit,
		cit:      cit,
		vat:      tax.NewVAT(),
		wht:      tax.NewWHT(),
		scenario: scenario.New(pit, cit),
		detector: detector,
	}
}

func (t *TaxHandler) bind(c echo.Context, req any) bool {
	if err := c.Bind(req); err != nil {
		return false
	}

	return t.vl.Struct(req) == nil
}

func (t *TaxHandler) CalculatePIT(c echo.Context) error {
	var req PITRequest

	if !t.bind(c, &req) {
		return badRequest(c)
	}

	result, err := t.pit.Calculate(*req.GrossIncome, req.Deductions, req.IsMinimumWageEarner)
	if err != nil {
		return calcError(c, err)
	}

	metrics.Calculations.WithLabelValues("pit").Inc()

	return c.JSON(http.StatusOK, result)
}

// CalculatePITWithCSV expects a header of grossIncome,pension,annualRentPaid
// followed by one row per person.
func (t *TaxHandler) CalculatePITWithCSV(c echo.Context) error {
	if c.Request().Header.Get("Content-Type") != "text/csv" {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Unacceptable content, require CSV content",
		})
	}

	rows, err := csv.NewReader(c.Request().Body).ReadAll()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request, might not be csv format",
		})
	}

	if len(rows) < 2 {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Wrong csv content, need a header and at least one row",
		})
	}

	header := rows[0]
	if len(header) != 3 || header[0] != "grossIncome" || header[1] != "pension" || header[2] != "annualRentPaid" {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Wrong csv header",
		})
	}

	columns := []string{"gross income", "pension", "annual rent paid"}
	taxes := make([]PITCSV, 0, len(rows)-1)

	for _, row := range rows[1:] {
		if len(row) != 3 {
			return c.JSON(http.StatusBadRequest, ResponseMsg{
				Message: "Wrong csv column length",
			})
		}

		values := make([]float64, 3)
		for i, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil || v < 0 {
				return c.JSON(http.StatusBadRequest, ResponseMsg{
					Message: "Invalid " + columns[i] + " amount",
				})
			}
			values[i] = v
		}

		result, err := t.pit.Calculate(values[0], tax.Deductions{
			Pension:        values[1],
			AnnualRentPaid: values[2],
		}, false)
		if err != nil {
			return calcError(c, err)
		}

		taxes = append(taxes, PITCSV{
			GrossIncome:   result.GrossIncome,
			TaxLiability:  result.TaxLiability,
			EffectiveRate: result.EffectiveRate,
		})
	}

	metrics.Calculations.WithLabelValues("pit").Add(float64(len(taxes)))

	return c.JSON(http.StatusOK, &PITCSVResponse{
		Taxes: taxes,
	})
}

// EstimatePAYE takes monthly figures as query parameters and scales the
// monthly deductions to annual amounts.
func (t *TaxHandler) EstimatePAYE(c echo.Context) error {
	var monthlyGross, pension, nhf, nhis float64

	err := echo.QueryParamsBinder(c).
		MustFloat64("monthly_gross", &monthlyGross).
		Float64("pension", &pension).
		Float64("nhf", &nhf).
		Float64("nhis", &nhis).
		BindError()
	if err != nil {
		return badRequest(c)
	}

	if monthlyGross < 0 || pension < 0 || nhf < 0 || nhis < 0 {
		return badRequest(c)
	}

	result, err := t.pit.EstimateMonthlyPAYE(monthlyGross, tax.Deductions{
		Pension: tax.Mul(pension, 12),
		NHF:     tax.Mul(nhf, 12),
		NHIS:    tax.Mul(nhis, 12),
	})
	if err != nil {
		return calcError(c, err)
	}

	metrics.Calculations.WithLabelValues("paye").Inc()

	return c.JSON(http.StatusOK, result)
}

func (t *TaxHandler) CalculateCIT(c echo.Context) error {
	var req CITRequest

	if !t.bind(c, &req) {
		return badRequest(c)
	}

	result, err := t.cit.Calculate(tax.CITInput{
		GrossProfit:         *req.GrossProfit,
		AllowableDeductions: req.AllowableDeductions,
		AnnualTurnover:      req.AnnualTurnover,
		IsMNE:               req.IsMNE,
		CompanySize:         tax.CompanySize(req.CompanySize),
	})
	if err != nil {
		return calcError(c, err)
	}

	metrics.Calculations.WithLabelValues("cit").Inc()

	return c.JSON(http.StatusOK, result)
}

func (t *TaxHandler) CalculateVAT(c echo.Context) error {
	var req VATRequest

	if !t.bind(c, &req) {
		return badRequest(c)
	}

	var (
		result any
		err    error
	)

	if req.IsInclusive {
		result, err = t.vat.ExtractVATFromInclusive(*req.Amount)
	} else {
		result, err = t.vat.CalculateSimple(*req.Amount)
	}
	if err != nil {
		return calcError(c, err)
	}

	metrics.Calculations.WithLabelValues("vat").Inc()

	return c.JSON(http.StatusOK, result)
}

func (t *TaxHandler) CalculateVATLedger(c echo.Context) error {
	var req VATLedgerRequest

	if !t.bind(c, &req) {
		return badRequest(c)
	}

	result, err := t.vat.Calculate(req.Outputs, req.Inputs)
	if err != nil {
		return calcError(c, err)
	}

	metrics.Calculations.WithLabelValues("vat").Inc()

	return c.JSON(http.StatusOK, result)
}

func (t *TaxHandler) CalculateWHT(c echo.Context) error {
	var req WHTRequest

	if !t.bind(c, &req) {
		return badRequest(c)
	}

	payment, err := parsePayment(WHTPaymentRequest{
		PaymentType:   req.PaymentType,
		RecipientType: req.RecipientType,
	})
	if err != nil {
		return calcError(c, err)
	}

	result, err := t.wht.CalculateSingle(*req.GrossAmount, payment.PaymentType, payment.RecipientType)
	if err != nil {
		return calcError(c, err)
	}

	metrics.Calculations.WithLabelValues("wht").Inc()

	return c.JSON(http.StatusOK, result)
}

func (t *TaxHandler) CalculateWHTBatch(c echo.Context) error {
	var req WHTBatchRequest

	if !t.bind(c, &req) {
		return badRequest(c)
	}

	payments := make([]tax.Payment, 0, len(req.Payments))
	for _, p := range req.Payments {
		payment, err := parsePayment(p)
		if err != nil {
			return calcError(c, err)
		}
		payments = append(payments, payment)
	}

	result, err := t.wht.CalculateBatch(payments)
	if err != nil {
		return calcError(c, err)
	}

	metrics.Calculations.WithLabelValues("wht").Inc()

	return c.JSON(http.StatusOK, result)
}

// parsePayment rejects unknown type strings. Empty ones default to a
// contract paid to a company.
func parsePayment(p WHTPaymentRequest) (tax.Payment, error) {
	payment := tax.Payment{Amount: p.Amount, RecipientType: tax.RecipientCompany}

	if p.PaymentType != "" {
		pt, err := tax.ParsePaymentType(p.PaymentType)
		if err != nil {
			return tax.Payment{}, err
		}
		payment.PaymentType = pt
	} else {
		payment.PaymentType = tax.PaymentContract
	}

	if p.RecipientType != "" {
		rt, err := tax.ParseRecipientType(p.RecipientType)
		if err != nil {
			return tax.Payment{}, err
		}
		payment.RecipientType = rt
	}

	return payment, nil
}

func (t *TaxHandler) RunScenario(c echo.Context) error {
	var req scenario.Input

	if !t.bind(c, &req) {
		return badRequest(c)
	}

	result, err := t.scenario.Run(req)
	if err != nil {
		return calcError(c, err)
	}

	metrics.Calculations.WithLabelValues("scenario").Inc()

	return c.JSON(http.StatusOK, result)
}

func (t *TaxHandler) CheckAlerts(c echo.Context) error {
	var req anomaly.Profile

	if !t.bind(c, &req) {
		return badRequest(c)
	}

	alerts := t.detector.RunAllChecks(req)
	if alerts == nil {
		alerts = []anomaly.Alert{}
	}

	return c.JSON(http.StatusOK, AlertsResponse{
		Alerts: alerts,
		Count:  len(alerts),
	})
}
