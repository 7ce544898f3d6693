// Package tools exposes the calculators as named tools that a conversational
// layer can declare to a model and invoke with JSON arguments.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kudiwise/kudicore/classifier"
	"github.com/kudiwise/kudicore/currency"
	"github.com/kudiwise/kudicore/metrics"
	"github.com/kudiwise/kudicore/scenario"
	"github.com/kudiwise/kudicore/tax"
	"go.uber.org/zap"
)

var ErrUnknownTool = errors.New("unknown tool")

type pitArgs struct {
	GrossIncome         *float64 `json:"gross_income" validate:"required,gte=0"`
	Pension             float64  `json:"pension" validate:"gte=0"`
	NHF                 float64  `json:"nhf" validate:"gte=0"`
	NHIS                float64  `json:"nhis" validate:"gte=0"`
	LifeInsurance       float64  `json:"life_insurance" validate:"gte=0"`
	HousingLoanInterest float64  `json:"housing_loan_interest" validate:"gte=0"`
	AnnualRentPaid      float64  `json:"annual_rent_paid" validate:"gte=0"`
	IsMinimumWage       bool     `json:"is_minimum_wage"`
}

type citArgs struct {
	GrossProfit         *float64 `json:"gross_profit" validate:"required,gte=0"`
	AllowableDeductions float64  `json:"allowable_deductions" validate:"gte=0"`
	AnnualTurnover      float64  `json:"annual_turnover" validate:"gte=0"`
	IsMNE               bool     `json:"is_mne"`
}

type vatArgs struct {
	Amount      *float64 `json:"amount" validate:"required,gte=0"`
	IsInclusive bool     `json:"is_inclusive"`
}

type whtArgs struct {
	GrossAmount   *float64 `json:"gross_amount" validate:"required,gte=0"`
	PaymentType   string   `json:"payment_type" validate:"required"`
	RecipientType string   `json:"recipient_type"`
}

type classifyArgs struct {
	Description string   `json:"description" validate:"required"`
	Amount      *float64 `json:"amount" validate:"required"`
	IsCredit    *bool    `json:"is_credit"`
}

type convertArgs struct {
	Amount   *float64 `json:"amount" validate:"required,gte=0"`
	Currency string   `json:"currency" validate:"required"`
}

type scenarioArgs struct {
	ScenarioType     scenario.Type `json:"scenario_type" validate:"required"`
	CurrentIncome    *float64      `json:"current_income" validate:"required,gte=0"`
	ProjectedIncome  *float64      `json:"projected_income" validate:"omitempty,gte=0"`
	BusinessExpenses float64       `json:"business_expenses" validate:"gte=0"`
}

type Executor struct {
	vl         *validator.Validate
	pit        *tax.PIT
	cit        *tax.CIT
	vat        *tax.VAT
	wht        *tax.WHT
	classifier *classifier.Classifier
	currency   *currency.Engine
	scenario   *scenario.Modeler
	log        *zap.Logger
}

type Option func(*Executor)

func WithLogger(l *zap.Logger) Option {
	return func(e *Executor) {
		e.log = l
	}
}

func NewExecutor(vl *validator.Validate, engine *currency.Engine, opts ...Option) *Executor {
	pit := tax.NewPIT(tax.DefaultPITConfig())
	cit := tax.NewCIT()

	e := &Executor{
		vl:         vl,
		pit:        pit,
		cit:        cit,
		vat:        tax.NewVAT(),
		wht:        tax.NewWHT(),
		classifier: classifier.New(),
		currency:   engine,
		scenario:   scenario.New(pit, cit),
		log:        zap.NewNop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Executor) decode(raw json.RawMessage, dst any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("{}")
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: malformed arguments: %v", tax.ErrInvalidInput, err)
	}

	if err := e.vl.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", tax.ErrInvalidInput, err)
	}

	return nil
}

// Execute runs the named tool. Argument errors wrap tax.ErrInvalidInput.
func (e *Executor) Execute(ctx context.Context, name string, raw json.RawMessage) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := e.execute(name, raw)

	status := "ok"
	if err != nil {
		status = "error"
		e.log.Info("tool call failed", zap.String("tool", name), zap.Error(err))
	}
	if errors.Is(err, ErrUnknownTool) {
		// keep label cardinality bounded
		name = "unknown"
	}
	metrics.ToolCalls.WithLabelValues(name, status).Inc()

	return out, err
}

func (e *Executor) execute(name string, raw json.RawMessage) (any, error) {
	switch name {
	case CalculatePIT:
		var a pitArgs
		if err := e.decode(raw, &a); err != nil {
			return nil, err
		}

		return e.pit.Calculate(*a.GrossIncome, tax.Deductions{
			Pension:             a.Pension,
			NHF:                 a.NHF,
			NHIS:                a.NHIS,
			LifeInsurance:       a.LifeInsurance,
			HousingLoanInterest: a.HousingLoanInterest,
			AnnualRentPaid:      a.AnnualRentPaid,
		}, a.IsMinimumWage)

	case CalculateCIT:
		var a citArgs
		if err := e.decode(raw, &a); err != nil {
			return nil, err
		}

		return e.cit.Calculate(tax.CITInput{
			GrossProfit:         *a.GrossProfit,
			AllowableDeductions: a.AllowableDeductions,
			AnnualTurnover:      a.AnnualTurnover,
			IsMNE:               a.IsMNE,
		})

	case CalculateVAT:
		var a vatArgs
		if err := e.decode(raw, &a); err != nil {
			return nil, err
		}

		if a.IsInclusive {
			return e.vat.ExtractVATFromInclusive(*a.Amount)
		}
		return e.vat.CalculateSimple(*a.Amount)

	case CalculateWHT:
		var a whtArgs
		if err := e.decode(raw, &a); err != nil {
			return nil, err
		}

		pt, err := tax.ParsePaymentType(a.PaymentType)
		if err != nil {
			return nil, err
		}

		rt := tax.RecipientCompany
		if a.RecipientType != "" {
			if rt, err = tax.ParseRecipientType(a.RecipientType); err != nil {
				return nil, err
			}
		}

		return e.wht.CalculateSingle(*a.GrossAmount, pt, rt)

	case ClassifyTransaction:
		var a classifyArgs
		if err := e.decode(raw, &a); err != nil {
			return nil, err
		}

		isCredit := true
		if a.IsCredit != nil {
			isCredit = *a.IsCredit
		}

		return e.classifier.Classify(a.Description, *a.Amount, isCredit), nil

	case ConvertCurrency:
		var a convertArgs
		if err := e.decode(raw, &a); err != nil {
			return nil, err
		}

		return e.currency.ConvertToNGN(*a.Amount, a.Currency, time.Time{})

	case RunScenario:
		var a scenarioArgs
		if err := e.decode(raw, &a); err != nil {
			return nil, err
		}

		return e.scenario.Run(scenario.Input{
			ScenarioType:         a.ScenarioType,
			CurrentGrossIncome:   *a.CurrentIncome,
			ProjectedGrossIncome: a.ProjectedIncome,
			BusinessExpenses:     a.BusinessExpenses,
		})
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
}

// ExecuteJSON runs the tool and always returns a JSON document: the result,
// or {"error": "..."} when the call failed.
func (e *Executor) ExecuteJSON(ctx context.Context, name string, raw json.RawMessage) string {
	out, err := e.Execute(ctx, name, raw)
	if err != nil {
		return errorJSON(err)
	}

	b, err := json.Marshal(out)
	if err != nil {
		return errorJSON(err)
	}

	return string(b)
}

func errorJSON(err error) string {
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(b)
}
