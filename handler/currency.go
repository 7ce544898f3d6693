package handler

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kudiwise/kudicore/currency"
	"github.com/labstack/echo/v4"
)

type ConvertRequest struct {
	Amount   *float64 `json:"amount" validate:"required,gte=0"`
	Currency string   `json:"currency" validate:"required,len=3,alpha"`
	Date     string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type LegRequest struct {
	Amount   float64 `json:"amount" validate:"gte=0"`
	Currency string  `json:"currency" validate:"required,len=3,alpha"`
	Date     string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type ForexRequest struct {
	Acquisition LegRequest `json:"acquisition"`
	Disposal    LegRequest `json:"disposal"`
	IsRealized  bool       `json:"is_realized"`
}

type RatesResponse struct {
	Rates []currency.ExchangeRate `json:"rates"`
}

type CurrencyHandler struct {
	vl     *validator.Validate
	engine *currency.Engine
}

func NewCurrencyHandler(vl *validator.Validate, engine *currency.Engine) *CurrencyHandler {
	return &CurrencyHandler{vl, engine}
}

// parseDate reads a validated YYYY-MM-DD string. Empty means today.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	d, _ := time.Parse(currency.DateLayout, s)
	return d
}

func (h *CurrencyHandler) Convert(c echo.Context) error {
	var req ConvertRequest

	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}

	if err := h.vl.Struct(req); err != nil {
		return badRequest(c)
	}

	result, err := h.engine.ConvertToNGN(*req.Amount, req.Currency, parseDate(req.Date))
	if err != nil {
		return calcError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *CurrencyHandler) ForexGainLoss(c echo.Context) error {
	var req ForexRequest

	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}

	if err := h.vl.Struct(req); err != nil {
		return badRequest(c)
	}

	result, err := h.engine.ForexGainLoss(
		currency.Leg{Amount: req.Acquisition.Amount, Currency: req.Acquisition.Currency, Date: parseDate(req.Acquisition.Date)},
		currency.Leg{Amount: req.Disposal.Amount, Currency: req.Disposal.Currency, Date: parseDate(req.Disposal.Date)},
		req.IsRealized,
	)
	if err != nil {
		return calcError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *CurrencyHandler) Rates(c echo.Context) error {
	return c.JSON(http.StatusOK, RatesResponse{
		Rates: h.engine.Snapshot(),
	})
}
