package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kudiwise/kudicore/currency"
	"github.com/kudiwise/kudicore/database"
	"github.com/kudiwise/kudicore/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AdminRateRequest struct {
	Rate   float64 `json:"rate" validate:"required,gt=0"`
	Date   string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Source string  `json:"source" validate:"omitempty,max=32"`
}

type IRateStore interface {
	UpsertExchangeRate(ctx context.Context, r database.ExchangeRate) error
}

type AdminHandler struct {
	vl     *validator.Validate
	engine *currency.Engine
	db     IRateStore
}

// NewAdminHandler accepts a nil store, in which case overrides live only in
// the engine cache.
func NewAdminHandler(vl *validator.Validate, engine *currency.Engine, db IRateStore) *AdminHandler {
	return &AdminHandler{vl, engine, db}
}

func (a *AdminHandler) UpdateRate(c echo.Context) error {
	var req AdminRateRequest

	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}

	if err := a.vl.Struct(req); err != nil {
		return badRequest(c)
	}

	cur := strings.ToUpper(c.Param("currency"))
	if _, ok := currency.FallbackRates[cur]; !ok {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Unsupported currency",
		})
	}

	source := req.Source
	if source == "" {
		source = "manual"
	}

	rate, err := a.engine.SetRate(cur, req.Rate, parseDate(req.Date), source)
	if err != nil {
		return calcError(c, err)
	}

	if a.db != nil {
		row, err := database.FromCurrency(rate)
		if err == nil {
			err = a.db.UpsertExchangeRate(c.Request().Context(), row)
		}
		if err != nil {
			logger.Log.Error("failed to persist rate", zap.String("currency", cur), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, ResponseMsg{
				Message: "Failed to persist " + cur + " rate",
			})
		}
	}

	return c.JSON(http.StatusOK, rate)
}
