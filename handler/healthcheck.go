package handler

import (
	"errors"
	"net/http"

	"github.com/kudiwise/kudicore/logger"
	"github.com/kudiwise/kudicore/tax"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ResponseMsg struct {
	Message string `json:"message"`
}

func Healthcheck(c echo.Context) error {
	return c.JSON(http.StatusOK, ResponseMsg{
		Message: "KudiCore is up",
	})
}

func badRequest(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ResponseMsg{
		Message: "Bad request",
	})
}

// calcError maps calculator errors onto responses: invalid input is the
// caller's fault, anything else is ours.
func calcError(c echo.Context, err error) error {
	if errors.Is(err, tax.ErrInvalidInput) {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: err.Error(),
		})
	}

	logger.Log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))

	return c.JSON(http.StatusInternalServerError, ResponseMsg{
		Message: "Internal server error",
	})
}
