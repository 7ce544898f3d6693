package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kudiwise/kudicore/classifier"
	"github.com/labstack/echo/v4"
)

type ClassifyRequest struct {
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount"`
	IsCredit    *bool   `json:"is_credit"`
}

type ClassifyResponse struct {
	classifier.Result
	CapitalCheck classifier.CapitalCheck `json:"capital_check"`
}

type TransactionHandler struct {
	vl         *validator.Validate
	classifier *classifier.Classifier
}

func NewTransactionHandler(vl *validator.Validate) *TransactionHandler {
	return &TransactionHandler{vl, classifier.New()}
}

// Classify treats a transaction as a credit unless is_credit says otherwise.
func (h *TransactionHandler) Classify(c echo.Context) error {
	var req ClassifyRequest

	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}

	if err := h.vl.Struct(req); err != nil {
		return badRequest(c)
	}

	isCredit := true
	if req.IsCredit != nil {
		isCredit = *req.IsCredit
	}

	return c.JSON(http.StatusOK, ClassifyResponse{
		Result:       h.classifier.Classify(req.Description, req.Amount, isCredit),
		CapitalCheck: h.classifier.IsCapitalVsProfit(req.Description, req.Amount),
	})
}
