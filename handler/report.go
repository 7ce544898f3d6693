package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kudiwise/kudicore/report"
	"github.com/labstack/echo/v4"
)

// TaxSummaryRequest computes the liabilities from the income and deduction
// lines unless use_supplied_results is set, in which case tax_results is
// reported as given.
type TaxSummaryRequest struct {
	report.SummaryInput
	UseSuppliedResults bool `json:"use_supplied_results"`
}

type ReportHandler struct {
	vl  *validator.Validate
	gen *report.Generator
}

func NewReportHandler(vl *validator.Validate, gen *report.Generator) *ReportHandler {
	return &ReportHandler{vl, gen}
}

func (h *ReportHandler) TaxSummary(c echo.Context) error {
	var req TaxSummaryRequest

	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}

	if err := h.vl.Struct(req); err != nil {
		return badRequest(c)
	}

	var (
		out report.TaxSummaryReport
		err error
	)

	if req.UseSuppliedResults {
		out, err = h.gen.TaxSummary(req.SummaryInput)
	} else {
		out, err = h.gen.YearSummary(req.SummaryInput)
	}
	if err != nil {
		return calcError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) ComplianceChecklist(c echo.Context) error {
	var req report.ChecklistInput

	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}

	if err := h.vl.Struct(req); err != nil {
		return badRequest(c)
	}

	return c.JSON(http.StatusOK, h.gen.ComplianceChecklist(req))
}
