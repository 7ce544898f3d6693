package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kudiwise/kudicore/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReportHandler() *ReportHandler {
	gen := report.NewDefault(
		report.WithClock(func() time.Time { return time.Date(2026, time.April, 5, 9, 0, 0, 0, time.UTC) }),
		report.WithIDGenerator(func() string { return "rep-1" }),
	)

	return NewReportHandler(validator.New(), gen)
}

func TestReportTaxSummary(t *testing.T) {
	h := newTestReportHandler()

	t.Run("computes liabilities from lines", func(t *testing.T) {
		c, rec := jsonContext(http.MethodPost, "/reports/tax-summary", map[string]any{
			"user_name": "Ada",
			"user_type": "freelancer",
			"year":      2025,
			"income": []map[string]any{
				{"category": "freelance", "amount": 2_000_000},
				{"amount": 1_000_000},
			},
			"tax_results": map[string]any{"vat": 15_000, "pit": 999},
		})

		assert.NoError(t, h.TaxSummary(c))

		var got report.TaxSummaryReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "rep-1", got.ReportID)
		assert.Equal(t, 3_000_000.0, got.TotalIncome)
		assert.Equal(t, 330_000.0, got.PITLiability)
		assert.Equal(t, 15_000.0, got.VATLiability)
		assert.Equal(t, 345_000.0, got.TotalTaxLiability)
		assert.Equal(t, "Other", got.IncomeBreakdown[1].Label)
	})

	t.Run("reports supplied results", func(t *testing.T) {
		c, rec := jsonContext(http.MethodPost, "/reports/tax-summary", map[string]any{
			"user_type":            "sme",
			"year":                 2025,
			"use_supplied_results": true,
			"income":               []map[string]any{{"category": "sales", "amount": 10_000_000}},
			"tax_results":          map[string]any{"cit": 3_000_000, "development_levy": 400_000, "wht": 50_000},
		})

		assert.NoError(t, h.TaxSummary(c))

		var got report.TaxSummaryReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 3_400_000.0, got.TotalTaxLiability)
		assert.Equal(t, 50_000.0, got.WHTDeducted)
		assert.Equal(t, 34.0, got.EffectiveRate)
	})

	t.Run("bad user type", func(t *testing.T) {
		c, rec := jsonContext(http.MethodPost, "/reports/tax-summary", map[string]any{"user_type": "cat", "year": 2025})

		assert.NoError(t, h.TaxSummary(c))
		assertErrResp(t, rec, http.StatusBadRequest, "Bad request")
	})

	t.Run("negative line", func(t *testing.T) {
		c, rec := jsonContext(http.MethodPost, "/reports/tax-summary", map[string]any{
			"user_type": "individual",
			"year":      2025,
			"income":    []map[string]any{{"amount": -5}},
		})

		assert.NoError(t, h.TaxSummary(c))
		assertErrResp(t, rec, http.StatusBadRequest, "Bad request")
	})
}

func TestReportComplianceChecklist(t *testing.T) {
	h := newTestReportHandler()

	c, rec := jsonContext(http.MethodPost, "/reports/compliance-checklist", map[string]any{
		"user_name":     "Ada",
		"user_type":     "individual",
		"year":          2025,
		"filed_returns": []string{"tcc"},
	})

	assert.NoError(t, h.ComplianceChecklist(c))

	var got report.ComplianceChecklist
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Items, 2)
	assert.Equal(t, report.StatusOverdue, got.Items[0].Status)
	assert.Equal(t, report.StatusCompleted, got.Items[1].Status)
	assert.Equal(t, "1/2 compliance items completed for 2025.", got.Summary)
	assert.Equal(t, "2026-04-05T09:00:00Z", got.GeneratedAt)
}
