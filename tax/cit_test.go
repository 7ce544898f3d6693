package tax

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCompany(t *testing.T) {
	type TC struct {
		turnover float64
		expected CompanySize
	}

	tcs := []TC{
		{turnover: 0, expected: CompanySmall},
		{turnover: 25_000_000, expected: CompanySmall},
		{turnover: 25_000_001, expected: CompanyMedium},
		{turnover: 100_000_000, expected: CompanyMedium},
		{turnover: 100_000_001, expected: CompanyLarge},
	}

	for _, tc := range tcs {
		if got := ClassifyCompany(tc.turnover); got != tc.expected {
			t.Errorf("turnover %v: expected %v, but got %v", tc.turnover, tc.expected, got)
		}
	}
}

func TestCITCalculate(t *testing.T) {
	type TC struct {
		name     string
		input    CITInput
		expected CITResult
	}

	tcs := []TC{
		{
			name:  "small company pays no CIT or levy",
			input: CITInput{GrossProfit: 5_000_000, AnnualTurnover: 20_000_000},
			expected: CITResult{
				CompanySize:      CompanySmall,
				GrossProfit:      5_000_000,
				AssessableProfit: 5_000_000,
				Breakdown:        CITBreakdown{},
			},
		},
		{
			name:  "medium company pays 30% and the levy",
			input: CITInput{GrossProfit: 10_000_000, AnnualTurnover: 50_000_000},
			expected: CITResult{
				CompanySize:       CompanyMedium,
				GrossProfit:       10_000_000,
				AssessableProfit:  10_000_000,
				CITRate:           0.30,
				CITLiability:      3_000_000,
				DevelopmentLevy:   400_000,
				TotalTaxLiability: 3_400_000,
				EffectiveRate:     34,
				Breakdown: CITBreakdown{
					CITRateApplied:        30,
					CITAmount:             3_000_000,
					DevelopmentLevyRate:   4,
					DevelopmentLevyAmount: 400_000,
				},
			},
		},
		{
			name:  "deductions above profit leave nothing assessable",
			input: CITInput{GrossProfit: 1_000_000, AllowableDeductions: 3_000_000, AnnualTurnover: 200_000_000},
			expected: CITResult{
				CompanySize:         CompanyLarge,
				GrossProfit:         1_000_000,
				AllowableDeductions: 3_000_000,
				CITRate:             0.30,
				Breakdown: CITBreakdown{
					CITRateApplied:      30,
					DevelopmentLevyRate: 4,
				},
			},
		},
		{
			name: "explicit size overrides turnover and the minimum rate tops up CIT",
			input: CITInput{
				GrossProfit:    10_000_000,
				AnnualTurnover: 500_000_000,
				IsMNE:          true,
				CompanySize:    CompanySmall,
			},
			expected: CITResult{
				CompanySize:       CompanySmall,
				GrossProfit:       10_000_000,
				AssessableProfit:  10_000_000,
				CITLiability:      1_500_000,
				TotalTaxLiability: 1_500_000,
				EffectiveRate:     15,
				MinimumTaxApplied: true,
				Breakdown: CITBreakdown{
					CITAmount: 1_500_000,
				},
			},
		},
	}

	t.Parallel()

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewCIT().Calculate(tc.input)

			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCITMultinationalAboveMinimum(t *testing.T) {
	got, err := NewCIT().Calculate(CITInput{GrossProfit: 100_000_000, AnnualTurnover: 30_000_000_000})

	require.NoError(t, err)
	assert.Equal(t, CompanyLarge, got.CompanySize)
	assert.False(t, got.MinimumTaxApplied)
	assert.Equal(t, 34_000_000.0, got.TotalTaxLiability)
}

func TestCITMinimumRateOnTinyProfit(t *testing.T) {
	got, err := NewCIT().Calculate(CITInput{GrossProfit: 0.01, AnnualTurnover: 30_000_000_000})

	require.NoError(t, err)
	assert.False(t, got.MinimumTaxApplied)
	assert.Zero(t, got.CITLiability)
	assert.Zero(t, got.TotalTaxLiability)
}

func TestCITRejectsInvalidInput(t *testing.T) {
	tcs := map[string]CITInput{
		"negative gross profit": {GrossProfit: -1},
		"negative deductions":   {GrossProfit: 1, AllowableDeductions: -1},
		"negative turnover":     {GrossProfit: 1, AnnualTurnover: -1},
		"unknown company size":  {GrossProfit: 1, CompanySize: "huge"},
	}

	for name, in := range tcs {
		t.Run(name, func(t *testing.T) {
			_, err := NewCIT().Calculate(in)

			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}
