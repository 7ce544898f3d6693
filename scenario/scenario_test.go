package scenario

import (
	"errors"
	"testing"

	"github.com/kudiwise/kudicore/tax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type PITMock struct {
	mock.Mock
}

func (m *PITMock) Calculate(grossIncome float64, deductions tax.Deductions, isMinimumWageEarner bool) (tax.PITResult, error) {
	args := m.Called(grossIncome, deductions, isMinimumWageEarner)
	return args.Get(0).(tax.PITResult), args.Error(1)
}

func TestCompareIncomeChange(t *testing.T) {
	got, err := NewDefault().CompareIncomeChange(3_000_000, 4_000_000, tax.Deductions{})

	require.NoError(t, err)
	assert.Equal(t, "Income Change Scenario", got.Label)
	assert.Equal(t, 330_000.0, got.CurrentTax)
	assert.Equal(t, 510_000.0, got.ProjectedTax)
	assert.Equal(t, 180_000.0, got.Difference)
	assert.Equal(t, 54.55, got.PercentageChange)
	assert.Equal(t, 11.0, got.CurrentEffectiveRate)
	assert.Equal(t, 12.75, got.ProjectedEffectiveRate)
	require.NotNil(t, got.MarginalRate)
	assert.Equal(t, 18.0, *got.MarginalRate)
	assert.Equal(t, []string{
		"Increasing your income by ₦1,000,000.00 would increase your tax by ₦180,000.00.",
		"Your effective tax rate would increase from 11.0% to 12.75%.",
		"The marginal tax rate on the additional ₦1,000,000.00 is 18.0%.",
	}, got.Insights)
}

func TestCompareIncomeDecrease(t *testing.T) {
	got, err := NewDefault().CompareIncomeChange(4_000_000, 3_000_000, tax.Deductions{})

	require.NoError(t, err)
	assert.Equal(t, -180_000.0, got.Difference)
	assert.Nil(t, got.MarginalRate)
	assert.Equal(t, []string{
		"Decreasing your income by ₦1,000,000.00 would save you ₦180,000.00 in taxes.",
	}, got.Insights)
}

func TestCompareIncomeFromExempt(t *testing.T) {
	got, err := NewDefault().CompareIncomeChange(800_000, 800_000, tax.Deductions{})

	require.NoError(t, err)
	assert.Zero(t, got.PercentageChange)
	assert.NotNil(t, got.Insights)
	assert.Empty(t, got.Insights)
}

func TestCompareDeductionImpact(t *testing.T) {
	got, err := NewDefault().CompareDeductionImpact(
		5_000_000,
		tax.Deductions{},
		tax.Deductions{Pension: 400_000, AnnualRentPaid: 2_000_000},
	)

	require.NoError(t, err)
	assert.Equal(t, "Deduction Impact Scenario", got.Label)
	assert.Equal(t, 690_000.0, got.CurrentTax)
	assert.Equal(t, 546_000.0, got.ProjectedTax)
	assert.Equal(t, -144_000.0, got.Difference)
	assert.Equal(t, -20.87, got.PercentageChange)
	assert.Equal(t, []string{
		"Claiming an additional ₦800,000.00 in deductions would save you ₦144,000.00 in taxes.",
		"Adding rent relief (₦400,000.00) contributes to your tax savings.",
		"Pension contributions of ₦400,000.00 are tax-deductible and reduce your liability.",
	}, got.Insights)
}

func TestCompareIndividualVsCompany(t *testing.T) {
	t.Run("small company", func(t *testing.T) {
		got, err := NewDefault().CompareIndividualVsCompany(20_000_000, tax.Deductions{}, 2_000_000)

		require.NoError(t, err)
		assert.Equal(t, "Individual vs Company Scenario", got.Label)
		assert.Equal(t, 3_630_000.0, got.CurrentTax)
		assert.Zero(t, got.ProjectedTax)
		assert.Equal(t, -3_630_000.0, got.Difference)
		assert.Equal(t, -100.0, got.PercentageChange)
		assert.Equal(t, []string{
			"As a small company (turnover ≤ ₦25M), your CIT rate would be 0%. You'd save ₦3,630,000.00 compared to individual filing.",
			"Individual effective rate: 18.15% | Company effective rate: 0.0%",
			"Note: Company calculation accounts for ₦2,000,000.00 in business expenses, reducing assessable profit to ₦18,000,000.00.",
		}, got.Insights)
	})

	t.Run("large company pays more", func(t *testing.T) {
		got, err := NewDefault().CompareIndividualVsCompany(200_000_000, tax.Deductions{}, 0)

		require.NoError(t, err)
		assert.Equal(t, 47_930_000.0, got.CurrentTax)
		assert.Equal(t, 68_000_000.0, got.ProjectedTax)
		assert.Equal(t, 20_070_000.0, got.Difference)
		assert.Len(t, got.Insights, 2)
		assert.Equal(t, "Filing as an individual is currently more tax-efficient, saving you ₦20,070,000.00 compared to company filing.", got.Insights[0])
	})

	t.Run("expenses above income are rejected by CIT", func(t *testing.T) {
		_, err := NewDefault().CompareIndividualVsCompany(1_000_000, tax.Deductions{}, 2_000_000)

		assert.True(t, errors.Is(err, tax.ErrInvalidInput))
	})
}

func TestRun(t *testing.T) {
	projected := 4_000_000.0

	type TC struct {
		name          string
		input         Input
		expectedLabel string
		wantErr       bool
	}

	tcs := []TC{
		{name: "income change", input: Input{ScenarioType: IncomeChange, CurrentGrossIncome: 3_000_000, ProjectedGrossIncome: &projected}, expectedLabel: labelIncomeChange},
		{name: "deduction impact", input: Input{ScenarioType: DeductionImpact, CurrentGrossIncome: 3_000_000}, expectedLabel: labelDeductionImpact},
		{name: "individual vs company", input: Input{ScenarioType: IndividualVsCompany, CurrentGrossIncome: 3_000_000}, expectedLabel: labelIndividualVsCompany},
		{name: "unknown type", input: Input{ScenarioType: "retire_early", CurrentGrossIncome: 3_000_000}, wantErr: true},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewDefault().Run(tc.input)

			if tc.wantErr {
				assert.True(t, errors.Is(err, tax.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedLabel, got.Label)
		})
	}

	t.Run("projected income defaults to current", func(t *testing.T) {
		got, err := NewDefault().Run(Input{ScenarioType: IncomeChange, CurrentGrossIncome: 3_000_000})

		require.NoError(t, err)
		assert.Zero(t, got.Difference)
	})
}

func TestCalculatorErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	pit := new(PITMock)
	pit.On("Calculate", 1_000_000.0, tax.Deductions{}, false).Return(tax.PITResult{}, boom)

	_, err := New(pit, tax.NewCIT()).CompareIncomeChange(1_000_000, 2_000_000, tax.Deductions{})

	assert.ErrorIs(t, err, boom)
	pit.AssertExpectations(t)
}
