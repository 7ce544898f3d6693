package tax

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWHTCalculateSingle(t *testing.T) {
	type TC struct {
		name        string
		amount      float64
		paymentType PaymentType
		recipient   RecipientType
		expectedWHT float64
		expectedNet float64
	}

	tcs := []TC{
		{name: "consultancy to individual", amount: 500_000, paymentType: PaymentConsultancy, recipient: RecipientIndividual, expectedWHT: 25_000, expectedNet: 475_000},
		{name: "consultancy to company", amount: 500_000, paymentType: PaymentConsultancy, recipient: RecipientCompany, expectedWHT: 50_000, expectedNet: 450_000},
		{name: "construction to company", amount: 2_000_000, paymentType: PaymentConstruction, recipient: RecipientCompany, expectedWHT: 100_000, expectedNet: 1_900_000},
		{name: "dividend to individual", amount: 333.33, paymentType: PaymentDividend, recipient: RecipientIndividual, expectedWHT: 33.33, expectedNet: 300},
		{name: "unlisted recipient falls back to 10%", amount: 1_000, paymentType: PaymentSupplyOfGoods, recipient: "partnership", expectedWHT: 100, expectedNet: 900},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewWHT().CalculateSingle(tc.amount, tc.paymentType, tc.recipient)

			require.NoError(t, err)
			assert.Equal(t, tc.expectedWHT, got.WHTAmount)
			assert.Equal(t, tc.expectedNet, got.NetAmount)
		})
	}
}

func TestWHTRejectsInvalidInput(t *testing.T) {
	w := NewWHT()

	_, err := w.CalculateSingle(-100, PaymentRent, RecipientCompany)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = w.CalculateSingle(100, "bribe", RecipientCompany)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = w.CalculateBatch([]Payment{{Amount: 10}, {Amount: -1}})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestWHTCalculateBatch(t *testing.T) {
	got, err := NewWHT().CalculateBatch([]Payment{
		{Amount: 1_000_000, PaymentType: PaymentContract, RecipientType: RecipientCompany},
		{Amount: 500_000, PaymentType: PaymentConsultancy, RecipientType: RecipientIndividual},
	})

	require.NoError(t, err)
	assert.Equal(t, 1_500_000.0, got.TotalGross)
	assert.Equal(t, 125_000.0, got.TotalWHT)
	assert.Equal(t, 1_375_000.0, got.TotalNet)
	assert.Len(t, got.LineItems, 2)
	assert.Equal(t, WHTTypeBreakdown{Gross: 500_000, WHT: 25_000, Rate: 5}, got.Breakdown[PaymentConsultancy])
}

func TestWHTBatchDefaultsAndLastRate(t *testing.T) {
	got, err := NewWHT().CalculateBatch([]Payment{
		{Amount: 100_000},
		{Amount: 200_000, PaymentType: PaymentConsultancy, RecipientType: RecipientCompany},
		{Amount: 100_000, PaymentType: PaymentConsultancy, RecipientType: RecipientIndividual},
	})

	require.NoError(t, err)
	assert.Equal(t, PaymentContract, got.LineItems[0].PaymentType)
	assert.Equal(t, RecipientCompany, got.LineItems[0].RecipientType)
	assert.Equal(t, WHTTypeBreakdown{Gross: 300_000, WHT: 25_000, Rate: 5}, got.Breakdown[PaymentConsultancy])
}

func TestParseTypes(t *testing.T) {
	pt, err := ParsePaymentType(" Professional_Fees ")
	require.NoError(t, err)
	assert.Equal(t, PaymentProfessionalFees, pt)

	_, err = ParsePaymentType("gift")
	assert.True(t, errors.Is(err, ErrInvalidInput))

	rt, err := ParseRecipientType("INDIVIDUAL")
	require.NoError(t, err)
	assert.Equal(t, RecipientIndividual, rt)

	_, err = ParseRecipientType("trust")
	assert.True(t, errors.Is(err, ErrInvalidInput))

	assert.Len(t, PaymentTypes, 13)
}
