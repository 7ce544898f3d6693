package tools

import "github.com/kudiwise/kudicore/tax"

const (
	CalculatePIT        = "calculate_pit"
	CalculateCIT        = "calculate_cit"
	CalculateVAT        = "calculate_vat"
	CalculateWHT        = "calculate_wht"
	ClassifyTransaction = "classify_transaction"
	ConvertCurrency     = "convert_currency"
	RunScenario         = "run_scenario"
)

// Definition follows the function-calling declaration format used by chat
// completion APIs.
type Definition struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

type Function struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

func number(desc string) map[string]any {
	return map[string]any{"type": "number", "description": desc}
}

func numberDefault(desc string, def any) map[string]any {
	p := number(desc)
	p["default"] = def
	return p
}

func boolean(desc string, def bool) map[string]any {
	return map[string]any{"type": "boolean", "description": desc, "default": def}
}

func enum(desc string, values []string) map[string]any {
	return map[string]any{"type": "string", "description": desc, "enum": values}
}

func object(props map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func paymentTypeNames() []string {
	out := make([]string, 0, len(tax.PaymentTypes))
	for _, pt := range tax.PaymentTypes {
		out = append(out, string(pt))
	}
	return out
}

func def(name, desc string, params map[string]any) Definition {
	return Definition{
		Type:     "function",
		Function: Function{Name: name, Description: desc, Parameters: params},
	}
}

// Definitions returns a fresh copy of every tool declaration.
func Definitions() []Definition {
	recipient := enum("Whether the recipient is an individual or company", []string{"individual", "company"})
	recipient["default"] = "company"

	return []Definition{
		def(CalculatePIT,
			"Calculate Nigerian Personal Income Tax (PIT) for an individual based on the Nigeria Tax Act 2025. Returns tax liability, effective rate, and bracket breakdown.",
			object(map[string]any{
				"gross_income":          number("Annual gross income in Naira (₦)"),
				"pension":               numberDefault("Annual pension contribution in Naira", 0),
				"nhf":                   numberDefault("Annual National Housing Fund contribution in Naira", 0),
				"nhis":                  numberDefault("Annual National Health Insurance contribution in Naira", 0),
				"life_insurance":        numberDefault("Annual life insurance premium in Naira", 0),
				"housing_loan_interest": numberDefault("Annual housing loan interest in Naira", 0),
				"annual_rent_paid":      numberDefault("Annual rent paid in Naira (20% relief, max ₦500,000)", 0),
				"is_minimum_wage":       boolean("Whether the person earns minimum wage (exempt from PIT)", false),
			}, "gross_income"),
		),
		def(CalculateCIT,
			"Calculate Nigerian Company Income Tax (CIT) for a business. Small companies (turnover ≤ ₦25M) pay 0%, others pay 30%. Includes development levy calculation.",
			object(map[string]any{
				"gross_profit":         number("Gross profit of the company in Naira"),
				"allowable_deductions": numberDefault("Total allowable deductions in Naira", 0),
				"annual_turnover":      numberDefault("Annual turnover/revenue in Naira (used to classify company size)", 0),
				"is_mne":               boolean("Whether the company is part of a multinational enterprise group", false),
			}, "gross_profit"),
		),
		def(CalculateVAT,
			"Calculate Nigerian Value Added Tax (VAT) at 7.5% on taxable supplies. Handles exempt and zero-rated supplies.",
			object(map[string]any{
				"amount":       number("Amount of the taxable supply in Naira"),
				"is_inclusive": boolean("Whether the amount already includes VAT", false),
			}, "amount"),
		),
		def(CalculateWHT,
			"Calculate Nigerian Withholding Tax (WHT) on a payment. Rates vary by payment type and recipient type.",
			object(map[string]any{
				"gross_amount":   number("Gross payment amount in Naira"),
				"payment_type":   enum("Type of payment", paymentTypeNames()),
				"recipient_type": recipient,
			}, "gross_amount", "payment_type"),
		),
		def(ClassifyTransaction,
			"Classify a financial transaction as income, expense, or capital. Determines tax relevance (VAT, WHT applicability).",
			object(map[string]any{
				"description": map[string]any{"type": "string", "description": "Description of the transaction"},
				"amount":      number("Transaction amount"),
				"is_credit":   boolean("Whether money was received (true) or paid out (false)", true),
			}, "description", "amount"),
		),
		def(ConvertCurrency,
			"Convert a foreign currency amount to Nigerian Naira (NGN) using CBN official exchange rates.",
			object(map[string]any{
				"amount":   number("Amount in the source currency"),
				"currency": enum("Source currency code", []string{"USD", "GBP", "EUR"}),
			}, "amount", "currency"),
		),
		def(RunScenario,
			"Model a 'what-if' tax scenario. Compare current vs projected tax liability based on income changes, deduction changes, or individual vs company filing.",
			object(map[string]any{
				"scenario_type":     enum("Type of scenario to model", []string{"income_change", "deduction_impact", "individual_vs_company"}),
				"current_income":    number("Current annual gross income in Naira"),
				"projected_income":  number("Projected annual gross income in Naira (for income_change scenario)"),
				"business_expenses": numberDefault("Annual business expenses in Naira (for individual_vs_company scenario)", 0),
			}, "scenario_type", "current_income"),
		),
	}
}
