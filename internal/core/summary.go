package core

import "github.com/shopspring/decimal"

// Summary totals a filtered set of transactions.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
}

// NetSavings is income minus expense.
func (s Summary) NetSavings() decimal.Decimal {
	return s.TotalIncome.Sub(s.TotalExpense)
}

// SummaryFromCents builds a Summary from minor-unit sums.
func SummaryFromCents(income, expense int64) Summary {
	return Summary{TotalIncome: FromCents(income), TotalExpense: FromCents(expense)}
}
