package domain

import "github.com/shopspring/decimal"

type CategoryExpense struct {
	CategoryID   int64
	CategoryName string
	Total        decimal.Decimal
}
