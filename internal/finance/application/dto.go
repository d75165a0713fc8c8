package application

import (
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	"github.com/shopspring/decimal"
)

type CategoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type TransactionDTO struct {
	ID           int64                  `json:"id"`
	Amount       decimal.Decimal        `json:"amount"`
	Description  string                 `json:"description"`
	Date         domain.Date            `json:"date"`
	Type         domain.TransactionType `json:"type"`
	CategoryID   int64                  `json:"categoryId"`
	CategoryName string                 `json:"categoryName"`
}

type BalanceDTO struct {
	TotalIncome    decimal.Decimal `json:"totalIncome"`
	TotalExpense   decimal.Decimal `json:"totalExpense"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
}

type CategoryExpenseDTO struct {
	CategoryName string          `json:"categoryName"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

func toCategoryDTO(c domain.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name}
}

func toTransactionDTO(t domain.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:           t.ID,
		Amount:       t.Amount,
		Description:  t.Description,
		Date:         t.Date,
		Type:         t.Type,
		CategoryID:   t.CategoryID,
		CategoryName: t.CategoryName,
	}
}
