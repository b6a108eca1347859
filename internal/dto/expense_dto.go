package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateExpenseRequest struct {
	Category    string          `json:"category"     validate:"required,min=1,max=64"`
	Description string          `json:"description"  validate:"max=500"`
	Amount      decimal.Decimal `json:"amount"       validate:"required,gt=0"`
	ExpenseDate string          `json:"expense_date" validate:"omitempty,datetime=2006-01-02"`
}

type ExpenseFilter struct {
	StartDate string `form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   validate:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ExpenseResponse struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate string          `json:"expense_date"`
	RecordedBy  string          `json:"recorded_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

type ExpenseListResponse struct {
	Data  []ExpenseResponse `json:"data"`
	Total int64             `json:"total"`
	Sum   decimal.Decimal   `json:"sum"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
