package repository

import (
	"context"
	"time"

	"github.com/gsagg03-cmyk/erpx/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Period is a half-open [From, To) time window; nil bounds are open.
type Period struct {
	From *time.Time
	To   *time.Time
}

func (p Period) apply(q *gorm.DB, column string) *gorm.DB {
	if p.From != nil {
		q = q.Where(column+" >= ?", *p.From)
	}
	if p.To != nil {
		q = q.Where(column+" < ?", *p.To)
	}
	return q
}

type ExpenseRepository interface {
	Create(ctx context.Context, e *model.Expense) error
	// List returns one page plus the row count and amount sum of the whole window.
	List(ctx context.Context, businessID uuid.UUID, period Period, page, limit int) ([]model.Expense, int64, decimal.Decimal, error)
}

type expenseRepo struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) ExpenseRepository { return &expenseRepo{db: db} }

func (r *expenseRepo) Create(ctx context.Context, e *model.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *expenseRepo) List(ctx context.Context, businessID uuid.UUID, period Period, page, limit int) ([]model.Expense, int64, decimal.Decimal, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&model.Expense{}).Where("business_id = ?", businessID)
		return period.apply(q, "expense_date")
	}

	var agg struct {
		N   int64
		Sum decimal.Decimal
	}
	if err := base().Select("COUNT(*) AS n, COALESCE(SUM(amount), 0) AS sum").Scan(&agg).Error; err != nil {
		return nil, 0, decimal.Zero, err
	}

	var rows []model.Expense
	err := base().Order("expense_date DESC, created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&rows).Error
	return rows, agg.N, agg.Sum, err
}
