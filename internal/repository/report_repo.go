package repository

import (
	"context"
	"strings"

	"github.com/gsagg03-cmyk/erpx/internal/authz"
	"github.com/gsagg03-cmyk/erpx/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesQuery filters the all-sales listing. Limit 0 returns every row (export).
type SalesQuery struct {
	Period        Period
	VoucherSearch string
	Page          int
	Limit         int
}

// SalesTotals are sums over a filtered set of sales.
type SalesTotals struct {
	Sales  decimal.Decimal
	Profit decimal.Decimal
	Paid   decimal.Decimal
	Due    decimal.Decimal
}

// ReportRepository runs the read-only aggregations behind the owner dashboard.
// Every method is scoped to one business.
type ReportRepository interface {
	SalesTotals(ctx context.Context, businessID uuid.UUID, period Period) (SalesTotals, error)
	RealizedProfit(ctx context.Context, businessID uuid.UUID, period Period) (decimal.Decimal, error)
	ExpenseTotal(ctx context.Context, businessID uuid.UUID, period Period) (decimal.Decimal, error)
	StockValue(ctx context.Context, businessID uuid.UUID) (decimal.Decimal, error)
	ProductCount(ctx context.Context, businessID uuid.UUID) (int64, error)
	// StaffCounts counts managers created by owner and salesmen created by those managers.
	StaffCounts(ctx context.Context, businessID, ownerID uuid.UUID) (managers, salesmen int64, err error)
	DueSales(ctx context.Context, businessID uuid.UUID, search string, page, limit int) ([]model.Sale, int64, decimal.Decimal, error)
	LatestSales(ctx context.Context, businessID uuid.UUID, n int) ([]model.Sale, error)
	AllSales(ctx context.Context, businessID uuid.UUID, q SalesQuery) ([]model.Sale, int64, SalesTotals, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) sales(ctx context.Context, businessID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Sale{}).Where("business_id = ?", businessID)
}

func (r *reportRepo) sumSales(q *gorm.DB) (SalesTotals, error) {
	var row struct {
		Sales  decimal.Decimal
		Profit decimal.Decimal
		Paid   decimal.Decimal
		Due    decimal.Decimal
	}
	err := q.Select(`COALESCE(SUM(total_amount), 0) AS sales,
		COALESCE(SUM(profit), 0) AS profit,
		COALESCE(SUM(paid_amount), 0) AS paid,
		COALESCE(SUM(due_amount), 0) AS due`).Scan(&row).Error
	return SalesTotals{Sales: row.Sales, Profit: row.Profit, Paid: row.Paid, Due: row.Due}, err
}

func (r *reportRepo) SalesTotals(ctx context.Context, businessID uuid.UUID, period Period) (SalesTotals, error) {
	return r.sumSales(period.apply(r.sales(ctx, businessID), "created_at"))
}

func (r *reportRepo) RealizedProfit(ctx context.Context, businessID uuid.UUID, period Period) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	q := r.db.WithContext(ctx).Model(&model.ProfitRealization{}).Where("business_id = ?", businessID)
	err := period.apply(q, "payment_date").Select("COALESCE(SUM(profit_amount), 0) AS total").Scan(&row).Error
	return row.Total, err
}

func (r *reportRepo) ExpenseTotal(ctx context.Context, businessID uuid.UUID, period Period) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	q := r.db.WithContext(ctx).Model(&model.Expense{}).Where("business_id = ?", businessID)
	err := period.apply(q, "expense_date").Select("COALESCE(SUM(amount), 0) AS total").Scan(&row).Error
	return row.Total, err
}

func (r *reportRepo) StockValue(ctx context.Context, businessID uuid.UUID) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("business_id = ?", businessID).
		Select("COALESCE(SUM(current_stock * purchase_price), 0) AS total").
		Scan(&row).Error
	return row.Total, err
}

func (r *reportRepo) ProductCount(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("business_id = ?", businessID).Count(&n).Error
	return n, err
}

func (r *reportRepo) StaffCounts(ctx context.Context, businessID, ownerID uuid.UUID) (int64, int64, error) {
	var managers, salesmen int64
	managerIDs := r.db.WithContext(ctx).Model(&model.User{}).Select("id").
		Where("business_id = ? AND role = ? AND created_by = ?", businessID, string(authz.RoleManager), ownerID)

	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("business_id = ? AND role = ? AND created_by = ?", businessID, string(authz.RoleManager), ownerID).
		Count(&managers).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("business_id = ? AND role = ? AND created_by IN (?)", businessID, string(authz.RoleSalesman), managerIDs).
		Count(&salesmen).Error; err != nil {
		return 0, 0, err
	}
	return managers, salesmen, nil
}

func (r *reportRepo) DueSales(ctx context.Context, businessID uuid.UUID, search string, page, limit int) ([]model.Sale, int64, decimal.Decimal, error) {
	base := func() *gorm.DB {
		q := r.sales(ctx, businessID).Where("due_amount > 0")
		if s := strings.TrimSpace(search); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			q = q.Where("LOWER(customer_phone) LIKE ? OR LOWER(voucher_number) LIKE ? OR LOWER(customer_name) LIKE ?",
				like, like, like)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, decimal.Zero, err
	}
	sums, err := r.sumSales(base())
	if err != nil {
		return nil, 0, decimal.Zero, err
	}

	var rows []model.Sale
	err = base().Preload("Product").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&rows).Error
	return rows, total, sums.Due, err
}

func (r *reportRepo) LatestSales(ctx context.Context, businessID uuid.UUID, n int) ([]model.Sale, error) {
	var rows []model.Sale
	err := r.sales(ctx, businessID).Preload("Product").Preload("User").
		Order("created_at DESC").Limit(n).Find(&rows).Error
	return rows, err
}

func (r *reportRepo) AllSales(ctx context.Context, businessID uuid.UUID, q SalesQuery) ([]model.Sale, int64, SalesTotals, error) {
	base := func() *gorm.DB {
		db := q.Period.apply(r.sales(ctx, businessID), "created_at")
		if s := strings.TrimSpace(q.VoucherSearch); s != "" {
			db = db.Where("LOWER(voucher_number) LIKE ?", "%"+strings.ToLower(s)+"%")
		}
		return db
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, SalesTotals{}, err
	}
	totals, err := r.sumSales(base())
	if err != nil {
		return nil, 0, SalesTotals{}, err
	}

	var rows []model.Sale
	list := base().Preload("Product").Preload("User").Order("created_at DESC")
	if q.Limit > 0 {
		list = list.Offset((q.Page - 1) * q.Limit).Limit(q.Limit)
	}
	err = list.Find(&rows).Error
	return rows, total, totals, err
}
