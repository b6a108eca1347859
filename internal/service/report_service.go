package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gsagg03-cmyk/erpx/internal/authz"
	"github.com/gsagg03-cmyk/erpx/internal/dto"
	"github.com/gsagg03-cmyk/erpx/internal/repository"

	"github.com/google/uuid"
)

const (
	dashboardListSize = 10
	allSalesPageSize  = 50
)

// ReportService serves the owner's read-only views. Nothing here writes.
type ReportService interface {
	Dashboard(ctx context.Context, actor authz.Actor) (*dto.DashboardResponse, error)
	Dues(ctx context.Context, actor authz.Actor, filter dto.DueFilter) (*dto.DueListResponse, error)
	AllSales(ctx context.Context, actor authz.Actor, filter dto.AllSalesFilter) (*dto.AllSalesResponse, error)
	// ExportSales is AllSales without pagination.
	ExportSales(ctx context.Context, actor authz.Actor, filter dto.AllSalesFilter) (*dto.AllSalesResponse, error)
}

type reportService struct {
	repo   repository.ReportRepository
	policy *authz.Policy
	cache  *Cache
	loc    *time.Location
	clock  Clock
}

func NewReportService(repo repository.ReportRepository, policy *authz.Policy, cache *Cache, loc *time.Location, clock Clock) ReportService {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = time.Now
	}
	return &reportService{repo: repo, policy: policy, cache: cache, loc: loc, clock: clock}
}

func (s *reportService) figures(ctx context.Context, businessID uuid.UUID, period repository.Period) (dto.PeriodFigures, error) {
	var f dto.PeriodFigures
	sales, err := s.repo.SalesTotals(ctx, businessID, period)
	if err != nil {
		return f, fmt.Errorf("sales totals: %w", err)
	}
	realized, err := s.repo.RealizedProfit(ctx, businessID, period)
	if err != nil {
		return f, fmt.Errorf("realized profit: %w", err)
	}
	expenses, err := s.repo.ExpenseTotal(ctx, businessID, period)
	if err != nil {
		return f, fmt.Errorf("expenses: %w", err)
	}
	return dto.PeriodFigures{
		Sales:          sales.Sales,
		Profit:         sales.Profit,
		RealizedProfit: realized,
		Expenses:       expenses,
		CashInHand:     realized.Sub(expenses),
	}, nil
}

func (s *reportService) Dashboard(ctx context.Context, actor authz.Actor) (*dto.DashboardResponse, error) {
	if err := s.policy.Require(actor, authz.CapReportView); err != nil {
		return nil, err
	}
	var cached dto.DashboardResponse
	if s.cache.get(ctx, dashboardKey(actor.BusinessID), &cached) {
		return &cached, nil
	}

	biz := actor.BusinessID
	now := s.clock().In(s.loc)

	today, err := s.figures(ctx, biz, dayPeriod(now))
	if err != nil {
		return nil, err
	}
	month, err := s.figures(ctx, biz, monthPeriod(now))
	if err != nil {
		return nil, err
	}
	stockValue, err := s.repo.StockValue(ctx, biz)
	if err != nil {
		return nil, fmt.Errorf("stock value: %w", err)
	}
	allTime, err := s.repo.SalesTotals(ctx, biz, repository.Period{})
	if err != nil {
		return nil, fmt.Errorf("total due: %w", err)
	}
	products, err := s.repo.ProductCount(ctx, biz)
	if err != nil {
		return nil, fmt.Errorf("product count: %w", err)
	}
	managers, salesmen, err := s.repo.StaffCounts(ctx, biz, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("staff counts: %w", err)
	}
	dues, _, _, err := s.repo.DueSales(ctx, biz, "", 1, dashboardListSize)
	if err != nil {
		return nil, fmt.Errorf("due sales: %w", err)
	}
	latest, err := s.repo.LatestSales(ctx, biz, dashboardListSize)
	if err != nil {
		return nil, fmt.Errorf("latest sales: %w", err)
	}

	resp := &dto.DashboardResponse{
		Today:         today,
		Month:         month,
		StockValue:    stockValue,
		TotalDue:      allTime.Due,
		ProductCount:  products,
		ManagerCount:  managers,
		SalesmanCount: salesmen,
		DueCustomers:  salesToResponse(dues),
		LatestSales:   salesToResponse(latest),
	}
	s.cache.set(ctx, dashboardKey(biz), resp, s.cache.dashboardTTLOrZero())
	return resp, nil
}

func (s *reportService) Dues(ctx context.Context, actor authz.Actor, filter dto.DueFilter) (*dto.DueListResponse, error) {
	if err := s.policy.Require(actor, authz.CapReportView); err != nil {
		return nil, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = allSalesPageSize
	}
	rows, total, due, err := s.repo.DueSales(ctx, actor.BusinessID, filter.Search, filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}
	return &dto.DueListResponse{
		Data:     salesToResponse(rows),
		Total:    total,
		TotalDue: due,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}, nil
}

func (s *reportService) AllSales(ctx context.Context, actor authz.Actor, filter dto.AllSalesFilter) (*dto.AllSalesResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = allSalesPageSize
	}
	return s.allSales(ctx, actor, filter)
}

func (s *reportService) ExportSales(ctx context.Context, actor authz.Actor, filter dto.AllSalesFilter) (*dto.AllSalesResponse, error) {
	filter.Page, filter.Limit = 1, 0
	return s.allSales(ctx, actor, filter)
}

func (s *reportService) allSales(ctx context.Context, actor authz.Actor, filter dto.AllSalesFilter) (*dto.AllSalesResponse, error) {
	if err := s.policy.Require(actor, authz.CapReportView); err != nil {
		return nil, err
	}
	period, err := parseDateRange(filter.StartDate, filter.EndDate, s.loc)
	if err != nil {
		return nil, err
	}
	rows, total, totals, err := s.repo.AllSales(ctx, actor.BusinessID, repository.SalesQuery{
		Period:        period,
		VoucherSearch: filter.VoucherSearch,
		Page:          filter.Page,
		Limit:         filter.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &dto.AllSalesResponse{
		Data: salesToResponse(rows),
		Totals: dto.SalesTotals{
			Sales:  totals.Sales,
			Profit: totals.Profit,
			Paid:   totals.Paid,
			Due:    totals.Due,
		},
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}
