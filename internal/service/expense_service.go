package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gsagg03-cmyk/erpx/internal/authz"
	"github.com/gsagg03-cmyk/erpx/internal/dto"
	"github.com/gsagg03-cmyk/erpx/internal/model"
	"github.com/gsagg03-cmyk/erpx/internal/repository"
)

type ExpenseService interface {
	Create(ctx context.Context, actor authz.Actor, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error)
	List(ctx context.Context, actor authz.Actor, filter dto.ExpenseFilter) (*dto.ExpenseListResponse, error)
}

type expenseService struct {
	repo   repository.ExpenseRepository
	policy *authz.Policy
	cache  *Cache
	loc    *time.Location
	clock  Clock
}

func NewExpenseService(repo repository.ExpenseRepository, policy *authz.Policy, cache *Cache, loc *time.Location, clock Clock) ExpenseService {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = time.Now
	}
	return &expenseService{repo: repo, policy: policy, cache: cache, loc: loc, clock: clock}
}

func (s *expenseService) Create(ctx context.Context, actor authz.Actor, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if err := s.policy.Require(actor, authz.CapExpenseManage); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, validationErr("invalid_expense", "category", "Category is required")
	}
	if !req.Amount.IsPositive() {
		return nil, validationErr("invalid_expense", "amount", "Amount must be greater than zero")
	}

	day := startOfDay(s.clock().In(s.loc))
	if req.ExpenseDate != "" {
		d, err := time.ParseInLocation("2006-01-02", req.ExpenseDate, s.loc)
		if err != nil {
			return nil, validationErr("invalid_date", "expense_date", "Expense date must be YYYY-MM-DD")
		}
		day = d
	}

	e := &model.Expense{
		BusinessID:  actor.BusinessID,
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount.Round(2),
		ExpenseDate: day,
		RecordedBy:  actor.UserID,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	s.cache.InvalidateDashboard(ctx, actor.BusinessID)
	resp := expenseToResponse(e)
	return &resp, nil
}

func (s *expenseService) List(ctx context.Context, actor authz.Actor, filter dto.ExpenseFilter) (*dto.ExpenseListResponse, error) {
	if err := s.policy.Require(actor, authz.CapExpenseManage); err != nil {
		return nil, err
	}
	period, err := parseDateRange(filter.StartDate, filter.EndDate, s.loc)
	if err != nil {
		return nil, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}

	rows, total, sum, err := s.repo.List(ctx, actor.BusinessID, period, filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ExpenseResponse, len(rows))
	for i := range rows {
		data[i] = expenseToResponse(&rows[i])
	}
	return &dto.ExpenseListResponse{Data: data, Total: total, Sum: sum, Page: filter.Page, Limit: filter.Limit}, nil
}
