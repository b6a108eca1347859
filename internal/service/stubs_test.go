package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gsagg03-cmyk/erpx/internal/authz"
	"github.com/gsagg03-cmyk/erpx/internal/dto"
	"github.com/gsagg03-cmyk/erpx/internal/model"
	"github.com/gsagg03-cmyk/erpx/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repositories. Every DB() returns nil so runTx calls fn(nil)
// directly. Lookups return copies, like rows read from a database, so a
// rejected operation can be checked for leaving stored state untouched.

var fixedNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ownerOf(biz uuid.UUID) authz.Actor {
	return authz.Actor{BusinessID: biz, UserID: uuid.New(), Role: authz.RoleOwner}
}

func actorAs(biz uuid.UUID, role authz.Role) authz.Actor {
	return authz.Actor{BusinessID: biz, UserID: uuid.New(), Role: role}
}

// ── Products ─────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: map[uuid.UUID]*model.Product{}}
}

func (r *stubProductRepo) add(p model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = &p
	return &p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error { return r.CreateTx(nil, p) }

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	return r.FindByIDForUpdate(nil, id)
}

func (r *stubProductRepo) FindBySKU(_ context.Context, biz uuid.UUID, sku string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.BusinessID == biz && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) SKUExists(_ context.Context, biz uuid.UUID, sku string, exclude *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.BusinessID == biz && p.SKU == sku && (exclude == nil || p.ID != *exclude) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductRepo) List(_ context.Context, biz uuid.UUID, f dto.ProductFilter) ([]model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if p.BusinessID != biz {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.SKU), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) UpdateDetailsTx(_ *gorm.DB, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.products[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Name, stored.SKU = p.Name, p.SKU
	stored.PurchasePrice, stored.SellPrice = p.PurchasePrice, p.SellPrice
	return nil
}

func (r *stubProductRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if p.CurrentStock+delta < 0 {
		return repository.ErrStockUnderflow
	}
	p.CurrentStock += delta
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

func (r *stubProductRepo) stock(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].CurrentStock
}

// ── Stock entries ────────────────────────────────────────────────────────────

type stubStockEntryRepo struct {
	entries []model.StockEntry
}

func (r *stubStockEntryRepo) CreateTx(_ *gorm.DB, e *model.StockEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubStockEntryRepo) ListByProduct(_ context.Context, productID uuid.UUID, _, _ int) ([]model.StockEntry, int64, error) {
	var out []model.StockEntry
	for _, e := range r.entries {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

// ── Sales ────────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	mu    sync.Mutex
	sales map[uuid.UUID]*model.Sale
}

func newStubSaleRepo() *stubSaleRepo { return &stubSaleRepo{sales: map[uuid.UUID]*model.Sale{}} }

func (r *stubSaleRepo) add(s model.Sale) *model.Sale {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales[s.ID] = &s
	return &s
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	cp.Product, cp.User, cp.Realizations = nil, nil, nil
	r.sales[s.ID] = &cp
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	return r.FindByIDForUpdate(nil, id)
}

func (r *stubSaleRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubSaleRepo) UpdatePaymentTx(_ *gorm.DB, s *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sales[s.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.PaidAmount, stored.DueAmount = s.PaidAmount, s.DueAmount
	return nil
}

func (r *stubSaleRepo) CountByProduct(_ context.Context, productID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.sales {
		if s.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (r *stubSaleRepo) List(_ context.Context, biz uuid.UUID, userID *uuid.UUID, _, _ int) ([]model.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for _, s := range r.sales {
		if s.BusinessID == biz && (userID == nil || s.UserID == *userID) {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

// ── Profit realizations ──────────────────────────────────────────────────────

type stubRealizationRepo struct {
	mu   sync.Mutex
	rows []model.ProfitRealization
}

func (r *stubRealizationRepo) CreateTx(_ *gorm.DB, pr *model.ProfitRealization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pr.ID == uuid.Nil {
		pr.ID = uuid.New()
	}
	r.rows = append(r.rows, *pr)
	return nil
}

func (r *stubRealizationRepo) SumProfitBySaleTx(_ *gorm.DB, saleID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, pr := range r.rows {
		if pr.SaleID == saleID {
			sum = sum.Add(pr.ProfitAmount)
		}
	}
	return sum, nil
}

func (r *stubRealizationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProfitRealization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pr := range r.rows {
		if pr.ID == id {
			cp := pr
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRealizationRepo) ListBySale(_ context.Context, saleID uuid.UUID) ([]model.ProfitRealization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ProfitRealization
	for _, pr := range r.rows {
		if pr.SaleID == saleID {
			out = append(out, pr)
		}
	}
	return out, nil
}

// ── Voucher sequences ────────────────────────────────────────────────────────

// stubVoucherSeq serializes like the locked counter row does.
type stubVoucherSeq struct {
	mu       sync.Mutex
	counters map[string]int
}

func newStubVoucherSeq() *stubVoucherSeq { return &stubVoucherSeq{counters: map[string]int{}} }

func (s *stubVoucherSeq) NextTx(_ *gorm.DB, biz uuid.UUID, prefix, day string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%s|%s|%s", biz, prefix, day)
	s.counters[key]++
	return s.counters[key], nil
}

// ── Businesses & users ───────────────────────────────────────────────────────

type stubBusinessRepo struct {
	businesses map[uuid.UUID]*model.Business
}

func newStubBusinessRepo() *stubBusinessRepo {
	return &stubBusinessRepo{businesses: map[uuid.UUID]*model.Business{}}
}

func (r *stubBusinessRepo) CreateTx(_ *gorm.DB, b *model.Business) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	cp := *b
	r.businesses[b.ID] = &cp
	return nil
}

func (r *stubBusinessRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Business, error) {
	b, ok := r.businesses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *stubBusinessRepo) DB() *gorm.DB { return nil }

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo { return &stubUserRepo{users: map[uuid.UUID]*model.User{}} }

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error { return r.CreateTx(nil, u) }

func (r *stubUserRepo) CreateTx(_ *gorm.DB, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username || (u.Email != nil && *u.Email == username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) ListByBusiness(_ context.Context, biz uuid.UUID, createdBy *uuid.UUID) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.BusinessID != biz {
			continue
		}
		if createdBy != nil && (u.CreatedBy == nil || *u.CreatedBy != *createdBy) {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}
