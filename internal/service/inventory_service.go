package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gsagg03-cmyk/erpx/internal/authz"
	"github.com/gsagg03-cmyk/erpx/internal/dto"
	"github.com/gsagg03-cmyk/erpx/internal/model"
	"github.com/gsagg03-cmyk/erpx/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock adjustment directions.
const (
	AdjustIncrease = "increase"
	AdjustDecrease = "decrease"
)

// InventoryService owns every stock change. Each change updates the product
// and appends a StockEntry in the same transaction.
type InventoryService interface {
	AdjustStock(ctx context.Context, actor authz.Actor, productID uuid.UUID, req dto.AdjustStockRequest) (*dto.StockAdjustmentResponse, error)
	ReceiveStock(ctx context.Context, actor authz.Actor, productID uuid.UUID, req dto.ReceiveStockRequest) (*dto.StockAdjustmentResponse, error)
	ListEntries(ctx context.Context, actor authz.Actor, productID uuid.UUID, filter dto.StockEntryFilter) (*dto.StockEntryListResponse, error)

	// AdjustStockTx and ReceiveStockTx run inside the caller's transaction; p must
	// have been loaded with FindByIDForUpdate in that transaction.
	AdjustStockTx(tx *gorm.DB, actor authz.Actor, p *model.Product, direction string, qty int, note string) (*model.StockEntry, error)
	ReceiveStockTx(tx *gorm.DB, actor authz.Actor, p *model.Product, qty int, price decimal.Decimal, note string) (*model.StockEntry, error)
}

type inventoryService struct {
	products repository.ProductRepository
	entries  repository.StockEntryRepository
	policy   *authz.Policy
	cache    *Cache
}

func NewInventoryService(
	products repository.ProductRepository,
	entries repository.StockEntryRepository,
	policy *authz.Policy,
	cache *Cache,
) InventoryService {
	return &inventoryService{products: products, entries: entries, policy: policy, cache: cache}
}

func (s *inventoryService) AdjustStock(ctx context.Context, actor authz.Actor, productID uuid.UUID, req dto.AdjustStockRequest) (*dto.StockAdjustmentResponse, error) {
	if err := s.policy.Require(actor, authz.CapStockAdjust); err != nil {
		return nil, err
	}
	return s.lockedChange(ctx, actor, productID, func(tx *gorm.DB, p *model.Product) (*model.StockEntry, error) {
		return s.AdjustStockTx(tx, actor, p, req.Direction, req.Quantity, req.Note)
	})
}

func (s *inventoryService) ReceiveStock(ctx context.Context, actor authz.Actor, productID uuid.UUID, req dto.ReceiveStockRequest) (*dto.StockAdjustmentResponse, error) {
	if err := s.policy.Require(actor, authz.CapStockReceive); err != nil {
		return nil, err
	}
	return s.lockedChange(ctx, actor, productID, func(tx *gorm.DB, p *model.Product) (*model.StockEntry, error) {
		return s.ReceiveStockTx(tx, actor, p, req.Quantity, req.PurchasePrice, req.Note)
	})
}

func (s *inventoryService) lockedChange(
	ctx context.Context,
	actor authz.Actor,
	productID uuid.UUID,
	change func(tx *gorm.DB, p *model.Product) (*model.StockEntry, error),
) (*dto.StockAdjustmentResponse, error) {
	var product *model.Product
	var entry *model.StockEntry
	err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		p, err := s.products.FindByIDForUpdate(tx, productID)
		if err != nil {
			return lookupErr(err, "product")
		}
		if !actor.Owns(p.BusinessID) {
			return errCrossTenant
		}
		entry, err = change(tx, p)
		product = p
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.ForgetSKU(ctx, product.BusinessID, product.SKU)
	s.cache.InvalidateDashboard(ctx, product.BusinessID)
	return &dto.StockAdjustmentResponse{
		Product: productToResponse(product),
		Entry:   stockEntryToResponse(entry),
	}, nil
}

func (s *inventoryService) AdjustStockTx(tx *gorm.DB, actor authz.Actor, p *model.Product, direction string, qty int, note string) (*model.StockEntry, error) {
	if qty <= 0 {
		return nil, validationErr("invalid_quantity", "quantity", "Quantity must be greater than zero")
	}

	var delta int
	var kind string
	switch direction {
	case AdjustIncrease:
		delta, kind = qty, model.StockAdjustIncrease
	case AdjustDecrease:
		delta, kind = -qty, model.StockAdjustDecrease
	default:
		return nil, validationErr("invalid_direction", "direction", "Direction must be increase or decrease")
	}

	if p.CurrentStock+delta < 0 {
		return nil, insufficientStock(p, qty)
	}
	return s.apply(tx, actor, p, delta, kind, p.PurchasePrice, note)
}

func (s *inventoryService) ReceiveStockTx(tx *gorm.DB, actor authz.Actor, p *model.Product, qty int, price decimal.Decimal, note string) (*model.StockEntry, error) {
	if qty <= 0 {
		return nil, validationErr("invalid_quantity", "quantity", "Quantity must be greater than zero")
	}
	if price.IsNegative() {
		return nil, validationErr("invalid_price", "purchase_price", "Purchase price cannot be negative")
	}
	if !price.IsZero() && !price.Equal(p.PurchasePrice) {
		p.PurchasePrice = price
		if err := s.products.UpdateDetailsTx(tx, p); err != nil {
			return nil, fmt.Errorf("update purchase price: %w", err)
		}
	}
	return s.apply(tx, actor, p, qty, model.StockReceive, p.PurchasePrice, note)
}

func (s *inventoryService) apply(tx *gorm.DB, actor authz.Actor, p *model.Product, delta int, kind string, price decimal.Decimal, note string) (*model.StockEntry, error) {
	if err := s.products.UpdateStockTx(tx, p.ID, delta); err != nil {
		if errors.Is(err, repository.ErrStockUnderflow) {
			return nil, insufficientStock(p, -delta)
		}
		return nil, fmt.Errorf("update stock: %w", err)
	}

	entry := &model.StockEntry{
		BusinessID:    p.BusinessID,
		ProductID:     p.ID,
		Kind:          kind,
		Quantity:      delta,
		PurchasePrice: price,
		StockBefore:   p.CurrentStock,
		StockAfter:    p.CurrentStock + delta,
		Note:          note,
		AddedBy:       actor.UserID,
	}
	if err := s.entries.CreateTx(tx, entry); err != nil {
		return nil, fmt.Errorf("append stock entry: %w", err)
	}
	p.CurrentStock += delta
	return entry, nil
}

func (s *inventoryService) ListEntries(ctx context.Context, actor authz.Actor, productID uuid.UUID, filter dto.StockEntryFilter) (*dto.StockEntryListResponse, error) {
	if err := s.policy.Require(actor, authz.CapProductView); err != nil {
		return nil, err
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, lookupErr(err, "product")
	}
	if !actor.Owns(p.BusinessID) {
		return nil, errCrossTenant
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}

	rows, total, err := s.entries.ListByProduct(ctx, productID, filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.StockEntryResponse, len(rows))
	for i := range rows {
		data[i] = stockEntryToResponse(&rows[i])
	}
	return &dto.StockEntryListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func insufficientStock(p *model.Product, want int) *Error {
	return validationErr("insufficient_stock", "quantity",
		fmt.Sprintf("Cannot remove %d units of %s: only %d in stock", want, p.Name, p.CurrentStock))
}
