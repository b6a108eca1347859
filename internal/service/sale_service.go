package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gsagg03-cmyk/erpx/internal/authz"
	"github.com/gsagg03-cmyk/erpx/internal/dto"
	"github.com/gsagg03-cmyk/erpx/internal/model"
	"github.com/gsagg03-cmyk/erpx/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	RecordSale(ctx context.Context, actor authz.Actor, req dto.RecordSaleRequest) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, actor authz.Actor, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, actor authz.Actor, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	repo     repository.SaleRepository
	products repository.ProductRepository
	realizer *profitRealizer
	vouchers *VoucherIssuer
	policy   *authz.Policy
	cache    *Cache
}

func NewSaleService(
	repo repository.SaleRepository,
	products repository.ProductRepository,
	realizations repository.ProfitRealizationRepository,
	vouchers *VoucherIssuer,
	policy *authz.Policy,
	cache *Cache,
) SaleService {
	return &saleService{
		repo:     repo,
		products: products,
		realizer: &profitRealizer{sales: repo, realizations: realizations, vouchers: vouchers},
		vouchers: vouchers,
		policy:   policy,
		cache:    cache,
	}
}

// ── RecordSale ────────────────────────────────────────────────────────────────
// One transaction:
//   1. lock the product row and check stock
//   2. price the sale: total = qty × unit price, profit = total − qty × purchase price
//   3. issue the V- voucher, decrement stock, insert the sale
//   4. realize the up-front payment, if any, like any later payment

func (s *saleService) RecordSale(ctx context.Context, actor authz.Actor, req dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	if err := s.policy.Require(actor, authz.CapSaleRecord); err != nil {
		return nil, err
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, validationErr("invalid_product", "product_id", "Product id is not valid")
	}
	if req.Quantity <= 0 {
		return nil, validationErr("invalid_quantity", "quantity", "Quantity must be greater than zero")
	}
	if req.PaidAmount.IsNegative() {
		return nil, validationErr("invalid_payment_amount", "paid_amount", "Paid amount cannot be negative")
	}
	if req.UnitPrice != nil && req.UnitPrice.IsNegative() {
		return nil, validationErr("invalid_price", "unit_price", "Unit price cannot be negative")
	}

	var sale model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.products.FindByIDForUpdate(tx, productID)
		if err != nil {
			return lookupErr(err, "product")
		}
		if !actor.Owns(p.BusinessID) {
			return errCrossTenant
		}
		if p.CurrentStock < req.Quantity {
			return insufficientStock(p, req.Quantity)
		}

		unitPrice := p.SellPrice
		if req.UnitPrice != nil {
			unitPrice = *req.UnitPrice
		}
		qty := decimal.NewFromInt(int64(req.Quantity))
		total := unitPrice.Mul(qty).Round(2)
		if req.PaidAmount.GreaterThan(total) {
			return validationErr("paid_exceeds_total", "paid_amount",
				fmt.Sprintf("Paid amount %s exceeds the sale total %s", req.PaidAmount.StringFixed(2), total.StringFixed(2)))
		}

		now := s.vouchers.Now()
		voucher, err := s.vouchers.Issue(tx, actor.BusinessID, SaleVoucherPrefix, now)
		if err != nil {
			return err
		}

		if err := s.products.UpdateStockTx(tx, p.ID, -req.Quantity); err != nil {
			if errors.Is(err, repository.ErrStockUnderflow) {
				return insufficientStock(p, req.Quantity)
			}
			return fmt.Errorf("decrement stock: %w", err)
		}
		p.CurrentStock -= req.Quantity

		sale = model.Sale{
			BusinessID:    actor.BusinessID,
			VoucherNumber: voucher,
			ProductID:     p.ID,
			UserID:        actor.UserID,
			Quantity:      req.Quantity,
			UnitPrice:     unitPrice,
			UnitCost:      p.PurchasePrice,
			TotalAmount:   total,
			Profit:        total.Sub(p.PurchasePrice.Mul(qty)).Round(2),
			PaidAmount:    decimal.Zero,
			DueAmount:     total,
			CustomerName:  strings.TrimSpace(req.CustomerName),
			CustomerPhone: strings.TrimSpace(req.CustomerPhone),
			CreatedAt:     now,
		}
		if err := s.repo.CreateTx(tx, &sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}

		if req.PaidAmount.IsPositive() {
			pr, err := s.realizer.realize(tx, &sale, req.PaidAmount, decimal.Zero, actor.UserID, now)
			if err != nil {
				return err
			}
			sale.Realizations = append(sale.Realizations, *pr)
		}
		sale.Product = p
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.cache.ForgetSKU(ctx, actor.BusinessID, sale.Product.SKU)
	s.cache.InvalidateDashboard(ctx, actor.BusinessID)
	resp := saleToResponse(&sale)
	return &resp, nil
}

func (s *saleService) GetSale(ctx context.Context, actor authz.Actor, id uuid.UUID) (*dto.SaleResponse, error) {
	if err := s.policy.Require(actor, authz.CapSaleRecord); err != nil {
		return nil, err
	}
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "sale")
	}
	if !actor.Owns(sale.BusinessID) {
		return nil, errCrossTenant
	}
	if !s.policy.Can(actor, authz.CapSaleViewAll) && sale.UserID != actor.UserID {
		return nil, &authz.DeniedError{Role: actor.Role, Capability: authz.CapSaleViewAll}
	}
	resp := saleToResponse(sale)
	return &resp, nil
}

// ListSales shows salesmen their own sales and everyone else the whole business.
func (s *saleService) ListSales(ctx context.Context, actor authz.Actor, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if err := s.policy.Require(actor, authz.CapSaleRecord); err != nil {
		return nil, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	var seller *uuid.UUID
	if !s.policy.Can(actor, authz.CapSaleViewAll) {
		seller = &actor.UserID
	}
	rows, total, err := s.repo.List(ctx, actor.BusinessID, seller, filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}
	return &dto.SaleListResponse{Data: salesToResponse(rows), Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}
