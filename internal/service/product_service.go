package service

import (
	"context"
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

// Reasons a product cannot be deleted.
const (
	ReasonHasSales = "has_sales"
	ReasonHasStock = "has_stock"
)

// ProductService defines the business logic contract for products.
type ProductService interface {
	Create(ctx context.Context, actor authz.Actor, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*dto.ProductResponse, error)
	LookupBySKU(ctx context.Context, actor authz.Actor, sku string) (*dto.ProductLookupResponse, error)
	List(ctx context.Context, actor authz.Actor, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, actor authz.Actor, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error
}

type productService struct {
	repo      repository.ProductRepository
	sales     repository.SaleRepository
	inventory InventoryService
	policy    *authz.Policy
	cache     *Cache
}

func NewProductService(
	repo repository.ProductRepository,
	sales repository.SaleRepository,
	inventory InventoryService,
	policy *authz.Policy,
	cache *Cache,
) ProductService {
	return &productService{repo: repo, sales: sales, inventory: inventory, policy: policy, cache: cache}
}

func validateProductFields(name, sku string, purchase, sell decimal.Decimal) error {
	e := &Error{Kind: KindValidation, Code: "invalid_product", Message: "Product fields are invalid", Fields: map[string]string{}}
	if strings.TrimSpace(name) == "" {
		e.Fields["name"] = "Name is required"
	}
	if strings.TrimSpace(sku) == "" {
		e.Fields["sku"] = "SKU is required"
	}
	if purchase.IsNegative() {
		e.Fields["purchase_price"] = "Purchase price cannot be negative"
	}
	if sell.IsNegative() {
		e.Fields["sell_price"] = "Sell price cannot be negative"
	}
	if len(e.Fields) > 0 {
		return e
	}
	return nil
}

func (s *productService) ensureSKUFree(ctx context.Context, businessID uuid.UUID, sku string, exclude *uuid.UUID) error {
	taken, err := s.repo.SKUExists(ctx, businessID, sku, exclude)
	if err != nil {
		return fmt.Errorf("check sku: %w", err)
	}
	if taken {
		return conflictErr("sku_taken", "sku", fmt.Sprintf("SKU %q is already used by another product", sku))
	}
	return nil
}

func (s *productService) Create(ctx context.Context, actor authz.Actor, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := s.policy.Require(actor, authz.CapProductManage); err != nil {
		return nil, err
	}
	sku := strings.TrimSpace(req.SKU)
	if err := validateProductFields(req.Name, sku, req.PurchasePrice, req.SellPrice); err != nil {
		return nil, err
	}
	if req.OpeningStock < 0 {
		return nil, validationErr("invalid_quantity", "opening_stock", "Opening stock cannot be negative")
	}
	if err := s.ensureSKUFree(ctx, actor.BusinessID, sku, nil); err != nil {
		return nil, err
	}

	p := &model.Product{
		BusinessID:    actor.BusinessID,
		SKU:           sku,
		Name:          strings.TrimSpace(req.Name),
		PurchasePrice: req.PurchasePrice,
		SellPrice:     req.SellPrice,
		CreatedBy:     actor.UserID,
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, p); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		if req.OpeningStock > 0 {
			if _, err := s.inventory.ReceiveStockTx(tx, actor, p, req.OpeningStock, p.PurchasePrice, "opening stock"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateDashboard(ctx, actor.BusinessID)
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) load(ctx context.Context, actor authz.Actor, id uuid.UUID) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "product")
	}
	if !actor.Owns(p.BusinessID) {
		return nil, errCrossTenant
	}
	return p, nil
}

func (s *productService) Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*dto.ProductResponse, error) {
	if err := s.policy.Require(actor, authz.CapProductView); err != nil {
		return nil, err
	}
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := productToResponse(p)
	return &resp, nil
}

// LookupBySKU serves the sales counter; results are cached in Redis.
func (s *productService) LookupBySKU(ctx context.Context, actor authz.Actor, sku string) (*dto.ProductLookupResponse, error) {
	if err := s.policy.Require(actor, authz.CapProductView); err != nil {
		return nil, err
	}
	key := skuKey(actor.BusinessID, sku)
	var cached dto.ProductLookupResponse
	if s.cache.get(ctx, key, &cached) {
		return &cached, nil
	}

	p, err := s.repo.FindBySKU(ctx, actor.BusinessID, sku)
	if err != nil {
		return nil, lookupErr(err, "product")
	}
	resp := &dto.ProductLookupResponse{
		ID:           p.ID.String(),
		SKU:          p.SKU,
		Name:         p.Name,
		SellPrice:    p.SellPrice,
		CurrentStock: p.CurrentStock,
	}
	s.cache.set(ctx, key, resp, skuLookupTTL)
	return resp, nil
}

func (s *productService) List(ctx context.Context, actor authz.Actor, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if err := s.policy.Require(actor, authz.CapProductView); err != nil {
		return nil, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	rows, total, err := s.repo.List(ctx, actor.BusinessID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, len(rows))
	for i := range rows {
		data[i] = productToResponse(&rows[i])
	}
	return &dto.ProductListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// Update edits a product and, when AdjustType and a positive AdjustQuantity are
// given, applies a stock correction in the same transaction. The correction's
// ledger entry snapshots the updated purchase price.
func (s *productService) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := s.policy.Require(actor, authz.CapProductManage); err != nil {
		return nil, err
	}
	sku := strings.TrimSpace(req.SKU)
	if err := validateProductFields(req.Name, sku, req.PurchasePrice, req.SellPrice); err != nil {
		return nil, err
	}
	if req.AdjustQuantity < 0 {
		return nil, validationErr("invalid_quantity", "adjust_quantity", "Adjust quantity cannot be negative")
	}
	adjust := req.AdjustType != "" && req.AdjustQuantity > 0
	if adjust {
		if err := s.policy.Require(actor, authz.CapStockAdjust); err != nil {
			return nil, err
		}
	}

	existing, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSKUFree(ctx, actor.BusinessID, sku, &id); err != nil {
		return nil, err
	}

	var product *model.Product
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDForUpdate(tx, id)
		if err != nil {
			return lookupErr(err, "product")
		}
		p.Name = strings.TrimSpace(req.Name)
		p.SKU = sku
		p.PurchasePrice = req.PurchasePrice
		p.SellPrice = req.SellPrice
		if err := s.repo.UpdateDetailsTx(tx, p); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		if adjust {
			if _, err := s.inventory.AdjustStockTx(tx, actor, p, req.AdjustType, req.AdjustQuantity, "product update"); err != nil {
				return err
			}
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.ForgetSKU(ctx, actor.BusinessID, existing.SKU, sku)
	s.cache.InvalidateDashboard(ctx, actor.BusinessID)
	resp := productToResponse(product)
	return &resp, nil
}

// Delete removes a product that has never been sold and holds no stock.
// The rejection lists every failing condition under Fields.
func (s *productService) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	if err := s.policy.Require(actor, authz.CapProductManage); err != nil {
		return err
	}
	if _, err := s.load(ctx, actor, id); err != nil {
		return err
	}

	var sku string
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// The row lock makes concurrent sales of this product wait for us.
		p, err := s.repo.FindByIDForUpdate(tx, id)
		if err != nil {
			return lookupErr(err, "product")
		}
		sold, err := s.sales.CountByProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("count sales: %w", err)
		}

		reasons := map[string]string{}
		if sold > 0 {
			reasons[ReasonHasSales] = fmt.Sprintf("Product has %d recorded sales", sold)
		}
		if p.CurrentStock != 0 {
			reasons[ReasonHasStock] = fmt.Sprintf("Product still has %d units in stock", p.CurrentStock)
		}
		if len(reasons) > 0 {
			return &Error{
				Kind:    KindValidation,
				Code:    "product_in_use",
				Message: "Product cannot be deleted while it has sales or stock",
				Fields:  reasons,
			}
		}
		sku = p.SKU
		return s.repo.DeleteTx(tx, id)
	})
	if err != nil {
		return err
	}

	s.cache.ForgetSKU(ctx, actor.BusinessID, sku)
	s.cache.InvalidateDashboard(ctx, actor.BusinessID)
	return nil
}
