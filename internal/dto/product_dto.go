package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name          string          `json:"name"           validate:"required,min=1,max=255"`
	SKU           string          `json:"sku"            validate:"required,min=1,max=64"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"min=0"`
	SellPrice     decimal.Decimal `json:"sell_price"     validate:"min=0"`
	OpeningStock  int             `json:"opening_stock"  validate:"min=0"`
}

// UpdateProductRequest replaces the editable fields. AdjustType/AdjustQuantity
// optionally correct stock in the same operation.
type UpdateProductRequest struct {
	Name           string          `json:"name"            validate:"required,min=1,max=255"`
	SKU            string          `json:"sku"             validate:"required,min=1,max=64"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"  validate:"min=0"`
	SellPrice      decimal.Decimal `json:"sell_price"      validate:"min=0"`
	AdjustType     string          `json:"adjust_type"     validate:"omitempty,oneof=increase decrease"`
	AdjustQuantity int             `json:"adjust_quantity" validate:"min=0"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Search string `form:"search"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellPrice     decimal.Decimal `json:"sell_price"`
	CurrentStock  int             `json:"current_stock"`
	StockValue    decimal.Decimal `json:"stock_value"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// ProductLookupResponse is the slim shape served (and cached) for SKU lookups at the counter.
type ProductLookupResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	SellPrice    decimal.Decimal `json:"sell_price"`
	CurrentStock int             `json:"current_stock"`
}
