package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type AdjustStockRequest struct {
	Direction string `json:"direction" validate:"required,oneof=increase decrease"`
	Quantity  int    `json:"quantity"  validate:"required,min=1"`
	Note      string `json:"note"      validate:"max=255"`
}

// ReceiveStockRequest books incoming goods. PurchasePrice, when non-zero,
// becomes the product's new purchase price.
type ReceiveStockRequest struct {
	Quantity      int             `json:"quantity"       validate:"required,min=1"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"min=0"`
	Note          string          `json:"note"           validate:"max=255"`
}

type StockEntryFilter struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}

type StockEntryResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Kind          string          `json:"kind"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	StockBefore   int             `json:"stock_before"`
	StockAfter    int             `json:"stock_after"`
	Note          string          `json:"note,omitempty"`
	AddedBy       string          `json:"added_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

type StockAdjustmentResponse struct {
	Product ProductResponse    `json:"product"`
	Entry   StockEntryResponse `json:"entry"`
}

type StockEntryListResponse struct {
	Data  []StockEntryResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
