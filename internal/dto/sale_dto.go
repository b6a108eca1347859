package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RecordSaleRequest struct {
	ProductID     string           `json:"product_id"     validate:"required,uuid"`
	Quantity      int              `json:"quantity"       validate:"required,min=1"`
	UnitPrice     *decimal.Decimal `json:"unit_price"` // defaults to the product's sell price
	PaidAmount    decimal.Decimal  `json:"paid_amount"    validate:"min=0"`
	CustomerName  string           `json:"customer_name"  validate:"max=255"`
	CustomerPhone string           `json:"customer_phone" validate:"max=32"`
}

type SaleFilter struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleResponse struct {
	ID            string               `json:"id"`
	VoucherNumber string               `json:"voucher_number"`
	ProductID     string               `json:"product_id"`
	Product       string               `json:"product,omitempty"`
	UserID        string               `json:"user_id"`
	SoldBy        string               `json:"sold_by,omitempty"`
	Quantity      int                  `json:"quantity"`
	UnitPrice     decimal.Decimal      `json:"unit_price"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	Profit        decimal.Decimal      `json:"profit"`
	PaidAmount    decimal.Decimal      `json:"paid_amount"`
	DueAmount     decimal.Decimal      `json:"due_amount"`
	CustomerName  string               `json:"customer_name"`
	CustomerPhone string               `json:"customer_phone"`
	CreatedAt     time.Time            `json:"created_at"`
	Payments      []RealizationSummary `json:"payments,omitempty"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
