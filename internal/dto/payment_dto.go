package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecordPaymentRequest struct {
	PaymentAmount decimal.Decimal `json:"payment_amount" validate:"required,gt=0"`
	// Notify queues the voucher PDF for the business email.
	Notify bool `json:"notify"`
}

type RealizationSummary struct {
	ID                   string          `json:"id"`
	PaymentVoucherNumber string          `json:"payment_voucher_number"`
	PaymentAmount        decimal.Decimal `json:"payment_amount"`
	ProfitAmount         decimal.Decimal `json:"profit_amount"`
	PaymentDate          time.Time       `json:"payment_date"`
	RecordedBy           string          `json:"recorded_by"`
}

type PaymentResponse struct {
	Realization RealizationSummary `json:"realization"`
	Sale        SaleResponse       `json:"sale"`
}

// PaymentVoucherResponse is everything a printed payment voucher shows.
type PaymentVoucherResponse struct {
	Realization     RealizationSummary `json:"realization"`
	Sale            SaleResponse       `json:"sale"`
	PaidToDate      decimal.Decimal    `json:"paid_to_date"` // including this payment
	DueAfterPayment decimal.Decimal    `json:"due_after_payment"`
	BusinessName    string             `json:"business_name"`
	BusinessPhone   string             `json:"business_phone"`
	BusinessAddress string             `json:"business_address"`
}
