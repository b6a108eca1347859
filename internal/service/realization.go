package service

import (
	"fmt"
	"time"

	"github.com/gsagg03-cmyk/erpx/internal/model"
	"github.com/gsagg03-cmyk/erpx/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProfitShare is the slice of a sale's profit realized by one payment:
// payment × profit / total, rounded to cents. The payment that settles the
// sale takes whatever profit is still unrealized, so a fully paid sale always
// realizes exactly its profit. A zero-total sale realizes nothing.
func ProfitShare(total, profit, realizedSoFar, payment, due decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	if payment.Equal(due) {
		return profit.Sub(realizedSoFar)
	}
	return payment.Mul(profit).Div(total).Round(2)
}

// profitRealizer books payments against sales. It is shared by the payment
// service and by sales recorded with an up-front payment.
type profitRealizer struct {
	sales        repository.SaleRepository
	realizations repository.ProfitRealizationRepository
	vouchers     *VoucherIssuer
}

// validatePayment checks amount against the sale's current due balance.
func validatePayment(sale *model.Sale, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return validationErr("invalid_payment_amount", "payment_amount", "Payment amount must be greater than zero")
	}
	if !amount.Equal(amount.Round(2)) {
		return validationErr("invalid_payment_amount", "payment_amount", "Payment amount can have at most two decimals")
	}
	if amount.GreaterThan(sale.DueAmount) {
		return validationErr("payment_exceeds_due", "payment_amount",
			fmt.Sprintf("Payment amount %s exceeds the due amount %s", amount.StringFixed(2), sale.DueAmount.StringFixed(2)))
	}
	return nil
}

// realize must run inside a transaction holding the sale row lock.
// realizedSoFar is the profit already realized on the sale.
func (r *profitRealizer) realize(
	tx *gorm.DB,
	sale *model.Sale,
	amount decimal.Decimal,
	realizedSoFar decimal.Decimal,
	recordedBy uuid.UUID,
	at time.Time,
) (*model.ProfitRealization, error) {
	if err := validatePayment(sale, amount); err != nil {
		return nil, err
	}

	voucher, err := r.vouchers.Issue(tx, sale.BusinessID, PaymentVoucherPrefix, at)
	if err != nil {
		return nil, err
	}

	pr := &model.ProfitRealization{
		BusinessID:           sale.BusinessID,
		SaleID:               sale.ID,
		PaymentAmount:        amount,
		ProfitAmount:         ProfitShare(sale.TotalAmount, sale.Profit, realizedSoFar, amount, sale.DueAmount),
		PaymentVoucherNumber: voucher,
		PaymentDate:          at,
		RecordedBy:           recordedBy,
		CreatedAt:            at,
	}
	if err := r.realizations.CreateTx(tx, pr); err != nil {
		return nil, fmt.Errorf("create profit realization: %w", err)
	}

	sale.ApplyPayment(amount)
	if err := r.sales.UpdatePaymentTx(tx, sale); err != nil {
		return nil, fmt.Errorf("update sale balance: %w", err)
	}
	return pr, nil
}
