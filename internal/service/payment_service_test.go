package service

import (
	"context"
	"os"
	"testing"

	"github.com/gsagg03-cmyk/erpx/internal/authz"
	"github.com/gsagg03-cmyk/erpx/internal/dto"
	"github.com/gsagg03-cmyk/erpx/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	svc          PaymentService
	sales        *stubSaleRepo
	realizations *stubRealizationRepo
	businesses   *stubBusinessRepo
	biz          uuid.UUID
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	f := &paymentFixture{
		sales:        newStubSaleRepo(),
		realizations: &stubRealizationRepo{},
		businesses:   newStubBusinessRepo(),
	}
	b := &model.Business{Name: "Rahim Traders", Phone: "01700000000"}
	require.NoError(t, f.businesses.CreateTx(nil, b))
	f.biz = b.ID
	vouchers := NewVoucherIssuer(newStubVoucherSeq(), nil, fixedClock)
	f.svc = NewPaymentService(f.sales, f.realizations, f.businesses, vouchers, authz.DefaultPolicy(), nil, nil, t.TempDir())
	return f
}

func (f *paymentFixture) dueSale(total, profit string) *model.Sale {
	return f.sales.add(model.Sale{
		BusinessID:    f.biz,
		VoucherNumber: "V-20260314-0001",
		ProductID:     uuid.New(),
		Quantity:      1,
		TotalAmount:   dec(total),
		Profit:        dec(profit),
		PaidAmount:    decimal.Zero,
		DueAmount:     dec(total),
		CustomerName:  "Karim",
	})
}

func (f *paymentFixture) pay(t *testing.T, actor authz.Actor, saleID uuid.UUID, amount string) (*dto.PaymentResponse, error) {
	t.Helper()
	return f.svc.RecordPayment(context.Background(), actor, saleID, dto.RecordPaymentRequest{PaymentAmount: dec(amount)})
}

func TestRecordPayment_TwoHalves(t *testing.T) {
	f := newPaymentFixture(t)
	sale := f.dueSale("1000", "200")
	owner := ownerOf(f.biz)

	first, err := f.pay(t, owner, sale.ID, "500")
	require.NoError(t, err)
	assert.True(t, first.Realization.ProfitAmount.Equal(dec("100")))
	assert.True(t, first.Sale.PaidAmount.Equal(dec("500")))
	assert.True(t, first.Sale.DueAmount.Equal(dec("500")))
	assert.Equal(t, "PV-20260314-0001", first.Realization.PaymentVoucherNumber)

	second, err := f.pay(t, owner, sale.ID, "500")
	require.NoError(t, err)
	assert.True(t, second.Realization.ProfitAmount.Equal(dec("100")))
	assert.True(t, second.Sale.PaidAmount.Equal(dec("1000")))
	assert.True(t, second.Sale.DueAmount.IsZero())
	assert.Equal(t, "PV-20260314-0002", second.Realization.PaymentVoucherNumber)

	sum, _ := f.realizations.SumProfitBySaleTx(nil, sale.ID)
	assert.True(t, sum.Equal(dec("200")))
}

func TestRecordPayment_FullSettlementRealizesExactProfit(t *testing.T) {
	splits := [][]string{
		{"100", "250.55", "649.44"},
		{"0.01", "999.98"},
		{"333.33", "333.33", "333.33"},
		{"999.99"},
	}
	for _, payments := range splits {
		f := newPaymentFixture(t)
		sale := f.dueSale("999.99", "333.33")
		for _, p := range payments {
			_, err := f.pay(t, ownerOf(f.biz), sale.ID, p)
			require.NoError(t, err, "payment %s of %v", p, payments)
		}
		stored, _ := f.sales.FindByID(context.Background(), sale.ID)
		assert.True(t, stored.DueAmount.IsZero(), "%v", payments)

		sum, _ := f.realizations.SumProfitBySaleTx(nil, sale.ID)
		assert.True(t, sum.Equal(dec("333.33")), "splits %v realized %s", payments, sum)
	}
}

func TestRecordPayment_ExceedingDueLeavesSaleUntouched(t *testing.T) {
	f := newPaymentFixture(t)
	sale := f.dueSale("1000", "200")
	owner := ownerOf(f.biz)
	_, err := f.pay(t, owner, sale.ID, "400")
	require.NoError(t, err)

	_, err = f.pay(t, owner, sale.ID, "600.01")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "payment_exceeds_due", de.Code)
	assert.Contains(t, de.Fields, "payment_amount")

	stored, _ := f.sales.FindByID(context.Background(), sale.ID)
	assert.True(t, stored.PaidAmount.Equal(dec("400")))
	assert.True(t, stored.DueAmount.Equal(dec("600")))
	assert.Len(t, f.realizations.rows, 1)
}

func TestRecordPayment_RejectsBadAmounts(t *testing.T) {
	f := newPaymentFixture(t)
	sale := f.dueSale("100", "10")
	for _, amount := range []string{"0", "-5", "10.001"} {
		_, err := f.pay(t, ownerOf(f.biz), sale.ID, amount)
		var de *Error
		require.ErrorAs(t, err, &de, amount)
		assert.Equal(t, "invalid_payment_amount", de.Code, amount)
	}
	assert.Empty(t, f.realizations.rows)
}

func TestRecordPayment_SettledSaleRejectsMore(t *testing.T) {
	f := newPaymentFixture(t)
	sale := f.dueSale("50", "5")
	_, err := f.pay(t, ownerOf(f.biz), sale.ID, "50")
	require.NoError(t, err)

	_, err = f.pay(t, ownerOf(f.biz), sale.ID, "1")
	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "payment_exceeds_due", de.Code)
}

func TestRecordPayment_ZeroTotalRealizesNothing(t *testing.T) {
	assert.True(t, ProfitShare(decimal.Zero, decimal.Zero, decimal.Zero, dec("1"), dec("1")).IsZero())
}

func TestProfitShare_RoundsToCents(t *testing.T) {
	// 1/3 of 100 profit on a 300 sale.
	got := ProfitShare(dec("300"), dec("100"), decimal.Zero, dec("100"), dec("300"))
	assert.Equal(t, "33.33", got.StringFixed(2))
	// The settling payment absorbs the rounding remainder.
	got = ProfitShare(dec("300"), dec("100"), dec("66.66"), dec("100"), dec("100"))
	assert.Equal(t, "33.34", got.StringFixed(2))
}

func TestRecordPayment_Authorization(t *testing.T) {
	f := newPaymentFixture(t)
	sale := f.dueSale("100", "20")

	_, err := f.pay(t, actorAs(f.biz, authz.RoleManager), sale.ID, "10")
	assert.Equal(t, KindForbidden, KindOf(err))

	_, err = f.pay(t, ownerOf(uuid.New()), sale.ID, "10")
	assert.Equal(t, KindForbidden, KindOf(err))

	_, err = f.pay(t, ownerOf(f.biz), uuid.New(), "10")
	assert.Equal(t, KindNotFound, KindOf(err))

	assert.Empty(t, f.realizations.rows)
}

func TestGetVoucher_BalanceAsOfPayment(t *testing.T) {
	f := newPaymentFixture(t)
	sale := f.dueSale("1000", "200")
	owner := ownerOf(f.biz)
	first, err := f.pay(t, owner, sale.ID, "300")
	require.NoError(t, err)
	_, err = f.pay(t, owner, sale.ID, "200")
	require.NoError(t, err)

	id := uuid.MustParse(first.Realization.ID)
	view, err := f.svc.GetVoucher(context.Background(), owner, id)
	require.NoError(t, err)
	assert.True(t, view.PaidToDate.Equal(dec("300")))
	assert.True(t, view.DueAfterPayment.Equal(dec("700")))
	assert.Equal(t, "Rahim Traders", view.BusinessName)

	path, err := f.svc.VoucherPDF(context.Background(), owner, id)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = f.svc.GetVoucher(context.Background(), actorAs(f.biz, authz.RoleSalesman), id)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestRenderVoucherPDF_RecipientFromBusinessEmail(t *testing.T) {
	f := newPaymentFixture(t)
	email := "owner@shop.test"
	f.businesses.businesses[f.biz].Email = &email
	sale := f.dueSale("100", "20")
	resp, err := f.pay(t, ownerOf(f.biz), sale.ID, "40")
	require.NoError(t, err)

	path, to, err := f.svc.RenderVoucherPDF(context.Background(), uuid.MustParse(resp.Realization.ID))
	require.NoError(t, err)
	assert.Equal(t, email, to)
	assert.FileExists(t, path)
}

func TestGetVoucher_SameInstantOrdersBySequenceNumber(t *testing.T) {
	f := newPaymentFixture(t)
	sale := f.dueSale("30000", "3000")
	owner := ownerOf(f.biz)
	at := fixedNow

	book := func(voucher, amount string) uuid.UUID {
		pr := model.ProfitRealization{
			BusinessID:           f.biz,
			SaleID:               sale.ID,
			PaymentVoucherNumber: voucher,
			PaymentAmount:        dec(amount),
			ProfitAmount:         dec(amount).Div(dec("10")),
			PaymentDate:          at,
			RecordedBy:           owner.UserID,
		}
		require.NoError(t, f.realizations.CreateTx(nil, &pr))
		return pr.ID
	}
	later := book("PV-20260314-10000", "500")
	earlier := book("PV-20260314-9999", "1000")

	view, err := f.svc.GetVoucher(context.Background(), owner, earlier)
	require.NoError(t, err)
	assert.True(t, view.PaidToDate.Equal(dec("1000")), "got %s", view.PaidToDate)

	view, err = f.svc.GetVoucher(context.Background(), owner, later)
	require.NoError(t, err)
	assert.True(t, view.PaidToDate.Equal(dec("1500")), "got %s", view.PaidToDate)
	assert.True(t, view.DueAfterPayment.Equal(dec("28500")))
}
