package service

import (
	"context"
	"testing"
	"time"

	"github.com/gsagg03-cmyk/erpx/internal/authz"
	"github.com/gsagg03-cmyk/erpx/internal/dto"
	"github.com/gsagg03-cmyk/erpx/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saleFixture struct {
	svc          SaleService
	products     *stubProductRepo
	sales        *stubSaleRepo
	realizations *stubRealizationRepo
	product      *model.Product
}

func newSaleFixture() *saleFixture {
	f := &saleFixture{
		products:     newStubProductRepo(),
		sales:        newStubSaleRepo(),
		realizations: &stubRealizationRepo{},
	}
	f.product = f.products.add(model.Product{
		BusinessID:    uuid.New(),
		SKU:           "OIL-1L",
		Name:          "Soybean oil 1L",
		PurchasePrice: dec("150"),
		SellPrice:     dec("200"),
		CurrentStock:  10,
	})
	vouchers := NewVoucherIssuer(newStubVoucherSeq(), time.UTC, fixedClock)
	f.svc = NewSaleService(f.sales, f.products, f.realizations, vouchers, authz.DefaultPolicy(), nil)
	return f
}

func TestRecordSale_OnCredit(t *testing.T) {
	f := newSaleFixture()
	salesman := actorAs(f.product.BusinessID, authz.RoleSalesman)

	resp, err := f.svc.RecordSale(context.Background(), salesman, dto.RecordSaleRequest{
		ProductID: f.product.ID.String(), Quantity: 4, CustomerName: " Karim ", CustomerPhone: "0171",
	})
	require.NoError(t, err)
	assert.Equal(t, "V-20260314-0001", resp.VoucherNumber)
	assert.True(t, resp.TotalAmount.Equal(dec("800")))
	assert.True(t, resp.Profit.Equal(dec("200")))
	assert.True(t, resp.PaidAmount.IsZero())
	assert.True(t, resp.DueAmount.Equal(dec("800")))
	assert.Equal(t, "Karim", resp.CustomerName)
	assert.Equal(t, salesman.UserID.String(), resp.UserID)
	assert.Equal(t, 6, f.products.stock(f.product.ID))
	assert.Empty(t, f.realizations.rows)
}

func TestRecordSale_UpFrontPaymentIsRealized(t *testing.T) {
	f := newSaleFixture()
	owner := ownerOf(f.product.BusinessID)
	price := dec("250")

	resp, err := f.svc.RecordSale(context.Background(), owner, dto.RecordSaleRequest{
		ProductID: f.product.ID.String(), Quantity: 2, UnitPrice: &price, PaidAmount: dec("250"),
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalAmount.Equal(dec("500")))
	assert.True(t, resp.Profit.Equal(dec("200")))
	assert.True(t, resp.PaidAmount.Equal(dec("250")))
	assert.True(t, resp.DueAmount.Equal(dec("250")))
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, "PV-20260314-0001", resp.Payments[0].PaymentVoucherNumber)
	assert.True(t, resp.Payments[0].ProfitAmount.Equal(dec("100")))

	stored, _ := f.sales.FindByID(context.Background(), uuid.MustParse(resp.ID))
	assert.True(t, stored.PaidAmount.Equal(dec("250")))
}

func TestRecordSale_PaidInFullRealizesAllProfit(t *testing.T) {
	f := newSaleFixture()
	resp, err := f.svc.RecordSale(context.Background(), ownerOf(f.product.BusinessID), dto.RecordSaleRequest{
		ProductID: f.product.ID.String(), Quantity: 3, PaidAmount: dec("600"),
	})
	require.NoError(t, err)
	assert.True(t, resp.DueAmount.IsZero())
	sum, _ := f.realizations.SumProfitBySaleTx(nil, uuid.MustParse(resp.ID))
	assert.True(t, sum.Equal(resp.Profit))
}

func TestRecordSale_Rejections(t *testing.T) {
	f := newSaleFixture()
	owner := ownerOf(f.product.BusinessID)
	ctx := context.Background()

	_, err := f.svc.RecordSale(ctx, owner, dto.RecordSaleRequest{ProductID: f.product.ID.String(), Quantity: 11})
	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "insufficient_stock", de.Code)

	_, err = f.svc.RecordSale(ctx, owner, dto.RecordSaleRequest{ProductID: f.product.ID.String(), Quantity: 1, PaidAmount: dec("200.01")})
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "paid_exceeds_total", de.Code)

	_, err = f.svc.RecordSale(ctx, owner, dto.RecordSaleRequest{ProductID: "nope", Quantity: 1})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = f.svc.RecordSale(ctx, ownerOf(uuid.New()), dto.RecordSaleRequest{ProductID: f.product.ID.String(), Quantity: 1})
	assert.Equal(t, KindForbidden, KindOf(err))

	assert.Equal(t, 10, f.products.stock(f.product.ID))
	assert.Empty(t, f.sales.sales)
}

func TestSales_SalesmanSeesOwnOnly(t *testing.T) {
	f := newSaleFixture()
	biz := f.product.BusinessID
	alice := actorAs(biz, authz.RoleSalesman)
	bob := actorAs(biz, authz.RoleSalesman)
	ctx := context.Background()

	a, err := f.svc.RecordSale(ctx, alice, dto.RecordSaleRequest{ProductID: f.product.ID.String(), Quantity: 1})
	require.NoError(t, err)
	_, err = f.svc.RecordSale(ctx, bob, dto.RecordSaleRequest{ProductID: f.product.ID.String(), Quantity: 1})
	require.NoError(t, err)

	list, err := f.svc.ListSales(ctx, alice, dto.SaleFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)

	list, err = f.svc.ListSales(ctx, actorAs(biz, authz.RoleManager), dto.SaleFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Total)

	_, err = f.svc.GetSale(ctx, bob, uuid.MustParse(a.ID))
	assert.Equal(t, KindForbidden, KindOf(err))
	_, err = f.svc.GetSale(ctx, alice, uuid.MustParse(a.ID))
	assert.NoError(t, err)
}
