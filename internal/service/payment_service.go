package service

import (
	"context"
	"fmt"

	"github.com/gsagg03-cmyk/erpx/internal/authz"
	"github.com/gsagg03-cmyk/erpx/internal/dto"
	"github.com/gsagg03-cmyk/erpx/internal/infra"
	"github.com/gsagg03-cmyk/erpx/internal/model"
	"github.com/gsagg03-cmyk/erpx/internal/repository"
	"github.com/gsagg03-cmyk/erpx/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentService records payments against due sales and serves payment vouchers.
type PaymentService interface {
	RecordPayment(ctx context.Context, actor authz.Actor, saleID uuid.UUID, req dto.RecordPaymentRequest) (*dto.PaymentResponse, error)
	GetVoucher(ctx context.Context, actor authz.Actor, realizationID uuid.UUID) (*dto.PaymentVoucherResponse, error)
	VoucherPDF(ctx context.Context, actor authz.Actor, realizationID uuid.UUID) (string, error)
	// RenderVoucherPDF is used by the background worker; it has no actor.
	RenderVoucherPDF(ctx context.Context, realizationID uuid.UUID) (path string, recipient string, err error)
}

type paymentService struct {
	sales        repository.SaleRepository
	realizations repository.ProfitRealizationRepository
	businesses   repository.BusinessRepository
	realizer     *profitRealizer
	vouchers     *VoucherIssuer
	policy       *authz.Policy
	cache        *Cache
	dispatcher   *worker.Dispatcher
	pdfDir       string
}

func NewPaymentService(
	sales repository.SaleRepository,
	realizations repository.ProfitRealizationRepository,
	businesses repository.BusinessRepository,
	vouchers *VoucherIssuer,
	policy *authz.Policy,
	cache *Cache,
	dispatcher *worker.Dispatcher,
	pdfDir string,
) PaymentService {
	return &paymentService{
		sales:        sales,
		realizations: realizations,
		businesses:   businesses,
		realizer:     &profitRealizer{sales: sales, realizations: realizations, vouchers: vouchers},
		vouchers:     vouchers,
		policy:       policy,
		cache:        cache,
		dispatcher:   dispatcher,
		pdfDir:       pdfDir,
	}
}

// ── RecordPayment ─────────────────────────────────────────────────────────────
// The sale row is locked for the whole transaction, so two payments on one
// sale serialize and the second sees the first one's due balance.

func (s *paymentService) RecordPayment(ctx context.Context, actor authz.Actor, saleID uuid.UUID, req dto.RecordPaymentRequest) (*dto.PaymentResponse, error) {
	if err := s.policy.Require(actor, authz.CapPaymentRecord); err != nil {
		return nil, err
	}

	var sale *model.Sale
	var pr *model.ProfitRealization
	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		locked, err := s.sales.FindByIDForUpdate(tx, saleID)
		if err != nil {
			return lookupErr(err, "sale")
		}
		if !actor.Owns(locked.BusinessID) {
			return errCrossTenant
		}
		realized, err := s.realizations.SumProfitBySaleTx(tx, locked.ID)
		if err != nil {
			return fmt.Errorf("sum realized profit: %w", err)
		}
		pr, err = s.realizer.realize(tx, locked, req.PaymentAmount, realized, actor.UserID, s.vouchers.Now())
		sale = locked
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	s.cache.InvalidateDashboard(ctx, actor.BusinessID)
	if req.Notify && s.dispatcher != nil {
		if err := s.dispatcher.EnqueueVoucher(ctx, worker.VoucherJobPayload{RealizationID: pr.ID.String()}); err != nil {
			log.Warn().Err(err).Str("voucher", pr.PaymentVoucherNumber).Msg("payment: voucher job not queued")
		}
	}

	return &dto.PaymentResponse{
		Realization: realizationToSummary(pr),
		Sale:        saleToResponse(sale),
	}, nil
}

func (s *paymentService) GetVoucher(ctx context.Context, actor authz.Actor, realizationID uuid.UUID) (*dto.PaymentVoucherResponse, error) {
	if err := s.policy.Require(actor, authz.CapReportView); err != nil {
		return nil, err
	}
	pr, err := s.realizations.FindByID(ctx, realizationID)
	if err != nil {
		return nil, lookupErr(err, "payment")
	}
	if !actor.Owns(pr.BusinessID) {
		return nil, errCrossTenant
	}
	return s.voucherView(ctx, pr)
}

func (s *paymentService) voucherView(ctx context.Context, pr *model.ProfitRealization) (*dto.PaymentVoucherResponse, error) {
	if pr.Sale == nil {
		sale, err := s.sales.FindByID(ctx, pr.SaleID)
		if err != nil {
			return nil, lookupErr(err, "sale")
		}
		pr.Sale = sale
	}
	biz, err := s.businesses.FindByID(ctx, pr.BusinessID)
	if err != nil {
		return nil, lookupErr(err, "business")
	}
	all, err := s.realizations.ListBySale(ctx, pr.SaleID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	// Balance as of this payment, so reprints of older vouchers stay correct.
	paid := decimal.Zero
	for i := range all {
		if recordedAfter(&all[i], pr) {
			continue
		}
		paid = paid.Add(all[i].PaymentAmount)
	}

	return &dto.PaymentVoucherResponse{
		Realization:     realizationToSummary(pr),
		Sale:            saleToResponse(pr.Sale),
		PaidToDate:      paid,
		DueAfterPayment: pr.Sale.TotalAmount.Sub(paid),
		BusinessName:    biz.Name,
		BusinessPhone:   biz.Phone,
		BusinessAddress: biz.Address,
	}, nil
}

func (s *paymentService) VoucherPDF(ctx context.Context, actor authz.Actor, realizationID uuid.UUID) (string, error) {
	view, err := s.GetVoucher(ctx, actor, realizationID)
	if err != nil {
		return "", err
	}
	return infra.GeneratePaymentVoucherPDF(voucherDoc(view), s.pdfDir)
}

func (s *paymentService) RenderVoucherPDF(ctx context.Context, realizationID uuid.UUID) (string, string, error) {
	pr, err := s.realizations.FindByID(ctx, realizationID)
	if err != nil {
		return "", "", lookupErr(err, "payment")
	}
	view, err := s.voucherView(ctx, pr)
	if err != nil {
		return "", "", err
	}
	path, err := infra.GeneratePaymentVoucherPDF(voucherDoc(view), s.pdfDir)
	if err != nil {
		return "", "", err
	}

	recipient := ""
	if biz, err := s.businesses.FindByID(ctx, pr.BusinessID); err == nil && biz.Email != nil {
		recipient = *biz.Email
	}
	return path, recipient, nil
}

func voucherDoc(v *dto.PaymentVoucherResponse) infra.PaymentVoucherDoc {
	return infra.PaymentVoucherDoc{
		BusinessName:      v.BusinessName,
		BusinessPhone:     v.BusinessPhone,
		BusinessAddress:   v.BusinessAddress,
		VoucherNumber:     v.Realization.PaymentVoucherNumber,
		SaleVoucherNumber: v.Sale.VoucherNumber,
		PaymentDate:       v.Realization.PaymentDate,
		CustomerName:      v.Sale.CustomerName,
		CustomerPhone:     v.Sale.CustomerPhone,
		ProductName:       v.Sale.Product,
		Quantity:          v.Sale.Quantity,
		TotalAmount:       v.Sale.TotalAmount,
		PaymentAmount:     v.Realization.PaymentAmount,
		PaidToDate:        v.PaidToDate,
		DueAfterPayment:   v.DueAfterPayment,
	}
}

// recordedAfter orders payments by date, then by voucher day and sequence.
// Sequences compare numerically: PV-20260314-10000 follows PV-20260314-9999.
func recordedAfter(a, b *model.ProfitRealization) bool {
	if !a.PaymentDate.Equal(b.PaymentDate) {
		return a.PaymentDate.After(b.PaymentDate)
	}
	_, dayA, seqA, errA := ParseVoucher(a.PaymentVoucherNumber)
	_, dayB, seqB, errB := ParseVoucher(b.PaymentVoucherNumber)
	if errA != nil || errB != nil {
		return a.PaymentVoucherNumber > b.PaymentVoucherNumber
	}
	if dayA != dayB {
		return dayA > dayB
	}
	return seqA > seqB
}
