package handler

import (
	"net/http"
	"path/filepath"

	"github.com/gsagg03-cmyk/erpx/internal/dto"
	"github.com/gsagg03-cmyk/erpx/internal/middleware"
	"github.com/gsagg03-cmyk/erpx/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentsHandler struct{ svc service.PaymentService }

func NewPaymentsHandler(svc service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{svc: svc}
}

// Record godoc
// @Summary      Record a payment against a sale's due balance
// @Description  Realizes the proportional share of the sale's profit and issues a PV voucher.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "sale id"
// @Param        body  body      dto.RecordPaymentRequest  true  "payment"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      404   {object}  apierror.APIError
// @Failure      422   {object}  apierror.ValidationError  "payment_exceeds_due, invalid_payment_amount"
// @Security     BearerAuth
// @Router       /v1/sales/{id}/payments [post]
func (h *PaymentsHandler) Record(c *gin.Context) {
	saleID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordPayment(c.Request.Context(), middleware.GetActor(c), saleID, req)
	if err != nil {
		respondError(c, err, req)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PaymentsHandler) Voucher(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetVoucher(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VoucherPDF renders the voucher and streams it as a download.
func (h *PaymentsHandler) VoucherPDF(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	path, err := h.svc.VoucherPDF(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
