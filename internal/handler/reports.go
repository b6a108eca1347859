package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gsagg03-cmyk/erpx/internal/dto"
	"github.com/gsagg03-cmyk/erpx/internal/infra"
	"github.com/gsagg03-cmyk/erpx/internal/middleware"
	"github.com/gsagg03-cmyk/erpx/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Dashboard godoc
// @Summary      Owner dashboard: today, this month and all-time figures
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Failure      403  {object}  apierror.APIError
// @Security     BearerAuth
// @Router       /v1/reports/dashboard [get]
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) Dues(c *gin.Context) {
	var filter dto.DueFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Dues(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		respondError(c, err, filter)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AllSales godoc
// @Summary      All sales with date range and voucher search
// @Tags         reports
// @Produce      json
// @Param        start_date      query     string  false  "YYYY-MM-DD"
// @Param        end_date        query     string  false  "YYYY-MM-DD, inclusive"
// @Param        voucher_search  query     string  false  "voucher number fragment"
// @Param        page            query     int     false  "page"
// @Success      200  {object}  dto.AllSalesResponse
// @Security     BearerAuth
// @Router       /v1/reports/sales [get]
func (h *ReportsHandler) AllSales(c *gin.Context) {
	var filter dto.AllSalesFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.AllSales(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		respondError(c, err, filter)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportSales streams the filtered sales as an .xlsx workbook.
func (h *ReportsHandler) ExportSales(c *gin.Context) {
	var filter dto.AllSalesFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ExportSales(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		respondError(c, err, filter)
		return
	}

	rows := make([]infra.SalesSheetRow, 0, len(resp.Data))
	for _, s := range resp.Data {
		rows = append(rows, infra.SalesSheetRow{
			Date:          s.CreatedAt,
			VoucherNumber: s.VoucherNumber,
			Product:       s.Product,
			Quantity:      s.Quantity,
			CustomerName:  s.CustomerName,
			CustomerPhone: s.CustomerPhone,
			Total:         s.TotalAmount,
			Profit:        s.Profit,
			Paid:          s.PaidAmount,
			Due:           s.DueAmount,
		})
	}

	name := fmt.Sprintf("sales-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := infra.WriteSalesWorkbook(c.Writer, rows); err != nil {
		_ = c.Error(err)
	}
}
