package handler

import (
	"net/http"

	"github.com/gsagg03-cmyk/erpx/internal/dto"
	"github.com/gsagg03-cmyk/erpx/internal/middleware"
	"github.com/gsagg03-cmyk/erpx/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// Adjust godoc
// @Summary      Manually increase or decrease a product's stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "product id"
// @Param        body  body      dto.AdjustStockRequest  true  "adjustment"
// @Success      200   {object}  dto.StockAdjustmentResponse
// @Failure      422   {object}  apierror.ValidationError
// @Security     BearerAuth
// @Router       /v1/products/{id}/stock/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdjustStock(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		respondError(c, err, req)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) Receive(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ReceiveStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ReceiveStock(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		respondError(c, err, req)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) ListEntries(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var filter dto.StockEntryFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListEntries(c.Request.Context(), middleware.GetActor(c), id, filter)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}
