package handler

import (
	"net/http"

	"github.com/gsagg03-cmyk/erpx/internal/dto"
	"github.com/gsagg03-cmyk/erpx/internal/middleware"
	"github.com/gsagg03-cmyk/erpx/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateProductRequest  true  "product"
// @Success      201   {object}  dto.ProductResponse
// @Failure      409   {object}  apierror.ValidationError
// @Failure      422   {object}  apierror.ValidationError
// @Security     BearerAuth
// @Router       /v1/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err, req)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		respondError(c, err, filter)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LookupBySKU is the scanner path: a single product by exact SKU.
func (h *ProductsHandler) LookupBySKU(c *gin.Context) {
	resp, err := h.svc.LookupBySKU(c.Request.Context(), middleware.GetActor(c), c.Param("sku"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a product, optionally adjusting stock
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "product id"
// @Param        body  body      dto.UpdateProductRequest  true  "changes"
// @Success      200   {object}  dto.ProductResponse
// @Failure      403   {object}  apierror.APIError
// @Failure      422   {object}  apierror.ValidationError
// @Security     BearerAuth
// @Router       /v1/products/{id} [put]
func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		respondError(c, err, req)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete a product with no stock and no sales
// @Tags         products
// @Param        id   path  string  true  "product id"
// @Success      204
// @Failure      422  {object}  apierror.ValidationError  "fields carries has_sales / has_stock"
// @Security     BearerAuth
// @Router       /v1/products/{id} [delete]
func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		respondError(c, err, gin.H{"id": id})
		return
	}
	c.Status(http.StatusNoContent)
}
