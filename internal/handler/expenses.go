package handler

import (
	"net/http"

	"github.com/gsagg03-cmyk/erpx/internal/dto"
	"github.com/gsagg03-cmyk/erpx/internal/middleware"
	"github.com/gsagg03-cmyk/erpx/internal/service"

	"github.com/gin-gonic/gin"
)

type ExpensesHandler struct{ svc service.ExpenseService }

func NewExpensesHandler(svc service.ExpenseService) *ExpensesHandler {
	return &ExpensesHandler{svc: svc}
}

func (h *ExpensesHandler) Create(c *gin.Context) {
	var req dto.CreateExpenseRequest
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

func (h *ExpensesHandler) List(c *gin.Context) {
	var filter dto.ExpenseFilter
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
