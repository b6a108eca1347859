package handler

import (
	"net/http"

	"github.com/gsagg03-cmyk/erpx/internal/apierror"
	"github.com/gsagg03-cmyk/erpx/internal/dto"
	"github.com/gsagg03-cmyk/erpx/internal/middleware"
	"github.com/gsagg03-cmyk/erpx/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc               service.AuthService
	allowRegistration bool
}

func NewAuthHandler(svc service.AuthService, allowRegistration bool) *AuthHandler {
	return &AuthHandler{svc: svc, allowRegistration: allowRegistration}
}

// Login godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "credentials"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  apierror.APIError
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Register creates a business and its owner. Disabled unless ALLOW_REGISTRATION is set.
func (h *AuthHandler) Register(c *gin.Context) {
	if !h.allowRegistration {
		c.JSON(http.StatusNotFound, apierror.New("registration is disabled"))
		return
	}
	var req dto.RegisterOwnerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegisterOwner(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, req)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateUser(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err, req)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	resp, err := h.svc.ListUsers(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}
