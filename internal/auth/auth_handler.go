package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-storefront/internal/commerce"
	"go-storefront/internal/pkg/response"
)

// SessionAuth resolves the request's auth store; the session middleware
// provides the implementation.
type SessionAuth func(c *gin.Context) *Store

type Handler struct {
	authFor SessionAuth
}

func NewHandler(authFor SessionAuth) *Handler {
	if authFor == nil {
		panic("auth: session auth resolver is required")
	}
	return &Handler{authFor: authFor}
}

func (h *Handler) Session(c *gin.Context) {
	store := h.authFor(c)
	response.Success(c, http.StatusOK, gin.H{
		"authenticated": store.IsAuthenticated(),
		"user":          store.User(),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", err.Error())
		return
	}

	store := h.authFor(c)
	result := store.Login(c.Request.Context(), commerce.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if !result.Success {
		response.Error(c, ErrInvalidCredentials.HTTPStatus, ErrInvalidCredentials.Code, result.Error, result.Errors)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", err.Error())
		return
	}

	store := h.authFor(c)
	result := store.Register(c.Request.Context(), commerce.RegisterRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if !result.Success {
		response.Error(c, ErrEmailTaken.HTTPStatus, ErrEmailTaken.Code, result.Error, result.Errors)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

func (h *Handler) Logout(c *gin.Context) {
	store := h.authFor(c)
	store.Logout(c.Request.Context())
	response.Success(c, http.StatusOK, nil)
}

func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", err.Error())
		return
	}

	store := h.authFor(c)
	result := store.RequestPasswordReset(c.Request.Context(), req.Email)
	if !result.Success {
		response.Error(c, http.StatusBadGateway, "RESET_ERROR", result.Error, nil)
		return
	}
	response.Success(c, http.StatusOK, result)
}
