package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/LucasNeuro/fta-form-sub000/internal/middleware"
	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/service/auth"
	apperrors "github.com/LucasNeuro/fta-form-sub000/pkg/errors"
	"github.com/LucasNeuro/fta-form-sub000/pkg/httputil"
)

type AuthHandler struct {
	auth *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authService}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

func (h *AuthHandler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", h.Logout)
	rg.POST("/auth/users", h.CreateUser)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	if err := h.auth.Logout(c.Request.Context(), claims.SessionID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "logged out"})
}

type createUserRequest struct {
	Nome     string `json:"nome" binding:"required,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=admin viewer"`
}

func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}
	if req.Role == "" {
		req.Role = "admin"
	}

	user, err := h.auth.CreateUser(c.Request.Context(), req.Nome, req.Email, req.Password, req.Role)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, user)
}
