package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/LucasNeuro/fta-form-sub000/internal/middleware"
	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/service/link"
	apperrors "github.com/LucasNeuro/fta-form-sub000/pkg/errors"
	"github.com/LucasNeuro/fta-form-sub000/pkg/httputil"
)

type LinkHandler struct {
	links *link.Service
}

func NewLinkHandler(links *link.Service) *LinkHandler {
	return &LinkHandler{links: links}
}

// RegisterRoutes wires the admin-side link management endpoints.
func (h *LinkHandler) RegisterRoutes(rg *gin.RouterGroup) {
	access := rg.Group("/links/acesso")
	{
		access.POST("", h.CreateAccessLink)
		access.GET("", h.ListAccessLinks)
		access.PATCH("/:id/ativo", h.SetAccessLinkActive)
	}
	rg.GET("/equipes/:id/links", h.ListAccessLinksByTeam)

	registration := rg.Group("/links/cadastro")
	{
		registration.POST("", h.CreateRegistrationLink)
		registration.GET("", h.ListRegistrationLinks)
		registration.PATCH("/:id/ativo", h.SetRegistrationLinkActive)
	}
}

// RegisterPublicRoutes wires the unauthenticated self-registration endpoint.
func (h *LinkHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/cadastro/:token", h.RegisterTeam)
}

func (h *LinkHandler) CreateAccessLink(c *gin.Context) {
	var req model.CreateAccessLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	claims := middleware.ClaimsFromContext(c)
	created, err := h.links.CreateAccessLink(c.Request.Context(), &req, claims.Email)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

type setActiveRequest struct {
	Ativo *bool `json:"ativo" binding:"required"`
}

func (h *LinkHandler) SetAccessLinkActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid link id", err))
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	if err := h.links.SetAccessLinkActive(c.Request.Context(), id, *req.Ativo); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"ativo": *req.Ativo})
}

func (h *LinkHandler) ListAccessLinks(c *gin.Context) {
	links, err := h.links.ListAccessLinks(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, links)
}

func (h *LinkHandler) ListAccessLinksByTeam(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid team id", err))
		return
	}

	links, err := h.links.ListAccessLinksByTeam(c.Request.Context(), teamID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, links)
}

func (h *LinkHandler) CreateRegistrationLink(c *gin.Context) {
	var req model.CreateRegistrationLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	claims := middleware.ClaimsFromContext(c)
	created, err := h.links.CreateRegistrationLink(c.Request.Context(), &req, claims.Email)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *LinkHandler) SetRegistrationLinkActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid link id", err))
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	if err := h.links.SetRegistrationLinkActive(c.Request.Context(), id, *req.Ativo); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"ativo": *req.Ativo})
}

func (h *LinkHandler) ListRegistrationLinks(c *gin.Context) {
	links, err := h.links.ListRegistrationLinks(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, links)
}

func (h *LinkHandler) RegisterTeam(c *gin.Context) {
	var req model.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	created, err := h.links.RegisterTeam(c.Request.Context(), c.Param("token"), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}
