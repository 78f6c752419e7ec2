package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/service/team"
	apperrors "github.com/LucasNeuro/fta-form-sub000/pkg/errors"
	"github.com/LucasNeuro/fta-form-sub000/pkg/httputil"
)

type TeamHandler struct {
	teams *team.Service
}

func NewTeamHandler(teams *team.Service) *TeamHandler {
	return &TeamHandler{teams: teams}
}

func (h *TeamHandler) RegisterRoutes(rg *gin.RouterGroup) {
	teams := rg.Group("/equipes")
	{
		teams.POST("", h.Create)
		teams.GET("", h.List)
		teams.GET("/:id", h.Get)
		teams.PUT("/:id", h.Update)
		teams.DELETE("/:id", h.Delete)
	}
}

func (h *TeamHandler) Create(c *gin.Context) {
	var req model.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	created, err := h.teams.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *TeamHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid team id", err))
		return
	}

	t, err := h.teams.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, t)
}

func (h *TeamHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid team id", err))
		return
	}

	var req model.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	updated, err := h.teams.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, updated)
}

func (h *TeamHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid team id", err))
		return
	}

	if err := h.teams.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "team deleted"})
}

func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.teams.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, teams)
}
