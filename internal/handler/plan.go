package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/service/plan"
	apperrors "github.com/LucasNeuro/fta-form-sub000/pkg/errors"
	"github.com/LucasNeuro/fta-form-sub000/pkg/httputil"
)

type PlanHandler struct {
	plans *plan.Service
}

func NewPlanHandler(plans *plan.Service) *PlanHandler {
	return &PlanHandler{plans: plans}
}

func (h *PlanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	plans := rg.Group("/planos")
	{
		plans.POST("", h.Create)
		plans.GET("", h.List)
		plans.GET("/:id", h.Get)
		plans.PUT("/:id", h.Update)
		plans.DELETE("/:id", h.Delete)
	}
}

func (h *PlanHandler) Create(c *gin.Context) {
	var req model.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	created, err := h.plans.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *PlanHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid plan id", err))
		return
	}

	p, err := h.plans.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *PlanHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid plan id", err))
		return
	}

	var req model.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	updated, err := h.plans.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, updated)
}

func (h *PlanHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid plan id", err))
		return
	}

	if err := h.plans.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "plan deleted"})
}

func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.plans.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, plans)
}
