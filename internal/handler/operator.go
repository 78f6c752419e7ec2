package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/LucasNeuro/fta-form-sub000/internal/middleware"
	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/service/operator"
	apperrors "github.com/LucasNeuro/fta-form-sub000/pkg/errors"
	"github.com/LucasNeuro/fta-form-sub000/pkg/httputil"
)

type OperatorHandler struct {
	operators *operator.Service
}

func NewOperatorHandler(operators *operator.Service) *OperatorHandler {
	return &OperatorHandler{operators: operators}
}

func (h *OperatorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ops := rg.Group("/operadores")
	{
		ops.POST("", h.Create)
		ops.GET("/:id", h.Get)
		ops.PUT("/:id", h.Update)
		ops.DELETE("/:id", h.Delete)
	}
	rg.GET("/equipes/:id/operadores", h.ListByTeam)

	annotations := rg.Group("/anotacoes")
	{
		annotations.POST("", h.CreateAnnotation)
		annotations.DELETE("/:id", h.DeleteAnnotation)
	}
	rg.GET("/equipes/:id/anotacoes", h.ListAnnotations)
}

func (h *OperatorHandler) Create(c *gin.Context) {
	var req model.CreateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	created, err := h.operators.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *OperatorHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid operator id", err))
		return
	}

	op, err := h.operators.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, op)
}

func (h *OperatorHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid operator id", err))
		return
	}

	var req model.UpdateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	updated, err := h.operators.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, updated)
}

func (h *OperatorHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid operator id", err))
		return
	}

	if err := h.operators.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "operator deleted"})
}

func (h *OperatorHandler) ListByTeam(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid team id", err))
		return
	}

	ops, err := h.operators.ListByTeam(c.Request.Context(), teamID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, ops)
}

func (h *OperatorHandler) CreateAnnotation(c *gin.Context) {
	var req model.CreateAnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	claims := middleware.ClaimsFromContext(c)
	created, err := h.operators.CreateAnnotation(c.Request.Context(), &req, claims.Email)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *OperatorHandler) DeleteAnnotation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid annotation id", err))
		return
	}

	if err := h.operators.DeleteAnnotation(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "annotation deleted"})
}

func (h *OperatorHandler) ListAnnotations(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid team id", err))
		return
	}

	annotations, err := h.operators.ListAnnotations(c.Request.Context(), teamID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, annotations)
}
