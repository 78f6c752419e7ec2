package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/LucasNeuro/fta-form-sub000/internal/cora"
	"github.com/LucasNeuro/fta-form-sub000/internal/middleware"
	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/service/billing"
	apperrors "github.com/LucasNeuro/fta-form-sub000/pkg/errors"
	"github.com/LucasNeuro/fta-form-sub000/pkg/httputil"
)

type BillingHandler struct {
	billing *billing.Service
}

func NewBillingHandler(billingService *billing.Service) *BillingHandler {
	return &BillingHandler{billing: billingService}
}

func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/boletos")
	{
		invoices.POST("", h.CreateInvoice)
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:id", h.GetInvoice)
		invoices.POST("/:id/cancelar", h.CancelInvoice)
	}
	rg.GET("/financeiro/totais", h.Totals)
	rg.POST("/financeiro/reconciliar", h.Reconcile)
}

func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	var req model.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	claims := middleware.ClaimsFromContext(c)
	inv, err := h.billing.CreateInvoice(c.Request.Context(), &req, claims.Email)
	if err != nil {
		// Provider validation failures carry field-level detail worth
		// showing to the operator verbatim.
		var ce *cora.Error
		if errors.As(err, &ce) && ce.Kind == cora.KindValidation && ce.Details != nil {
			httputil.RespondWithValidationError(c, ce.Message, ce.Details)
			return
		}
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, inv)
}

func (h *BillingHandler) GetInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid invoice id", err))
		return
	}

	inv, err := h.billing.GetInvoice(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, inv)
}

func (h *BillingHandler) CancelInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid invoice id", err))
		return
	}

	if err := h.billing.CancelInvoice(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"status": model.InvoiceStatusCancelado})
}

func (h *BillingHandler) ListInvoices(c *gin.Context) {
	filters, err := parseInvoiceFilters(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	invoices, err := h.billing.ListInvoices(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, invoices)
}

func (h *BillingHandler) Totals(c *gin.Context) {
	totals, err := h.billing.Totals(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, totals)
}

// Reconcile triggers a run synchronously; a run already in flight yields 409.
func (h *BillingHandler) Reconcile(c *gin.Context) {
	summary, err := h.billing.Reconcile(c.Request.Context())
	if errors.Is(err, billing.ErrReconcileRunning) {
		c.JSON(http.StatusConflict, httputil.Response{
			Success: false,
			Error:   &httputil.Error{Code: http.StatusConflict, Message: "reconciliação já em andamento"},
		})
		return
	}
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, summary)
}

func parseInvoiceFilters(c *gin.Context) (*model.InvoiceFilters, error) {
	filters := &model.InvoiceFilters{}

	if v := c.Query("equipe_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, apperrors.BadRequest("invalid equipe_id filter", err)
		}
		filters.EquipeID = &id
	}
	if v := c.Query("status"); v != "" {
		switch model.InvoiceStatus(v) {
		case model.InvoiceStatusPendente, model.InvoiceStatusPago,
			model.InvoiceStatusVencido, model.InvoiceStatusCancelado:
			s := model.InvoiceStatus(v)
			filters.Status = &s
		default:
			return nil, apperrors.BadRequest("invalid status filter", nil)
		}
	}
	if v := c.Query("inicio"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, apperrors.BadRequest("invalid inicio filter, use YYYY-MM-DD", err)
		}
		filters.StartDate = &t
	}
	if v := c.Query("fim"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, apperrors.BadRequest("invalid fim filter, use YYYY-MM-DD", err)
		}
		filters.EndDate = &t
	}
	return filters, nil
}
