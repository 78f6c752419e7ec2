package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LucasNeuro/fta-form-sub000/internal/service/access"
	"github.com/LucasNeuro/fta-form-sub000/pkg/httputil"
)

// AccessHandler serves the public team dashboard behind an access link.
type AccessHandler struct {
	access *access.Service
}

func NewAccessHandler(accessService *access.Service) *AccessHandler {
	return &AccessHandler{access: accessService}
}

func (h *AccessHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/acesso/:token", h.Check)
}

func (h *AccessHandler) Check(c *gin.Context) {
	dashboard, err := h.access.Check(c.Request.Context(), c.Param("token"))
	if err == nil {
		httputil.RespondWithSuccess(c, dashboard)
		return
	}

	var expired *access.ExpiredError
	switch {
	case errors.Is(err, access.ErrLinkInvalid):
		c.JSON(http.StatusForbidden, httputil.Response{
			Success: false,
			Error:   &httputil.Error{Code: http.StatusForbidden, Message: "link de acesso inválido ou desativado"},
		})
	case errors.Is(err, access.ErrNoPayment):
		c.JSON(http.StatusPaymentRequired, httputil.Response{
			Success: false,
			Error:   &httputil.Error{Code: http.StatusPaymentRequired, Message: "nenhum pagamento registrado para a equipe"},
		})
	case errors.As(err, &expired):
		c.JSON(http.StatusPaymentRequired, httputil.Response{
			Success: false,
			Error: &httputil.Error{
				Code:    http.StatusPaymentRequired,
				Message: "validade do pagamento expirada",
				Details: gin.H{"valido_ate": expired.ValidUntil.Format("2006-01-02")},
			},
		})
	default:
		httputil.RespondWithError(c, err)
	}
}
