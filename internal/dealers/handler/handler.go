package handler

import (
	"net/http"

	"carmarket_backend/internal/dealers/service"
	"carmarket_backend/internal/dealers/transport"
	"carmarket_backend/platform/httpkit"
	"carmarket_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidDealerID  = "invalid dealer id"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Upsert handles POST /dealers.
func (h *Handler) Upsert(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.UpsertDealerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	profile, err := h.svc.Upsert(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, profile)
}

// Profile handles GET /dealers/:id.
func (h *Handler) Profile(c *gin.Context) {
	dealerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidDealerID, nil)
		return
	}

	profile, err := h.svc.Profile(c.Request.Context(), dealerID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, profile)
}

// Dashboard handles GET /dealer/dashboard.
func (h *Handler) Dashboard(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	stats, err := h.svc.Dashboard(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, stats)
}
