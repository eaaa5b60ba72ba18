package handler

import (
	"net/http"

	"carmarket_backend/internal/messages/service"
	"carmarket_backend/internal/messages/transport"
	"carmarket_backend/platform/httpkit"
	"carmarket_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Send handles POST /messages.
func (h *Handler) Send(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	msg, err := h.svc.Send(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, msg)
}

// Conversation handles GET /messages?listingId=.
func (h *Handler) Conversation(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	listingID, err := uuid.Parse(c.Query("listingId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, "listingId query parameter is required")
		return
	}

	messages, err := h.svc.Conversation(c.Request.Context(), identity.UserID(), listingID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"items": messages})
}

// Inbox handles GET /dealer/messages.
func (h *Handler) Inbox(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	inbox, err := h.svc.Inbox(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, inbox)
}

// MarkRead handles POST /messages/:id/read.
func (h *Handler) MarkRead(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), identity.UserID(), messageID); httpkit.HandleError(c, err) {
		return
	}

	httpkit.NoContent(c)
}
