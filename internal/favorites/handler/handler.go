package handler

import (
	"net/http"

	"carmarket_backend/internal/favorites/service"
	listingtransport "carmarket_backend/internal/listings/transport"
	"carmarket_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidListingID = "invalid listing id"

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Add handles POST /favorites/:listingId.
func (h *Handler) Add(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	listingID, err := uuid.Parse(c.Param("listingId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidListingID, nil)
		return
	}

	if err := h.svc.Add(c.Request.Context(), identity.UserID(), listingID); httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, gin.H{"listingId": listingID})
}

// Remove handles DELETE /favorites/:listingId.
func (h *Handler) Remove(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	listingID, err := uuid.Parse(c.Param("listingId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidListingID, nil)
		return
	}

	if err := h.svc.Remove(c.Request.Context(), identity.UserID(), listingID); httpkit.HandleError(c, err) {
		return
	}

	httpkit.NoContent(c)
}

// List handles GET /favorites.
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	listings, err := h.svc.List(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"items": listingtransport.ToSummaries(listings)})
}
