package handler

import (
	"net/http"

	"carmarket_backend/internal/listings/service"
	"carmarket_backend/internal/listings/transport"
	"carmarket_backend/platform/httpkit"
	"carmarket_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidListingID = "invalid listing id"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Search handles GET /listings/search.
func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Search(c.Request.Context(), req.ToCriteria())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Similar handles GET /listings/:id/similar.
func (h *Handler) Similar(c *gin.Context) {
	listingID, ok := parseListingID(c)
	if !ok {
		return
	}

	result, err := h.svc.Similar(c.Request.Context(), listingID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// GetByID handles GET /listings/:id.
func (h *Handler) GetByID(c *gin.Context) {
	listingID, ok := parseListingID(c)
	if !ok {
		return
	}

	listing, err := h.svc.GetByID(c.Request.Context(), listingID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, listing)
}

// Makes handles GET /listings/makes.
func (h *Handler) Makes(c *gin.Context) {
	result, err := h.svc.Makes(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Stats handles GET /listings/stats.
func (h *Handler) Stats(c *gin.Context) {
	result, err := h.svc.Stats(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// DealerListings handles GET /dealer/listings.
func (h *Handler) DealerListings(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	items, err := h.svc.DealerListings(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"items": items})
}

// Create handles POST /listings.
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	listing, err := h.svc.Create(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, listing)
}

// Update handles PUT /listings/:id.
func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	listingID, ok := parseListingID(c)
	if !ok {
		return
	}

	var req transport.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	listing, err := h.svc.Update(c.Request.Context(), identity.UserID(), listingID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, listing)
}

// Delete handles DELETE /listings/:id.
func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	listingID, ok := parseListingID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), identity.UserID(), listingID); httpkit.HandleError(c, err) {
		return
	}

	httpkit.NoContent(c)
}

func parseListingID(c *gin.Context) (uuid.UUID, bool) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidListingID, nil)
		return uuid.Nil, false
	}
	return listingID, true
}
