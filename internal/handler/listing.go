package handler

import (
	"net/http"
	"strconv"

	"propchat/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListingHandler serves single-listing lookups through the catalog.
type ListingHandler struct {
	catalog *repository.PostgresCatalog
}

// NewListingHandler creates a new listing handler
func NewListingHandler(catalog *repository.PostgresCatalog) *ListingHandler {
	return &ListingHandler{catalog: catalog}
}

// GetListing handles GET /api/v1/listings/:id
func (h *ListingHandler) GetListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}

	listing, err := h.catalog.GetListingByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listing: " + err.Error()})
		return
	}
	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, listing)
}
