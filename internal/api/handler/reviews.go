package handler

import (
	"errors"
	"net/http"
	"strings"

	"unicrew/backend/internal/models"
	"unicrew/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type createReviewRequest struct {
	ApplicationID string `json:"applicationId" binding:"required"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

// CreateReview stores a rating for an ended application. The side being
// reviewed follows from the caller's role: users review the company and
// companies review the user.
func (h *Handler) CreateReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "applicationId is required"})
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
		return
	}

	counterparty := models.CounterpartyCompany
	if c.GetString(ctxRole) == models.RoleCompany {
		counterparty = models.CounterpartyUser
	}

	review := models.Review{
		ApplicationID:    req.ApplicationID,
		ReviewerID:       c.GetString(ctxAccountID),
		CounterpartyType: counterparty,
		Rating:           req.Rating,
		Comment:          strings.TrimSpace(req.Comment),
	}
	if err := h.Storage.SaveReview(&review); err != nil {
		switch {
		case errors.Is(err, storage.ErrApplicationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, storage.ErrNotEnded), errors.Is(err, storage.ErrDuplicateReview):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save review"})
		}
		return
	}
	c.JSON(http.StatusCreated, review)
}

// ListPendingReviews returns the caller's ended applications that still lack
// a review from their side. The filtering is done server-side.
func (h *Handler) ListPendingReviews(c *gin.Context) {
	apps, err := h.Storage.ListPendingReviews(c.GetString(ctxAccountID), c.GetString(ctxRole))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pending reviews"})
		return
	}
	c.JSON(http.StatusOK, apps)
}
