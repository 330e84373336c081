package handler

import (
	"errors"
	"net/http"

	"unicrew/backend/internal/models"
	"unicrew/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// ListApplicants returns every application for the job, with embedded match
// summaries. Grouping by status is the caller's concern.
func (h *Handler) ListApplicants(c *gin.Context) {
	if c.GetString(ctxRole) != models.RoleCompany {
		c.JSON(http.StatusForbidden, gin.H{"error": "company role required"})
		return
	}

	apps, err := h.Storage.ListApplicantsByJob(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load applicants"})
		return
	}
	c.JSON(http.StatusOK, apps)
}

type updateStatusRequest struct {
	User   []string `json:"user" binding:"required"`
	Status string   `json:"status" binding:"required"`
}

// UpdateStatus moves one or many applicants of a job to a new status in a
// single all-or-nothing request.
func (h *Handler) UpdateStatus(c *gin.Context) {
	if c.GetString(ctxRole) != models.RoleCompany {
		c.JSON(http.StatusForbidden, gin.H{"error": "company role required"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.User) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user list and status are required"})
		return
	}

	target := models.Status(req.Status)
	if !target.Known() || target == models.StatusApplied {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown target status"})
		return
	}

	updated, err := h.Storage.UpdateStatuses(c.Param("id"), req.User, target)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrApplicationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, storage.ErrIllegalTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}

type endApplicationRequest struct {
	ApplicationID string `json:"applicationId" binding:"required"`
}

// EndApplication moves exactly one accepted application to ended. There is
// no bulk form of this operation.
func (h *Handler) EndApplication(c *gin.Context) {
	var req endApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "applicationId is required"})
		return
	}

	app, err := h.Storage.EndApplication(req.ApplicationID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrApplicationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, storage.ErrNotAccepted):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to end application"})
		}
		return
	}
	c.JSON(http.StatusOK, app)
}
