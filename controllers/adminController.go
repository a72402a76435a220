package controllers

import (
	"errors"
	"net/http"

	"fixit-be/services"

	"github.com/gin-gonic/gin"
)

// UpdateIssueStatus applies a status transition on behalf of the
// authenticated admin and returns the updated issue
func UpdateIssueStatus(c *gin.Context) {
	adminUID, exists := c.Get("admin_uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin not authenticated"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
		Notes  string `json:"notes,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	issue, err := adminService.TransitionStatus(ctx, c.Param("id"), input.Status, adminUID.(string), input.Notes)
	switch {
	case errors.Is(err, services.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
	case errors.Is(err, services.ErrIssueNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
	case errors.Is(err, services.ErrAdminNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue status"})
	default:
		c.JSON(http.StatusOK, issue)
	}
}

// GetAdminDashboard returns the authenticated admin's stats, performance
// metrics, recent activity, and workload share
func GetAdminDashboard(c *gin.Context) {
	adminUID, exists := c.Get("admin_uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin not authenticated"})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	report, err := adminService.AdminDashboard(ctx, adminUID.(string))
	if err != nil {
		if errors.Is(err, services.ErrAdminNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetAnalytics returns fleet-wide analytics over an optional date range
func GetAnalytics(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")

	ctx, cancel := requestContext()
	defer cancel()

	report, err := adminService.Analytics(ctx, startDate, endDate)
	if err != nil {
		if errors.Is(err, services.ErrBadDateRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}
