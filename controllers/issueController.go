package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fixit-be/config"
	"fixit-be/repositories"
	"fixit-be/services"

	"github.com/gin-gonic/gin"
)

var (
	issueRepo  = repositories.NewMongoIssueRepository(config.GetCollection("issues"))
	adminRepo  = repositories.NewMongoAdminRepository(config.GetCollection("admins"))
	logRepo    = repositories.NewMongoStatusChangeLogRepository(config.GetCollection("statusChangeLogs"))
	upvoteRepo = repositories.NewMongoUpvoteRepository(config.GetCollection("upvotes"))

	issueService = services.NewIssueService(issueRepo, upvoteRepo)
	adminService = services.NewAdminService(issueRepo, adminRepo, logRepo)
)

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// CreateIssue handles the creation of a new issue
func CreateIssue(c *gin.Context) {
	userUID, exists := c.Get("user_uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Title       string   `json:"title" binding:"required,max=200"`
		Description string   `json:"description" binding:"required,max=1000"`
		Category    string   `json:"category" binding:"required"`
		Priority    string   `json:"priority,omitempty"`
		Severity    string   `json:"severity,omitempty"`
		Location    string   `json:"location" binding:"required,max=200"`
		Latitude    *float64 `json:"latitude,omitempty"`
		Longitude   *float64 `json:"longitude,omitempty"`
		ImageURLs   []string `json:"imageUrls,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reporterName := ""
	if name, ok := c.Get("auth_name"); ok {
		reporterName, _ = name.(string)
	}

	ctx, cancel := requestContext()
	defer cancel()

	issue, err := issueService.Create(ctx, services.CreateIssueInput{
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Priority:     input.Priority,
		Severity:     input.Severity,
		Location:     input.Location,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		ImageURLs:    input.ImageURLs,
		ReporterUID:  userUID.(string),
		ReporterName: reporterName,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// GetIssue retrieves an issue by its ID
func GetIssue(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	issue, err := issueService.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrIssueNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	c.JSON(http.StatusOK, issue)
}

// DeleteIssue allows the reporter of an issue to delete it. Upvote records
// go with it; the status change logs stay.
func DeleteIssue(c *gin.Context) {
	userUID, exists := c.Get("user_uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	err := issueService.Delete(ctx, c.Param("id"), userUID.(string))
	switch {
	case errors.Is(err, services.ErrIssueNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this issue"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete issue"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Issue deleted successfully"})
	}
}

// UpvoteIssue casts the user's upvote on an issue, once per user
func UpvoteIssue(c *gin.Context) {
	userUID, exists := c.Get("user_uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	issue, err := issueService.Upvote(ctx, c.Param("id"), userUID.(string))
	switch {
	case errors.Is(err, services.ErrIssueNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
	case errors.Is(err, services.ErrAlreadyUpvoted):
		c.JSON(http.StatusBadRequest, gin.H{"error": "You have already upvoted this issue"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upvote issue"})
	default:
		c.JSON(http.StatusOK, gin.H{
			"message": "Upvote recorded successfully",
			"issue":   issue,
			"upvotes": issue.Upvotes,
		})
	}
}

// AddIssueImage attaches an already-uploaded image URL to an issue
func AddIssueImage(c *gin.Context) {
	var input struct {
		ImageURL string `json:"imageUrl" binding:"required,url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	issue, err := issueService.AddImage(ctx, c.Param("id"), input.ImageURL)
	if err != nil {
		if errors.Is(err, services.ErrIssueNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add image to issue"})
		}
		return
	}

	c.JSON(http.StatusOK, issue)
}

// GetIssueHistory returns the issue's full status audit trail with derived
// response and resolution times
func GetIssueHistory(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	report, err := adminService.IssueHistory(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrIssueNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue history"})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}
