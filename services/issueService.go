package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fixit-be/models"
	"fixit-be/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueService covers the reporter-facing issue operations.
type IssueService struct {
	issues  repositories.IssueRepository
	upvotes repositories.UpvoteRepository
}

func NewIssueService(issues repositories.IssueRepository, upvotes repositories.UpvoteRepository) *IssueService {
	return &IssueService{issues: issues, upvotes: upvotes}
}

// CreateIssueInput carries the reporter-owned fields of a new issue.
type CreateIssueInput struct {
	Title        string
	Description  string
	Category     string
	Priority     string
	Severity     string
	Location     string
	Latitude     *float64
	Longitude    *float64
	ImageURLs    []string
	ReporterUID  string
	ReporterName string
}

// Create opens a new issue in status OPEN.
func (s *IssueService) Create(ctx context.Context, in CreateIssueInput) (*models.Issue, error) {
	now := time.Now()
	issue := &models.Issue{
		ID:           primitive.NewObjectID(),
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		Priority:     in.Priority,
		Severity:     in.Severity,
		Location:     in.Location,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		ImageURLs:    in.ImageURLs,
		ReporterUID:  in.ReporterUID,
		ReporterName: in.ReporterName,
		Status:       models.StatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.issues.Insert(ctx, issue); err != nil {
		return nil, fmt.Errorf("insert issue: %w", err)
	}
	return issue, nil
}

// Get returns one issue by id.
func (s *IssueService) Get(ctx context.Context, issueID string) (*models.Issue, error) {
	objID, err := primitive.ObjectIDFromHex(issueID)
	if err != nil {
		return nil, ErrIssueNotFound
	}

	issue, err := s.issues.FindByID(ctx, objID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrIssueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load issue: %w", err)
	}
	return issue, nil
}

// Delete removes an issue and its upvote records. Status change logs are
// left in place so the audit trail survives the issue.
func (s *IssueService) Delete(ctx context.Context, issueID, userUID string) error {
	objID, err := primitive.ObjectIDFromHex(issueID)
	if err != nil {
		return ErrIssueNotFound
	}

	issue, err := s.issues.FindByID(ctx, objID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrIssueNotFound
	}
	if err != nil {
		return fmt.Errorf("load issue: %w", err)
	}

	if issue.ReporterUID != userUID {
		return ErrForbidden
	}

	if err := s.issues.Delete(ctx, objID); err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}

	if err := s.upvotes.DeleteByIssueID(ctx, objID); err != nil {
		return fmt.Errorf("delete upvotes: %w", err)
	}
	return nil
}

// Upvote records one upvote per user per issue and bumps the counter.
func (s *IssueService) Upvote(ctx context.Context, issueID, userUID string) (*models.Issue, error) {
	objID, err := primitive.ObjectIDFromHex(issueID)
	if err != nil {
		return nil, ErrIssueNotFound
	}

	voted, err := s.upvotes.Exists(ctx, objID, userUID)
	if err != nil {
		return nil, fmt.Errorf("check existing upvote: %w", err)
	}
	if voted {
		return nil, ErrAlreadyUpvoted
	}

	if _, err := s.issues.FindByID(ctx, objID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, fmt.Errorf("load issue: %w", err)
	}

	upvote := &models.Upvote{
		ID:        primitive.NewObjectID(),
		Issue:     objID,
		UserUID:   userUID,
		CreatedAt: time.Now(),
	}
	if err := s.upvotes.Insert(ctx, upvote); err != nil {
		return nil, fmt.Errorf("record upvote: %w", err)
	}

	updated, err := s.issues.IncrementUpvotes(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("increment upvotes: %w", err)
	}
	return updated, nil
}

// AddImage appends an image URL to the issue. The image bytes live
// elsewhere; only the reference is stored.
func (s *IssueService) AddImage(ctx context.Context, issueID, imageURL string) (*models.Issue, error) {
	objID, err := primitive.ObjectIDFromHex(issueID)
	if err != nil {
		return nil, ErrIssueNotFound
	}

	issue, err := s.issues.FindByID(ctx, objID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrIssueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load issue: %w", err)
	}

	urls := append(issue.ImageURLs, imageURL)
	updated, err := s.issues.UpdateFields(ctx, objID, map[string]interface{}{
		"imageUrls": urls,
		"updatedAt": time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("add image to issue: %w", err)
	}
	return updated, nil
}
