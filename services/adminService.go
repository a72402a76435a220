package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"fixit-be/models"
	"fixit-be/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminService owns the status-change workflow: it applies transitions to
// issues, appends the audit ledger, folds aggregates into the acting admin,
// and produces the read-side reports.
type AdminService struct {
	issues repositories.IssueRepository
	admins repositories.AdminRepository
	logs   repositories.StatusChangeLogRepository

	// one in-flight aggregate mutation per admin uid
	adminLocks sync.Map
}

func NewAdminService(
	issues repositories.IssueRepository,
	admins repositories.AdminRepository,
	logs repositories.StatusChangeLogRepository,
) *AdminService {
	return &AdminService{issues: issues, admins: admins, logs: logs}
}

func (s *AdminService) lockAdmin(adminUID string) *sync.Mutex {
	mu, _ := s.adminLocks.LoadOrStore(adminUID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Register stores a new admin after checking the email is free.
func (s *AdminService) Register(ctx context.Context, admin *models.Admin) error {
	_, err := s.admins.FindByEmail(ctx, admin.Email)
	if err == nil {
		return ErrEmailTaken
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("check existing admin: %w", err)
	}

	if err := s.admins.Insert(ctx, admin); err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

// TransitionStatus moves an issue to newStatus on behalf of adminUid.
//
// Any status may move to any other status, including out of RESOLVED or
// CLOSED; there is deliberately no transition graph. A change to the same
// status is still recorded in the ledger but leaves the admin aggregates
// untouched.
//
// The three writes (issue, ledger, admin) run sequentially without a
// transaction; a failure part-way surfaces as an error and is not
// compensated, so a blind retry can double-count aggregates.
func (s *AdminService) TransitionStatus(ctx context.Context, issueID, newStatus, adminUID, notes string) (*models.Issue, error) {
	status, ok := models.ParseIssueStatus(newStatus)
	if !ok {
		return nil, ErrInvalidStatus
	}

	objID, err := primitive.ObjectIDFromHex(issueID)
	if err != nil {
		return nil, ErrIssueNotFound
	}

	// Serializes the admin's read-modify-write; other admins proceed.
	mu := s.lockAdmin(adminUID)
	mu.Lock()
	defer mu.Unlock()

	admin, err := s.admins.FindByUID(ctx, adminUID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load admin: %w", err)
	}

	issue, err := s.issues.FindByID(ctx, objID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrIssueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load issue: %w", err)
	}

	previous := issue.Status
	now := time.Now()

	updated, err := s.issues.UpdateFields(ctx, objID, map[string]interface{}{
		"status":             status,
		"handledByAdminUid":  adminUID,
		"handledByAdminName": admin.Name,
		"adminNotes":         notes,
		"lastStatusChangeAt": now,
		"updatedAt":          now,
	})
	if err != nil {
		return nil, fmt.Errorf("update issue status: %w", err)
	}

	entry := &models.StatusChangeLog{
		ID:                 primitive.NewObjectID(),
		IssueID:            objID,
		FromStatus:         previous,
		ToStatus:           status,
		ChangedByAdminUID:  adminUID,
		ChangedByAdminName: admin.Name,
		ChangedAt:          now,
		Notes:              notes,
	}
	if err := s.logs.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append status change log: %w", err)
	}

	admin.ApplyTransition(previous, status, updated, now)
	if err := s.admins.Save(ctx, admin); err != nil {
		return nil, fmt.Errorf("save admin stats: %w", err)
	}

	return updated, nil
}

// IssueHistoryReport is the audit view of one issue.
type IssueHistoryReport struct {
	Issue               *models.Issue            `json:"issue"`
	StatusChanges       []models.StatusChangeLog `json:"statusChanges"`
	ResponseTimeMinutes *float64                 `json:"responseTimeMinutes,omitempty"`
	ResolutionTimeHours *float64                 `json:"resolutionTimeHours,omitempty"`
	TotalStatusChanges  int                      `json:"totalStatusChanges"`
}

// IssueHistory returns the issue with its ledger entries newest first plus
// derived timing figures.
func (s *AdminService) IssueHistory(ctx context.Context, issueID string) (*IssueHistoryReport, error) {
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

	entries, err := s.logs.FindByIssueID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("load status change logs: %w", err)
	}

	report := &IssueHistoryReport{Issue: issue, StatusChanges: entries}
	if len(entries) == 0 {
		return report, nil
	}

	// Time to first response: earliest entry that left OPEN.
	var first *models.StatusChangeLog
	for i := range entries {
		e := &entries[i]
		if e.FromStatus != models.StatusOpen {
			continue
		}
		if first == nil || e.ChangedAt.Before(first.ChangedAt) {
			first = e
		}
	}
	if first != nil && !issue.CreatedAt.IsZero() {
		minutes := first.ChangedAt.Sub(issue.CreatedAt).Minutes()
		report.ResponseTimeMinutes = &minutes
	}

	// Resolution time: latest entry that landed on a terminal status. This
	// may postdate the transition that produced the current status when the
	// issue bounced after being resolved.
	if issue.Status == models.StatusResolved || issue.Status == models.StatusClosed {
		var last *models.StatusChangeLog
		for i := range entries {
			e := &entries[i]
			if e.ToStatus != models.StatusResolved && e.ToStatus != models.StatusClosed {
				continue
			}
			if last == nil || e.ChangedAt.After(last.ChangedAt) {
				last = e
			}
		}
		if last != nil && !issue.CreatedAt.IsZero() {
			hours := last.ChangedAt.Sub(issue.CreatedAt).Hours()
			report.ResolutionTimeHours = &hours
		}
	}

	report.TotalStatusChanges = len(entries)
	return report, nil
}

// AdminDashboardReport bundles the admin's aggregates with recent activity.
type AdminDashboardReport struct {
	AdminStats             models.AdminStats         `json:"adminStats"`
	PerformanceMetrics     models.PerformanceMetrics `json:"performanceMetrics"`
	CategoryStats          models.CategoryStats      `json:"categoryStats"`
	LocationStats          models.LocationStats      `json:"locationStats"`
	TimeMetrics            models.TimeMetrics        `json:"timeMetrics"`
	CompletionRate         float64                   `json:"completionRate"`
	RecentChanges          []models.StatusChangeLog  `json:"recentChanges"`
	RecentActivityByStatus map[string]int            `json:"recentActivityByStatus"`
	WorkloadPercentage     float64                   `json:"workloadPercentage"`
}

// AdminDashboard assembles the dashboard for one admin.
func (s *AdminService) AdminDashboard(ctx context.Context, adminUID string) (*AdminDashboardReport, error) {
	admin, err := s.admins.FindByUID(ctx, adminUID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load admin: %w", err)
	}

	report := &AdminDashboardReport{
		AdminStats:         admin.Stats,
		PerformanceMetrics: admin.PerformanceMetrics,
		CategoryStats:      admin.CategoryStats,
		LocationStats:      admin.LocationStats,
		TimeMetrics:        admin.TimeMetrics,
	}

	if admin.Stats.TotalIssuesHandled > 0 {
		completed := admin.Stats.IssuesResolved + admin.Stats.IssuesClosed
		report.CompletionRate = float64(completed) / float64(admin.Stats.TotalIssuesHandled) * 100.0
	}

	all, err := s.logs.FindByAdminSince(ctx, adminUID, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("load recent changes: %w", err)
	}
	if len(all) > 10 {
		all = all[:10]
	}
	report.RecentChanges = all

	weekAgo := time.Now().AddDate(0, 0, -7)
	recent, err := s.logs.FindByAdminSince(ctx, adminUID, weekAgo)
	if err != nil {
		return nil, fmt.Errorf("load weekly activity: %w", err)
	}
	activity := make(map[string]int)
	for _, e := range recent {
		activity[string(e.ToStatus)]++
	}
	report.RecentActivityByStatus = activity

	// Workload share needs a full issue count; tolerable while the issue
	// collection stays small.
	systemTotal, err := s.issues.CountAll(ctx)
	if err != nil {
		log.Println("Error counting issues for workload distribution:", err)
		systemTotal = 0
	}
	if systemTotal > 0 {
		report.WorkloadPercentage = float64(admin.Stats.TotalIssuesHandled) / float64(systemTotal) * 100.0
	}

	return report, nil
}
