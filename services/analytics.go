package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fixit-be/models"

	"github.com/montanaflynn/stats"
)

// DailyActivity is one day of fleet-wide terminal transitions.
type DailyActivity struct {
	Date     string `json:"date"`
	Resolved int    `json:"resolved"`
	Closed   int    `json:"closed"`
	Rejected int    `json:"rejected"`
}

// AnalyticsReport summarizes the whole admin fleet over a date range.
type AnalyticsReport struct {
	TotalAdmins                  int             `json:"totalAdmins"`
	TotalIssuesResolved          int             `json:"totalIssuesResolved"`
	TotalIssuesClosed            int             `json:"totalIssuesClosed"`
	TotalIssuesRejected          int             `json:"totalIssuesRejected"`
	AverageApprovalRate          float64         `json:"averageApprovalRate"`
	MedianApprovalRate           float64         `json:"medianApprovalRate"`
	AverageResolutionTimeInHours float64         `json:"averageResolutionTimeInHours"`
	IssuesByDay                  []DailyActivity `json:"issuesByDay"`
}

// Analytics aggregates across all admins and the ledger. Dates are
// YYYY-MM-DD; either bound may be empty and the end date is inclusive.
func (s *AdminService) Analytics(ctx context.Context, startDate, endDate string) (*AnalyticsReport, error) {
	var start, end time.Time
	if startDate != "" {
		t, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return nil, ErrBadDateRange
		}
		start = t
	}
	if endDate != "" {
		t, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return nil, ErrBadDateRange
		}
		end = t.AddDate(0, 0, 1)
	}

	admins, err := s.admins.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load admins: %w", err)
	}

	report := &AnalyticsReport{TotalAdmins: len(admins)}

	var approvalRates, resolutionTimes []float64
	for _, admin := range admins {
		report.TotalIssuesResolved += admin.Stats.IssuesResolved
		report.TotalIssuesClosed += admin.Stats.IssuesClosed
		report.TotalIssuesRejected += admin.Stats.IssuesRejected

		if admin.Stats.TotalIssuesHandled > 0 {
			approvalRates = append(approvalRates, admin.Stats.ApprovalRate)
		}
		if admin.Stats.IssuesResolved > 0 {
			resolutionTimes = append(resolutionTimes, admin.PerformanceMetrics.AverageResolutionTimeInHours)
		}
	}

	if len(approvalRates) > 0 {
		if mean, err := stats.Mean(approvalRates); err == nil {
			report.AverageApprovalRate = mean
		}
		if median, err := stats.Median(approvalRates); err == nil {
			report.MedianApprovalRate = median
		}
	}
	if len(resolutionTimes) > 0 {
		if mean, err := stats.Mean(resolutionTimes); err == nil {
			report.AverageResolutionTimeInHours = mean
		}
	}

	entries, err := s.logs.FindBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load status change logs: %w", err)
	}

	byDay := make(map[string]*DailyActivity)
	for _, e := range entries {
		day := e.ChangedAt.Format("2006-01-02")
		activity, ok := byDay[day]
		if !ok {
			activity = &DailyActivity{Date: day}
			byDay[day] = activity
		}
		switch e.ToStatus {
		case models.StatusResolved:
			activity.Resolved++
		case models.StatusClosed:
			activity.Closed++
		case models.StatusRejected:
			activity.Rejected++
		}
	}

	days := make([]DailyActivity, 0, len(byDay))
	for _, activity := range byDay {
		days = append(days, *activity)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
	report.IssuesByDay = days

	return report, nil
}
