package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// SLAThresholdHours is the resolution window an issue must close within
// to count as SLA compliant.
const SLAThresholdHours = 24.0

// AdminStats holds the running workflow counters for one admin.
type AdminStats struct {
	IssuesResolved            int     `bson:"issuesResolved" json:"issuesResolved"`
	IssuesClosed              int     `bson:"issuesClosed" json:"issuesClosed"`
	IssuesRejected            int     `bson:"issuesRejected" json:"issuesRejected"`
	IssuesInProgress          int     `bson:"issuesInProgress" json:"issuesInProgress"`
	TotalIssuesHandled        int     `bson:"totalIssuesHandled" json:"totalIssuesHandled"`
	HighPriorityIssuesHandled int     `bson:"highPriorityIssuesHandled" json:"highPriorityIssuesHandled"`
	ApprovalRate              float64 `bson:"approvalRate" json:"approvalRate"`
}

// PerformanceMetrics holds timing and SLA figures. The trailing fields are
// tracked in the record but have no update path yet.
type PerformanceMetrics struct {
	AverageResolutionTimeInHours float64 `bson:"averageResolutionTimeInHours" json:"averageResolutionTimeInHours"`
	SLACompliantIssues           int     `bson:"slaCompliantIssues" json:"slaCompliantIssues"`
	SLAComplianceRate            float64 `bson:"slaComplianceRate" json:"slaComplianceRate"`
	IssuesSolvedFirstAttempt     int     `bson:"issuesSolvedFirstAttempt" json:"issuesSolvedFirstAttempt"`
	ReopenRate                   float64 `bson:"reopenRate" json:"reopenRate"`
	UserSatisfactionScore        float64 `bson:"userSatisfactionScore" json:"userSatisfactionScore"`
	AvgResponseTimeInMinutes     float64 `bson:"avgResponseTimeInMinutes" json:"avgResponseTimeInMinutes"`
	EscalationRate               float64 `bson:"escalationRate" json:"escalationRate"`
}

// CategoryStats buckets handled issues by their classification.
type CategoryStats struct {
	ByIssueType map[string]int `bson:"byIssueType" json:"byIssueType"`
	ByPriority  map[string]int `bson:"byPriority" json:"byPriority"`
	BySeverity  map[string]int `bson:"bySeverity" json:"bySeverity"`
}

// LocationStats buckets handled issues by district and city parsed out of
// the free-form location string.
type LocationStats struct {
	IssuesByDistrict map[string]int `bson:"issuesByDistrict" json:"issuesByDistrict"`
	IssuesByCity     map[string]int `bson:"issuesByCity" json:"issuesByCity"`
	HotspotAreas     map[string]int `bson:"hotspotAreas" json:"hotspotAreas"`
}

// TimeMetrics buckets handled issues by the wall-clock time of the change.
type TimeMetrics struct {
	IssuesPerDay     map[string]int `bson:"issuesPerDay" json:"issuesPerDay"`
	MonthlyActivity  map[string]int `bson:"monthlyActivity" json:"monthlyActivity"`
	PeakHours        map[string]int `bson:"peakHours" json:"peakHours"`
	WeekdayVsWeekend map[string]int `bson:"weekdayVsWeekend" json:"weekdayVsWeekend"`
}

// Admin represents an administrator and their running aggregates. The
// aggregate blocks are mutated only through ApplyTransition and are never
// reset for the lifetime of the admin.
type Admin struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email       string             `bson:"email" json:"email"`
	Name        string             `bson:"name" json:"name"`
	Password    string             `bson:"password,omitempty" json:"-"`
	PhoneNumber string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Role        string             `bson:"role" json:"role"`
	Permissions map[string]bool    `bson:"permissions" json:"permissions"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	LastLogin   time.Time          `bson:"lastLogin" json:"lastLogin"`

	Stats              AdminStats         `bson:"stats" json:"stats"`
	PerformanceMetrics PerformanceMetrics `bson:"performanceMetrics" json:"performanceMetrics"`
	CategoryStats      CategoryStats      `bson:"categoryStats" json:"categoryStats"`
	LocationStats      LocationStats      `bson:"locationStats" json:"locationStats"`
	TimeMetrics        TimeMetrics        `bson:"timeMetrics" json:"timeMetrics"`
}

// NewAdmin returns an admin with default permissions and zeroed aggregates.
// The bucket maps start empty rather than nil so a fresh admin's dashboard
// serializes them as {}.
func NewAdmin(name, email string) *Admin {
	now := time.Now()
	return &Admin{
		ID:    primitive.NewObjectID(),
		Name:  name,
		Email: email,
		Role:  "ADMIN",
		Permissions: map[string]bool{
			"canManageIssues": true,
			"canManageUsers":  true,
		},
		CreatedAt: now,
		LastLogin: now,
		CategoryStats: CategoryStats{
			ByIssueType: map[string]int{},
			ByPriority:  map[string]int{},
			BySeverity:  map[string]int{},
		},
		LocationStats: LocationStats{
			IssuesByDistrict: map[string]int{},
			IssuesByCity:     map[string]int{},
			HotspotAreas:     map[string]int{},
		},
		TimeMetrics: TimeMetrics{
			IssuesPerDay:     map[string]int{},
			MonthlyActivity:  map[string]int{},
			PeakHours:        map[string]int{},
			WeekdayVsWeekend: map[string]int{},
		},
	}
}

// UID is the admin identifier carried in tokens and ledger entries.
func (a *Admin) UID() string {
	return a.ID.Hex()
}

func (a *Admin) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.Password = string(hashed)
	return nil
}

func (a *Admin) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(candidate))
	return err == nil
}

// ApplyTransition folds one status change into the admin's aggregates.
// A "change" to the same status leaves every aggregate untouched; the
// ledger still records it, this method does not.
func (a *Admin) ApplyTransition(previous, next IssueStatus, issue *Issue, now time.Time) {
	if previous == next {
		return
	}
	a.applyStatusBuckets(previous, next)
	a.applyPerformanceMetrics(issue, next, now)
	a.applyCategoryStats(issue, next)
	a.applyLocationStats(issue, next)
	a.applyTimeMetrics(next, now)
}

func (a *Admin) applyStatusBuckets(previous, next IssueStatus) {
	switch next {
	case StatusResolved:
		a.Stats.IssuesResolved++
		a.Stats.TotalIssuesHandled++
		if previous == StatusInProgress {
			a.Stats.IssuesInProgress--
		}
	case StatusClosed:
		a.Stats.IssuesClosed++
		a.Stats.TotalIssuesHandled++
		if previous == StatusInProgress {
			a.Stats.IssuesInProgress--
		}
	case StatusRejected:
		a.Stats.IssuesRejected++
		a.Stats.TotalIssuesHandled++
		if previous == StatusInProgress {
			a.Stats.IssuesInProgress--
		}
	case StatusInProgress:
		a.Stats.IssuesInProgress++
	}

	if a.Stats.TotalIssuesHandled > 0 {
		a.Stats.ApprovalRate = float64(a.Stats.IssuesResolved) / float64(a.Stats.TotalIssuesHandled) * 100.0
	} else {
		a.Stats.ApprovalRate = 0.0
	}
}

func (a *Admin) applyPerformanceMetrics(issue *Issue, next IssueStatus, now time.Time) {
	if next == StatusResolved && !issue.CreatedAt.IsZero() {
		hours := now.Sub(issue.CreatedAt).Hours()
		// Running mean seeded from the just-incremented resolved count.
		n := a.Stats.IssuesResolved
		if n == 1 {
			a.PerformanceMetrics.AverageResolutionTimeInHours = hours
		} else if n > 1 {
			prev := a.PerformanceMetrics.AverageResolutionTimeInHours
			a.PerformanceMetrics.AverageResolutionTimeInHours = (prev*float64(n-1) + hours) / float64(n)
		}
	}

	if next == StatusResolved || next == StatusClosed {
		if !issue.CreatedAt.IsZero() {
			hours := now.Sub(issue.CreatedAt).Hours()
			if hours <= SLAThresholdHours {
				a.PerformanceMetrics.SLACompliantIssues++
			}
		}
		if a.Stats.TotalIssuesHandled > 0 {
			a.PerformanceMetrics.SLAComplianceRate = float64(a.PerformanceMetrics.SLACompliantIssues) /
				float64(a.Stats.TotalIssuesHandled) * 100.0
		}
	}
}

func (a *Admin) applyCategoryStats(issue *Issue, next IssueStatus) {
	if next != StatusResolved && next != StatusClosed {
		return
	}
	if issue.Category != "" {
		a.CategoryStats.ByIssueType = bump(a.CategoryStats.ByIssueType, issue.Category)
	}
	if issue.Priority != "" {
		a.CategoryStats.ByPriority = bump(a.CategoryStats.ByPriority, issue.Priority)
		if issue.Priority == "HIGH" {
			a.Stats.HighPriorityIssuesHandled++
		}
	}
	if issue.Severity != "" {
		a.CategoryStats.BySeverity = bump(a.CategoryStats.BySeverity, issue.Severity)
	}
}

func (a *Admin) applyLocationStats(issue *Issue, next IssueStatus) {
	if next != StatusResolved && next != StatusClosed {
		return
	}
	city, district := splitLocation(issue.Location)
	if district != "" {
		a.LocationStats.IssuesByDistrict = bump(a.LocationStats.IssuesByDistrict, district)
	}
	if city != "" {
		a.LocationStats.IssuesByCity = bump(a.LocationStats.IssuesByCity, city)
	}
}

func (a *Admin) applyTimeMetrics(next IssueStatus, now time.Time) {
	if next != StatusResolved && next != StatusClosed {
		return
	}
	a.TimeMetrics.IssuesPerDay = bump(a.TimeMetrics.IssuesPerDay, now.Format("2006-01-02"))
	a.TimeMetrics.MonthlyActivity = bump(a.TimeMetrics.MonthlyActivity, now.Format("2006-01"))
}

// splitLocation applies the comma heuristic: "City, District, ...".
// A location without a comma yields neither bucket.
func splitLocation(location string) (city, district string) {
	if !strings.Contains(location, ",") {
		return "", ""
	}
	parts := strings.Split(location, ",")
	city = strings.TrimSpace(parts[0])
	if len(parts) >= 2 {
		district = strings.TrimSpace(parts[1])
	}
	return city, district
}

func bump(m map[string]int, key string) map[string]int {
	if m == nil {
		m = make(map[string]int)
	}
	m[key]++
	return m
}
