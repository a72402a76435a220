package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"fixit-be/models"
	"fixit-be/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories mirroring the mongo implementations closely enough
// for the service contracts: lookups return independent copies, list reads
// come back newest first, and unknown ids surface repositories.ErrNotFound.

type fakeIssueRepo struct {
	mu     sync.Mutex
	issues map[primitive.ObjectID]models.Issue
}

func newFakeIssueRepo() *fakeIssueRepo {
	return &fakeIssueRepo{issues: make(map[primitive.ObjectID]models.Issue)}
}

func (r *fakeIssueRepo) Insert(_ context.Context, issue *models.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issues[issue.ID] = copyIssue(*issue)
	return nil
}

func (r *fakeIssueRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue, ok := r.issues[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := copyIssue(issue)
	return &out, nil
}

func (r *fakeIssueRepo) UpdateFields(_ context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue, ok := r.issues[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}

	for key, value := range fields {
		switch key {
		case "status":
			issue.Status = value.(models.IssueStatus)
		case "handledByAdminUid":
			issue.HandledByAdminUID = value.(string)
		case "handledByAdminName":
			issue.HandledByAdminName = value.(string)
		case "adminNotes":
			issue.AdminNotes = value.(string)
		case "lastStatusChangeAt":
			at := value.(time.Time)
			issue.LastStatusChangeAt = &at
		case "updatedAt":
			issue.UpdatedAt = value.(time.Time)
		case "imageUrls":
			issue.ImageURLs = append([]string(nil), value.([]string)...)
		}
	}

	r.issues[id] = issue
	out := copyIssue(issue)
	return &out, nil
}

func (r *fakeIssueRepo) IncrementUpvotes(_ context.Context, id primitive.ObjectID) (*models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue, ok := r.issues[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	issue.Upvotes++
	r.issues[id] = issue
	out := copyIssue(issue)
	return &out, nil
}

func (r *fakeIssueRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.issues[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.issues, id)
	return nil
}

func (r *fakeIssueRepo) CountAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.issues)), nil
}

func copyIssue(issue models.Issue) models.Issue {
	issue.ImageURLs = append([]string(nil), issue.ImageURLs...)
	return issue
}

type fakeAdminRepo struct {
	mu     sync.Mutex
	admins map[string]models.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[string]models.Admin)}
}

func (r *fakeAdminRepo) Insert(_ context.Context, admin *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admins[admin.UID()] = copyAdmin(*admin)
	return nil
}

func (r *fakeAdminRepo) FindByUID(_ context.Context, uid string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	admin, ok := r.admins[uid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := copyAdmin(admin)
	return &out, nil
}

func (r *fakeAdminRepo) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, admin := range r.admins {
		if admin.Email == email {
			out := copyAdmin(admin)
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeAdminRepo) Save(_ context.Context, admin *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admins[admin.UID()] = copyAdmin(*admin)
	return nil
}

func (r *fakeAdminRepo) UpdateLastLogin(_ context.Context, uid string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	admin, ok := r.admins[uid]
	if !ok {
		return repositories.ErrNotFound
	}
	admin.LastLogin = at
	r.admins[uid] = admin
	return nil
}

func (r *fakeAdminRepo) FindAll(_ context.Context) ([]models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Admin, 0, len(r.admins))
	for _, admin := range r.admins {
		out = append(out, copyAdmin(admin))
	}
	return out, nil
}

func (r *fakeAdminRepo) Delete(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admins[uid]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.admins, uid)
	return nil
}

func copyAdmin(admin models.Admin) models.Admin {
	admin.Permissions = copyBoolMap(admin.Permissions)
	admin.CategoryStats.ByIssueType = copyIntMap(admin.CategoryStats.ByIssueType)
	admin.CategoryStats.ByPriority = copyIntMap(admin.CategoryStats.ByPriority)
	admin.CategoryStats.BySeverity = copyIntMap(admin.CategoryStats.BySeverity)
	admin.LocationStats.IssuesByDistrict = copyIntMap(admin.LocationStats.IssuesByDistrict)
	admin.LocationStats.IssuesByCity = copyIntMap(admin.LocationStats.IssuesByCity)
	admin.LocationStats.HotspotAreas = copyIntMap(admin.LocationStats.HotspotAreas)
	admin.TimeMetrics.IssuesPerDay = copyIntMap(admin.TimeMetrics.IssuesPerDay)
	admin.TimeMetrics.MonthlyActivity = copyIntMap(admin.TimeMetrics.MonthlyActivity)
	admin.TimeMetrics.PeakHours = copyIntMap(admin.TimeMetrics.PeakHours)
	admin.TimeMetrics.WeekdayVsWeekend = copyIntMap(admin.TimeMetrics.WeekdayVsWeekend)
	return admin
}

func copyIntMap(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyBoolMap(m map[string]bool) map[string]bool {
	if m == nil {
		return nil
	}
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type fakeLogRepo struct {
	mu      sync.Mutex
	entries []models.StatusChangeLog
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{}
}

func (r *fakeLogRepo) Append(_ context.Context, entry *models.StatusChangeLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeLogRepo) FindByIssueID(_ context.Context, issueID primitive.ObjectID) ([]models.StatusChangeLog, error) {
	return r.filter(func(e models.StatusChangeLog) bool {
		return e.IssueID == issueID
	}), nil
}

func (r *fakeLogRepo) FindByAdminSince(_ context.Context, adminUID string, since time.Time) ([]models.StatusChangeLog, error) {
	return r.filter(func(e models.StatusChangeLog) bool {
		if e.ChangedByAdminUID != adminUID {
			return false
		}
		return since.IsZero() || !e.ChangedAt.Before(since)
	}), nil
}

func (r *fakeLogRepo) FindBetween(_ context.Context, start, end time.Time) ([]models.StatusChangeLog, error) {
	return r.filter(func(e models.StatusChangeLog) bool {
		if !start.IsZero() && e.ChangedAt.Before(start) {
			return false
		}
		if !end.IsZero() && !e.ChangedAt.Before(end) {
			return false
		}
		return true
	}), nil
}

func (r *fakeLogRepo) filter(keep func(models.StatusChangeLog) bool) []models.StatusChangeLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.StatusChangeLog
	for _, e := range r.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ChangedAt.After(out[j].ChangedAt)
	})
	return out
}

type fakeUpvoteRepo struct {
	mu      sync.Mutex
	upvotes []models.Upvote
}

func newFakeUpvoteRepo() *fakeUpvoteRepo {
	return &fakeUpvoteRepo{}
}

func (r *fakeUpvoteRepo) Insert(_ context.Context, upvote *models.Upvote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upvotes = append(r.upvotes, *upvote)
	return nil
}

func (r *fakeUpvoteRepo) Exists(_ context.Context, issueID primitive.ObjectID, userUID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.upvotes {
		if u.Issue == issueID && u.UserUID == userUID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUpvoteRepo) DeleteByIssueID(_ context.Context, issueID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.upvotes[:0]
	for _, u := range r.upvotes {
		if u.Issue != issueID {
			kept = append(kept, u)
		}
	}
	r.upvotes = kept
	return nil
}

func (r *fakeUpvoteRepo) count(issueID primitive.ObjectID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.upvotes {
		if u.Issue == issueID {
			n++
		}
	}
	return n
}
