package services

import (
	"context"
	"testing"
	"time"

	"fixit-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestIssueService() (*IssueService, *fakeIssueRepo, *fakeUpvoteRepo) {
	issues := newFakeIssueRepo()
	upvotes := newFakeUpvoteRepo()
	return NewIssueService(issues, upvotes), issues, upvotes
}

func TestCreateIssueStartsOpen(t *testing.T) {
	ctx := context.Background()
	svc, issues, _ := newTestIssueService()

	created, err := svc.Create(ctx, CreateIssueInput{
		Title:        "Pothole near bus stop",
		Description:  "Deep pothole, two-wheelers swerving",
		Category:     "Road",
		Priority:     "HIGH",
		Location:     "Indiranagar, Bengaluru",
		ReporterUID:  "user-7",
		ReporterName: "Meera",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusOpen, created.Status)
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, 0, created.Upvotes)
	assert.Empty(t, created.HandledByAdminUID)

	stored, err := issues.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, stored.Title)
}

func TestGetIssueMissing(t *testing.T) {
	svc, _, _ := newTestIssueService()

	_, err := svc.Get(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrIssueNotFound)

	_, err = svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrIssueNotFound)
}

func TestDeleteIssueForbiddenForNonReporter(t *testing.T) {
	ctx := context.Background()
	svc, issues, _ := newTestIssueService()
	issue := seedIssue(t, issues, time.Now())

	err := svc.Delete(ctx, issue.ID.Hex(), "someone-else")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = issues.FindByID(ctx, issue.ID)
	assert.NoError(t, err)
}

// Deleting an issue takes its upvote records with it but leaves the status
// change ledger alone, so the audit trail outlives the issue.
func TestDeleteIssueKeepsLedger(t *testing.T) {
	ctx := context.Background()
	issues := newFakeIssueRepo()
	upvotes := newFakeUpvoteRepo()
	logs := newFakeLogRepo()
	svc := NewIssueService(issues, upvotes)

	issue := seedIssue(t, issues, time.Now().Add(-time.Hour))
	_, err := svc.Upvote(ctx, issue.ID.Hex(), "voter-1")
	require.NoError(t, err)

	require.NoError(t, logs.Append(ctx, &models.StatusChangeLog{
		IssueID:    issue.ID,
		FromStatus: models.StatusOpen,
		ToStatus:   models.StatusResolved,
		ChangedAt:  time.Now(),
	}))

	require.NoError(t, svc.Delete(ctx, issue.ID.Hex(), issue.ReporterUID))

	_, err = issues.FindByID(ctx, issue.ID)
	assert.ErrorIs(t, err, ErrIssueNotFound)
	assert.Equal(t, 0, upvotes.count(issue.ID))

	entries, err := logs.FindByIssueID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUpvoteOncePerUser(t *testing.T) {
	ctx := context.Background()
	svc, issues, _ := newTestIssueService()
	issue := seedIssue(t, issues, time.Now())

	updated, err := svc.Upvote(ctx, issue.ID.Hex(), "voter-1")
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Upvotes)

	_, err = svc.Upvote(ctx, issue.ID.Hex(), "voter-1")
	assert.ErrorIs(t, err, ErrAlreadyUpvoted)

	updated, err = svc.Upvote(ctx, issue.ID.Hex(), "voter-2")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Upvotes)
}

func TestUpvoteMissingIssue(t *testing.T) {
	svc, _, _ := newTestIssueService()
	_, err := svc.Upvote(context.Background(), primitive.NewObjectID().Hex(), "voter-1")
	assert.ErrorIs(t, err, ErrIssueNotFound)
}

func TestAddImageAppends(t *testing.T) {
	ctx := context.Background()
	svc, issues, _ := newTestIssueService()
	issue := seedIssue(t, issues, time.Now())

	updated, err := svc.AddImage(ctx, issue.ID.Hex(), "https://cdn.fixit.example/a.jpg")
	require.NoError(t, err)
	updated, err = svc.AddImage(ctx, issue.ID.Hex(), "https://cdn.fixit.example/b.jpg")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://cdn.fixit.example/a.jpg",
		"https://cdn.fixit.example/b.jpg",
	}, updated.ImageURLs)
}
