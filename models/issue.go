package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueStatus enum
type IssueStatus string

const (
	StatusOpen       IssueStatus = "OPEN"
	StatusInProgress IssueStatus = "IN_PROGRESS"
	StatusResolved   IssueStatus = "RESOLVED"
	StatusClosed     IssueStatus = "CLOSED"
	StatusRejected   IssueStatus = "REJECTED"
)

// ParseIssueStatus validates a raw status string against the enum.
func ParseIssueStatus(s string) (IssueStatus, bool) {
	switch IssueStatus(s) {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed, StatusRejected:
		return IssueStatus(s), true
	default:
		return "", false
	}
}

// Issue represents a civic issue reported by a user
type Issue struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Priority    string             `bson:"priority,omitempty" json:"priority,omitempty"`
	Severity    string             `bson:"severity,omitempty" json:"severity,omitempty"`
	Location    string             `bson:"location" json:"location"`
	Latitude    *float64           `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude   *float64           `bson:"longitude,omitempty" json:"longitude,omitempty"`

	ReporterUID  string      `bson:"reporterUid" json:"reporterUid"`
	ReporterName string      `bson:"reporterName" json:"reporterName"`
	Status       IssueStatus `bson:"status" json:"status"`
	Upvotes      int         `bson:"upvotes" json:"upvotes"`
	ImageURLs    []string    `bson:"imageUrls,omitempty" json:"imageUrls,omitempty"`

	// Admin workflow fields, written only by the status-change path
	HandledByAdminUID  string     `bson:"handledByAdminUid,omitempty" json:"handledByAdminUid,omitempty"`
	HandledByAdminName string     `bson:"handledByAdminName,omitempty" json:"handledByAdminName,omitempty"`
	LastStatusChangeAt *time.Time `bson:"lastStatusChangeAt,omitempty" json:"lastStatusChangeAt,omitempty"`
	AdminNotes         string     `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
