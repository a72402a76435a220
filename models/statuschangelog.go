package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusChangeLog is one immutable row in the status audit trail.
// Entries are never updated or deleted, even when their issue is.
type StatusChangeLog struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IssueID            primitive.ObjectID `bson:"issueId" json:"issueId"`
	FromStatus         IssueStatus        `bson:"fromStatus" json:"fromStatus"`
	ToStatus           IssueStatus        `bson:"toStatus" json:"toStatus"`
	ChangedByAdminUID  string             `bson:"changedByAdminUid" json:"changedByAdminUid"`
	ChangedByAdminName string             `bson:"changedByAdminName" json:"changedByAdminName"`
	ChangedAt          time.Time          `bson:"changedAt" json:"changedAt"`
	Notes              string             `bson:"notes,omitempty" json:"notes,omitempty"`
}
