package services

import "errors"

var (
	ErrIssueNotFound  = errors.New("issue not found")
	ErrAdminNotFound  = errors.New("admin not found")
	ErrInvalidStatus  = errors.New("invalid status value")
	ErrBadDateRange   = errors.New("invalid date format, use YYYY-MM-DD")
	ErrAlreadyUpvoted = errors.New("you have already upvoted this issue")
	ErrForbidden      = errors.New("you don't have permission to modify this issue")
	ErrEmailTaken     = errors.New("admin with this email already exists")
)
