package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")

	// Draft errors
	ErrNoActiveDraft     = errors.New("no active draft")
	ErrDraftNotFound     = errors.New("draft not found")
	ErrDraftSubmitted    = errors.New("draft already submitted")
	ErrTooManyPhotos     = errors.New("too many photos")
	ErrStatusRegression  = errors.New("draft status cannot move backwards")
	ErrOfflineSubmission = errors.New("offline draft cannot be written to remote table")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)
