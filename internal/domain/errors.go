package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates the tracker backend is unreachable
	ErrServerOffline = errors.New("tracker server is unreachable")

	// ErrAuthFailed indicates authentication failed
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrProjectNotFound indicates the requested project does not exist
	ErrProjectNotFound = errors.New("project not found")
)
