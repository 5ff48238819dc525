package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Store errors
	ErrSourceUnavailable = fmt.Errorf("source spreadsheet unavailable")
	ErrTargetUnavailable = fmt.Errorf("target store unavailable")
	ErrRangeRead         = fmt.Errorf("range read failed")
	ErrAppendFailed      = fmt.Errorf("append to target failed")
	ErrNoCandidates      = fmt.Errorf("no candidate words found")
	ErrRunNotFound       = fmt.Errorf("run not found")

	// API and service errors
	ErrAPIRequest   = fmt.Errorf("API request failed")
	ErrWordNotFound = fmt.Errorf("word not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
