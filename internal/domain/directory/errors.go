package directory

import "fmt"

// SourceUnavailableError is returned when an upstream cannot produce any data at all.
// The caller must keep the previously rendered directory.
type SourceUnavailableError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

// Unwrap returns the underlying cause.
func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// RemoteFetchError reports that the transport-level call for one category failed.
type RemoteFetchError struct {
	Category   Category
	StatusText string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s data: %s", e.Category, e.StatusText)
}

// Unwrap returns the underlying cause.
func (e *RemoteFetchError) Unwrap() error { return e.Err }

// EmptySourceError reports a valid response with fewer than a header and one data row.
// It is a warning: the category is treated as zero records.
type EmptySourceError struct {
	Category Category
}

// Error implements the error interface.
func (e *EmptySourceError) Error() string {
	return fmt.Sprintf("no data found in %s sheet", e.Category)
}

// AuthRejectedError reports that the remote upstream refused the configured credentials.
type AuthRejectedError struct {
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *AuthRejectedError) Error() string {
	return fmt.Sprintf("remote credentials rejected (status %d): %v", e.StatusCode, e.Err)
}

// Unwrap returns the underlying cause.
func (e *AuthRejectedError) Unwrap() error { return e.Err }
