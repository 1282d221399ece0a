package syncrun

import (
	"errors"
	"strconv"
	"time"
)

// Status values for a recorded sync cycle.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// Trigger values record what started a cycle.
const (
	TriggerStartup  = "startup"
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
	TriggerDocument = "document_change"
	TriggerCLI      = "cli"
)

var ErrMissingID = errors.New("sync run id is required")

// Run is the log entry for one complete fetch-normalize-render pass.
type Run struct {
	ID              string
	Trigger         string
	Source          string
	Status          string
	StartedAt       time.Time
	FinishedAt      time.Time
	LeadershipCount int
	GeneralCount    int
	AlumniCount     int
	Warnings        []string
	Error           string
}

// Validate checks required fields.
// PRE: Run struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (r *Run) Validate() error {
	if r.ID == "" {
		return ErrMissingID
	}
	switch r.Status {
	case StatusSuccess, StatusPartial, StatusFailed:
	default:
		return errors.New("status must be 'success', 'partial', or 'failed'")
	}
	return nil
}

// Duration returns how long the cycle took.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Banner kinds match the status indicator colours of the directory page.
const (
	BannerSuccess = "success"
	BannerError   = "error"
	BannerInfo    = "info"
)

// Banner is the transient status indication for the most recent cycle.
type Banner struct {
	Message string
	Kind    string
}

// Banner derives the status indication for this run.
// INVARIANT: Run is not mutated
func (r Run) Banner() Banner {
	switch r.Status {
	case StatusSuccess:
		return Banner{Message: "Member data synced successfully", Kind: BannerSuccess}
	case StatusPartial:
		msg := "Member data synced with 1 warning"
		if n := len(r.Warnings); n != 1 {
			msg = "Member data synced with " + strconv.Itoa(n) + " warnings"
		}
		return Banner{Message: msg, Kind: BannerInfo}
	default:
		return Banner{Message: "Sync failed: " + r.Error, Kind: BannerError}
	}
}
