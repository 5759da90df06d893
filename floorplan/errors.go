package floorplan

import (
	"errors"
	"fmt"
)

var (
	ErrNoActiveZone  = errors.New("no zone selected")
	ErrZoneNotFound  = errors.New("zone not found")
	ErrTableNotFound = errors.New("table not found in the active zone")
	ErrTableUnplaced = errors.New("table is not placed on the canvas")
	// ErrStaleLayout is returned when a layout arrives for a zone that is no
	// longer selected. The response is dropped.
	ErrStaleLayout = errors.New("layout response belongs to a previous zone selection")
)

// RemoteError wraps any failed call to the table service.
type RemoteError struct {
	Op      string
	TableID string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.TableID != "" {
		return fmt.Sprintf("%s table %s: %v", e.Op, e.TableID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// ValidationError is raised locally before any remote call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ResetOutcome is the result of clearing one table during ResetEntireLayout.
type ResetOutcome struct {
	TableID string
	Err     error
}

func (o ResetOutcome) OK() bool { return o.Err == nil }

// PartialBatchFailure reports that at least one table of a reset could not be
// cleared. Tables that succeeded stay cleared.
type PartialBatchFailure struct {
	Outcomes []ResetOutcome
}

func (e *PartialBatchFailure) Failed() []ResetOutcome {
	var failed []ResetOutcome
	for _, o := range e.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

func (e *PartialBatchFailure) Error() string {
	return fmt.Sprintf("reset layout: %d of %d tables failed", len(e.Failed()), len(e.Outcomes))
}

func (e *PartialBatchFailure) Unwrap() []error {
	var errs []error
	for _, o := range e.Failed() {
		errs = append(errs, o.Err)
	}
	return errs
}

// UserMessage renders err as a notification for the editor.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		remote  *RemoteError
		invalid *ValidationError
		partial *PartialBatchFailure
	)
	switch {
	case errors.As(err, &partial):
		return fmt.Sprintf("Could not clear %d of %d tables. Please try again.", len(partial.Failed()), len(partial.Outcomes))
	case errors.As(err, &invalid):
		return fmt.Sprintf("Invalid %s: %s.", invalid.Field, invalid.Reason)
	case errors.As(err, &remote):
		return fmt.Sprintf("Failed to %s: %v", remote.Op, remote.Err)
	case errors.Is(err, ErrNoActiveZone):
		return "Select a zone first."
	case errors.Is(err, ErrZoneNotFound):
		return "That zone does not exist."
	case errors.Is(err, ErrTableNotFound):
		return "That table is no longer in this zone."
	case errors.Is(err, ErrTableUnplaced):
		return "Place the table on the canvas before moving it."
	case errors.Is(err, ErrStaleLayout):
		return "The zone changed while loading; showing the latest selection."
	}
	return err.Error()
}

// NothingToSaveMessage is shown when a commit finds no pending changes.
const NothingToSaveMessage = "No changes to save."
