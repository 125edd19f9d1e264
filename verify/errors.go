package verify

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies why a check failed.
type Kind int

const (
	NotFound Kind = iota
	Unreadable
	StatsUnchanged
	CommandFailed
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case Unreadable:
		return "Unreadable"
	case StatsUnchanged:
		return "StatsUnchanged"
	case CommandFailed:
		return "CommandFailed"
	}
	return "Unknown"
}

var (
	ErrNotFound       = errors.New("device not found")
	ErrUnreadable     = errors.New("statistics unreadable")
	ErrStatsUnchanged = errors.New("statistics unchanged")
	ErrCommandFailed  = errors.New("command failed")

	// ErrSkipped marks a check that did not run on this platform.
	ErrSkipped = errors.New("check skipped")
)

// CheckError is returned by a failed check.
type CheckError struct {
	Kind    Kind
	Device  string
	Surface string
	Detail  string
	Err     error
}

func (e *CheckError) Error() string {
	var msg string
	switch e.Kind {
	case NotFound:
		msg = fmt.Sprintf("Disk %s not found in %s", e.Device, e.Surface)
	case Unreadable:
		msg = fmt.Sprintf("stat is either empty or non-existent in %s", e.Surface)
	case StatsUnchanged:
		msg = fmt.Sprintf("Stats in %s did not change", e.Surface)
	default:
		msg = fmt.Sprintf("could not check %s for disk %s", e.Surface, e.Device)
	}
	if e.Detail != "" {
		msg += "\n" + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CheckError) Unwrap() error { return e.Err }

// Is matches the sentinel error for the check's kind.
func (e *CheckError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == NotFound
	case ErrUnreadable:
		return e.Kind == Unreadable
	case ErrStatsUnchanged:
		return e.Kind == StatsUnchanged
	case ErrCommandFailed:
		return e.Kind == CommandFailed
	}
	return false
}

func skipped(format string, args ...interface{}) error {
	return errors.Wrapf(ErrSkipped, format, args...)
}

// IsSkipped reports whether err came from a check that did not run.
func IsSkipped(err error) bool {
	return errors.Is(err, ErrSkipped)
}
