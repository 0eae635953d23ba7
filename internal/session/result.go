package session

import (
	"errors"
	"fmt"

	"github.com/claude/repcounter/internal/counter"
	"github.com/claude/repcounter/internal/models"
)

var (
	ErrNoActiveSession = errors.New("no active session")
	ErrSessionActive   = errors.New("session already active")
	ErrInvalidWeight   = errors.New("invalid weight")
)

// ConfigError reports a session configuration that cannot be run. It is
// returned at setup time; nothing falls back to a default.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "session config: " + e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// Status classifies the outcome of one tick.
type Status int

const (
	StatusOK Status = iota
	StatusSkipped
	StatusConfigError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSkipped:
		return "skipped"
	case StatusConfigError:
		return "config_error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalText encodes the status by name in JSON responses.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name as produced by MarshalText.
func (s *Status) UnmarshalText(b []byte) error {
	for _, v := range []Status{StatusOK, StatusSkipped, StatusConfigError} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown tick status %q", b)
}

// TickResult is the outcome of one frame. Only StatusOK carries a reading;
// a skipped tick contributes no reps.
type TickResult struct {
	Status        Status           `json:"status"`
	NewReps       int              `json:"new_reps"`
	CaloriesDelta float64          `json:"calories_delta"`
	Reading       *counter.Reading `json:"reading,omitempty"`
	Snapshot      models.Snapshot  `json:"session"`
	Err           error            `json:"-"`
}
