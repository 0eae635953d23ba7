package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/claude/repcounter/internal/history"
	"github.com/claude/repcounter/internal/models"
	"github.com/claude/repcounter/internal/pose"
	"github.com/google/uuid"
)

// Tracker is the single owner of an Aggregator and the history it writes
// to. Every call is serialized, so HTTP handlers and MCP tools may share it.
type Tracker struct {
	mu            sync.Mutex
	agg           *Aggregator
	store         *history.Store
	minVisibility float64
	now           func() time.Time
}

// NewTracker wires an aggregator to store. Options are passed to New.
func NewTracker(store *history.Store, minVisibility float64, opts ...Option) *Tracker {
	return &Tracker{
		agg:           New(store, opts...),
		store:         store,
		minVisibility: minVisibility,
		now:           time.Now,
	}
}

// SetClock replaces the wall clock, e.g. with a frame-rate clock when
// replaying recordings.
func (t *Tracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	t.now = now
	t.mu.Unlock()
}

// Start begins a workout.
func (t *Tracker) Start(cfg Config) (models.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.agg.Start(cfg, t.now()); err != nil {
		return t.agg.Snapshot(), err
	}
	return t.agg.Snapshot(), nil
}

// Frame feeds one frame of named landmarks. Only the joints the running
// exercise reads are checked. A frame with no landmarks, one of those joints
// out of view or below the visibility threshold is a skipped tick.
// Non-finite or wildly off-frame coordinates on those joints are rejected
// with pose.ErrOutOfRange, two spellings of one joint with
// pose.ErrDuplicateJoint; neither ticks.
func (t *Tracker) Frame(named map[string]pose.Landmark) (TickResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.agg.State().Active() {
		return TickResult{Status: StatusConfigError, Snapshot: t.agg.Snapshot()}, ErrNoActiveSession
	}
	now := t.now()
	if len(named) == 0 {
		return t.agg.Tick(nil, now), nil
	}
	ls, err := pose.FromNamed(named, t.minVisibility, t.agg.Joints()...)
	switch {
	case errors.Is(err, pose.ErrNotDetected), errors.Is(err, pose.ErrMissingJoint):
		return t.agg.Tick(nil, now), nil
	case err != nil:
		return TickResult{}, err
	}
	return t.agg.Tick(&ls, now), nil
}

// Reset zeroes the running workout without recording it.
func (t *Tracker) Reset() models.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.agg.Reset(t.now())
	return t.agg.Snapshot()
}

// Stop ends the running workout and returns its record.
func (t *Tracker) Stop() (*models.WorkoutRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.agg.Stop(t.now())
}

// Snapshot returns the live session state.
func (t *Tracker) Snapshot(_ context.Context) (models.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.agg.Snapshot(), nil
}

// History returns the most recent limit records, oldest first. A
// non-positive limit returns everything.
func (t *Tracker) History(_ context.Context, limit int) ([]models.WorkoutRecord, error) {
	return t.store.Recent(limit), nil
}

// Summary aggregates the stored history.
func (t *Tracker) Summary(_ context.Context) (*history.Summary, error) {
	sum := t.store.Summary(FormatMinutes)
	return &sum, nil
}

// Record looks up one finished workout.
func (t *Tracker) Record(id uuid.UUID) (models.WorkoutRecord, error) {
	return t.store.Get(id)
}

// ClearHistory deletes every finished workout and returns how many there
// were. A running workout is unaffected.
func (t *Tracker) ClearHistory() int {
	return t.store.Clear()
}
