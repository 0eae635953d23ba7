// Package session aggregates rep counter output over a workout: calories,
// elapsed time, and the history record written when the workout stops.
package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/repcounter/internal/counter"
	"github.com/claude/repcounter/internal/models"
	"github.com/claude/repcounter/internal/pose"
	"github.com/google/uuid"
)

// History receives one record per stopped session.
type History interface {
	Append(rec models.WorkoutRecord)
}

// Config is the per-session input chosen before the workout starts.
type Config struct {
	Exercise counter.Exercise `json:"exercise"`
	Hand     counter.Hand     `json:"hand,omitempty"`
	WeightKg float64          `json:"weight_kg"`
}

// State is the aggregator's bookkeeping for one active workout.
type State struct {
	Exercise        counter.Exercise
	Hand            counter.Hand
	WeightKg        float64
	Calories        float64
	StartTime       *time.Time
	DurationSeconds float64
	LastRepCount    int
}

// Active reports whether a workout is running.
func (s State) Active() bool { return s.StartTime != nil }

// Aggregator turns counter readings into calories and duration and emits a
// WorkoutRecord on stop. It is not safe for concurrent use; the owner must
// serialize Start, Tick, Reset and Stop.
type Aggregator struct {
	history   History
	settings  counter.Settings
	minWeight float64
	maxWeight float64
	log       *slog.Logger

	state   State
	counter counter.Counter
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithSettings overrides the counter thresholds.
func WithSettings(s counter.Settings) Option {
	return func(a *Aggregator) { a.settings = s }
}

// WithWeightLimits sets the accepted body weight range in kg.
func WithWeightLimits(lo, hi float64) Option {
	return func(a *Aggregator) {
		a.minWeight = lo
		a.maxWeight = hi
	}
}

// WithLogger logs session lifecycle events.
func WithLogger(log *slog.Logger) Option {
	return func(a *Aggregator) { a.log = log }
}

// New creates an idle Aggregator writing finished sessions to history.
func New(history History, opts ...Option) *Aggregator {
	a := &Aggregator{
		history:   history,
		settings:  counter.DefaultSettings(),
		minWeight: 30,
		maxWeight: 200,
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Validate checks cfg without starting anything.
func (a *Aggregator) Validate(cfg Config) error {
	if !cfg.Exercise.Valid() {
		return &ConfigError{Err: fmt.Errorf("%w: %q", counter.ErrUnknownExercise, cfg.Exercise)}
	}
	if cfg.Exercise == counter.BicepCurl && !cfg.Hand.Valid() {
		return &ConfigError{Err: fmt.Errorf("%w: %q", counter.ErrUnknownHand, cfg.Hand)}
	}
	if cfg.WeightKg <= 0 || cfg.WeightKg < a.minWeight || cfg.WeightKg > a.maxWeight {
		return &ConfigError{Err: fmt.Errorf("%w: %v kg outside [%v, %v]", ErrInvalidWeight, cfg.WeightKg, a.minWeight, a.maxWeight)}
	}
	return nil
}

// Start begins a workout at now. Starting while a workout is running is
// rejected with ErrSessionActive and leaves it untouched.
func (a *Aggregator) Start(cfg Config, now time.Time) error {
	if a.state.Active() {
		return ErrSessionActive
	}
	if err := a.Validate(cfg); err != nil {
		return err
	}
	c, err := counter.New(cfg.Exercise, cfg.Hand, a.settings)
	if err != nil {
		return &ConfigError{Err: err}
	}

	hand := cfg.Hand
	if cfg.Exercise != counter.BicepCurl {
		hand = ""
	}
	start := now
	a.counter = c
	a.state = State{
		Exercise:  cfg.Exercise,
		Hand:      hand,
		WeightKg:  cfg.WeightKg,
		StartTime: &start,
	}
	a.log.Info("session started", "exercise", cfg.Exercise, "hand", hand, "weight_kg", cfg.WeightKg)
	return nil
}

// Tick processes one frame. A nil landmark set means the estimator saw no
// body: the tick is skipped and only the elapsed time moves.
func (a *Aggregator) Tick(ls *pose.LandmarkSet, now time.Time) TickResult {
	if !a.state.Active() {
		return TickResult{Status: StatusConfigError, Err: ErrNoActiveSession, Snapshot: a.Snapshot()}
	}
	if ls == nil {
		a.updateDuration(now)
		return TickResult{Status: StatusSkipped, Snapshot: a.Snapshot()}
	}

	reading := a.counter.Update(*ls)
	newReps, kcal := a.Observe(reading.Count, now)
	return TickResult{
		Status:        StatusOK,
		NewReps:       newReps,
		CaloriesDelta: kcal,
		Reading:       &reading,
		Snapshot:      a.Snapshot(),
	}
}

// Observe folds the counter's cumulative total into the session: reps not
// seen before are converted to calories and the elapsed time is refreshed.
// It returns the new reps and the calories they added.
func (a *Aggregator) Observe(totalReps int, now time.Time) (int, float64) {
	newReps := max(0, totalReps-a.state.LastRepCount)
	kcal := float64(newReps) * CaloriesPerRep(a.state.Exercise, a.state.WeightKg)
	a.state.Calories += kcal
	a.state.LastRepCount = totalReps
	a.updateDuration(now)
	return newReps, kcal
}

func (a *Aggregator) updateDuration(now time.Time) {
	if a.state.StartTime != nil {
		a.state.DurationSeconds = max(0, now.Sub(*a.state.StartTime).Seconds())
	}
}

// Reset zeroes the counter and calories. While a workout is running the
// clock restarts at now. No history record is written.
func (a *Aggregator) Reset(now time.Time) {
	if a.counter != nil {
		a.counter.Reset()
	}
	a.state.Calories = 0
	a.state.LastRepCount = 0
	if a.state.Active() {
		start := now
		a.state.StartTime = &start
		a.state.DurationSeconds = 0
	}
	a.log.Info("session reset", "active", a.state.Active())
}

// Stop ends the workout, appends its record to history and returns it. The
// aggregator is idle afterwards. Without an active workout nothing is
// written and ErrNoActiveSession is returned.
func (a *Aggregator) Stop(now time.Time) (*models.WorkoutRecord, error) {
	if !a.state.Active() {
		return nil, ErrNoActiveSession
	}
	a.updateDuration(now)

	rec := models.WorkoutRecord{
		ID:              uuid.New(),
		Timestamp:       now,
		Exercise:        a.state.Exercise,
		Hand:            a.state.Hand,
		WeightKg:        a.state.WeightKg,
		Reps:            a.counter.Count(),
		Calories:        a.state.Calories,
		DurationMinutes: a.state.DurationSeconds / 60,
	}
	a.history.Append(rec)
	a.log.Info("session stopped",
		"exercise", rec.Exercise,
		"reps", rec.Reps,
		"calories", rec.Calories,
		"duration_mins", rec.DurationMinutes,
	)

	a.state = State{}
	a.counter = nil
	return &rec, nil
}

// Joints lists the landmarks the running counter reads, or nil when idle.
func (a *Aggregator) Joints() []pose.Joint {
	if a.counter == nil {
		return nil
	}
	return a.counter.Joints()
}

// State returns a copy of the current bookkeeping.
func (a *Aggregator) State() State {
	s := a.state
	if s.StartTime != nil {
		t := *s.StartTime
		s.StartTime = &t
	}
	return s
}

// Snapshot returns the values the display shows.
func (a *Aggregator) Snapshot() models.Snapshot {
	snap := models.Snapshot{
		Active:          a.state.Active(),
		Exercise:        a.state.Exercise,
		Hand:            a.state.Hand,
		WeightKg:        a.state.WeightKg,
		Calories:        a.state.Calories,
		DurationSeconds: a.state.DurationSeconds,
		Clock:           FormatClock(a.state.DurationSeconds),
	}
	if a.counter != nil {
		snap.Reps = a.counter.Count()
		snap.Stage = a.counter.Stage()
	}
	if a.state.StartTime != nil {
		t := *a.state.StartTime
		snap.StartedAt = &t
	}
	return snap
}
