package models

import (
	"time"

	"github.com/claude/repcounter/internal/counter"
	"github.com/google/uuid"
)

// WorkoutRecord summarises one finished session. Records are never mutated
// after creation.
type WorkoutRecord struct {
	ID              uuid.UUID        `json:"id"`
	Timestamp       time.Time        `json:"timestamp"`
	Exercise        counter.Exercise `json:"exercise"`
	Hand            counter.Hand     `json:"hand,omitempty"`
	WeightKg        float64          `json:"weight_kg"`
	Reps            int              `json:"reps"`
	Calories        float64          `json:"calories"`
	DurationMinutes float64          `json:"duration_mins"`
}

// Snapshot is what the display shows after each tick.
type Snapshot struct {
	Active          bool             `json:"active"`
	Exercise        counter.Exercise `json:"exercise,omitempty"`
	Hand            counter.Hand     `json:"hand,omitempty"`
	WeightKg        float64          `json:"weight_kg,omitempty"`
	Reps            int              `json:"reps"`
	Stage           counter.Stage    `json:"stage"`
	Calories        float64          `json:"calories"`
	DurationSeconds float64          `json:"duration_sec"`
	// Clock is the elapsed time formatted as MM:SS.
	Clock     string     `json:"clock"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}
