package mcp

import (
	"context"

	"github.com/claude/repcounter/internal/history"
	"github.com/claude/repcounter/internal/models"
	"github.com/claude/repcounter/internal/session"
)

// DataSource abstracts the workout state for MCP tools. Both
// *session.Tracker (in-process) and HTTPClient (remote via REST API) satisfy
// this interface.
type DataSource interface {
	Snapshot(ctx context.Context) (models.Snapshot, error)
	History(ctx context.Context, limit int) ([]models.WorkoutRecord, error)
	Summary(ctx context.Context) (*history.Summary, error)
}

// Compile-time check: *session.Tracker satisfies DataSource.
var _ DataSource = (*session.Tracker)(nil)
