package mcp

import (
	"context"
	"time"

	"github.com/claude/repcounter/internal/counter"
	"github.com/claude/repcounter/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// filterRecords keeps records of exercise ex (any when empty) stopped at or
// after since (any when zero).
func filterRecords(records []models.WorkoutRecord, ex counter.Exercise, since time.Time) []models.WorkoutRecord {
	out := make([]models.WorkoutRecord, 0, len(records))
	for _, r := range records {
		if ex != "" && r.Exercise != ex {
			continue
		}
		if !since.IsZero() && r.Timestamp.Before(since) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// --- Tool definitions ---

var toolGetSession = mcp.NewTool("get_session",
	mcp.WithDescription("Get the live workout: whether a session is active, the exercise, rep count, current stage (up/down), calories burned and elapsed time."),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("List finished workouts, oldest first. Each record has the exercise, reps, calories, duration in minutes and body weight."),
	mcp.WithNumber("limit", mcp.Description("Return only the most recent N workouts. Defaults to all.")),
	mcp.WithString("exercise", mcp.Description("Only this exercise."), mcp.Enum(string(counter.BicepCurl), string(counter.Squat))),
	mcp.WithString("since", mcp.Description("Only workouts finished at or after this time (ISO 8601 or YYYY-MM-DD).")),
)

var toolGetHistorySummary = mcp.NewTool("get_history_summary",
	mcp.WithDescription("Totals across all finished workouts (count, reps, calories, duration), a per-exercise breakdown and the five latest workouts."),
)

// --- Tool handlers ---

func (h *handlers) getSession(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := h.ds.Snapshot(ctx)
	if err != nil {
		h.log.Error("mcp get_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(snap)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 0)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	var ex counter.Exercise
	if s := req.GetString("exercise", ""); s != "" {
		parsed, err := counter.ParseExercise(s)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		ex = parsed
	}

	var since time.Time
	if s := req.GetString("since", ""); s != "" {
		t, err := parseFlexTime(s)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
		since = t
	}

	// Filters apply before the limit so "last 3 squats" means what it says.
	records, err := h.ds.History(ctx, 0)
	if err != nil {
		h.log.Error("mcp get_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	records = filterRecords(records, ex, since)
	if limit > 0 && limit < len(records) {
		records = records[len(records)-limit:]
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getHistorySummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sum, err := h.ds.Summary(ctx)
	if err != nil {
		h.log.Error("mcp get_history_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(sum)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
