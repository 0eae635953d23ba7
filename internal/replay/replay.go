// Package replay feeds recorded pose frames through a rep counting session,
// either in-process or against a running server.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/claude/repcounter/internal/history"
	"github.com/claude/repcounter/internal/models"
	"github.com/claude/repcounter/internal/pose"
	"github.com/claude/repcounter/internal/session"
)

// DefaultFPS is assumed for recordings that do not state a frame rate.
const DefaultFPS = 30.0

// Sink runs one session per recording.
type Sink interface {
	Start(cfg session.Config, fps float64) error
	Frame(named map[string]pose.Landmark) (session.TickResult, error)
	Stop() (*models.WorkoutRecord, error)
}

// LocalSink runs sessions in-process on a clock that advances one frame
// interval per frame, so durations match the recording rather than the
// replay speed.
type LocalSink struct {
	tracker *session.Tracker
	now     time.Time
	step    time.Duration
}

// Compile-time check: LocalSink satisfies Sink.
var _ Sink = (*LocalSink)(nil)

// NewLocalSink creates a LocalSink. Finished workouts are appended to store.
func NewLocalSink(store *history.Store, minVisibility float64, opts ...session.Option) *LocalSink {
	l := &LocalSink{now: time.Now()}
	l.tracker = session.NewTracker(store, minVisibility, opts...)
	l.tracker.SetClock(func() time.Time { return l.now })
	return l
}

func (l *LocalSink) Start(cfg session.Config, fps float64) error {
	if fps <= 0 {
		fps = DefaultFPS
	}
	l.step = time.Duration(float64(time.Second) / fps)
	_, err := l.tracker.Start(cfg)
	return err
}

func (l *LocalSink) Frame(named map[string]pose.Landmark) (session.TickResult, error) {
	l.now = l.now.Add(l.step)
	return l.tracker.Frame(named)
}

func (l *LocalSink) Stop() (*models.WorkoutRecord, error) {
	return l.tracker.Stop()
}

// Stats tracks replay progress.
type Stats struct {
	FilesTotal    int
	FilesReplayed int
	FilesSkipped  int
	FilesErrored  int

	FramesSent    int
	FramesSkipped int
	FramesInvalid int

	Reps     int
	Calories float64
}

// Replayer walks a directory of frame files and replays each through a Sink.
type Replayer struct {
	sink  Sink
	state *StateDB
	dir   string
	cfg   session.Config
	log   *slog.Logger
	stats Stats
}

// New creates a Replayer. A nil state replays every file and records nothing.
func New(sink Sink, state *StateDB, dir string, cfg session.Config, log *slog.Logger) *Replayer {
	return &Replayer{
		sink:  sink,
		state: state,
		dir:   dir,
		cfg:   cfg,
		log:   log,
	}
}

// Run replays every *.json file under the directory in lexical order.
// Cancelling ctx stops after the current frame; the open session is still
// stopped so the server is left idle.
func (r *Replayer) Run(ctx context.Context) (*Stats, error) {
	files, err := findRecordings(r.dir)
	if err != nil {
		return &r.stats, err
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &r.stats, err
		}
		r.stats.FilesTotal++
		if err := r.replayFile(ctx, f); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return &r.stats, err
			}
			r.log.Warn("replay failed", "file", f, "error", err)
			r.stats.FilesErrored++
		}
	}
	return &r.stats, nil
}

func findRecordings(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func (r *Replayer) replayFile(ctx context.Context, path string) error {
	relPath, _ := filepath.Rel(r.dir, path)
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	var hash string
	if r.state != nil {
		hash, err = HashFile(path)
		if err != nil {
			return fmt.Errorf("hashing: %w", err)
		}
		prev, err := r.state.Lookup(relPath, info.Size(), hash)
		if err != nil {
			return fmt.Errorf("state check: %w", err)
		}
		if prev != nil {
			r.log.Debug("already replayed", "file", relPath, "reps", prev.Reps)
			r.stats.FilesSkipped++
			return nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	rec, err := pose.ReadFrames(f)
	f.Close()
	if err != nil {
		return err
	}
	if len(rec.Frames) == 0 {
		r.log.Warn("recording has no frames", "file", relPath)
		r.stats.FilesSkipped++
		return nil
	}

	if err := r.sink.Start(r.cfg, rec.FPS); err != nil {
		return fmt.Errorf("starting session: %w", err)
	}

	frameErr := r.sendFrames(ctx, relPath, rec.Frames)

	workout, err := r.sink.Stop()
	if frameErr != nil {
		return frameErr
	}
	if err != nil {
		return fmt.Errorf("stopping session: %w", err)
	}

	r.stats.FilesReplayed++
	r.stats.Reps += workout.Reps
	r.stats.Calories += workout.Calories
	r.log.Info("replayed", "file", relPath, "frames", len(rec.Frames), "reps", workout.Reps, "calories", workout.Calories)

	if r.state != nil {
		out := Replayed{Reps: workout.Reps, Calories: workout.Calories}
		if err := r.state.MarkReplayed(relPath, info.Size(), hash, string(r.cfg.Exercise), out); err != nil {
			r.log.Warn("state update failed", "file", relPath, "error", err)
		}
	}
	return nil
}

// sendFrames ticks every frame in order. Frames the counter rejects as
// malformed are counted and dropped; any other error aborts the file.
func (r *Replayer) sendFrames(ctx context.Context, relPath string, frames []pose.Frame) error {
	for _, fr := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := r.sink.Frame(fr.Named())
		switch {
		case errors.Is(err, pose.ErrOutOfRange), errors.Is(err, pose.ErrDuplicateJoint), IsRejected(err):
			r.log.Debug("frame rejected", "file", relPath, "frame", fr.Index, "error", err)
			r.stats.FramesInvalid++
			continue
		case err != nil:
			return fmt.Errorf("frame %d: %w", fr.Index, err)
		}
		r.stats.FramesSent++
		if res.Status == session.StatusSkipped {
			r.stats.FramesSkipped++
		}
	}
	return nil
}
