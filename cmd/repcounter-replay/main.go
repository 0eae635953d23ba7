package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/claude/repcounter/internal/counter"
	"github.com/claude/repcounter/internal/history"
	"github.com/claude/repcounter/internal/replay"
	"github.com/claude/repcounter/internal/session"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "RepCounter server URL (e.g. https://repcounter.tail1234.ts.net)")
	dir := flag.String("path", "", "directory of recorded frame files (*.json)")
	exercise := flag.String("exercise", "bicep_curl", "exercise: bicep_curl or squat")
	hand := flag.String("hand", "right", "arm for curls: left, right or both")
	weight := flag.Float64("weight", 70, "body weight in kg")
	minVis := flag.Float64("min-visibility", 0.5, "landmark visibility threshold (local mode)")
	dryRun := flag.Bool("dry-run", false, "count reps in-process instead of sending to a server")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("repcounter-replay", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *dir == "" {
		fmt.Fprintf(os.Stderr, "Usage: repcounter-replay -server <URL> -path <dir> [-exercise squat] [-hand both] [-weight 80] [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *serverURL == "" && !*dryRun {
		fmt.Fprintf(os.Stderr, "Error: -server is required (or use -dry-run)\n")
		os.Exit(1)
	}

	ex, err := counter.ParseExercise(*exercise)
	if err != nil {
		log.Error("invalid exercise", "error", err)
		os.Exit(1)
	}
	cfg := session.Config{Exercise: ex, WeightKg: *weight}
	if ex == counter.BicepCurl {
		h, err := counter.ParseHand(*hand)
		if err != nil {
			log.Error("invalid hand", "error", err)
			os.Exit(1)
		}
		cfg.Hand = h
	}

	info, err := os.Stat(*dir)
	if err != nil || !info.IsDir() {
		log.Error("recording directory not found", "path", *dir)
		os.Exit(1)
	}

	var sink replay.Sink
	var state *replay.StateDB
	if *dryRun {
		log.Info("DRY RUN mode: counting in-process, nothing is sent or recorded")
		sink = replay.NewLocalSink(history.NewStore(), *minVis)
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		state, err = replay.OpenStateDB(filepath.Join(homeDir, ".repcounter-replay"))
		if err != nil {
			log.Error("failed to open state database", "error", err)
			os.Exit(1)
		}
		defer state.Close()
		sink = replay.NewClient(*serverURL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := replay.New(sink, state, *dir, cfg, log).Run(ctx)
	printStats(stats)
	if err != nil {
		log.Error("replay failed", "error", err)
		os.Exit(1)
	}
	log.Info("replay complete")
}

func printStats(stats *replay.Stats) {
	fmt.Println()
	fmt.Println("=== Replay Summary ===")
	fmt.Printf("  Files total:      %d\n", stats.FilesTotal)
	fmt.Printf("  Files replayed:   %d\n", stats.FilesReplayed)
	fmt.Printf("  Files skipped:    %d (already replayed or empty)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Frames sent:      %d\n", stats.FramesSent)
	fmt.Printf("  Frames no pose:   %d\n", stats.FramesSkipped)
	fmt.Printf("  Frames invalid:   %d\n", stats.FramesInvalid)
	fmt.Printf("  Reps:             %d\n", stats.Reps)
	fmt.Printf("  Calories:         %.2f\n", stats.Calories)
	fmt.Println()
}
