package counter

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownExercise = errors.New("unknown exercise")
	ErrUnknownHand     = errors.New("unknown hand selection")
)

// Exercise is the closed set of exercises the counters understand.
type Exercise string

const (
	BicepCurl Exercise = "bicep_curl"
	Squat     Exercise = "squat"
)

// Valid reports whether e is a known exercise.
func (e Exercise) Valid() bool {
	return e == BicepCurl || e == Squat
}

// Label returns the display name used in workout history.
func (e Exercise) Label() string {
	switch e {
	case BicepCurl:
		return "Bicep Curls"
	case Squat:
		return "Squats"
	}
	return string(e)
}

// ParseExercise accepts the canonical identifiers and the display labels.
func ParseExercise(s string) (Exercise, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bicep_curl", "bicep_curls", "bicep curl", "bicep curls", "curl", "curls":
		return BicepCurl, nil
	case "squat", "squats":
		return Squat, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownExercise, s)
}

// Hand selects which arm(s) a bicep curl counter tracks.
type Hand string

const (
	Left  Hand = "left"
	Right Hand = "right"
	Both  Hand = "both"
)

// Valid reports whether h is a known hand selection.
func (h Hand) Valid() bool {
	return h == Left || h == Right || h == Both
}

// ParseHand parses left, right or both, case-insensitively.
func ParseHand(s string) (Hand, error) {
	h := Hand(strings.ToLower(strings.TrimSpace(s)))
	if !h.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownHand, s)
	}
	return h, nil
}
