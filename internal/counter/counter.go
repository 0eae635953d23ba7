// Package counter turns per-frame joint angles into repetition counts.
//
// Each exercise runs one or more hysteresis oscillators over a joint angle.
// Counters are not safe for concurrent use: the frame loop feeding them must
// deliver ticks one at a time and in capture order.
package counter

import (
	"fmt"

	"github.com/claude/repcounter/internal/pose"
)

var (
	DefaultCurl  = Thresholds{Extended: 160, Contracted: 30}
	DefaultSquat = Thresholds{Extended: 160, Contracted: 100}
)

// Settings carries per-exercise thresholds.
type Settings struct {
	Curl  Thresholds
	Squat Thresholds
}

// DefaultSettings returns the canonical thresholds.
func DefaultSettings() Settings {
	return Settings{Curl: DefaultCurl, Squat: DefaultSquat}
}

// Reading is a counter's output for one tick. An angle for a side the
// counter does not track is 0.
type Reading struct {
	Count      int     `json:"count"`
	Stage      Stage   `json:"stage"`
	LeftAngle  float64 `json:"left_angle"`
	RightAngle float64 `json:"right_angle"`
	// Advanced is true when this tick completed a repetition.
	Advanced bool `json:"advanced"`
}

// Counter is a per-exercise repetition state machine.
type Counter interface {
	Update(ls pose.LandmarkSet) Reading
	Count() int
	Stage() Stage
	Reset()
	Exercise() Exercise
	// Joints lists the landmarks Update reads. Frames only need these.
	Joints() []pose.Joint
}

var (
	leftArmJoints  = []pose.Joint{pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist}
	rightArmJoints = []pose.Joint{pose.RightShoulder, pose.RightElbow, pose.RightWrist}
	legJoints      = []pose.Joint{
		pose.LeftHip, pose.LeftKnee, pose.LeftAnkle,
		pose.RightHip, pose.RightKnee, pose.RightAnkle,
	}
)

// New builds the counter for an exercise. Unknown exercises or hand
// selections fail here, at session setup, instead of defaulting. hand is
// ignored for squats.
func New(ex Exercise, hand Hand, s Settings) (Counter, error) {
	switch ex {
	case BicepCurl:
		if !hand.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownHand, hand)
		}
		if err := s.Curl.Validate(); err != nil {
			return nil, fmt.Errorf("curl thresholds: %w", err)
		}
		return NewCurlCounter(hand, s.Curl), nil
	case Squat:
		if err := s.Squat.Validate(); err != nil {
			return nil, fmt.Errorf("squat thresholds: %w", err)
		}
		return NewSquatCounter(s.Squat), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownExercise, ex)
}

// CurlCounter counts bicep curls from the elbow angle. The arm extended is
// "down", the arm curled is "up".
type CurlCounter struct {
	hand  Hand
	left  *Oscillator
	right *Oscillator
	// both couples the two arms: it only moves when both satisfy an edge.
	both *Oscillator
}

// NewCurlCounter returns a curl counter for the selected arm(s).
func NewCurlCounter(hand Hand, th Thresholds) *CurlCounter {
	return &CurlCounter{
		hand:  hand,
		left:  NewOscillator(th, StageDown, StageUp),
		right: NewOscillator(th, StageDown, StageUp),
		both:  NewOscillator(th, StageDown, StageUp),
	}
}

func (c *CurlCounter) Exercise() Exercise { return BicepCurl }

func (c *CurlCounter) Joints() []pose.Joint {
	switch c.hand {
	case Left:
		return append([]pose.Joint(nil), leftArmJoints...)
	case Right:
		return append([]pose.Joint(nil), rightArmJoints...)
	}
	return append(append([]pose.Joint(nil), leftArmJoints...), rightArmJoints...)
}

// armAngle is the elbow angle for arm, or 0 when ls does not carry it.
func armAngle(ls pose.LandmarkSet, arm []pose.Joint) float64 {
	if !ls.Has(arm...) {
		return 0
	}
	return ls.JointAngle(arm[0], arm[1], arm[2])
}

func (c *CurlCounter) active() *Oscillator {
	switch c.hand {
	case Left:
		return c.left
	case Right:
		return c.right
	}
	return c.both
}

func (c *CurlCounter) Update(ls pose.LandmarkSet) Reading {
	leftAngle := armAngle(ls, leftArmJoints)
	rightAngle := armAngle(ls, rightArmJoints)

	var advanced bool
	switch c.hand {
	case Left:
		advanced = c.left.Observe(leftAngle)
	case Right:
		advanced = c.right.Observe(rightAngle)
	default:
		b := c.both
		advanced = b.Step(
			b.IsExtended(leftAngle) && b.IsExtended(rightAngle),
			b.IsContracted(leftAngle) && b.IsContracted(rightAngle),
		)
	}

	return Reading{
		Count:      c.Count(),
		Stage:      c.Stage(),
		LeftAngle:  leftAngle,
		RightAngle: rightAngle,
		Advanced:   advanced,
	}
}

func (c *CurlCounter) Count() int   { return c.active().Count() }
func (c *CurlCounter) Stage() Stage { return c.active().Stage() }

// Reset clears every arm, not only the selected one.
func (c *CurlCounter) Reset() {
	c.left.Reset()
	c.right.Reset()
	c.both.Reset()
}

// SquatCounter counts squats from the knee angle averaged over both legs.
// Standing is "up", the bottom of the squat is "down".
type SquatCounter struct {
	osc *Oscillator
}

// NewSquatCounter returns a squat counter.
func NewSquatCounter(th Thresholds) *SquatCounter {
	return &SquatCounter{osc: NewOscillator(th, StageUp, StageDown)}
}

func (c *SquatCounter) Exercise() Exercise { return Squat }

func (c *SquatCounter) Joints() []pose.Joint {
	return append([]pose.Joint(nil), legJoints...)
}

func (c *SquatCounter) Update(ls pose.LandmarkSet) Reading {
	leftAngle := ls.JointAngle(pose.LeftHip, pose.LeftKnee, pose.LeftAnkle)
	rightAngle := ls.JointAngle(pose.RightHip, pose.RightKnee, pose.RightAnkle)
	advanced := c.osc.Observe((leftAngle + rightAngle) / 2)
	return Reading{
		Count:      c.osc.Count(),
		Stage:      c.osc.Stage(),
		LeftAngle:  leftAngle,
		RightAngle: rightAngle,
		Advanced:   advanced,
	}
}

func (c *SquatCounter) Count() int   { return c.osc.Count() }
func (c *SquatCounter) Stage() Stage { return c.osc.Stage() }
func (c *SquatCounter) Reset()       { c.osc.Reset() }
