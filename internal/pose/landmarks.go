package pose

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrMissingJoint is returned when a landmark set lacks a required joint.
	ErrMissingJoint = errors.New("missing joint")
	// ErrOutOfRange is returned when a coordinate is not finite or lies
	// outside the normalized frame.
	ErrOutOfRange = errors.New("coordinate out of range")
	// ErrNotDetected means the estimator did not see a body with enough
	// confidence. Callers skip the tick; it is not a malformed input.
	ErrNotDetected = errors.New("no pose detected")
	// ErrDuplicateJoint is returned when two names in one frame spell the
	// same joint.
	ErrDuplicateJoint = errors.New("duplicate joint")
)

// edgeTolerance allows estimators to overshoot the frame edge slightly.
const edgeTolerance = 0.1

// Point is a 2D coordinate normalized to the video frame, x and y in [0,1].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Landmark is one joint as reported by the pose estimator.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

// Point drops the visibility score.
func (l Landmark) Point() Point {
	return Point{X: l.X, Y: l.Y}
}

// LandmarkSet holds one frame's joint positions. Sets built by FromNamed may
// carry only the joints a counter asked for. The zero value is not valid;
// build one with NewLandmarkSet or FromNamed.
type LandmarkSet struct {
	points  [numJoints]Point
	present [numJoints]bool
}

// NewLandmarkSet validates points and returns an immutable LandmarkSet.
// Every joint must be present with finite, in-frame coordinates.
func NewLandmarkSet(points map[Joint]Point) (LandmarkSet, error) {
	var ls LandmarkSet
	for _, j := range Joints() {
		p, ok := points[j]
		if !ok {
			return LandmarkSet{}, fmt.Errorf("%w: %s", ErrMissingJoint, j)
		}
		if err := checkPoint(j, p); err != nil {
			return LandmarkSet{}, err
		}
		ls.points[j] = p
		ls.present[j] = true
	}
	return ls, nil
}

// FromNamed converts estimator output keyed by joint name. Only the required
// joints are checked and kept; with none given every joint is required.
// Names that are not tracked joints (nose, eyes, heels...) are ignored, as
// are tracked joints outside required. Two names for the same joint yield
// ErrDuplicateJoint. A required joint whose visibility is below minVisibility
// yields ErrNotDetected.
func FromNamed(named map[string]Landmark, minVisibility float64, required ...Joint) (LandmarkSet, error) {
	if len(required) == 0 {
		required = Joints()
	}
	var (
		found [numJoints]Landmark
		seen  [numJoints]string
		ok    [numJoints]bool
	)
	for name, lm := range named {
		j, err := ParseJoint(name)
		if err != nil {
			continue
		}
		if ok[j] {
			a, b := seen[j], name
			if b < a {
				a, b = b, a
			}
			return LandmarkSet{}, fmt.Errorf("%w: %q and %q", ErrDuplicateJoint, a, b)
		}
		found[j], seen[j], ok[j] = lm, name, true
	}

	var ls LandmarkSet
	var hidden []Joint
	for _, j := range required {
		if !j.Valid() || !ok[j] {
			return LandmarkSet{}, fmt.Errorf("%w: %s", ErrMissingJoint, j)
		}
		lm := found[j]
		if err := checkPoint(j, lm.Point()); err != nil {
			return LandmarkSet{}, err
		}
		if lm.Visibility < minVisibility {
			hidden = append(hidden, j)
		}
		ls.points[j] = lm.Point()
		ls.present[j] = true
	}
	if len(hidden) > 0 {
		return LandmarkSet{}, fmt.Errorf("%w: %s visibility below %.2f", ErrNotDetected, hidden[0], minVisibility)
	}
	return ls, nil
}

// At returns the position of joint j, or the zero Point when the set does
// not carry it.
func (ls LandmarkSet) At(j Joint) Point {
	return ls.points[j]
}

// Has reports whether the set carries every joint in js.
func (ls LandmarkSet) Has(js ...Joint) bool {
	for _, j := range js {
		if !j.Valid() || !ls.present[j] {
			return false
		}
	}
	return true
}

// Named returns the joints the set carries keyed by canonical name, the
// shape the HTTP API and frame files use.
func (ls LandmarkSet) Named() map[string]Landmark {
	out := make(map[string]Landmark, numJoints)
	for _, j := range Joints() {
		if !ls.present[j] {
			continue
		}
		p := ls.points[j]
		out[j.String()] = Landmark{X: p.X, Y: p.Y, Visibility: 1}
	}
	return out
}

func checkPoint(j Joint, p Point) error {
	for _, v := range []float64{p.X, p.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrOutOfRange, j)
		}
		if v < -edgeTolerance || v > 1+edgeTolerance {
			return fmt.Errorf("%w: %s = (%.3f, %.3f)", ErrOutOfRange, j, p.X, p.Y)
		}
	}
	return nil
}
