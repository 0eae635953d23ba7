package counter

import "fmt"

// Stage is the hysteresis memory of one tracked limb.
type Stage string

const (
	StageNone Stage = ""
	StageUp   Stage = "up"
	StageDown Stage = "down"
)

// Thresholds are the joint angles, in degrees, marking the two extremes of a
// repetition.
type Thresholds struct {
	Extended   float64 `yaml:"extended_deg" json:"extended_deg"`
	Contracted float64 `yaml:"contracted_deg" json:"contracted_deg"`
}

// Validate checks the pair leaves a dead zone between the extremes.
func (t Thresholds) Validate() error {
	if t.Contracted <= 0 || t.Extended > 180 {
		return fmt.Errorf("thresholds must lie in (0, 180], got %v/%v", t.Extended, t.Contracted)
	}
	if t.Extended <= t.Contracted {
		return fmt.Errorf("extended (%v) must exceed contracted (%v)", t.Extended, t.Contracted)
	}
	return nil
}

// Oscillator is a two-state hysteresis counter over one angle signal. A rep
// is registered once per open->closed edge: never on closed->open, never
// while already closed, and never before an open extreme has been seen.
type Oscillator struct {
	open   Stage
	closed Stage
	th     Thresholds

	stage Stage
	count int
}

// NewOscillator returns an oscillator labelling the extended extreme open and
// the contracted extreme closed.
func NewOscillator(th Thresholds, open, closed Stage) *Oscillator {
	return &Oscillator{open: open, closed: closed, th: th}
}

// Observe feeds one angle sample. It reports whether the sample completed a
// repetition.
func (o *Oscillator) Observe(angle float64) bool {
	return o.Step(o.IsExtended(angle), o.IsContracted(angle))
}

// Step advances the state machine from already-evaluated edge conditions.
// Coupled limbs use it to AND several angles into one shared stage.
func (o *Oscillator) Step(extended, contracted bool) bool {
	if extended {
		o.stage = o.open
		return false
	}
	if contracted && o.stage == o.open {
		o.stage = o.closed
		o.count++
		return true
	}
	return false
}

// IsExtended reports whether angle reaches the open extreme.
func (o *Oscillator) IsExtended(angle float64) bool {
	return angle >= o.th.Extended
}

// IsContracted reports whether angle reaches the closed extreme.
func (o *Oscillator) IsContracted(angle float64) bool {
	return angle <= o.th.Contracted
}

func (o *Oscillator) Stage() Stage { return o.stage }
func (o *Oscillator) Count() int   { return o.count }

// Reset returns the oscillator to its cold-start state.
func (o *Oscillator) Reset() {
	o.stage = StageNone
	o.count = 0
}
