package counter

import (
	"errors"
	"math"
	"testing"

	"github.com/claude/repcounter/internal/pose"
)

// limb places proximal straight above the vertex and rotates distal so the
// angle at the vertex is deg.
func limb(m map[pose.Joint]pose.Point, proximal, vertex, distal pose.Joint, at pose.Point, deg float64) {
	r := deg * math.Pi / 180
	m[vertex] = at
	m[proximal] = pose.Point{X: at.X, Y: at.Y - 0.15}
	m[distal] = pose.Point{X: at.X + 0.15*math.Sin(r), Y: at.Y - 0.15*math.Cos(r)}
}

func bodyAt(t *testing.T, leftArm, rightArm, leftLeg, rightLeg float64) pose.LandmarkSet {
	t.Helper()
	m := make(map[pose.Joint]pose.Point)
	limb(m, pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist, pose.Point{X: 0.3, Y: 0.4}, leftArm)
	limb(m, pose.RightShoulder, pose.RightElbow, pose.RightWrist, pose.Point{X: 0.7, Y: 0.4}, rightArm)
	limb(m, pose.LeftHip, pose.LeftKnee, pose.LeftAnkle, pose.Point{X: 0.35, Y: 0.7}, leftLeg)
	limb(m, pose.RightHip, pose.RightKnee, pose.RightAnkle, pose.Point{X: 0.65, Y: 0.7}, rightLeg)
	ls, err := pose.NewLandmarkSet(m)
	if err != nil {
		t.Fatalf("building landmarks: %v", err)
	}
	return ls
}

func arms(t *testing.T, left, right float64) pose.LandmarkSet {
	return bodyAt(t, left, right, 170, 170)
}

func legs(t *testing.T, left, right float64) pose.LandmarkSet {
	return bodyAt(t, 170, 170, left, right)
}

// TestOscillatorSingleCycle verifies one open->closed cycle counts exactly
// once, even when the closed extreme is held for several frames.
func TestOscillatorSingleCycle(t *testing.T) {
	o := NewOscillator(DefaultCurl, StageDown, StageUp)
	for _, a := range []float64{170, 170, 20, 20} {
		o.Observe(a)
	}
	if o.Count() != 1 {
		t.Errorf("count = %d, want 1", o.Count())
	}
	if o.Stage() != StageUp {
		t.Errorf("stage = %q, want %q", o.Stage(), StageUp)
	}
}

// TestOscillatorColdStart verifies no phantom rep is counted when the very
// first frames already read closed.
func TestOscillatorColdStart(t *testing.T) {
	o := NewOscillator(DefaultCurl, StageDown, StageUp)
	for _, a := range []float64{20, 20, 20} {
		if o.Observe(a) {
			t.Errorf("Observe(%v) advanced from cold start", a)
		}
	}
	if o.Count() != 0 || o.Stage() != StageNone {
		t.Errorf("count=%d stage=%q, want 0 and none", o.Count(), o.Stage())
	}
}

// TestOscillatorDeadZone verifies angles between the thresholds never change
// stage or count.
func TestOscillatorDeadZone(t *testing.T) {
	o := NewOscillator(DefaultCurl, StageDown, StageUp)
	for _, a := range []float64{90, 95, 88} {
		o.Observe(a)
	}
	if o.Count() != 0 || o.Stage() != StageNone {
		t.Errorf("from none: count=%d stage=%q", o.Count(), o.Stage())
	}

	o.Observe(170)
	for _, a := range []float64{90, 95, 88} {
		o.Observe(a)
	}
	if o.Count() != 0 || o.Stage() != StageDown {
		t.Errorf("from open: count=%d stage=%q, want 0 and down", o.Count(), o.Stage())
	}
}

// TestOscillatorThresholdsInclusive verifies the edges fire on exact
// threshold values.
func TestOscillatorThresholdsInclusive(t *testing.T) {
	o := NewOscillator(DefaultCurl, StageDown, StageUp)
	o.Observe(160)
	if o.Stage() != StageDown {
		t.Fatalf("stage after 160 = %q, want down", o.Stage())
	}
	if !o.Observe(30) {
		t.Error("Observe(30) should complete a rep")
	}
}

// TestOscillatorMonotonic feeds a noisy signal and checks the count never
// decreases and equals the number of completed cycles.
func TestOscillatorMonotonic(t *testing.T) {
	o := NewOscillator(DefaultCurl, StageDown, StageUp)
	signal := []float64{
		100, 170, 165, 120, 40, 25, 28, 20, 35, 25, 90, 161, 150, 170, 29, 10, 175, 5, 31, 179,
	}
	prev := 0
	for _, a := range signal {
		o.Observe(a)
		if o.Count() < prev {
			t.Fatalf("count decreased from %d to %d at angle %v", prev, o.Count(), a)
		}
		prev = o.Count()
	}
	if o.Count() != 3 {
		t.Errorf("count = %d, want 3", o.Count())
	}
}

// TestOscillatorReset verifies reset returns to the cold-start state.
func TestOscillatorReset(t *testing.T) {
	o := NewOscillator(DefaultCurl, StageDown, StageUp)
	o.Observe(170)
	o.Observe(20)
	o.Reset()
	if o.Count() != 0 || o.Stage() != StageNone {
		t.Errorf("after reset count=%d stage=%q", o.Count(), o.Stage())
	}
	o.Observe(20)
	if o.Count() != 0 {
		t.Error("closed read right after reset must not count")
	}
}

// TestThresholdsValidate rejects pairs without a dead zone.
func TestThresholdsValidate(t *testing.T) {
	cases := []struct {
		th      Thresholds
		wantErr bool
	}{
		{DefaultCurl, false},
		{DefaultSquat, false},
		{Thresholds{Extended: 90, Contracted: 90}, true},
		{Thresholds{Extended: 80, Contracted: 120}, true},
		{Thresholds{Extended: 200, Contracted: 30}, true},
		{Thresholds{Extended: 160, Contracted: 0}, true},
	}
	for _, tc := range cases {
		err := tc.th.Validate()
		if (err != nil) != tc.wantErr {
			t.Errorf("Validate(%+v) err = %v, wantErr %v", tc.th, err, tc.wantErr)
		}
	}
}

// TestCurlSingleArm verifies Left and Right each track only their own arm.
func TestCurlSingleArm(t *testing.T) {
	right := NewCurlCounter(Right, DefaultCurl)
	left := NewCurlCounter(Left, DefaultCurl)

	frames := []pose.LandmarkSet{
		arms(t, 170, 170),
		arms(t, 170, 20), // right arm curls
		arms(t, 170, 170),
		arms(t, 20, 170), // left arm curls
	}
	for _, f := range frames {
		right.Update(f)
		left.Update(f)
	}
	if right.Count() != 1 {
		t.Errorf("right count = %d, want 1", right.Count())
	}
	if left.Count() != 1 {
		t.Errorf("left count = %d, want 1", left.Count())
	}
	if left.Stage() != StageUp {
		t.Errorf("left stage = %q, want up", left.Stage())
	}
}

// TestCurlBothRequiresSynchrony verifies one arm alone never counts in Both
// mode, while both arms closing in the same tick does.
func TestCurlBothRequiresSynchrony(t *testing.T) {
	c := NewCurlCounter(Both, DefaultCurl)

	c.Update(arms(t, 170, 170))
	r := c.Update(arms(t, 170, 20))
	if r.Count != 0 || r.Advanced {
		t.Errorf("right arm only: count = %d, want 0", r.Count)
	}
	if r.Stage != StageDown {
		t.Errorf("stage = %q, want down", r.Stage)
	}

	r = c.Update(arms(t, 20, 20))
	if r.Count != 1 || !r.Advanced {
		t.Errorf("both arms closed: count = %d advanced=%v, want 1 true", r.Count, r.Advanced)
	}
	if r.Stage != StageUp {
		t.Errorf("stage = %q, want up", r.Stage)
	}
}

// TestCurlBothOpenEdgeNeedsBothArms verifies the open edge is also an AND:
// re-extending only one arm does not re-arm the shared counter.
func TestCurlBothOpenEdgeNeedsBothArms(t *testing.T) {
	c := NewCurlCounter(Both, DefaultCurl)
	c.Update(arms(t, 170, 170))
	c.Update(arms(t, 20, 20))
	c.Update(arms(t, 170, 20)) // only the left arm extends
	c.Update(arms(t, 20, 20))
	if c.Count() != 1 {
		t.Errorf("count = %d, want 1", c.Count())
	}
}

// TestCurlReadingAngles verifies the reading reports both elbow angles.
func TestCurlReadingAngles(t *testing.T) {
	c := NewCurlCounter(Right, DefaultCurl)
	r := c.Update(arms(t, 45, 120))
	if math.Abs(r.LeftAngle-45) > 1e-6 || math.Abs(r.RightAngle-120) > 1e-6 {
		t.Errorf("angles = %v/%v, want 45/120", r.LeftAngle, r.RightAngle)
	}
}

// TestCurlResetClearsAllArms verifies reset clears every arm's oscillator.
func TestCurlResetClearsAllArms(t *testing.T) {
	c := NewCurlCounter(Both, DefaultCurl)
	c.Update(arms(t, 170, 170))
	c.Update(arms(t, 20, 20))
	c.Reset()
	if c.Count() != 0 || c.Stage() != StageNone {
		t.Errorf("after reset count=%d stage=%q", c.Count(), c.Stage())
	}
	if c.left.Count() != 0 || c.right.Count() != 0 {
		t.Error("per-arm oscillators not reset")
	}
}

// TestSquatAveragesLegs verifies the squat signal is the mean knee angle, so
// one bent leg alone does not reach the bottom threshold.
func TestSquatAveragesLegs(t *testing.T) {
	c := NewSquatCounter(DefaultSquat)

	c.Update(legs(t, 170, 170))
	if c.Stage() != StageUp {
		t.Fatalf("standing stage = %q, want up", c.Stage())
	}

	r := c.Update(legs(t, 60, 170)) // mean 115, in the dead zone
	if r.Count != 0 {
		t.Errorf("one leg bent: count = %d, want 0", r.Count)
	}

	r = c.Update(legs(t, 80, 90)) // mean 85
	if r.Count != 1 || r.Stage != StageDown {
		t.Errorf("bottom: count=%d stage=%q, want 1 down", r.Count, r.Stage)
	}

	c.Update(legs(t, 85, 85))
	if c.Count() != 1 {
		t.Errorf("holding bottom: count = %d, want 1", c.Count())
	}
}

// TestNewCounter verifies the factory builds the right counter and fails
// fast on unknown configuration.
func TestNewCounter(t *testing.T) {
	c, err := New(BicepCurl, Left, DefaultSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Exercise() != BicepCurl {
		t.Errorf("exercise = %q, want bicep_curl", c.Exercise())
	}

	c, err = New(Squat, "", DefaultSettings())
	if err != nil {
		t.Fatalf("squat ignores hand: unexpected error %v", err)
	}
	if c.Exercise() != Squat {
		t.Errorf("exercise = %q, want squat", c.Exercise())
	}

	if _, err := New("lunge", Left, DefaultSettings()); !errors.Is(err, ErrUnknownExercise) {
		t.Errorf("err = %v, want ErrUnknownExercise", err)
	}
	if _, err := New(BicepCurl, "", DefaultSettings()); !errors.Is(err, ErrUnknownHand) {
		t.Errorf("err = %v, want ErrUnknownHand", err)
	}

	bad := DefaultSettings()
	bad.Squat = Thresholds{Extended: 90, Contracted: 120}
	if _, err := New(Squat, "", bad); err == nil {
		t.Error("expected threshold validation error")
	}
}

// TestParseExercise accepts identifiers and display labels.
func TestParseExercise(t *testing.T) {
	cases := []struct {
		input string
		want  Exercise
	}{
		{"bicep_curl", BicepCurl},
		{"Bicep Curls", BicepCurl},
		{"squat", Squat},
		{"Squats", Squat},
	}
	for _, tc := range cases {
		got, err := ParseExercise(tc.input)
		if err != nil || got != tc.want {
			t.Errorf("ParseExercise(%q) = %q, %v; want %q", tc.input, got, err, tc.want)
		}
	}
	if _, err := ParseExercise("deadlift"); !errors.Is(err, ErrUnknownExercise) {
		t.Errorf("err = %v, want ErrUnknownExercise", err)
	}
}

// TestParseHand accepts any casing and rejects other values.
func TestParseHand(t *testing.T) {
	if h, err := ParseHand("Both"); err != nil || h != Both {
		t.Errorf("ParseHand(Both) = %q, %v", h, err)
	}
	if _, err := ParseHand("middle"); !errors.Is(err, ErrUnknownHand) {
		t.Errorf("err = %v, want ErrUnknownHand", err)
	}
}

// TestCounterJoints verifies each counter asks only for the limbs it reads.
func TestCounterJoints(t *testing.T) {
	cases := []struct {
		name string
		c    Counter
		want []pose.Joint
	}{
		{"left curl", NewCurlCounter(Left, DefaultCurl), []pose.Joint{pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist}},
		{"right curl", NewCurlCounter(Right, DefaultCurl), []pose.Joint{pose.RightShoulder, pose.RightElbow, pose.RightWrist}},
		{"both curl", NewCurlCounter(Both, DefaultCurl), []pose.Joint{
			pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist,
			pose.RightShoulder, pose.RightElbow, pose.RightWrist,
		}},
		{"squat", NewSquatCounter(DefaultSquat), []pose.Joint{
			pose.LeftHip, pose.LeftKnee, pose.LeftAnkle,
			pose.RightHip, pose.RightKnee, pose.RightAnkle,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.c.Joints()
			if len(got) != len(tc.want) {
				t.Fatalf("Joints() = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("Joints()[%d] = %v, want %v", i, got[i], tc.want[i])
				}
			}
			got[0] = pose.RightAnkle
			if tc.c.Joints()[0] == pose.RightAnkle {
				t.Error("Joints() must return a fresh slice")
			}
		})
	}
}
