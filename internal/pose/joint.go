package pose

import (
	"fmt"
	"strings"
)

// Joint identifies one body landmark used by the rep counters.
type Joint int

const (
	LeftShoulder Joint = iota
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle

	numJoints
)

var jointNames = [numJoints]string{
	LeftShoulder:  "LEFT_SHOULDER",
	RightShoulder: "RIGHT_SHOULDER",
	LeftElbow:     "LEFT_ELBOW",
	RightElbow:    "RIGHT_ELBOW",
	LeftWrist:     "LEFT_WRIST",
	RightWrist:    "RIGHT_WRIST",
	LeftHip:       "LEFT_HIP",
	RightHip:      "RIGHT_HIP",
	LeftKnee:      "LEFT_KNEE",
	RightKnee:     "RIGHT_KNEE",
	LeftAnkle:     "LEFT_ANKLE",
	RightAnkle:    "RIGHT_ANKLE",
}

// Joints returns every joint in enum order.
func Joints() []Joint {
	out := make([]Joint, numJoints)
	for i := range out {
		out[i] = Joint(i)
	}
	return out
}

func (j Joint) String() string {
	if j < 0 || j >= numJoints {
		return fmt.Sprintf("Joint(%d)", int(j))
	}
	return jointNames[j]
}

// Valid reports whether j is one of the defined joints.
func (j Joint) Valid() bool {
	return j >= 0 && j < numJoints
}

// ParseJoint maps an estimator's joint name to a Joint. Pose estimators spell
// names differently ("LEFT_HIP", "left_hip", "left hip", "left-hip"); all
// of them are accepted, matching is case-insensitive.
func ParseJoint(name string) (Joint, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	for j, n := range jointNames {
		if n == key {
			return Joint(j), nil
		}
	}
	return 0, fmt.Errorf("unknown joint %q", name)
}
