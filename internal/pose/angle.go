package pose

import "math"

// Angle returns the interior angle at vertex b formed by a-b-c, in degrees
// within [0, 180]. When b coincides with a or c the angle is undefined and
// Angle returns 0.
func Angle(a, b, c Point) float64 {
	if a == b || c == b {
		return 0
	}
	radians := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	deg := math.Abs(radians * 180.0 / math.Pi)
	if deg > 180.0 {
		deg = 360 - deg
	}
	return deg
}

// JointAngle is Angle over three joints of a landmark set.
func (ls LandmarkSet) JointAngle(a, b, c Joint) float64 {
	return Angle(ls.At(a), ls.At(b), ls.At(c))
}
