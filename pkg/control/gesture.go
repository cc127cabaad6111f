package control

import "math"

// Hand landmark indices of the 21 point hand model.
const (
	LandmarkWrist         = 0
	LandmarkMiddleKnuckle = 9
	LandmarkCount         = 21
)

// fingertips are the thumb, index, middle, ring and pinky tips.
var fingertips = [5]int{4, 8, 12, 16, 20}

// GestureRange is the yaw reached with the palm at either edge of the camera
// frame (±135°).
const GestureRange = math.Pi * 1.5

// FistThreshold is the openness below which a hand counts as clenched.
const FistThreshold = 1.5

// Landmark is one tracked hand point in normalized camera coordinates.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (l Landmark) dist(o Landmark) float64 {
	dx, dy, dz := l.X-o.X, l.Y-o.Y, l.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Openness is the mean fingertip-to-wrist distance in units of the
// wrist-to-middle-knuckle distance. Open hands score around 1.8 and above,
// fists below 1.4.
func Openness(hand []Landmark) float64 {
	wrist := hand[LandmarkWrist]
	scale := wrist.dist(hand[LandmarkMiddleKnuckle])
	if scale == 0 {
		scale = 1
	}

	var total float64
	for _, i := range fingertips {
		total += wrist.dist(hand[i])
	}
	return total / float64(len(fingertips)) / scale
}

// Classify maps a tracked hand to intent. The camera image is mirrored, so a
// palm on the left of the frame (small x) turns the scene positively. It
// reports false when hand does not carry a full landmark set.
func Classify(hand []Landmark) (Signal, bool) {
	if len(hand) < LandmarkCount {
		return Signal{}, false
	}
	return Signal{
		Gathered: Openness(hand) < FistThreshold,
		Rotation: (0.5 - hand[LandmarkWrist].X) * GestureRange,
	}, true
}
