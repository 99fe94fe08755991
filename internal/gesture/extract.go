package gesture

import (
	"math"

	"github.com/iburimskiy/gesture-tree/internal/config"
)

const (
	closedSpread = 0.1 // average fingertip distance of a fist
	openSpread   = 0.4 // average fingertip distance of a spread hand
)

// Sample is the interpreted state of one frame.
type Sample struct {
	Openness      float64
	PinchDistance float64
	IsPinching    bool
}

// Quiescent is the sample for a frame with no hands.
var Quiescent = Sample{Openness: 0, PinchDistance: 1, IsPinching: false}

// Extract interprets a frame. Each hand is handled on its own; a missing
// (or incomplete) hand yields that hand's quiescent values rather than
// holding the previous ones.
func Extract(f Frame) Sample {
	s := Quiescent
	for _, h := range f.Hands {
		if !h.complete() {
			continue
		}
		switch {
		case h.IsLeft():
			s.Openness = Openness(h.Landmarks)
		case h.IsRight():
			s.PinchDistance = PinchDistance(h.Landmarks)
			s.IsPinching = s.PinchDistance < config.PinchThreshold
		}
	}
	return s
}

// Openness maps the mean wrist-to-fingertip distance from [0.1,0.4] onto
// [0,1].
func Openness(lm []Landmark) float64 {
	wrist := lm[Wrist]
	var total float64
	for _, idx := range Fingertips {
		total += distance(wrist, lm[idx])
	}
	avg := total / float64(len(Fingertips))

	v := (avg - closedSpread) / (openSpread - closedSpread)
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 1)
}

// PinchDistance is the distance between thumb and index fingertips.
func PinchDistance(lm []Landmark) float64 {
	d := distance(lm[ThumbTip], lm[IndexTip])
	if math.IsNaN(d) {
		return Quiescent.PinchDistance
	}
	return d
}

func distance(a, b Landmark) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
