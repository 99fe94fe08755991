// Package gesture turns hand-landmark detections into two control signals:
// left-hand openness and right-hand pinch.
package gesture

import "strings"

// Landmark indices of the 21-point hand model.
const (
	Wrist     = 0
	ThumbTip  = 4
	IndexTip  = 8
	MiddleTip = 12
	RingTip   = 16
	PinkyTip  = 20

	LandmarkCount = 21
)

// Fingertips are the landmarks averaged for openness.
var Fingertips = [...]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// Landmark is a normalized image-space point.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Hand is one detected hand.
type Hand struct {
	Label     string     `json:"label"`
	Landmarks []Landmark `json:"landmarks"`
}

// IsLeft reports whether the detector labeled the hand as left.
func (h Hand) IsLeft() bool { return strings.EqualFold(h.Label, "left") }

// IsRight reports whether the detector labeled the hand as right.
func (h Hand) IsRight() bool { return strings.EqualFold(h.Label, "right") }

func (h Hand) complete() bool { return len(h.Landmarks) >= LandmarkCount }

// Frame is the detector output for one camera frame.
type Frame struct {
	Hands []Hand `json:"hands"`
}
