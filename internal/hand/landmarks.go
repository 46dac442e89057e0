// Package hand describes the 21-point hand topology shared by the landmark
// provider and the gesture pipeline.
package hand

import (
	"errors"
	"fmt"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// ErrInsufficientLandmarks is returned when a provider reports a hand with
// fewer points than the topology requires.
var ErrInsufficientLandmarks = errors.New("insufficient hand landmarks")

// Point is a landmark position in frame pixels. Y grows downward.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Observation is one detected hand: all 21 landmarks indexed by the
// constants above.
type Observation struct {
	Points     [NumLandmarks]Point `json:"points"`
	Handedness string              `json:"handedness"` // "Left" or "Right"
	Score      float64             `json:"score"`
}

// FromPoints builds an Observation from an ordered landmark slice.
// Points beyond NumLandmarks are ignored.
func FromPoints(points []Point) (Observation, error) {
	var obs Observation
	if len(points) < NumLandmarks {
		return obs, fmt.Errorf("%w: got %d, want %d", ErrInsufficientLandmarks, len(points), NumLandmarks)
	}
	copy(obs.Points[:], points[:NumLandmarks])
	return obs, nil
}

// Axis selects which coordinate decides whether a digit is extended.
type Axis int

const (
	// AxisX compares horizontally: extended when the tip is right of the joint.
	AxisX Axis = iota
	// AxisY compares vertically: extended when the tip is above the joint.
	AxisY
)

// Digit pairs a fingertip with the joint it is compared against.
type Digit struct {
	Name  string
	Tip   int
	Joint int
	Axis  Axis
}

// Digits is the fixed digit schema, ordered thumb to pinky. The thumb flexes
// sideways so it uses the joint directly below its tip; the other fingers use
// the PIP joint two points below.
var Digits = [5]Digit{
	{Name: "thumb", Tip: ThumbTip, Joint: ThumbTip - 1, Axis: AxisX},
	{Name: "index", Tip: IndexTip, Joint: IndexTip - 2, Axis: AxisY},
	{Name: "middle", Tip: MiddleTip, Joint: MiddleTip - 2, Axis: AxisY},
	{Name: "ring", Tip: RingTip, Joint: RingTip - 2, Axis: AxisY},
	{Name: "pinky", Tip: PinkyTip, Joint: PinkyTip - 2, Axis: AxisY},
}

// Connections lists the landmark pairs joined when a hand is drawn.
var Connections = [][2]int{
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	{IndexMCP, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	{MiddleMCP, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	{RingMCP, PinkyMCP}, {Wrist, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
}
