package hand

// Preset observations in 640x480 pixel space for tests and the mock detector.

// OpenPalm returns a right hand with every digit extended.
func OpenPalm() Observation {
	obs := Observation{Handedness: "Right", Score: 0.95}

	obs.Points[Wrist] = Point{X: 320, Y: 400}

	// Thumb out to the side
	obs.Points[ThumbCMC] = Point{X: 350, Y: 375}
	obs.Points[ThumbMCP] = Point{X: 395, Y: 350}
	obs.Points[ThumbIP] = Point{X: 430, Y: 325}
	obs.Points[ThumbTip] = Point{X: 465, Y: 300}

	obs.Points[IndexMCP] = Point{X: 350, Y: 330}
	obs.Points[IndexPIP] = Point{X: 365, Y: 265}
	obs.Points[IndexDIP] = Point{X: 370, Y: 215}
	obs.Points[IndexTip] = Point{X: 370, Y: 170}

	obs.Points[MiddleMCP] = Point{X: 320, Y: 320}
	obs.Points[MiddlePIP] = Point{X: 320, Y: 250}
	obs.Points[MiddleDIP] = Point{X: 320, Y: 190}
	obs.Points[MiddleTip] = Point{X: 320, Y: 140}

	obs.Points[RingMCP] = Point{X: 290, Y: 330}
	obs.Points[RingPIP] = Point{X: 278, Y: 265}
	obs.Points[RingDIP] = Point{X: 272, Y: 215}
	obs.Points[RingTip] = Point{X: 270, Y: 170}

	obs.Points[PinkyMCP] = Point{X: 260, Y: 345}
	obs.Points[PinkyPIP] = Point{X: 240, Y: 295}
	obs.Points[PinkyDIP] = Point{X: 228, Y: 250}
	obs.Points[PinkyTip] = Point{X: 222, Y: 215}

	return obs
}

// Fist returns a right hand with every digit curled.
func Fist() Observation {
	obs := Observation{Handedness: "Right", Score: 0.92}

	obs.Points[Wrist] = Point{X: 320, Y: 400}

	// Thumb folded across the palm: tip left of the IP joint
	obs.Points[ThumbCMC] = Point{X: 350, Y: 380}
	obs.Points[ThumbMCP] = Point{X: 370, Y: 355}
	obs.Points[ThumbIP] = Point{X: 360, Y: 335}
	obs.Points[ThumbTip] = Point{X: 335, Y: 330}

	obs.Points[IndexMCP] = Point{X: 350, Y: 330}
	obs.Points[IndexPIP] = Point{X: 352, Y: 300}
	obs.Points[IndexDIP] = Point{X: 345, Y: 320}
	obs.Points[IndexTip] = Point{X: 340, Y: 335}

	obs.Points[MiddleMCP] = Point{X: 320, Y: 325}
	obs.Points[MiddlePIP] = Point{X: 320, Y: 295}
	obs.Points[MiddleDIP] = Point{X: 316, Y: 318}
	obs.Points[MiddleTip] = Point{X: 314, Y: 333}

	obs.Points[RingMCP] = Point{X: 292, Y: 332}
	obs.Points[RingPIP] = Point{X: 290, Y: 303}
	obs.Points[RingDIP] = Point{X: 288, Y: 322}
	obs.Points[RingTip] = Point{X: 288, Y: 338}

	obs.Points[PinkyMCP] = Point{X: 265, Y: 345}
	obs.Points[PinkyPIP] = Point{X: 262, Y: 320}
	obs.Points[PinkyDIP] = Point{X: 262, Y: 336}
	obs.Points[PinkyTip] = Point{X: 264, Y: 350}

	return obs
}

// PointingIndex returns a fist with only the index finger raised.
func PointingIndex() Observation {
	obs := Fist()
	obs.Points[IndexPIP] = Point{X: 355, Y: 265}
	obs.Points[IndexDIP] = Point{X: 358, Y: 215}
	obs.Points[IndexTip] = Point{X: 360, Y: 170}
	return obs
}
