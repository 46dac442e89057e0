package gesture

// Label is a gesture category: the number of extended fingers, 0 through 5.
// Different finger combinations with the same count share a label.
type Label int

// Label bounds.
const (
	MinLabel Label = 0
	MaxLabel Label = Label(len(FingerState{}))
)

// Classify maps a finger state to its label.
func Classify(s FingerState) Label {
	return Label(s.Count())
}

// Valid reports whether l is within [MinLabel, MaxLabel].
func (l Label) Valid() bool {
	return l >= MinLabel && l <= MaxLabel
}
