package uart

import "strconv"

// Markers recognized by Classify.
const (
	MarkerStart byte = 0x01
	MarkerEnd   byte = 0x02
)

// Class is the category of a received byte.
type Class int

const (
	// ClassData is any byte which is not a marker.
	ClassData Class = iota
	// ClassStart marks the start of a message.
	ClassStart
	// ClassEnd marks the end of a message.
	ClassEnd
)

// String implements fmt.Stringer.
func (c Class) String() string {
	switch c {
	case ClassData:
		return "data"
	case ClassStart:
		return "start"
	case ClassEnd:
		return "end"
	}
	return "class(" + strconv.Itoa(int(c)) + ")"
}

// Classify tells which Class b belongs to.
func Classify(b byte) Class {
	switch b {
	case MarkerStart:
		return ClassStart
	case MarkerEnd:
		return ClassEnd
	default:
		return ClassData
	}
}
