package paging

// Direction selects which neighbour of the current page to move to
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// String returns a human-readable name for the direction
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "none"
	}
}

// Window holds the page indices shown in the three rendered slots
type Window [3]int

// Slot positions inside a Window
const (
	PrevSlot    = 0
	CurrentSlot = 1
	NextSlot    = 2
)

// Prev returns the index rendered left of the current page
func (w Window) Prev() int { return w[PrevSlot] }

// Current returns the index rendered in the center slot
func (w Window) Current() int { return w[CurrentSlot] }

// Next returns the index rendered right of the current page
func (w Window) Next() int { return w[NextSlot] }

// Wrap maps any integer onto [0, count). A non-positive count yields 0.
func Wrap(index, count int) int {
	if count <= 0 {
		return 0
	}
	index %= count
	if index < 0 {
		index += count
	}
	return index
}

// ComputeWindow returns {previous, current, next} around current with
// wraparound at both ends. With one page every slot shows page 0; with two
// pages the previous and next slots both show the other page.
func ComputeWindow(current, count int) Window {
	if count <= 0 {
		return Window{}
	}
	current = Wrap(current, count)
	return Window{
		Wrap(current-1, count),
		current,
		Wrap(current+1, count),
	}
}

// Advance moves one page in the given direction, wrapping circularly
func Advance(current, count int, dir Direction) int {
	switch dir {
	case Forward:
		return Wrap(current+1, count)
	case Backward:
		return Wrap(current-1, count)
	default:
		return Wrap(current, count)
	}
}

// ResolveCommittedIndex decides the page a finished scroll lands on from the
// sign of its displacement relative to the center slot.
func ResolveCommittedIndex(current, offsetSign, count int) int {
	switch {
	case offsetSign > 0:
		return Advance(current, count, Forward)
	case offsetSign < 0:
		return Advance(current, count, Backward)
	default:
		return Wrap(current, count)
	}
}
