package input

import (
	"math"
	"time"
)

// DefaultSlop is how far the pointer may travel before a press becomes a drag
const DefaultSlop = 12.0

// Tap identifies which navigation zone a tap landed in
type Tap int

const (
	TapNone Tap = iota
	TapPrevious
	TapNext
	// TapContent is a tap on the page itself, between the two zones
	TapContent
)

// String returns a human-readable tap name
func (t Tap) String() string {
	switch t {
	case TapPrevious:
		return "previous"
	case TapNext:
		return "next"
	case TapContent:
		return "content"
	default:
		return "none"
	}
}

// DragTarget receives drags recognised by a DragTracker
type DragTarget interface {
	BeginDrag(x float64, now time.Time) bool
	DragTo(x float64, now time.Time)
	EndDrag(now time.Time)
}

// Zones are the tap areas left of Previous and right of Next; the span
// between them is the content
type Zones struct {
	Previous float64
	Next     float64
}

// Classify returns the zone containing x
func (z Zones) Classify(x float64) Tap {
	switch {
	case x < z.Previous:
		return TapPrevious
	case x > z.Next:
		return TapNext
	default:
		return TapContent
	}
}

// DragTracker feeds single-pointer state into a DragTarget, telling short
// stationary presses apart as taps
type DragTracker struct {
	target DragTarget
	zones  Zones
	slop   float64

	down     bool
	startX   float64
	dragging bool
	// rejected marks a press whose drag the target refused; it ends as
	// neither a drag nor a tap.
	rejected bool
}

// NewDragTracker creates a tracker forwarding drags to target
func NewDragTracker(target DragTarget, zones Zones) *DragTracker {
	return &DragTracker{target: target, zones: zones, slop: DefaultSlop}
}

// SetZones updates the tap areas, e.g. after the window is resized
func (d *DragTracker) SetZones(z Zones) {
	d.zones = z
}

// Update samples the pointer once per frame and returns the tap completed on
// this frame, if any
func (d *DragTracker) Update(x float64, down bool, now time.Time) Tap {
	switch {
	case down && !d.down:
		d.down = true
		d.startX = x
		d.dragging = false
		d.rejected = false

	case down && d.down:
		if d.dragging {
			d.target.DragTo(x, now)
			return TapNone
		}
		if d.rejected || math.Abs(x-d.startX) <= d.slop {
			return TapNone
		}
		if !d.target.BeginDrag(d.startX, now) {
			d.rejected = true
			return TapNone
		}
		d.dragging = true
		d.target.DragTo(x, now)

	case !down && d.down:
		d.down = false
		if d.dragging {
			d.dragging = false
			d.target.EndDrag(now)
			return TapNone
		}
		if d.rejected {
			return TapNone
		}
		return d.zones.Classify(d.startX)
	}
	return TapNone
}

// Dragging reports whether a drag is in progress
func (d *DragTracker) Dragging() bool {
	return d.dragging
}
