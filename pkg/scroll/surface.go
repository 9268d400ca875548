package scroll

import (
	"math"
	"time"

	"reel-frame/pkg/carousel"
	"reel-frame/pkg/paging"
)

const (
	slotCount = 3

	// AnimationDuration is how long a programmatic page change takes
	AnimationDuration = 300 * time.Millisecond
	// SettleDuration is how long the post-drag glide to a page boundary takes
	SettleDuration = 250 * time.Millisecond

	// velocityProjection is how far ahead, in seconds, release velocity is
	// projected when picking the page a drag lands on
	velocityProjection = 0.15
	// staleVelocity drops release velocity when the pointer rested this long
	staleVelocity = 100 * time.Millisecond
	alignEpsilon  = 0.5
)

// Delegate receives the surface notifications a carousel controller listens to
type Delegate interface {
	// OnDragBegin returns false to refuse the drag; the surface then stays put.
	OnDragBegin() bool
	OnDragEnd(willDecelerate bool)
	OnDecelerationEnd()
	OnProgrammaticScrollComplete()
}

type motion int

const (
	motionIdle motion = iota
	motionDragging
	motionAnimating
	motionDecelerating
)

// Surface is a horizontally paging scroller over three slots. Offsets are in
// layout units; slot s rests at offset s*pageWidth.
type Surface struct {
	delegate    Delegate
	pageWidth   float64
	offset      float64
	interaction bool

	motion   motion
	from, to float64
	elapsed  time.Duration
	duration time.Duration

	dragStartOffset float64
	lastX           float64
	lastMove        time.Time
	velocity        float64 // offset units per second
}

// NewSurface creates a surface resting on the center slot
func NewSurface(pageWidth float64) *Surface {
	s := &Surface{interaction: true}
	s.setPageWidth(pageWidth)
	s.offset = s.slotOffset(paging.CurrentSlot)
	return s
}

// SetDelegate installs the receiver of scroll notifications
func (s *Surface) SetDelegate(d Delegate) {
	s.delegate = d
}

// SetPageSize changes the page width, keeping the surface on the same
// fractional slot position
func (s *Surface) SetPageSize(size carousel.Size) {
	old := s.pageWidth
	s.setPageWidth(size.Width)
	if old > 0 {
		ratio := s.pageWidth / old
		s.offset *= ratio
		s.from *= ratio
		s.to *= ratio
		s.dragStartOffset *= ratio
	}
}

func (s *Surface) setPageWidth(w float64) {
	if w <= 0 {
		w = 1
	}
	s.pageWidth = w
}

// SetContentOffset moves to slot. Animated moves report completion through
// OnProgrammaticScrollComplete once they arrive; immediate moves never
// notify.
func (s *Surface) SetContentOffset(slot int, animated bool) {
	target := s.slotOffset(clampSlot(slot))
	if !animated {
		s.offset = target
		s.motion = motionIdle
		return
	}
	s.startGlide(motionAnimating, target, AnimationDuration)
}

// DisableInteraction makes the surface ignore new drags
func (s *Surface) DisableInteraction() {
	s.interaction = false
}

// EnableInteraction allows drags again
func (s *Surface) EnableInteraction() {
	s.interaction = true
}

// InteractionEnabled reports whether drags are accepted
func (s *Surface) InteractionEnabled() bool {
	return s.interaction
}

// DisplacementSign reports the resting position relative to the center slot
func (s *Surface) DisplacementSign() int {
	d := s.offset - s.slotOffset(paging.CurrentSlot)
	switch {
	case d > alignEpsilon:
		return 1
	case d < -alignEpsilon:
		return -1
	default:
		return 0
	}
}

// BeginDrag starts tracking a pointer at x. It returns false when the surface
// is not accepting drags.
func (s *Surface) BeginDrag(x float64, now time.Time) bool {
	if !s.interaction || s.motion != motionIdle {
		return false
	}
	if s.delegate != nil && !s.delegate.OnDragBegin() {
		return false
	}
	s.motion = motionDragging
	s.dragStartOffset = s.offset
	s.lastX = x
	s.lastMove = now
	s.velocity = 0
	return true
}

// DragTo follows the pointer. Moving the pointer left scrolls forward.
func (s *Surface) DragTo(x float64, now time.Time) {
	if s.motion != motionDragging {
		return
	}
	delta := s.lastX - x
	if dt := now.Sub(s.lastMove).Seconds(); dt > 0 {
		s.velocity = delta / dt
	}
	s.offset = s.clampDrag(s.offset + delta)
	s.lastX = x
	s.lastMove = now
}

// EndDrag releases the pointer. The surface either rests on a page boundary
// already or glides to one and reports OnDecelerationEnd on arrival.
func (s *Surface) EndDrag(now time.Time) {
	if s.motion != motionDragging {
		return
	}
	if now.Sub(s.lastMove) > staleVelocity {
		s.velocity = 0
	}

	target := s.slotOffset(s.landingSlot())
	if math.Abs(target-s.offset) <= alignEpsilon {
		s.offset = target
		s.motion = motionIdle
		if s.delegate != nil {
			s.delegate.OnDragEnd(false)
		}
		return
	}

	s.startGlide(motionDecelerating, target, SettleDuration)
	if s.delegate != nil {
		s.delegate.OnDragEnd(true)
	}
}

// landingSlot projects release velocity and keeps the result one page from
// where the drag started
func (s *Surface) landingSlot() int {
	start := int(math.Round(s.dragStartOffset / s.pageWidth))
	projected := s.offset + s.velocity*velocityProjection
	slot := int(math.Round(projected / s.pageWidth))
	if slot > start+1 {
		slot = start + 1
	}
	if slot < start-1 {
		slot = start - 1
	}
	return clampSlot(slot)
}

// Step advances any running glide by dt
func (s *Surface) Step(dt time.Duration) {
	if s.motion != motionAnimating && s.motion != motionDecelerating {
		return
	}
	s.elapsed += dt
	if s.elapsed < s.duration {
		t := float64(s.elapsed) / float64(s.duration)
		s.offset = s.from + (s.to-s.from)*easeOut(t)
		return
	}

	finished := s.motion
	s.offset = s.to
	s.motion = motionIdle
	if s.delegate == nil {
		return
	}
	if finished == motionAnimating {
		s.delegate.OnProgrammaticScrollComplete()
	} else {
		s.delegate.OnDecelerationEnd()
	}
}

func (s *Surface) startGlide(m motion, target float64, d time.Duration) {
	s.motion = m
	s.from = s.offset
	s.to = target
	s.elapsed = 0
	s.duration = d
}

// Offset returns the scroll position in layout units
func (s *Surface) Offset() float64 {
	return s.offset
}

// PageWidth returns the width of one slot
func (s *Surface) PageWidth() float64 {
	return s.pageWidth
}

// SlotOrigin returns the x position of slot relative to the viewport
func (s *Surface) SlotOrigin(slot int) float64 {
	return s.slotOffset(slot) - s.offset
}

// Dragging reports whether a pointer is attached
func (s *Surface) Dragging() bool {
	return s.motion == motionDragging
}

// Moving reports whether a glide is in progress
func (s *Surface) Moving() bool {
	return s.motion == motionAnimating || s.motion == motionDecelerating
}

func (s *Surface) slotOffset(slot int) float64 {
	return float64(slot) * s.pageWidth
}

func (s *Surface) clampDrag(offset float64) float64 {
	return math.Max(0, math.Min(offset, s.slotOffset(slotCount-1)))
}

func clampSlot(slot int) int {
	if slot < 0 {
		return 0
	}
	if slot >= slotCount {
		return slotCount - 1
	}
	return slot
}

func easeOut(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

var _ carousel.ScrollSurface = (*Surface)(nil)
