package carousel

import (
	"errors"
	"log"
	"time"

	"reel-frame/pkg/paging"
)

var (
	// ErrInvalidIndex is returned by Configure when the initial index is
	// outside the page set.
	ErrInvalidIndex = errors.New("carousel: initial index out of range")
	// ErrEmptyPageSet is logged when navigation is requested without pages.
	ErrEmptyPageSet = errors.New("carousel: no pages configured")
)

// Content is one page of the carousel. The controller never inspects it.
type Content any

// Size is a layout size in display units
type Size struct {
	Width  float64
	Height float64
}

// TransitionState tracks whether a page change is in flight
type TransitionState int

const (
	Idle TransitionState = iota
	GestureDragging
	ProgrammaticAnimating
)

// String returns a human-readable description of the state
func (s TransitionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case GestureDragging:
		return "dragging"
	case ProgrammaticAnimating:
		return "animating"
	default:
		return "unknown"
	}
}

// ScrollSurface is the paging scroll view the controller drives. Slots are
// numbered with paging.PrevSlot, paging.CurrentSlot and paging.NextSlot.
type ScrollSurface interface {
	// SetContentOffset scrolls to a slot. Only animated scrolls report
	// completion.
	SetContentOffset(slot int, animated bool)
	DisableInteraction()
	EnableInteraction()
	// DisplacementSign reports where the surface rests relative to the
	// center slot: negative left, positive right, zero centered.
	DisplacementSign() int
	SetPageSize(size Size)
}

// Listener observes page transitions
type Listener interface {
	WillLeave(index int)
	DidArrive(index int)
}

// ListenerFuncs adapts plain functions to Listener. Nil members are skipped.
type ListenerFuncs struct {
	OnWillLeave func(index int)
	OnDidArrive func(index int)
}

func (f ListenerFuncs) WillLeave(index int) {
	if f.OnWillLeave != nil {
		f.OnWillLeave(index)
	}
}

func (f ListenerFuncs) DidArrive(index int) {
	if f.OnDidArrive != nil {
		f.OnDidArrive(index)
	}
}

// Option customises a Controller
type Option func(*Controller)

// WithLogger routes controller logs to l
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDebug enables per-transition logging
func WithDebug(debug bool) Option {
	return func(c *Controller) { c.debug = debug }
}

// WithTransitionTimeout force-commits a transition that has not completed
// within d once Tick observes it. Zero disables the watchdog.
func WithTransitionTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithClock overrides the time source used to stamp transition starts
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

type subscription struct {
	id       int
	listener Listener
}

// Controller owns the carousel state machine. It is driven from a single
// event loop and is not safe for concurrent use.
type Controller struct {
	surface ScrollSurface

	pages   []Content
	size    Size
	current int
	window  paging.Window

	state     TransitionState
	startedAt time.Time
	// awaitingMomentum is set between a decelerating drag end and the
	// deceleration-complete signal.
	awaitingMomentum bool
	// recentering is set while commitTransition repositions the surface so
	// that callbacks fired by that reset are dropped.
	recentering bool

	listeners []subscription
	nextSubID int

	logger  *log.Logger
	debug   bool
	timeout time.Duration
	now     func() time.Time
}
