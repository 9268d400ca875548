package carousel

import (
	"fmt"
	"log"
	"time"

	"reel-frame/pkg/paging"
)

// New creates a controller driving surface. Configure must be called before
// pages are shown.
func New(surface ScrollSurface, opts ...Option) *Controller {
	c := &Controller{
		surface: surface,
		logger:  log.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configure replaces the page set and jumps to initialIndex without
// notifying listeners. On error the controller keeps its previous state.
func (c *Controller) Configure(pages []Content, size Size, initialIndex int) error {
	if len(pages) > 0 && (initialIndex < 0 || initialIndex >= len(pages)) {
		return fmt.Errorf("%w: index %d, %d page(s)", ErrInvalidIndex, initialIndex, len(pages))
	}
	if len(pages) == 0 {
		initialIndex = 0
	}

	c.pages = append([]Content(nil), pages...)
	c.current = initialIndex
	c.state = Idle
	c.awaitingMomentum = false
	c.rebuildWindow()
	c.SetContentSize(size)
	c.recenter()
	c.surface.EnableInteraction()

	c.logger.Printf("Configure: carousel ready | pages=%d | index=%d | size=%.0fx%.0f",
		len(c.pages), c.current, size.Width, size.Height)
	return nil
}

// SetContentSize updates the slot size and the surface page width
func (c *Controller) SetContentSize(size Size) {
	c.size = size
	c.surface.SetPageSize(size)
}

// Subscribe registers l for transition events. The returned function removes
// the registration.
func (c *Controller) Subscribe(l Listener) (unsubscribe func()) {
	c.nextSubID++
	id := c.nextSubID
	c.listeners = append(c.listeners, subscription{id: id, listener: l})
	return func() {
		for i, s := range c.listeners {
			if s.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// RequestPrevious animates to the previous page
func (c *Controller) RequestPrevious() {
	c.requestPage(paging.Backward)
}

// RequestNext animates to the next page
func (c *Controller) RequestNext() {
	c.requestPage(paging.Forward)
}

func (c *Controller) requestPage(dir paging.Direction) {
	if len(c.pages) == 0 {
		c.logger.Printf("requestPage: ignoring %s request: %v", dir, ErrEmptyPageSet)
		return
	}
	if c.state != Idle {
		c.debugf("requestPage: ignoring %s request while %s", dir, c.state)
		return
	}
	if len(c.pages) == 1 {
		return
	}

	c.begin(ProgrammaticAnimating)
	target := paging.Advance(c.current, len(c.pages), dir)
	c.debugf("requestPage: %s | from=%d | to=%d", dir, c.current, target)
	c.emitWillLeave(c.current)

	slot := paging.NextSlot
	if dir == paging.Backward {
		slot = paging.PrevSlot
	}
	c.surface.SetContentOffset(slot, true)
}

// OnGestureBegin starts a drag-driven transition
func (c *Controller) OnGestureBegin() {
	if len(c.pages) == 0 {
		c.logger.Printf("OnGestureBegin: ignoring drag: %v", ErrEmptyPageSet)
		return
	}
	if c.state != Idle {
		c.debugf("OnGestureBegin: ignoring drag while %s", c.state)
		return
	}
	c.begin(GestureDragging)
	c.emitWillLeave(c.current)
}

// OnGestureSettled handles the end of a drag. A drag that keeps moving under
// momentum commits only once OnMomentumComplete arrives.
func (c *Controller) OnGestureSettled(willContinueWithMomentum bool) {
	if c.state != GestureDragging || c.recentering {
		return
	}
	if willContinueWithMomentum {
		c.awaitingMomentum = true
		c.surface.DisableInteraction()
		return
	}
	c.commitTransition()
}

// OnMomentumComplete commits a drag once deceleration has stopped
func (c *Controller) OnMomentumComplete() {
	if c.state != GestureDragging || c.recentering {
		return
	}
	c.commitTransition()
}

// OnScrollAnimationComplete commits a programmatic page change
func (c *Controller) OnScrollAnimationComplete() {
	if c.state != ProgrammaticAnimating || c.recentering {
		return
	}
	c.commitTransition()
}

// Tick lets the watchdog force-commit a transition whose completion signal
// never arrived. It is a no-op without WithTransitionTimeout.
func (c *Controller) Tick(now time.Time) {
	if c.timeout <= 0 || c.state == Idle {
		return
	}
	if now.Sub(c.startedAt) < c.timeout {
		return
	}
	c.logger.Printf("Tick: forcing commit of %s transition after %s", c.state, now.Sub(c.startedAt).Round(time.Millisecond))
	c.commitTransition()
}

func (c *Controller) begin(state TransitionState) {
	c.state = state
	c.startedAt = c.now()
}

// commitTransition finalises the page change from where the surface came to
// rest and recenters it so the center slot shows the current page again.
func (c *Controller) commitTransition() {
	from := c.current
	sign := c.surface.DisplacementSign()
	c.current = paging.ResolveCommittedIndex(c.current, sign, len(c.pages))
	c.rebuildWindow()

	c.recenter()
	c.surface.EnableInteraction()
	c.awaitingMomentum = false
	c.state = Idle

	c.debugf("commitTransition: from=%d | to=%d | sign=%d", from, c.current, sign)
	c.emitDidArrive(c.current)
}

func (c *Controller) recenter() {
	c.recentering = true
	c.surface.SetContentOffset(paging.CurrentSlot, false)
	c.recentering = false
}

func (c *Controller) rebuildWindow() {
	c.window = paging.ComputeWindow(c.current, len(c.pages))
}

func (c *Controller) emitWillLeave(index int) {
	for _, s := range c.snapshotListeners() {
		s.listener.WillLeave(index)
	}
}

func (c *Controller) emitDidArrive(index int) {
	for _, s := range c.snapshotListeners() {
		s.listener.DidArrive(index)
	}
}

// snapshotListeners lets listeners unsubscribe from inside a callback
func (c *Controller) snapshotListeners() []subscription {
	return append([]subscription(nil), c.listeners...)
}

func (c *Controller) debugf(format string, args ...any) {
	if c.debug {
		c.logger.Printf(format, args...)
	}
}

// CurrentIndex returns the committed page index
func (c *Controller) CurrentIndex() int {
	return c.current
}

// State returns the transition state
func (c *Controller) State() TransitionState {
	return c.state
}

// AwaitingMomentum reports whether a drag is waiting for deceleration to end
func (c *Controller) AwaitingMomentum() bool {
	return c.awaitingMomentum
}

// PageCount returns the number of configured pages
func (c *Controller) PageCount() int {
	return len(c.pages)
}

// ContentSize returns the slot size
func (c *Controller) ContentSize() Size {
	return c.size
}

// WindowIndices returns the page indices of the three slots
func (c *Controller) WindowIndices() paging.Window {
	return c.window
}

// Window returns the content of the three slots, nil when no pages exist
func (c *Controller) Window() []Content {
	if len(c.pages) == 0 {
		return nil
	}
	slots := make([]Content, len(c.window))
	for i, idx := range c.window {
		slots[i] = c.pages[idx]
	}
	return slots
}
