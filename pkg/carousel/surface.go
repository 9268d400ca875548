package carousel

// The methods below let a Controller act as the event receiver of a scroll
// surface: each one forwards a surface notification to the matching
// transition operation.

// OnDragBegin is called when the user starts dragging the surface. It refuses
// the drag unless it starts a transition; with one page or none there is
// nothing to drag to.
func (c *Controller) OnDragBegin() bool {
	if len(c.pages) <= 1 {
		if len(c.pages) == 0 {
			c.logger.Printf("OnDragBegin: refusing drag: %v", ErrEmptyPageSet)
		}
		return false
	}
	if c.state != Idle {
		c.debugf("OnDragBegin: refusing drag while %s", c.state)
		return false
	}
	c.OnGestureBegin()
	return c.state == GestureDragging
}

// OnDragEnd is called when the user lifts the pointer
func (c *Controller) OnDragEnd(willDecelerate bool) {
	c.OnGestureSettled(willDecelerate)
}

// OnDecelerationEnd is called when post-drag momentum stops
func (c *Controller) OnDecelerationEnd() {
	c.OnMomentumComplete()
}

// OnProgrammaticScrollComplete is called when an animated SetContentOffset arrives
func (c *Controller) OnProgrammaticScrollComplete() {
	c.OnScrollAnimationComplete()
}
