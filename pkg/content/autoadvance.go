package content

import "log"

// AutoAdvance moves the carousel forward when the page on screen finishes
// playing. Pages that do not implement EndNotifier never advance.
type AutoAdvance struct {
	nav     Navigator
	enabled bool
	logger  *log.Logger
}

// NewAutoAdvance hooks the end-of-content event of every notifying page
func NewAutoAdvance(nav Navigator, pages []Adapter, enabled bool, logger *log.Logger) *AutoAdvance {
	if logger == nil {
		logger = log.Default()
	}
	a := &AutoAdvance{nav: nav, enabled: enabled, logger: logger}
	for i, page := range pages {
		n, ok := page.(EndNotifier)
		if !ok {
			continue
		}
		index := i
		n.OnDidEndPlaying(func() { a.pageEnded(index) })
	}
	return a
}

// SetEnabled turns the policy on or off at runtime
func (a *AutoAdvance) SetEnabled(enabled bool) {
	a.enabled = enabled
}

// Enabled reports whether finished pages advance the carousel
func (a *AutoAdvance) Enabled() bool {
	return a.enabled
}

func (a *AutoAdvance) pageEnded(index int) {
	if !a.enabled {
		return
	}
	// Off-screen pages are paused, but a late end event must not move the carousel.
	if index != a.nav.CurrentIndex() {
		return
	}
	a.logger.Printf("AutoAdvance: page %d ended, requesting next", index)
	a.nav.RequestNext()
}
