package content

import (
	"log"
)

// Playback pauses and rewinds the page being left and starts the page being
// arrived at. It implements carousel.Listener.
type Playback struct {
	pages  []Adapter
	logger *log.Logger
}

// NewPlayback creates a playback coordinator for pages, indexed like the
// carousel page set
func NewPlayback(pages []Adapter, logger *log.Logger) *Playback {
	if logger == nil {
		logger = log.Default()
	}
	return &Playback{pages: pages, logger: logger}
}

// WillLeave pauses the outgoing page and seeks it back to the start
func (p *Playback) WillLeave(index int) {
	page, ok := p.page("WillLeave", index)
	if !ok {
		return
	}
	page.Pause()
	if err := page.ResetToStart(); err != nil {
		p.logger.Printf("WillLeave: failed to rewind page %d: %v", index, err)
	}
}

// DidArrive starts the incoming page
func (p *Playback) DidArrive(index int) {
	page, ok := p.page("DidArrive", index)
	if !ok {
		return
	}
	page.Play()
}

// Toggle pauses the page at index when it is playing and plays it otherwise.
// It reports whether the page is playing afterwards.
func (p *Playback) Toggle(index int) bool {
	page, ok := p.page("Toggle", index)
	if !ok {
		return false
	}
	if page.IsPlaying() {
		page.Pause()
	} else {
		page.Play()
	}
	return page.IsPlaying()
}

func (p *Playback) page(caller string, index int) (Adapter, bool) {
	if index < 0 || index >= len(p.pages) || p.pages[index] == nil {
		p.logger.Printf("%s: no page at index %d (have %d)", caller, index, len(p.pages))
		return nil, false
	}
	return p.pages[index], true
}
