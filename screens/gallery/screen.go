package gallery

import (
	"fmt"
	"log"
	"math"
	"time"

	"reel-frame/pkg/carousel"
	"reel-frame/pkg/config"
	"reel-frame/pkg/content"
	"reel-frame/pkg/input"
	"reel-frame/pkg/paging"
	"reel-frame/pkg/performance"
	"reel-frame/pkg/scroll"
	"reel-frame/pkg/settings"
	"reel-frame/ui"
	"reel-frame/widgets/indicator"

	"github.com/veandco/go-sdl2/sdl"
)

// maxFrameStep caps the physics step after a stall so glides don't jump
const maxFrameStep = 100 * time.Millisecond

// NewScreen builds the carousel over pages. manifest may be nil.
func NewScreen(window *sdl.Window, renderer *sdl.Renderer, cfg config.Config, pages []*VideoPage, manifest *config.Manifest, userSettings settings.Settings) (*Screen, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	width, height := cfg.ContentWidth, cfg.ContentHeight
	if manifest != nil {
		width, height = manifest.ContentSize(cfg)
	}

	s := &Screen{
		window:       window,
		renderer:     renderer,
		cfg:          cfg,
		settings:     userSettings,
		settingsPath: cfg.SettingsPath,
		contentSize:  carousel.Size{Width: width, Height: height},
		pages:        pages,
		keyTracker:   input.NewPressTracker[sdl.Scancode](),
		perf:         performance.NewMonitor(120, time.Second/60),
		lastFrame:    time.Now(),
		logger:       log.Default(),
	}

	fonts, err := ui.LoadFonts()
	if err != nil {
		log.Printf("Warning: Failed to initialize fonts: %v", err)
	}
	s.fonts = fonts

	s.surface = scroll.NewSurface(width)
	s.controller = carousel.New(s.surface,
		carousel.WithLogger(s.logger),
		carousel.WithDebug(cfg.Debug),
		carousel.WithTransitionTimeout(cfg.TransitionTimeout),
	)
	s.surface.SetDelegate(s.controller)

	items := make([]carousel.Content, len(pages))
	adapters := make([]content.Adapter, len(pages))
	labels := make([]string, len(pages))
	for i, p := range pages {
		items[i] = p
		adapters[i] = p
		labels[i] = p.Label()
	}

	initial := cfg.InitialIndex
	if cfg.Resume {
		initial = userSettings.ResumeIndex(len(pages), initial)
	}
	if initial >= len(pages) {
		log.Printf("NewScreen: initial index out of range, starting at 0 | index=%d pages=%d", initial, len(pages))
		initial = 0
	}

	s.layout = s.computeLayout()
	if err := s.controller.Configure(items, s.fittedContentSize(), initial); err != nil {
		return nil, fmt.Errorf("configure carousel: %w", err)
	}

	s.playback = content.NewPlayback(adapters, s.logger)
	s.autoAdvance = content.NewAutoAdvance(s.controller, adapters, userSettings.AutoAdvance, s.logger)
	s.unsubscribe = append(s.unsubscribe,
		s.controller.Subscribe(s.playback),
		s.controller.Subscribe(carousel.ListenerFuncs{
			OnWillLeave: s.pageWillLeave,
			OnDidArrive: s.pageDidArrive,
		}),
	)

	s.drag = input.NewDragTracker(s.surface, s.zones())
	s.indicator = indicator.NewWidget(labels)

	pages[initial].Play()
	log.Printf("NewScreen: carousel ready | pages=%d start=%d content=%.0fx%.0f autoAdvance=%t",
		len(pages), initial, width, height, userSettings.AutoAdvance)
	return s, nil
}

func (s *Screen) pageWillLeave(int) {
	s.leftAt = time.Now()
}

func (s *Screen) pageDidArrive(index int) {
	if !s.leftAt.IsZero() {
		s.perf.RecordTransition(time.Since(s.leftAt))
		s.leftAt = time.Time{}
	}
	s.settings.LastIndex = index
	s.saveSettings()
}

func (s *Screen) saveSettings() {
	if err := settings.Save(s.settingsPath, s.settings); err != nil {
		log.Printf("saveSettings: failed | path=%s err=%v", s.settingsPath, err)
	}
}

// computeLayout centers the fitted content in the window
func (s *Screen) computeLayout() layout {
	w, h := s.window.GetSize()
	l := layout{windowW: w, windowH: h}
	size := fitInside(s.contentSize, float64(w), float64(h))
	l.viewport = sdl.Rect{
		W: int32(size.Width),
		H: int32(size.Height),
	}
	l.viewport.X = (w - l.viewport.W) / 2
	l.viewport.Y = (h - l.viewport.H) / 2
	return l
}

func (s *Screen) fittedContentSize() carousel.Size {
	return carousel.Size{Width: float64(s.layout.viewport.W), Height: float64(s.layout.viewport.H)}
}

// fitInside scales size down, keeping its aspect ratio, until it fits
func fitInside(size carousel.Size, maxW, maxH float64) carousel.Size {
	if size.Width <= 0 || size.Height <= 0 || maxW <= 0 || maxH <= 0 {
		return carousel.Size{}
	}
	scale := math.Min(1, math.Min(maxW/size.Width, maxH/size.Height))
	return carousel.Size{Width: math.Floor(size.Width * scale), Height: math.Floor(size.Height * scale)}
}

// zones are the blinds either side of the viewport
func (s *Screen) zones() input.Zones {
	v := s.layout.viewport
	return input.Zones{Previous: float64(v.X), Next: float64(v.X + v.W)}
}

// relayout follows window size changes
func (s *Screen) relayout() {
	w, h := s.window.GetSize()
	if w == s.layout.windowW && h == s.layout.windowH {
		return
	}
	s.layout = s.computeLayout()
	s.controller.SetContentSize(s.fittedContentSize())
	s.drag.SetZones(s.zones())
	log.Printf("relayout: window resized | window=%dx%d viewport=%dx%d", w, h, s.layout.viewport.W, s.layout.viewport.H)
}

// Update handles SDL2 input, steps the scroll physics and decodes the visible pages
func (s *Screen) Update() error {
	start := time.Now()
	dt := start.Sub(s.lastFrame)
	if dt > maxFrameStep {
		dt = maxFrameStep
	}
	s.lastFrame = start

	s.relayout()

	keyState := sdl.GetKeyboardState()
	if s.keyTracker.IsPressed(sdl.SCANCODE_ESCAPE, keyState[sdl.SCANCODE_ESCAPE] != 0) {
		return ErrQuit
	}
	if s.keyTracker.IsPressed(sdl.SCANCODE_LEFT, keyState[sdl.SCANCODE_LEFT] != 0) {
		s.controller.RequestPrevious()
	}
	if s.keyTracker.IsPressed(sdl.SCANCODE_RIGHT, keyState[sdl.SCANCODE_RIGHT] != 0) {
		s.controller.RequestNext()
	}
	if s.keyTracker.IsPressed(sdl.SCANCODE_A, keyState[sdl.SCANCODE_A] != 0) {
		s.toggleAutoAdvance()
	}

	x, _, buttons := sdl.GetMouseState()
	switch s.drag.Update(float64(x), buttons&sdl.ButtonLMask() != 0, start) {
	case input.TapPrevious:
		s.controller.RequestPrevious()
	case input.TapNext:
		s.controller.RequestNext()
	case input.TapContent:
		if s.controller.State() == carousel.Idle {
			index := s.controller.CurrentIndex()
			log.Printf("Update: toggled playback | index=%d playing=%t", index, s.playback.Toggle(index))
		}
	}

	s.surface.Step(dt)
	s.controller.Tick(start)

	window := s.controller.WindowIndices()
	for slot, index := range window {
		// at two pages or fewer the same page fills more than one slot
		if duplicateSlot(window, slot) {
			continue
		}
		if err := s.pages[index].Update(); err != nil {
			log.Printf("Update: page decode failed | index=%d id=%s err=%v", index, s.pages[index].ID(), err)
		}
	}

	if start.Sub(s.lastMemoryLog) >= memoryLogInterval {
		performance.LogMemorySnapshot()
		s.lastMemoryLog = start
	}
	s.updateTime = time.Since(start)
	return nil
}

func duplicateSlot(w paging.Window, slot int) bool {
	for i := 0; i < slot; i++ {
		if w[i] == w[slot] {
			return true
		}
	}
	return false
}

func (s *Screen) toggleAutoAdvance() {
	enabled := !s.autoAdvance.Enabled()
	s.autoAdvance.SetEnabled(enabled)
	s.settings.AutoAdvance = enabled
	s.saveSettings()
	log.Printf("toggleAutoAdvance: auto advance changed | enabled=%t", enabled)
}

// Draw renders the three slots, the blinds and the page indicator
func (s *Screen) Draw() error {
	start := time.Now()
	l := s.layout

	s.renderer.SetDrawColor(0, 0, 0, 255)
	s.renderer.Clear()

	window := s.controller.WindowIndices()
	for slot, index := range window {
		x := l.viewport.X + int32(math.Round(s.surface.SlotOrigin(slot))) - overhang
		dst := sdl.Rect{X: x, Y: l.viewport.Y, W: l.viewport.W + 2*overhang, H: l.viewport.H}
		if dst.X >= l.windowW || dst.X+dst.W <= 0 {
			continue
		}
		if err := s.pages[index].Draw(s.renderer, dst); err != nil {
			log.Printf("Draw: page render failed | index=%d err=%v", index, err)
		}
	}

	s.renderer.SetDrawBlendMode(sdl.BLENDMODE_BLEND)
	ui.DrawHorizontalGradient(s.renderer, 0, 0, l.viewport.X, l.windowH, blindOuter, blindInner)
	right := l.viewport.X + l.viewport.W
	ui.DrawHorizontalGradient(s.renderer, right, 0, l.windowW-right, l.windowH, blindInner, blindOuter)

	if s.fonts != nil {
		y := l.viewport.Y + l.viewport.H + 24
		if y > l.windowH-40 {
			y = l.windowH - 40
		}
		if err := s.indicator.Draw(s.renderer, s.controller.CurrentIndex(), l.windowW/2, y, s.fonts.Label, s.fonts.Small); err != nil {
			log.Printf("Draw: indicator failed | err=%v", err)
		}
	}

	s.renderer.Present()

	now := time.Now()
	s.perf.RecordFrame(s.updateTime, now.Sub(start))
	s.perf.LogEvery(perfLogInterval, now)
	return nil
}

// Close stops playback and releases pages and fonts
func (s *Screen) Close() {
	for _, unsubscribe := range s.unsubscribe {
		unsubscribe()
	}
	for _, p := range s.pages {
		p.Pause()
		if err := p.Close(); err != nil {
			log.Printf("Close: page close failed | id=%s err=%v", p.ID(), err)
		}
	}
	if s.fonts != nil {
		s.fonts.Close()
	}
}

// Controller exposes the carousel state, e.g. for status overlays
func (s *Screen) Controller() *carousel.Controller {
	return s.controller
}
