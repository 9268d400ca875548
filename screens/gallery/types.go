package gallery

import (
	"errors"
	"log"
	"time"

	"reel-frame/pkg/carousel"
	"reel-frame/pkg/config"
	"reel-frame/pkg/content"
	"reel-frame/pkg/input"
	"reel-frame/pkg/performance"
	"reel-frame/pkg/scroll"
	"reel-frame/pkg/settings"
	"reel-frame/ui"
	"reel-frame/widgets/indicator"

	"github.com/veandco/go-sdl2/sdl"
)

// ErrQuit is returned from Update when the viewer asked to leave
var ErrQuit = errors.New("quit requested")

const (
	// overhang widens each drawn page by 1px on both sides so neighbours
	// never leave a seam while the surface is between slots
	overhang = 1

	perfLogInterval   = 30 * time.Second
	memoryLogInterval = 60 * time.Second
)

// blind gradient, dark at the outer edge
var (
	blindOuter = sdl.Color{R: 0, G: 0, B: 0, A: 255}
	blindInner = sdl.Color{R: 0, G: 0, B: 0, A: 38}
)

// layout is the on-screen geometry derived from the window size
type layout struct {
	windowW, windowH int32
	viewport         sdl.Rect
}

// Screen shows the pages of a carousel and feeds it keyboard and pointer input
type Screen struct {
	// SDL2 rendering
	window   *sdl.Window
	renderer *sdl.Renderer
	fonts    *ui.Fonts

	cfg          config.Config
	settings     settings.Settings
	settingsPath string
	contentSize  carousel.Size
	layout       layout

	pages       []*VideoPage
	controller  *carousel.Controller
	surface     *scroll.Surface
	playback    *content.Playback
	autoAdvance *content.AutoAdvance
	unsubscribe []func()
	indicator   *indicator.Widget

	// Input tracking
	keyTracker input.PressTracker[sdl.Scancode]
	drag       *input.DragTracker

	// Timing
	perf          *performance.Monitor
	updateTime    time.Duration
	lastFrame     time.Time
	leftAt        time.Time
	lastMemoryLog time.Time
	logger        *log.Logger
}
