package indicator

import (
	"fmt"

	"reel-frame/ui"

	"github.com/veandco/go-sdl2/sdl"
	"github.com/veandco/go-sdl2/ttf"
)

const (
	dotSize    = int32(10)
	dotSpacing = int32(14)
	// maxDots switches to a numeric counter for long page sets
	maxDots = 12
)

// Widget shows which page of the carousel is on screen
type Widget struct {
	labels []string
}

// NewWidget creates an indicator for pages titled by labels
func NewWidget(labels []string) *Widget {
	return &Widget{labels: labels}
}

// Draw renders the dots (or counter) centered on centerX with the page label
// above them
func (w *Widget) Draw(renderer *sdl.Renderer, current int, centerX, y int32, labelFont, smallFont *ttf.Font) error {
	count := len(w.labels)
	if count == 0 {
		return nil
	}

	if current >= 0 && current < count && labelFont != nil {
		color := sdl.Color{R: 255, G: 255, B: 255, A: 230}
		if err := ui.RenderTextCentered(renderer, w.labels[current], centerX, y-36, color, labelFont); err != nil {
			return err
		}
	}

	if count > maxDots {
		if smallFont == nil {
			return nil
		}
		text := fmt.Sprintf("%d / %d", current+1, count)
		return ui.RenderTextCentered(renderer, text, centerX, y, sdl.Color{R: 148, G: 163, B: 184, A: 255}, smallFont)
	}

	total := int32(count)*dotSize + int32(count-1)*(dotSpacing-dotSize)
	x := centerX - total/2
	for i := 0; i < count; i++ {
		if i == current {
			renderer.SetDrawColor(255, 255, 255, 255)
		} else {
			renderer.SetDrawColor(148, 163, 184, 140)
		}
		renderer.FillRect(&sdl.Rect{X: x, Y: y, W: dotSize, H: dotSize})
		x += dotSpacing
	}
	return nil
}
