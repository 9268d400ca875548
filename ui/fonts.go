package ui

import (
	"fmt"

	"github.com/veandco/go-sdl2/ttf"
)

// Fonts manages the TrueType fonts used by overlays
type Fonts struct {
	Label *ttf.Font // 24px page labels
	Small *ttf.Font // 16px counters
}

// fontPaths are tried in order on each platform
var fontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
	"/System/Library/Fonts/Helvetica.ttc",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
}

// LoadFonts loads system fonts with fallbacks. Missing fonts are left nil so
// text rendering degrades instead of failing.
func LoadFonts() (*Fonts, error) {
	if err := ttf.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize TTF: %v", err)
	}
	return &Fonts{
		Label: openFirst(24),
		Small: openFirst(16),
	}, nil
}

func openFirst(size int) *ttf.Font {
	for _, path := range fontPaths {
		if font, err := ttf.OpenFont(path, size); err == nil {
			return font
		}
	}
	return nil
}

// Close cleans up font resources
func (f *Fonts) Close() {
	if f.Label != nil {
		f.Label.Close()
	}
	if f.Small != nil {
		f.Small.Close()
	}
	ttf.Quit()
}
