package ui

import "github.com/veandco/go-sdl2/sdl"

// DrawHorizontalGradient fills a rectangle blending from start at the left
// edge to end at the right edge, alpha included
func DrawHorizontalGradient(renderer *sdl.Renderer, x, y, width, height int32, start, end sdl.Color) {
	if width <= 0 || height <= 0 {
		return
	}
	for i := int32(0); i < width; i++ {
		t := 0.0
		if width > 1 {
			t = float64(i) / float64(width-1)
		}
		renderer.SetDrawColor(lerp(start.R, end.R, t), lerp(start.G, end.G, t), lerp(start.B, end.B, t), lerp(start.A, end.A, t))
		renderer.DrawLine(x+i, y, x+i, y+height-1)
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t)
}
