package mpeg

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/veandco/go-sdl2/sdl"
)

// Player decodes one video file into an SDL streaming texture. It is driven
// from the render loop and loops back to the start at end of stream.
type Player struct {
	path string
	dec  *videoDecoder

	renderer *sdl.Renderer
	texture  *sdl.Texture

	playing      bool
	playbackRate float64

	// playback timing
	acc      float64   // accumulated fractional frames
	lastTime time.Time // last wall-clock timestamp, zero after a resume

	onEnded   []func()
	closeOnce sync.Once
}

// Open creates a paused player for the video at path
func Open(path string) (*Player, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}
	dec, err := newVideoDecoder(path)
	if err != nil {
		return nil, err
	}
	return &Player{path: path, dec: dec, playbackRate: 1.0}, nil
}

// SetRenderer creates the frame texture and shows the first frame
func (p *Player) SetRenderer(renderer *sdl.Renderer) error {
	p.renderer = renderer

	var err error
	p.texture, err = renderer.CreateTexture(uint32(sdl.PIXELFORMAT_RGBA32), sdl.TEXTUREACCESS_STREAMING, int32(p.dec.width), int32(p.dec.height))
	if err != nil {
		return fmt.Errorf("failed to create texture: %v", err)
	}

	firstFrame, err := p.dec.nextFrame()
	if err != nil {
		return err
	}
	return p.updateTexture(firstFrame)
}

// updateTexture copies an RGBA frame into the texture row by row
func (p *Player) updateTexture(frameData []byte) error {
	if p.texture == nil {
		return nil
	}

	pixels, pitch, err := p.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("failed to lock texture: %v", err)
	}
	defer p.texture.Unlock()

	rowBytes := p.dec.width * 4
	for y := 0; y < p.dec.height; y++ {
		copy(pixels[y*pitch:y*pitch+rowBytes], frameData[y*rowBytes:(y+1)*rowBytes])
	}
	return nil
}

// Play resumes playback from the current frame
func (p *Player) Play() {
	p.playing = true
	p.lastTime = time.Time{}
}

// Pause freezes playback on the current frame
func (p *Player) Pause() {
	p.playing = false
}

// IsPlaying reports whether frames are advancing
func (p *Player) IsPlaying() bool {
	return p.playing
}

// SetPlaybackRate sets the speed multiplier
func (p *Player) SetPlaybackRate(rate float64) {
	if rate <= 0 {
		return
	}
	p.playbackRate = rate
}

// OnEnded registers fn to run every time playback reaches the end of stream
func (p *Player) OnEnded(fn func()) {
	p.onEnded = append(p.onEnded, fn)
}

// Rewind seeks to the first frame and displays it
func (p *Player) Rewind() error {
	if err := p.dec.rewind(); err != nil {
		return err
	}
	p.acc = 0
	p.lastTime = time.Time{}

	frame, err := p.dec.nextFrame()
	if err != nil {
		return err
	}
	return p.updateTexture(frame)
}

// Update decodes however many frames are due since the last call
func (p *Player) Update() error {
	if !p.playing {
		return nil
	}

	now := time.Now()
	if p.lastTime.IsZero() {
		p.lastTime = now
	}
	dt := now.Sub(p.lastTime).Seconds()
	p.lastTime = now

	p.acc += dt * p.playbackRate * p.dec.fps
	steps := int(p.acc)
	if steps == 0 {
		return nil // not time for next frame yet
	}
	p.acc -= float64(steps)

	var data []byte
	var err error
	for i := 0; i < steps; i++ {
		data, err = p.dec.nextFrame()
		if err != nil {
			break
		}
	}

	if errors.Is(err, io.EOF) {
		log.Printf("Update: %s reached end of stream", p.path)
		if err := p.Rewind(); err != nil {
			return err
		}
		for _, fn := range p.onEnded {
			fn()
		}
		return nil
	}
	if err != nil {
		return err
	}
	return p.updateTexture(data)
}

// Draw renders the current frame letterboxed inside dst
func (p *Player) Draw(renderer *sdl.Renderer, dst sdl.Rect) error {
	if p.texture == nil || p.dec.width == 0 || p.dec.height == 0 {
		return nil
	}

	scaleW := float64(dst.W) / float64(p.dec.width)
	scaleH := float64(dst.H) / float64(p.dec.height)
	scale := scaleW
	if scaleH < scaleW {
		scale = scaleH
	}

	renderWidth := int32(float64(p.dec.width) * scale)
	renderHeight := int32(float64(p.dec.height) * scale)

	return renderer.Copy(p.texture, nil, &sdl.Rect{
		X: dst.X + (dst.W-renderWidth)/2,
		Y: dst.Y + (dst.H-renderHeight)/2,
		W: renderWidth,
		H: renderHeight,
	})
}

// Path returns the file being played
func (p *Player) Path() string {
	return p.path
}

// Close releases the decoder and texture
func (p *Player) Close() error {
	p.closeOnce.Do(func() {
		if p.texture != nil {
			p.texture.Destroy()
		}
		if p.dec != nil {
			p.dec.close()
		}
	})
	return nil
}
