package gallery

import (
	"path/filepath"
	"strings"

	"reel-frame/pkg/mpeg"
	"reel-frame/pkg/videoFs"

	"github.com/veandco/go-sdl2/sdl"
)

// VideoPage is one carousel page backed by a looping video
type VideoPage struct {
	id     string
	label  string
	player *mpeg.Player
}

// NewVideoPage opens the video and binds it to renderer. The page starts paused.
func NewVideoPage(v videoFs.Video, renderer *sdl.Renderer, playbackRate float64) (*VideoPage, error) {
	player, err := mpeg.Open(v.Path)
	if err != nil {
		return nil, err
	}
	if err := player.SetRenderer(renderer); err != nil {
		player.Close()
		return nil, err
	}
	player.SetPlaybackRate(playbackRate)
	return &VideoPage{id: v.ID, label: labelFor(v.ID), player: player}, nil
}

// labelFor turns "sunset_over-bay.mpg" into "sunset over bay"
func labelFor(id string) string {
	name := strings.TrimSuffix(filepath.Base(id), filepath.Ext(id))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}

func (p *VideoPage) Play()  { p.player.Play() }
func (p *VideoPage) Pause() { p.player.Pause() }

// ResetToStart seeks back to the first frame
func (p *VideoPage) ResetToStart() error { return p.player.Rewind() }

func (p *VideoPage) IsPlaying() bool { return p.player.IsPlaying() }

// OnDidEndPlaying registers fn for each time the video reaches its end
func (p *VideoPage) OnDidEndPlaying(fn func()) { p.player.OnEnded(fn) }

func (p *VideoPage) ID() string    { return p.id }
func (p *VideoPage) Label() string { return p.label }

// SetPlaybackRate changes the playback speed multiplier
func (p *VideoPage) SetPlaybackRate(rate float64) { p.player.SetPlaybackRate(rate) }

// Update advances decoding when the page is playing
func (p *VideoPage) Update() error { return p.player.Update() }

// Draw renders the current frame letterboxed into dst
func (p *VideoPage) Draw(renderer *sdl.Renderer, dst sdl.Rect) error {
	return p.player.Draw(renderer, dst)
}

// Close releases the decoder and texture
func (p *VideoPage) Close() error { return p.player.Close() }
