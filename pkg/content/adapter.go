package content

// Adapter is the playback capability a page must offer to take part in
// carousel transitions
type Adapter interface {
	Play()
	Pause()
	ResetToStart() error
	IsPlaying() bool
}

// EndNotifier is implemented by content that can report reaching its end
type EndNotifier interface {
	// OnDidEndPlaying registers fn to run each time playback reaches the end
	OnDidEndPlaying(fn func())
}

// Navigator is the part of the carousel the auto-advance policy drives
type Navigator interface {
	RequestNext()
	CurrentIndex() int
}
