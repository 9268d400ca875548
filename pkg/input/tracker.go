package input

// PressTracker turns level-triggered button state into press edges so a held
// key or button fires once
type PressTracker[K comparable] struct {
	pressed map[K]bool
}

// NewPressTracker creates an empty PressTracker
func NewPressTracker[K comparable]() PressTracker[K] {
	return PressTracker[K]{
		pressed: make(map[K]bool),
	}
}

// IsPressed reports whether key went down since the previous call for key
func (pt *PressTracker[K]) IsPressed(key K, down bool) bool {
	wasPressed := pt.pressed[key]

	// Update state
	pt.pressed[key] = down

	// Return true only if key is currently pressed but wasn't pressed before
	return down && !wasPressed
}

// Reset forgets all tracked state
func (pt *PressTracker[K]) Reset() {
	clear(pt.pressed)
}
