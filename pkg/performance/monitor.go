package performance

import (
	"log"
	"time"
)

// RollingAverage maintains a rolling average of durations over a fixed window
type RollingAverage struct {
	samples []time.Duration
	sum     time.Duration
	next    int
	count   int
}

// NewRollingAverage creates a rolling average tracker with specified window size
func NewRollingAverage(windowSize int) *RollingAverage {
	if windowSize < 1 {
		windowSize = 1
	}
	return &RollingAverage{samples: make([]time.Duration, windowSize)}
}

// Add records a new sample, evicting the oldest once the window is full
func (r *RollingAverage) Add(d time.Duration) {
	if r.count == len(r.samples) {
		r.sum -= r.samples[r.next]
	} else {
		r.count++
	}
	r.samples[r.next] = d
	r.sum += d
	r.next = (r.next + 1) % len(r.samples)
}

// Average returns the current rolling average, zero without samples
func (r *RollingAverage) Average() time.Duration {
	if r.count == 0 {
		return 0
	}
	return r.sum / time.Duration(r.count)
}

// Count returns the number of samples currently tracked
func (r *RollingAverage) Count() int {
	return r.count
}

// Reset clears all samples
func (r *RollingAverage) Reset() {
	clear(r.samples)
	r.sum = 0
	r.next = 0
	r.count = 0
}

// Monitor tracks frame loop timings and how long page transitions take.
// It is fed from the render loop only.
type Monitor struct {
	update     *RollingAverage
	render     *RollingAverage
	transition *RollingAverage

	frames      int
	slowFrames  int
	transitions int
	frameBudget time.Duration
	startTime   time.Time
	lastLog     time.Time
}

// Report contains aggregated frame and transition metrics
type Report struct {
	AvgUpdateMs     float64
	AvgRenderMs     float64
	AvgTransitionMs float64
	Frames          int
	SlowFrames      int // frames whose update + render exceeded the budget
	Transitions     int
	IsHealthy       bool
	UptimeSeconds   int64
}

// NewMonitor creates a monitor averaging over windowSize frames, counting a
// frame as slow when it exceeds frameBudget
func NewMonitor(windowSize int, frameBudget time.Duration) *Monitor {
	now := time.Now()
	return &Monitor{
		update:      NewRollingAverage(windowSize),
		render:      NewRollingAverage(windowSize),
		transition:  NewRollingAverage(16),
		frameBudget: frameBudget,
		startTime:   now,
		lastLog:     now,
	}
}

// RecordFrame records the update and render time of one frame
func (m *Monitor) RecordFrame(update, render time.Duration) {
	m.update.Add(update)
	m.render.Add(render)
	m.frames++
	if m.frameBudget > 0 && update+render > m.frameBudget {
		m.slowFrames++
	}
}

// RecordTransition records the time from leaving a page to arriving on the next
func (m *Monitor) RecordTransition(d time.Duration) {
	m.transition.Add(d)
	m.transitions++
}

// Report generates a snapshot of the current metrics
func (m *Monitor) Report() Report {
	slowRate := 0.0
	if m.frames > 0 {
		slowRate = float64(m.slowFrames) / float64(m.frames) * 100.0
	}
	return Report{
		AvgUpdateMs:     ms(m.update.Average()),
		AvgRenderMs:     ms(m.render.Average()),
		AvgTransitionMs: ms(m.transition.Average()),
		Frames:          m.frames,
		SlowFrames:      m.slowFrames,
		Transitions:     m.transitions,
		IsHealthy:       slowRate < 1.0,
		UptimeSeconds:   int64(time.Since(m.startTime).Seconds()),
	}
}

// LogEvery logs the report when at least interval has passed since the last log
func (m *Monitor) LogEvery(interval time.Duration, now time.Time) bool {
	if now.Sub(m.lastLog) < interval {
		return false
	}
	m.lastLog = now

	r := m.Report()
	status := "OK"
	if !r.IsHealthy {
		status = "DEGRADED"
	}
	log.Printf("Performance[%s]: Update=%.2fms Render=%.2fms Transition=%.0fms Frames=%d Slow=%d Transitions=%d Uptime=%ds",
		status, r.AvgUpdateMs, r.AvgRenderMs, r.AvgTransitionMs, r.Frames, r.SlowFrames, r.Transitions, r.UptimeSeconds)
	return true
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
