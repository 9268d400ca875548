package performance

import (
	"testing"
	"time"
)

func TestRollingAverageWindow(t *testing.T) {
	r := NewRollingAverage(3)
	if r.Average() != 0 {
		t.Fatalf("Expected zero average without samples")
	}

	for _, d := range []time.Duration{10, 20, 30} {
		r.Add(d * time.Millisecond)
	}
	if got := r.Average(); got != 20*time.Millisecond {
		t.Errorf("Expected 20ms, got %s", got)
	}

	r.Add(60 * time.Millisecond) // evicts 10ms
	if got := r.Average(); got != 36666666*time.Nanosecond {
		t.Errorf("Expected ~36.67ms, got %s", got)
	}
	if r.Count() != 3 {
		t.Errorf("Expected 3 samples, got %d", r.Count())
	}

	r.Reset()
	if r.Count() != 0 || r.Average() != 0 {
		t.Errorf("Expected empty after reset")
	}
}

func TestMonitorReport(t *testing.T) {
	m := NewMonitor(10, 16*time.Millisecond)

	m.RecordFrame(4*time.Millisecond, 6*time.Millisecond)
	m.RecordFrame(10*time.Millisecond, 10*time.Millisecond)
	m.RecordTransition(300 * time.Millisecond)

	r := m.Report()
	if r.Frames != 2 || r.SlowFrames != 1 || r.Transitions != 1 {
		t.Errorf("Unexpected counters %+v", r)
	}
	if r.AvgUpdateMs != 7 || r.AvgRenderMs != 8 || r.AvgTransitionMs != 300 {
		t.Errorf("Unexpected averages %+v", r)
	}
	if r.IsHealthy {
		t.Errorf("Expected unhealthy with 50%% slow frames")
	}
}

func TestMonitorLogEvery(t *testing.T) {
	m := NewMonitor(4, 0)
	now := time.Now()

	if m.LogEvery(5*time.Second, now) {
		t.Errorf("Logged before the interval elapsed")
	}
	if !m.LogEvery(5*time.Second, now.Add(6*time.Second)) {
		t.Errorf("Expected log after the interval")
	}
}

func TestPressureFor(t *testing.T) {
	tests := []struct {
		mb   uint64
		want MemoryPressureLevel
	}{
		{50, MemoryPressureCritical},
		{150, MemoryPressureHigh},
		{300, MemoryPressureMedium},
		{500, MemoryPressureLow},
		{2048, MemoryPressureNone},
	}
	for _, tt := range tests {
		if got := PressureFor(tt.mb); got != tt.want {
			t.Errorf("PressureFor(%d) = %s, want %s", tt.mb, got, tt.want)
		}
	}
}
