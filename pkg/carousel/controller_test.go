package carousel

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"
	"testing"
	"time"

	"reel-frame/pkg/paging"
)

// fakeSurface records commands and rests wherever it was last sent
type fakeSurface struct {
	slot        int
	interaction bool
	commands    []string
	pageSize    Size
	// echoResets simulates a surface that reports completion for
	// non-animated offset changes too.
	echoResets bool
	ctrl       *Controller
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{slot: paging.CurrentSlot, interaction: true}
}

func (f *fakeSurface) SetContentOffset(slot int, animated bool) {
	f.slot = slot
	f.commands = append(f.commands, fmt.Sprintf("offset(%d,%v)", slot, animated))
	if !animated && f.echoResets && f.ctrl != nil {
		f.ctrl.OnProgrammaticScrollComplete()
	}
}

func (f *fakeSurface) DisableInteraction() {
	f.interaction = false
	f.commands = append(f.commands, "disable")
}

func (f *fakeSurface) EnableInteraction() {
	f.interaction = true
	f.commands = append(f.commands, "enable")
}

func (f *fakeSurface) DisplacementSign() int {
	return f.slot - paging.CurrentSlot
}

func (f *fakeSurface) SetPageSize(size Size) {
	f.pageSize = size
}

// recorder captures listener events in order
type recorder struct {
	events []string
}

func (r *recorder) WillLeave(index int) { r.events = append(r.events, fmt.Sprintf("leave(%d)", index)) }
func (r *recorder) DidArrive(index int) { r.events = append(r.events, fmt.Sprintf("arrive(%d)", index)) }

func (r *recorder) String() string { return strings.Join(r.events, " ") }

func pages(n int) []Content {
	out := make([]Content, n)
	for i := range out {
		out[i] = fmt.Sprintf("video-%d", i)
	}
	return out
}

var testSize = Size{Width: 800, Height: 600}

func setup(t *testing.T, n, start int, opts ...Option) (*Controller, *fakeSurface, *recorder, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	surface := newFakeSurface()
	opts = append([]Option{WithLogger(log.New(&buf, "", 0))}, opts...)
	c := New(surface, opts...)
	surface.ctrl = c
	if err := c.Configure(pages(n), testSize, start); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	rec := &recorder{}
	c.Subscribe(rec)
	return c, surface, rec, &buf
}

func TestConfigure(t *testing.T) {
	c, surface, _, _ := setup(t, 5, 2)

	if c.CurrentIndex() != 2 {
		t.Errorf("Expected index 2, got %d", c.CurrentIndex())
	}
	if c.State() != Idle {
		t.Errorf("Expected idle, got %s", c.State())
	}
	if got := c.WindowIndices(); got != (paging.Window{1, 2, 3}) {
		t.Errorf("Expected window [1 2 3], got %v", got)
	}
	if got := c.Window(); got[0] != "video-1" || got[1] != "video-2" || got[2] != "video-3" {
		t.Errorf("Unexpected window content %v", got)
	}
	if surface.pageSize != testSize {
		t.Errorf("Expected page size %v, got %v", testSize, surface.pageSize)
	}
	if surface.slot != paging.CurrentSlot {
		t.Errorf("Expected surface centered, got slot %d", surface.slot)
	}
}

func TestConfigureInvalidIndex(t *testing.T) {
	c, _, _, _ := setup(t, 3, 1)

	for _, idx := range []int{-1, 4, 7} {
		err := c.Configure(pages(4), testSize, idx)
		if !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("Configure(%d) error = %v, want ErrInvalidIndex", idx, err)
		}
	}

	if c.PageCount() != 3 || c.CurrentIndex() != 1 {
		t.Errorf("Failed configure changed state: pages=%d index=%d", c.PageCount(), c.CurrentIndex())
	}
}

func TestRequestNextCommitsOnAnimationComplete(t *testing.T) {
	c, surface, rec, _ := setup(t, 5, 2)

	c.RequestNext()
	if rec.String() != "leave(2)" {
		t.Fatalf("Expected leave(2), got %q", rec)
	}
	if c.State() != ProgrammaticAnimating {
		t.Fatalf("Expected animating, got %s", c.State())
	}
	if c.CurrentIndex() != 2 {
		t.Fatalf("Index changed before completion: %d", c.CurrentIndex())
	}
	if surface.slot != paging.NextSlot {
		t.Fatalf("Expected surface sent to next slot, got %d", surface.slot)
	}

	c.OnScrollAnimationComplete()
	if c.CurrentIndex() != 3 {
		t.Errorf("Expected index 3, got %d", c.CurrentIndex())
	}
	if rec.String() != "leave(2) arrive(3)" {
		t.Errorf("Unexpected events %q", rec)
	}
	if c.State() != Idle {
		t.Errorf("Expected idle, got %s", c.State())
	}
	if surface.slot != paging.CurrentSlot {
		t.Errorf("Expected surface recentered, got slot %d", surface.slot)
	}
	if got := c.WindowIndices(); got != (paging.Window{2, 3, 4}) {
		t.Errorf("Expected window [2 3 4], got %v", got)
	}
}

func TestRequestPreviousWrapsBackward(t *testing.T) {
	c, _, rec, _ := setup(t, 5, 0)

	c.RequestPrevious()
	c.OnScrollAnimationComplete()

	if c.CurrentIndex() != 4 {
		t.Errorf("Expected index 4, got %d", c.CurrentIndex())
	}
	if rec.String() != "leave(0) arrive(4)" {
		t.Errorf("Unexpected events %q", rec)
	}
}

func TestRequestWhileActiveIsIgnored(t *testing.T) {
	c, _, rec, _ := setup(t, 5, 2)

	c.RequestNext()
	c.RequestNext()
	c.RequestPrevious()
	c.OnGestureBegin()
	c.OnScrollAnimationComplete()

	if rec.String() != "leave(2) arrive(3)" {
		t.Errorf("Expected a single transition, got %q", rec)
	}
	if c.CurrentIndex() != 3 {
		t.Errorf("Expected index 3, got %d", c.CurrentIndex())
	}
}

func TestSinglePageRequestsAreNoops(t *testing.T) {
	c, surface, rec, _ := setup(t, 1, 0)
	before := len(surface.commands)

	c.RequestNext()
	c.RequestPrevious()
	c.OnScrollAnimationComplete()

	if len(rec.events) != 0 {
		t.Errorf("Expected no events, got %q", rec)
	}
	if len(surface.commands) != before {
		t.Errorf("Expected no surface commands, got %v", surface.commands[before:])
	}
	if c.State() != Idle {
		t.Errorf("Expected idle, got %s", c.State())
	}
}

func TestSinglePageGestureDegrades(t *testing.T) {
	c, surface, rec, _ := setup(t, 1, 0)

	c.OnGestureBegin()
	surface.slot = paging.NextSlot
	c.OnDragEnd(false)

	if rec.String() != "leave(0) arrive(0)" {
		t.Errorf("Unexpected events %q", rec)
	}
	if c.CurrentIndex() != 0 {
		t.Errorf("Expected index 0, got %d", c.CurrentIndex())
	}
}

func TestSurfaceDragRefusedWithoutNeighbours(t *testing.T) {
	for _, n := range []int{0, 1} {
		var buf bytes.Buffer
		c := New(newFakeSurface(), WithLogger(log.New(&buf, "", 0)))
		if err := c.Configure(pages(n), testSize, 0); err != nil {
			t.Fatalf("Configure(%d pages) failed: %v", n, err)
		}
		rec := &recorder{}
		c.Subscribe(rec)

		if c.OnDragBegin() {
			t.Errorf("Expected drag refused with %d pages", n)
		}
		if c.State() != Idle || len(rec.events) != 0 {
			t.Errorf("Refused drag changed state with %d pages: state=%s events=%q", n, c.State(), rec)
		}
	}
}

func TestSurfaceDragRefusedWhileAnimating(t *testing.T) {
	c, _, rec, _ := setup(t, 5, 2)

	c.RequestNext()
	if c.OnDragBegin() {
		t.Errorf("Expected drag refused during programmatic scroll")
	}
	if rec.String() != "leave(2)" {
		t.Errorf("Unexpected events %q", rec)
	}
}

func TestEmptyPageSet(t *testing.T) {
	var buf bytes.Buffer
	surface := newFakeSurface()
	c := New(surface, WithLogger(log.New(&buf, "", 0)))
	if err := c.Configure(nil, testSize, 3); err != nil {
		t.Fatalf("Configure with no pages failed: %v", err)
	}
	rec := &recorder{}
	c.Subscribe(rec)

	c.RequestNext()
	c.RequestPrevious()
	c.OnGestureBegin()
	c.OnDragEnd(false)
	c.OnDecelerationEnd()

	if len(rec.events) != 0 {
		t.Errorf("Expected no events, got %q", rec)
	}
	if !strings.Contains(buf.String(), ErrEmptyPageSet.Error()) {
		t.Errorf("Expected empty page set to be logged, got %q", buf.String())
	}
	if c.Window() != nil {
		t.Errorf("Expected nil window, got %v", c.Window())
	}
}

func TestDragWithoutMomentumCommitsImmediately(t *testing.T) {
	c, surface, rec, _ := setup(t, 5, 1)

	if !c.OnDragBegin() {
		t.Fatalf("Expected drag accepted")
	}
	if c.State() != GestureDragging {
		t.Fatalf("Expected dragging, got %s", c.State())
	}
	surface.slot = paging.NextSlot
	c.OnDragEnd(false)

	if c.CurrentIndex() != 2 {
		t.Errorf("Expected index 2, got %d", c.CurrentIndex())
	}
	if rec.String() != "leave(1) arrive(2)" {
		t.Errorf("Unexpected events %q", rec)
	}
	if c.State() != Idle {
		t.Errorf("Expected idle, got %s", c.State())
	}
}

func TestDragWithMomentumWaitsForDeceleration(t *testing.T) {
	c, surface, rec, _ := setup(t, 5, 1)

	c.OnDragBegin()
	c.OnDragEnd(true)

	if surface.interaction {
		t.Fatalf("Expected interaction disabled during momentum")
	}
	if !c.AwaitingMomentum() {
		t.Fatalf("Expected controller to await momentum")
	}
	if c.CurrentIndex() != 1 {
		t.Fatalf("Index changed before deceleration ended: %d", c.CurrentIndex())
	}
	if rec.String() != "leave(1)" {
		t.Fatalf("Unexpected events %q", rec)
	}

	surface.slot = paging.PrevSlot
	c.OnDecelerationEnd()

	if c.CurrentIndex() != 0 {
		t.Errorf("Expected index 0, got %d", c.CurrentIndex())
	}
	if !surface.interaction {
		t.Errorf("Expected interaction re-enabled")
	}
	if rec.String() != "leave(1) arrive(0)" {
		t.Errorf("Unexpected events %q", rec)
	}
}

func TestDragWithNoNetMovementKeepsIndex(t *testing.T) {
	c, _, rec, _ := setup(t, 4, 3)

	c.OnDragBegin()
	c.OnDragEnd(false)

	if c.CurrentIndex() != 3 {
		t.Errorf("Expected index 3, got %d", c.CurrentIndex())
	}
	if rec.String() != "leave(3) arrive(3)" {
		t.Errorf("Unexpected events %q", rec)
	}
}

func TestStrayCompletionSignalsAreIgnored(t *testing.T) {
	c, surface, rec, _ := setup(t, 3, 0)

	surface.slot = paging.NextSlot
	c.OnScrollAnimationComplete()
	c.OnDecelerationEnd()
	c.OnDragEnd(false)

	if len(rec.events) != 0 {
		t.Errorf("Expected no events, got %q", rec)
	}
	if c.CurrentIndex() != 0 {
		t.Errorf("Expected index 0, got %d", c.CurrentIndex())
	}

	// An animation-complete signal does not finish a drag.
	surface.slot = paging.CurrentSlot
	c.OnDragBegin()
	c.OnScrollAnimationComplete()
	if c.State() != GestureDragging {
		t.Errorf("Expected drag to stay active, got %s", c.State())
	}
}

func TestRecenterDoesNotRetriggerCommit(t *testing.T) {
	c, surface, rec, _ := setup(t, 5, 0)
	surface.echoResets = true

	c.RequestNext()
	c.OnScrollAnimationComplete()

	if rec.String() != "leave(0) arrive(1)" {
		t.Errorf("Unexpected events %q", rec)
	}
	if c.CurrentIndex() != 1 {
		t.Errorf("Expected index 1, got %d", c.CurrentIndex())
	}
}

func TestListenerCanNavigateFromDidArrive(t *testing.T) {
	c, _, rec, _ := setup(t, 5, 0)
	hops := 0
	c.Subscribe(ListenerFuncs{OnDidArrive: func(int) {
		if hops < 1 {
			hops++
			c.RequestNext()
		}
	}})

	c.RequestNext()
	c.OnScrollAnimationComplete()
	if c.State() != ProgrammaticAnimating {
		t.Fatalf("Expected follow-up transition to start, got %s", c.State())
	}
	c.OnScrollAnimationComplete()

	if rec.String() != "leave(0) arrive(1) leave(1) arrive(2)" {
		t.Errorf("Unexpected events %q", rec)
	}
}

func TestUnsubscribe(t *testing.T) {
	c, _, rec, _ := setup(t, 3, 0)
	other := &recorder{}
	unsubscribe := c.Subscribe(other)

	c.RequestNext()
	c.OnScrollAnimationComplete()
	unsubscribe()
	unsubscribe()
	c.RequestNext()
	c.OnScrollAnimationComplete()

	if len(other.events) != 2 {
		t.Errorf("Expected 2 events before unsubscribing, got %q", other)
	}
	if len(rec.events) != 4 {
		t.Errorf("Expected remaining listener to see 4 events, got %q", rec)
	}
}

func TestWatchdogForcesCommit(t *testing.T) {
	now := time.Unix(1000, 0)
	clock := func() time.Time { return now }
	c, _, rec, buf := setup(t, 5, 2, WithTransitionTimeout(2*time.Second), WithClock(clock))

	c.RequestNext()
	c.Tick(now.Add(time.Second))
	if c.State() != ProgrammaticAnimating {
		t.Fatalf("Watchdog fired early")
	}

	c.Tick(now.Add(2 * time.Second))
	if c.State() != Idle {
		t.Fatalf("Expected watchdog to commit, got %s", c.State())
	}
	if c.CurrentIndex() != 3 {
		t.Errorf("Expected index 3, got %d", c.CurrentIndex())
	}
	if rec.String() != "leave(2) arrive(3)" {
		t.Errorf("Unexpected events %q", rec)
	}
	if !strings.Contains(buf.String(), "forcing commit") {
		t.Errorf("Expected watchdog log, got %q", buf.String())
	}
}

func TestWatchdogDisabledByDefault(t *testing.T) {
	c, _, _, _ := setup(t, 5, 2)

	c.RequestNext()
	c.Tick(time.Now().Add(time.Hour))

	if c.State() != ProgrammaticAnimating {
		t.Errorf("Expected transition to remain active, got %s", c.State())
	}
}

func TestSetContentSize(t *testing.T) {
	c, surface, _, _ := setup(t, 3, 0)
	size := Size{Width: 1920, Height: 1080}

	c.SetContentSize(size)

	if c.ContentSize() != size || surface.pageSize != size {
		t.Errorf("Expected size %v, got controller=%v surface=%v", size, c.ContentSize(), surface.pageSize)
	}
}

func TestTwoPagesWrapBothWays(t *testing.T) {
	c, _, _, _ := setup(t, 2, 0)

	c.RequestNext()
	c.OnScrollAnimationComplete()
	if c.CurrentIndex() != 1 {
		t.Fatalf("Expected index 1, got %d", c.CurrentIndex())
	}
	c.RequestNext()
	c.OnScrollAnimationComplete()
	if c.CurrentIndex() != 0 {
		t.Fatalf("Expected index 0, got %d", c.CurrentIndex())
	}
	c.RequestPrevious()
	c.OnScrollAnimationComplete()
	if c.CurrentIndex() != 1 {
		t.Errorf("Expected index 1, got %d", c.CurrentIndex())
	}
}
