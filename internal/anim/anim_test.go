package anim

import (
	"math"
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

// gween computes in float32.
func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestEasingEndpoints(t *testing.T) {
	for _, name := range EasingNames() {
		e, err := ParseEasing(name)
		if err != nil {
			t.Fatalf("ParseEasing(%q): %v", name, err)
		}
		if Ease(e, 0) != 0 || Ease(e, 1) != 1 {
			t.Errorf("%s: endpoints %v and %v, want 0 and 1", name, Ease(e, 0), Ease(e, 1))
		}
		if Ease(e, -1) != 0 || Ease(e, 2) != 1 {
			t.Errorf("%s: out-of-range input not clamped", name)
		}
	}
}

func TestPower2OutFrontLoaded(t *testing.T) {
	e, err := ParseEasing("power2.out")
	if err != nil {
		t.Fatal(err)
	}
	if got := Ease(e, 0.5); !near(got, 0.875) {
		t.Errorf("power2.out at 0.5 = %v, want 0.875", got)
	}
	if got := Ease(e, 0.5); !near(got, Ease(DefaultEase, 0.5)) {
		t.Errorf("power2.out is not the default ease: %v", got)
	}
}

func TestParseEasingUnknown(t *testing.T) {
	if _, err := ParseEasing("bounce"); err == nil {
		t.Fatal("expected error for unknown ease")
	}
	if _, err := ParseEasing("Power2.Out"); err != nil {
		t.Errorf("ParseEasing should be case-insensitive: %v", err)
	}
}

func TestTrackPlayUsesDefaults(t *testing.T) {
	cfg := Config{Duration: 300 * time.Millisecond, Ease: ease.Linear}
	tr := NewTrack(1)
	tr.Play(at(0), cfg, Step{To: 1.2})

	if !near(tr.Value(at(0)), 1) {
		t.Errorf("start value = %v, want 1", tr.Value(at(0)))
	}
	if !near(tr.Value(at(150)), 1.1) {
		t.Errorf("midpoint = %v, want 1.1", tr.Value(at(150)))
	}
	if !tr.Tweening(at(299)) {
		t.Error("not tweening before duration elapsed")
	}
	if tr.Tweening(at(300)) {
		t.Error("still tweening after duration")
	}
	if !near(tr.Value(at(1000)), 1.2) {
		t.Errorf("end value = %v, want 1.2", tr.Value(at(1000)))
	}
}

func TestTrackTimeline(t *testing.T) {
	cfg := Config{Duration: 300 * time.Millisecond, Ease: ease.Linear}
	tr := NewTrack(1)
	tr.Play(at(0), cfg,
		Step{To: 0.7, Duration: 100 * time.Millisecond},
		Step{To: 1, Duration: 200 * time.Millisecond},
	)

	tests := []struct {
		ms   int
		want float64
	}{
		{0, 1},
		{50, 0.85},
		{100, 0.7},
		{200, 0.85},
		{300, 1},
	}
	for _, tt := range tests {
		if got := tr.Value(at(tt.ms)); !near(got, tt.want) {
			t.Errorf("Value(%dms) = %v, want %v", tt.ms, got, tt.want)
		}
	}
	if !tr.Tweening(at(250)) || tr.Tweening(at(300)) {
		t.Error("timeline length should be 300ms")
	}
	// Step boundaries land exactly on the targets.
	if tr.Value(at(100)) != 0.7 || tr.Value(at(300)) != 1 {
		t.Errorf("boundaries = %v, %v; want exactly 0.7 and 1", tr.Value(at(100)), tr.Value(at(300)))
	}
}

func TestTrackPlayFromCurrentValue(t *testing.T) {
	cfg := Config{Duration: 100 * time.Millisecond, Ease: ease.Linear}
	tr := NewTrack(0)
	tr.Play(at(0), cfg, Step{To: 10})
	tr.Play(at(50), cfg, Step{To: 0})
	if !near(tr.Value(at(50)), 5) {
		t.Errorf("restart value = %v, want 5", tr.Value(at(50)))
	}
	if !near(tr.Value(at(100)), 2.5) {
		t.Errorf("value halfway back = %v, want 2.5", tr.Value(at(100)))
	}
	if tr.Tweening(at(150)) || tr.Value(at(500)) != 0 {
		t.Errorf("restarted tween did not settle at 0: %v", tr.Value(at(500)))
	}
}

func TestScopePlayGuarded(t *testing.T) {
	s := NewScope(Config{Duration: 300 * time.Millisecond, Ease: ease.Linear})

	if !s.PlayGuarded("button", 1, at(0), Step{To: 1.2}) {
		t.Fatal("first tween refused")
	}
	if s.PlayGuarded("button", 1, at(100), Step{To: 1}) {
		t.Error("second tween started while first running")
	}
	if !near(s.Value("button", at(300), 0), 1.2) {
		t.Errorf("value = %v, want 1.2", s.Value("button", at(300), 0))
	}
	if !s.PlayGuarded("button", 1, at(300), Step{To: 1}) {
		t.Error("tween refused after previous finished")
	}
}

func TestEntranceStagger(t *testing.T) {
	cfg := Config{Duration: 300 * time.Millisecond, Ease: ease.Linear, Stagger: 200 * time.Millisecond, EntranceRows: 2}
	s := NewScope(cfg)
	s.Enter(at(0), 3)
	e := s.Entrance()

	if e.Opacity(0, at(0)) != 0 || e.Offset(0, at(0)) != 2 {
		t.Errorf("item 0 at start: opacity %v offset %d", e.Opacity(0, at(0)), e.Offset(0, at(0)))
	}
	if e.Opacity(1, at(150)) != 0 {
		t.Error("item 1 started before its stagger delay")
	}
	if !near(e.Opacity(1, at(350)), 0.5) {
		t.Errorf("item 1 midway opacity = %v, want 0.5", e.Opacity(1, at(350)))
	}
	if e.Offset(0, at(300)) != 0 || e.Opacity(0, at(300)) != 1 {
		t.Error("item 0 not at rest after duration")
	}
	if e.Done(at(699)) || !e.Done(at(700)) {
		t.Error("entrance of 3 items should end at 2*200+300ms")
	}
	if e.Progress(5, at(0)) != 1 {
		t.Error("items outside the entrance should be at rest")
	}
	if !s.Active(at(100)) || s.Active(at(700)) {
		t.Error("Active does not follow the entrance")
	}
}

func TestScopeClose(t *testing.T) {
	s := NewScope(DefaultConfig())
	s.Enter(at(0), 4)
	s.PlayGuarded("button", 1, at(0), Step{To: 1.2})
	epoch := s.Epoch()

	s.Close()

	if !s.Closed() || s.Epoch() == epoch {
		t.Error("Close did not end the epoch")
	}
	if s.Active(at(10)) {
		t.Error("closed scope reports activity")
	}
	if s.PlayGuarded("button", 1, at(1000), Step{To: 0.7}) {
		t.Error("tween started on closed scope")
	}
	if s.Value("button", at(10), 1) != 1 {
		t.Error("closed scope should report the fallback value")
	}
	if s.Entrance().Opacity(0, at(0)) != 1 {
		t.Error("closed scope should draw items at rest")
	}
	s.Close() // idempotent
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Duration != 300*time.Millisecond || cfg.Stagger != 200*time.Millisecond {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if !near(Ease(cfg.Ease, 0.5), 0.875) {
		t.Error("default ease is not power2.out")
	}
}
