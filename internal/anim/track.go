package anim

import (
	"time"

	"github.com/tanema/gween"
)

// Config holds the shared timing defaults. It is a value: copies never
// affect each other.
type Config struct {
	Duration      time.Duration // default step duration
	Ease          Easing        // default step curve
	Stagger       time.Duration // delay between successive entrance items
	EntranceRows  int           // rows an entering item travels
	FrameInterval time.Duration // redraw interval while anything animates
}

// DefaultConfig returns 300ms power2.out steps with a 200ms entrance
// stagger, redrawn at 30fps.
func DefaultConfig() Config {
	return Config{
		Duration:      300 * time.Millisecond,
		Ease:          DefaultEase,
		Stagger:       200 * time.Millisecond,
		EntranceRows:  2,
		FrameInterval: time.Second / 30,
	}
}

func (c Config) ease() Easing {
	if c.Ease == nil {
		return DefaultEase
	}
	return c.Ease
}

// Step is one leg of a tween. Zero fields fall back to the Config.
type Step struct {
	To       float64
	Duration time.Duration
	Ease     Easing
}

// segment is one gween tween placed on the wall clock.
type segment struct {
	from, to float64
	start    time.Time
	dur      time.Duration
	tween    *gween.Tween
}

func newSegment(from, to float64, start time.Time, dur time.Duration, ease Easing) segment {
	return segment{
		from:  from,
		to:    to,
		start: start,
		dur:   dur,
		tween: gween.New(float32(from), float32(to), float32(dur.Seconds()), ease),
	}
}

func (s segment) end() time.Time { return s.start.Add(s.dur) }

// at returns the value at now. Outside the segment the exact endpoints
// are returned rather than gween's float32 ones.
func (s segment) at(now time.Time) float64 {
	if s.dur <= 0 || !now.Before(s.end()) {
		return s.to
	}
	if !now.After(s.start) {
		return s.from
	}
	v, _ := s.tween.Set(float32(now.Sub(s.start).Seconds()))
	return float64(v)
}

// Track animates a single scalar, such as a scale factor.
type Track struct {
	rest float64
	segs []segment
}

// NewTrack returns an idle track resting at v.
func NewTrack(v float64) *Track {
	return &Track{rest: v}
}

// Value returns the track's value at now.
func (t *Track) Value(now time.Time) float64 {
	if len(t.segs) == 0 {
		return t.rest
	}
	for _, s := range t.segs {
		if now.Before(s.end()) {
			return s.at(now)
		}
	}
	return t.segs[len(t.segs)-1].to
}

// Tweening reports whether a tween is still running at now.
func (t *Track) Tweening(now time.Time) bool {
	if len(t.segs) == 0 {
		return false
	}
	return now.Before(t.segs[len(t.segs)-1].end())
}

// Play replaces any running tween with steps run back to back, starting
// from the current value.
func (t *Track) Play(now time.Time, cfg Config, steps ...Step) {
	from := t.Value(now)
	t.rest = from
	t.segs = t.segs[:0]

	start := now
	for _, st := range steps {
		dur := st.Duration
		if dur == 0 {
			dur = cfg.Duration
		}
		ease := st.Ease
		if ease == nil {
			ease = cfg.ease()
		}
		t.segs = append(t.segs, newSegment(from, st.To, start, dur, ease))
		from = st.To
		start = start.Add(dur)
	}
	if len(steps) > 0 {
		t.rest = from
	}
}
