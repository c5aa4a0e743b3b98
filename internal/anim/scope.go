package anim

import "time"

// Entrance is a staggered reveal of count items. Item i starts i*Stagger
// after the entrance began and runs for the configured duration.
type Entrance struct {
	start time.Time
	count int
	cfg   Config
}

// Progress returns eased progress of item i in [0, 1]. Items outside the
// entrance are at rest.
func (e Entrance) Progress(i int, now time.Time) float64 {
	if i < 0 || i >= e.count || e.cfg.Duration <= 0 {
		return 1
	}
	begin := e.start.Add(time.Duration(i) * e.cfg.Stagger)
	if now.Before(begin) {
		return 0
	}
	p := float64(now.Sub(begin)) / float64(e.cfg.Duration)
	return Ease(e.cfg.ease(), p)
}

// Offset returns how many rows above its resting row item i is drawn.
func (e Entrance) Offset(i int, now time.Time) int {
	rows := float64(e.cfg.EntranceRows) * (1 - e.Progress(i, now))
	return int(rows + 0.5)
}

// Opacity returns item i's opacity in [0, 1].
func (e Entrance) Opacity(i int, now time.Time) float64 {
	return e.Progress(i, now)
}

// Done reports whether every item has come to rest.
func (e Entrance) Done(now time.Time) bool {
	if e.count == 0 {
		return true
	}
	last := e.start.Add(time.Duration(e.count-1)*e.cfg.Stagger + e.cfg.Duration)
	return !now.Before(last)
}

// Scope owns the animations of one component instance. Tracks are
// acquired through the scope; Close releases them, after which nothing
// in the scope animates and every frame tagged with an older epoch is
// stale.
type Scope struct {
	cfg      Config
	epoch    uint64
	closed   bool
	tracks   map[string]*Track
	entrance Entrance
}

// NewScope opens a scope with the given timing defaults.
func NewScope(cfg Config) *Scope {
	return &Scope{
		cfg:    cfg,
		epoch:  1,
		tracks: make(map[string]*Track),
	}
}

// Config returns the scope's timing defaults.
func (s *Scope) Config() Config { return s.cfg }

// Epoch identifies the scope's current lifetime. Frames carrying a
// different epoch must be ignored.
func (s *Scope) Epoch() uint64 { return s.epoch }

// Closed reports whether the scope has been released.
func (s *Scope) Closed() bool { return s.closed }

// Track returns the named track, creating it at rest.
func (s *Scope) Track(name string, rest float64) *Track {
	t, ok := s.tracks[name]
	if !ok {
		t = NewTrack(rest)
		s.tracks[name] = t
	}
	return t
}

// Value returns the named track's value, or fallback when the track does
// not exist or the scope is closed.
func (s *Scope) Value(name string, now time.Time, fallback float64) float64 {
	t, ok := s.tracks[name]
	if !ok || s.closed {
		return fallback
	}
	return t.Value(now)
}

// PlayGuarded starts steps on the named track unless a tween is already
// running on it. It reports whether the steps were started.
func (s *Scope) PlayGuarded(name string, rest float64, now time.Time, steps ...Step) bool {
	if s.closed {
		return false
	}
	t := s.Track(name, rest)
	if t.Tweening(now) {
		return false
	}
	t.Play(now, s.cfg, steps...)
	return true
}

// Enter starts a new entrance of count items at now, replacing any
// running one.
func (s *Scope) Enter(now time.Time, count int) {
	if s.closed {
		return
	}
	s.entrance = Entrance{start: now, count: count, cfg: s.cfg}
}

// Entrance returns the current entrance. A closed scope reports every item
// at rest.
func (s *Scope) Entrance() Entrance {
	if s.closed {
		return Entrance{}
	}
	return s.entrance
}

// Active reports whether anything in the scope is still moving at now.
func (s *Scope) Active(now time.Time) bool {
	if s.closed {
		return false
	}
	if !s.entrance.Done(now) {
		return true
	}
	for _, t := range s.tracks {
		if t.Tweening(now) {
			return true
		}
	}
	return false
}

// Close releases every track and ends the scope's epoch.
func (s *Scope) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.epoch++
	s.tracks = make(map[string]*Track)
	s.entrance = Entrance{}
}
