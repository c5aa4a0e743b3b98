package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/sebastiantruijens/moviecards/internal/anim"
	"github.com/sebastiantruijens/moviecards/internal/details"
	"github.com/sebastiantruijens/moviecards/internal/search"
)

// colorProfileMu serializes tests that mutate the global lipgloss color profile.
var colorProfileMu sync.Mutex

// plainColorProfile makes lipgloss emit no escape sequences so views can be
// matched as plain text.
func plainColorProfile(t *testing.T) {
	t.Helper()
	colorProfileMu.Lock()
	orig := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(orig)
		colorProfileMu.Unlock()
	})
}

// fakeFetcher answers searches from canned bodies keyed by term.
type fakeFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	body   string // used when the term has no entry
	err    error
	terms  []string
}

func (f *fakeFetcher) Search(ctx context.Context, term string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terms = append(f.terms, term)
	if f.err != nil {
		return nil, f.err
	}
	if b, ok := f.bodies[term]; ok {
		return []byte(b), nil
	}
	return []byte(f.body), nil
}

func (f *fakeFetcher) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.terms...)
}

type fakeDetails struct {
	info *details.Details
	err  error
}

func (f *fakeDetails) Fetch(ctx context.Context, pageURL string) (*details.Details, error) {
	return f.info, f.err
}

type fakePosters struct{}

func (fakePosters) Render(ctx context.Context, url string) (string, error) {
	if strings.Contains(url, "broken") {
		return "", errors.New("decode failed")
	}
	return "ART:" + url[strings.LastIndex(url, "/")+1:], nil
}

func (fakePosters) Size() (int, int) { return 12, 2 }

// fakeClock drives animations deterministically.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

const (
	twoMovies = `{"description":[
		{"id":"tt0096895","title":"Batman","#RANK":120,"#YEAR":1989,"#ACTORS":"Michael Keaton, Jack Nicholson","#IMG_POSTER":"https://img.example/batman.jpg"},
		{"id":"tt0103776","title":"Batman Returns","#RANK":300,"#YEAR":1992,"#ACTORS":"Michael Keaton","#IMG_POSTER":"https://img.example/broken.jpg"}]}`
	oneMovie = `{"movies":[{"title":"Superman","#YEAR":1978}]}`
	noMovies = `{"description":[]}`
)

// testModel bundles a model with its fakes.
type testModel struct {
	Model
	fetcher *fakeFetcher
	clock   *fakeClock
}

type modelOptions struct {
	details DetailFetcher
	posters PosterRenderer
	openURL func(string) error
}

func newTestModel(t *testing.T, f *fakeFetcher, o modelOptions) *testModel {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	cfg := anim.DefaultConfig()
	cfg.FrameInterval = time.Millisecond

	if o.openURL == nil {
		o.openURL = func(string) error { return nil }
	}
	ctrl := search.NewController(f, search.Options{})
	m := New(ctrl, Options{
		Animation: cfg,
		Details:   o.details,
		Posters:   o.posters,
		OpenURL:   o.openURL,
		Now:       clock.Now,
	})
	tm := &testModel{Model: m, fetcher: f, clock: clock}
	tm.send(t, tea.WindowSizeMsg{Width: 100, Height: 40})
	return tm
}

// send delivers msg and returns the resulting command.
func (tm *testModel) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := tm.Model.Update(msg)
	tm.Model = next.(Model)
	return cmd
}

// deliver sends msgs in order, discarding the commands they return.
func (tm *testModel) deliver(t *testing.T, msgs ...tea.Msg) {
	t.Helper()
	for _, msg := range msgs {
		tm.send(t, msg)
	}
}

// mount runs Init and applies the initial search.
func (tm *testModel) mount(t *testing.T) {
	t.Helper()
	done := msgsOfType[searchDoneMsg](runCmd(tm.Init()))
	if len(done) != 1 {
		t.Fatalf("Init produced %d searches, want 1", len(done))
	}
	tm.deliver(t, done[0])
}

// settle advances the clock past every running animation and redraws.
func (tm *testModel) settle(t *testing.T) {
	t.Helper()
	tm.clock.advance(10 * time.Second)
	tm.send(t, frameMsg{epoch: tm.scope.Epoch()})
}

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	keyEsc      = tea.KeyMsg{Type: tea.KeyEsc}
	keyCtrlC    = tea.KeyMsg{Type: tea.KeyCtrlC}
	keyRight    = tea.KeyMsg{Type: tea.KeyRight}
)

// runCmd executes cmd and any batched commands it expands to. Commands
// that block for long, such as cursor blink timers, are abandoned.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(200 * time.Millisecond):
		return nil
	}

	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, runCmd(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

func msgsOfType[T tea.Msg](msgs []tea.Msg) []T {
	var out []T
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func hasQuit(msgs []tea.Msg) bool {
	return len(msgsOfType[tea.QuitMsg](msgs)) > 0
}
