// Package tui provides the terminal interface for moviecards.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sebastiantruijens/moviecards/internal/anim"
	"github.com/sebastiantruijens/moviecards/internal/details"
	"github.com/sebastiantruijens/moviecards/internal/movie"
	"github.com/sebastiantruijens/moviecards/internal/search"
)

// DetailFetcher loads the detail overlay for a movie page.
type DetailFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*details.Details, error)
}

// PosterRenderer turns poster URLs into ANSI art.
type PosterRenderer interface {
	Render(ctx context.Context, url string) (string, error)
	Size() (width, height int)
}

// Options configures the TUI.
type Options struct {
	Animation anim.Config
	Details   DetailFetcher  // nil disables the detail overlay
	Posters   PosterRenderer // nil shows text placeholders
	OpenURL   func(url string) error
	Logger    *slog.Logger
	Now       func() time.Time
}

// focusArea is the control receiving keys.
type focusArea int

const (
	focusInput focusArea = iota
	focusButton
	focusGrid
	focusCount
)

// detailState backs the detail overlay.
type detailState struct {
	record  movie.Record
	loading bool
	err     error
	info    *details.Details
}

// Model is the main TUI model following the Elm architecture.
type Model struct {
	ctrl    *search.Controller
	details DetailFetcher
	posters PosterRenderer
	openURL func(string) error
	logger  *slog.Logger
	now     func() time.Time

	// Animation bindings; released on quit
	scope        *anim.Scope
	frameRunning bool

	input         textinput.Model
	spinner       spinner.Model
	spinnerActive bool
	grid          viewport.Model
	detailView    viewport.Model
	help          help.Model
	keys          keyMap

	focus    focusArea
	selected int

	// Poster art by URL; "" marks a poster that failed to load
	posterArt    map[string]string
	posterCancel context.CancelFunc

	detail          *detailState
	detailRequestID uint64

	notice string // transient status such as a failed browser launch

	width    int
	height   int
	quitting bool
}

// New creates a TUI model driving ctrl.
func New(ctrl *search.Controller, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Search for a movie..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.OpenURL == nil {
		opts.OpenURL = details.OpenBrowser
	}
	if opts.Animation.FrameInterval <= 0 {
		opts.Animation.FrameInterval = anim.DefaultConfig().FrameInterval
	}

	h := help.New()

	return Model{
		ctrl:          ctrl,
		details:       opts.Details,
		posters:       opts.Posters,
		openURL:       opts.OpenURL,
		logger:        opts.Logger,
		now:           opts.Now,
		scope:         anim.NewScope(opts.Animation),
		input:         ti,
		spinner:       sp,
		spinnerActive: true, // started by Init
		grid:          viewport.New(80, 16),
		detailView:    viewport.New(80, 16),
		help:          h,
		keys:          defaultKeyMap(),
		posterArt:     make(map[string]string),
		width:         80,
		height:        24,
	}
}

// Init runs the initial search with an empty term, so the fallback term
// applies.
func (m Model) Init() tea.Cmd {
	m.scope.Enter(m.now(), 0)
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		searchCmd(m.ctrl.Search(context.Background(), "")),
	)
}

// searchDoneMsg carries the outcome of one request cycle.
type searchDoneMsg struct {
	outcome search.Outcome
}

// frameMsg redraws running animations. Frames from an older scope epoch
// are ignored.
type frameMsg struct {
	epoch uint64
}

// posterMsg delivers one rendered poster.
type posterMsg struct {
	url string
	art string
	err error
}

// detailMsg delivers the detail overlay content.
type detailMsg struct {
	requestID uint64
	info      *details.Details
	err       error
}

// browserMsg reports the result of opening a page in the browser.
type browserMsg struct {
	err error
}

func searchCmd(run func() search.Outcome) tea.Cmd {
	return func() tea.Msg {
		return searchDoneMsg{outcome: run()}
	}
}

// startSearch commits the draft as the search term.
func (m *Model) startSearch(term string) tea.Cmd {
	cmds := []tea.Cmd{searchCmd(m.ctrl.Search(context.Background(), term))}
	if !m.spinnerActive {
		m.spinnerActive = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// loadPosters requests art for every distinct poster in the result set.
func (m *Model) loadPosters(records []movie.Record) tea.Cmd {
	if m.posterCancel != nil {
		m.posterCancel()
		m.posterCancel = nil
	}
	if m.posters == nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.posterCancel = cancel

	renderer := m.posters
	var cmds []tea.Cmd
	seen := make(map[string]bool)
	for _, rec := range records {
		url := rec.PosterURL
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		if _, done := m.posterArt[url]; done {
			continue
		}
		cmds = append(cmds, func() (msg tea.Msg) {
			defer func() {
				if r := recover(); r != nil {
					msg = posterMsg{url: url, err: fmt.Errorf("poster panic: %v", r)}
				}
			}()
			art, err := renderer.Render(ctx, url)
			return posterMsg{url: url, art: art, err: err}
		})
	}
	return tea.Batch(cmds...)
}

// loadDetails opens the overlay for the selected card.
func (m *Model) loadDetails() tea.Cmd {
	movies := m.ctrl.State().Movies
	if m.details == nil || m.selected < 0 || m.selected >= len(movies) {
		return nil
	}
	rec := movies[m.selected]
	m.detailRequestID++
	m.detail = &detailState{record: rec, loading: true}
	m.detailView.SetYOffset(0)

	if rec.PageURL == "" {
		m.detail.loading = false
		m.detail.err = fmt.Errorf("no page for %q", rec.Title)
		return nil
	}

	requestID := m.detailRequestID
	fetcher := m.details
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = detailMsg{requestID: requestID, err: fmt.Errorf("details panic: %v", r)}
			}
		}()
		info, err := fetcher.Fetch(context.Background(), rec.PageURL)
		return detailMsg{requestID: requestID, info: info, err: err}
	}
}

func (m *Model) openSelected() tea.Cmd {
	url := ""
	if m.detail != nil {
		url = m.detail.record.PageURL
	} else if movies := m.ctrl.State().Movies; m.selected >= 0 && m.selected < len(movies) {
		url = movies[m.selected].PageURL
	}
	if url == "" {
		m.notice = "No page to open."
		return nil
	}
	open := m.openURL
	return func() tea.Msg {
		return browserMsg{err: open(url)}
	}
}

// teardown releases everything the model acquired on mount.
func (m *Model) teardown() {
	m.quitting = true
	m.scope.Close()
	m.frameRunning = false
	m.ctrl.Close()
	if m.posterCancel != nil {
		m.posterCancel()
		m.posterCancel = nil
	}
	m.detailRequestID++
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	if !m.quitting {
		m.layout()
	}
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	if m.quitting {
		return nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.keepSelectionVisible()
		return nil

	case spinner.TickMsg:
		if !m.ctrl.State().Loading {
			m.spinnerActive = false
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case searchDoneMsg:
		if !m.ctrl.Apply(msg.outcome) {
			return nil
		}
		movies := m.ctrl.State().Movies
		m.selected = 0
		m.grid.SetYOffset(0)
		m.scope.Enter(m.now(), len(movies))
		return tea.Batch(m.ensureFrames(), m.loadPosters(movies))

	case posterMsg:
		if msg.err != nil {
			m.logger.Debug("poster failed", "url", msg.url, "error", msg.err)
		}
		m.posterArt[msg.url] = msg.art
		return nil

	case detailMsg:
		if m.detail == nil || msg.requestID != m.detailRequestID {
			return nil
		}
		m.detail.loading = false
		m.detail.info = msg.info
		m.detail.err = msg.err
		if msg.err != nil {
			m.logger.Warn("details failed", "url", m.detail.record.PageURL, "error", msg.err)
		}
		return nil

	case browserMsg:
		if msg.err != nil {
			m.notice = "Could not open browser."
			m.logger.Warn("open browser failed", "error", msg.err)
		}
		return nil

	case frameMsg:
		return m.handleFrame(msg)
	}

	var cmd tea.Cmd
	if m.focus == focusInput {
		m.input, cmd = m.input.Update(msg)
	}
	return cmd
}

// layout sizes the scroll areas and refreshes the card grid.
func (m *Model) layout() {
	chrome := lipgloss.Height(m.headerView()) + lipgloss.Height(m.footerView())
	h := max(m.height-chrome, 3)

	m.grid.Width = m.width
	m.grid.Height = h
	m.grid.SetContent(m.gridView())

	m.detailView.Width = m.width
	m.detailView.Height = h
	if m.detail != nil {
		m.detailView.SetContent(m.detailContent())
	}
}

// columnsFor returns how many cards fit side by side, capped at four.
func columnsFor(width int) int {
	cols := (width + cardGap) / (cardOuterWidth + cardGap)
	return min(max(cols, 1), 4)
}

func (m *Model) keepSelectionVisible() {
	cols := columnsFor(m.width)
	row := m.selected / cols
	slot := m.cardSlotHeight()
	top := row * slot
	bottom := top + slot
	switch {
	case top < m.grid.YOffset:
		m.grid.SetYOffset(top)
	case bottom > m.grid.YOffset+m.grid.Height:
		m.grid.SetYOffset(bottom - m.grid.Height)
	}
}
