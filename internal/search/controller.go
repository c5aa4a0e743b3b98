package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sebastiantruijens/moviecards/internal/movie"
)

// DefaultFallbackTerm is searched when the submitted term is empty.
const DefaultFallbackTerm = "Spiderman"

// State is the search state shown by the UI.
type State struct {
	Term         string
	Movies       []movie.Record
	Loading      bool
	ErrorMessage string
}

// Outcome is the result of one request cycle.
type Outcome struct {
	Seq       uint64 // matches the controller's sequence when current
	RequestID string // correlation ID for logs
	Term      string // term actually sent
	Movies    []movie.Record
	Err       error
	Elapsed   time.Duration
}

// Options configures a Controller.
type Options struct {
	FallbackTerm string
	Normalizer   *movie.Normalizer
	Logger       *slog.Logger
}

// Controller owns State. All methods must be called from a single
// goroutine (the UI loop); only the function returned by Search may run
// elsewhere.
type Controller struct {
	fetcher    Fetcher
	normalizer *movie.Normalizer
	fallback   string
	logger     *slog.Logger

	state  State
	seq    uint64
	cancel context.CancelFunc
}

// NewController creates a controller that issues requests through f.
func NewController(f Fetcher, opts Options) *Controller {
	fallback := strings.TrimSpace(opts.FallbackTerm)
	if fallback == "" {
		fallback = DefaultFallbackTerm
	}
	n := opts.Normalizer
	if n == nil {
		n = movie.NewNormalizer()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		fetcher:    f,
		normalizer: n,
		fallback:   fallback,
		logger:     logger,
		state:      State{Term: fallback, Movies: []movie.Record{}},
	}
}

// State returns the current state. Movies is shared with the controller
// and must not be modified.
func (c *Controller) State() State {
	return c.state
}

// Resolve returns the term that is sent for term.
func (c *Controller) Resolve(term string) string {
	if t := strings.TrimSpace(term); t != "" {
		return t
	}
	return c.fallback
}

// Search starts a request cycle: it marks the state as loading, cancels
// any request still in flight and returns the function that performs the
// request. The returned function does not touch controller state and may
// run on any goroutine; pass its Outcome to Apply.
func (c *Controller) Search(ctx context.Context, term string) func() Outcome {
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.seq++

	sent := c.Resolve(term)
	c.state.Term = sent
	c.state.Loading = true
	c.state.ErrorMessage = ""

	seq := c.seq
	requestID := uuid.NewString()
	c.logger.Debug("search started", "request_id", requestID, "term", sent, "seq", seq)

	return func() Outcome {
		defer cancel()
		start := time.Now()
		out := Outcome{Seq: seq, RequestID: requestID, Term: sent}
		out.Movies, out.Err = c.fetch(ctx, sent)
		out.Elapsed = time.Since(start)
		return out
	}
}

func (c *Controller) fetch(ctx context.Context, term string) (records []movie.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			records, err = nil, fmt.Errorf("search panic: %v", r)
		}
	}()

	body, err := c.fetcher.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}
	records, err = c.normalizer.Normalize(body)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyResult
	}
	return records, nil
}

// Apply commits o if it belongs to the latest Search and reports whether
// the state changed. Outcomes of superseded searches are discarded.
func (c *Controller) Apply(o Outcome) bool {
	if o.Seq != c.seq {
		c.logger.Debug("search superseded", "request_id", o.RequestID, "term", o.Term)
		return false
	}
	c.cancel = nil

	kind := Failure(o.Err)
	c.state.Loading = false
	if kind == NoFailure {
		c.state.Movies = o.Movies
		c.state.ErrorMessage = ""
		c.logger.Info("search completed",
			"request_id", o.RequestID, "term", o.Term,
			"movies", len(o.Movies), "elapsed", o.Elapsed)
		return true
	}

	c.state.Movies = []movie.Record{}
	c.state.ErrorMessage = kind.Message()
	c.logger.Warn("search failed",
		"request_id", o.RequestID, "term", o.Term,
		"outcome", kind.String(), "error", o.Err, "elapsed", o.Elapsed)
	return true
}

// SearchSync runs a full request cycle on the calling goroutine.
func (c *Controller) SearchSync(ctx context.Context, term string) State {
	c.Apply(c.Search(ctx, term)())
	return c.state
}

// Close cancels any request still in flight. Outcomes arriving afterwards
// are discarded by Apply.
func (c *Controller) Close() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.seq++
}
