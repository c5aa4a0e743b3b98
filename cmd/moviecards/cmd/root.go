package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sebastiantruijens/moviecards/internal/config"
	"github.com/sebastiantruijens/moviecards/internal/details"
	"github.com/sebastiantruijens/moviecards/internal/httpx"
	"github.com/sebastiantruijens/moviecards/internal/poster"
	"github.com/sebastiantruijens/moviecards/internal/search"
	"github.com/sebastiantruijens/moviecards/internal/tui"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var (
	cfgFile   string
	homeDir   string
	endpoint  string
	noPosters bool
	verbose   bool

	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "moviecards",
	Short: "Search movies and browse the results as cards",
	Long: `moviecards searches a public movie index and shows the results as a
grid of animated cards in the terminal.

Navigation:
  Tab/Shift+Tab  Move between the search box, the button and the cards
  Enter          Search (box or button) / show details (cards)
  ←↑↓→, hjkl     Move between cards
  o              Open the selected movie in the browser
  Esc            Back / quit
  Ctrl+C         Quit`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = loadConfig(overrides{
			endpoint:  endpoint,
			noPosters: noPosters,
			verbose:   verbose,
		})
		if err != nil {
			return err
		}

		logger, logCloser, err = openLog(cfg)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
	RunE: runTUI,
}

// overrides are settings taken from flags; zero values leave the file's
// settings alone.
type overrides struct {
	endpoint  string
	noPosters bool
	verbose   bool
}

// loadConfig loads the config file and applies flag overrides on top.
func loadConfig(o overrides) (*config.Config, error) {
	c, err := config.Load(cfgFile, homeDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.endpoint != "" {
		c.Search.Endpoint = o.endpoint
	}
	if o.noPosters {
		c.Posters.Enabled = false
	}
	if o.verbose {
		c.Log.Level = "debug"
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := c.EnsureHomeDir(); err != nil {
		return nil, fmt.Errorf("create home directory %s: %w", c.HomeDir, err)
	}
	return c, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openLog returns the diagnostic logger. The TUI owns the terminal, so
// logs go to a file, or nowhere when none is configured.
func openLog(c *config.Config) (*slog.Logger, io.Closer, error) {
	if c.Log.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nopCloser{}, nil
	}
	f, err := os.OpenFile(c.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: c.LogLevel()})
	return slog.New(h), f, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return errors.New("moviecards needs an interactive terminal")
	}

	model := newModel(cfg, logger)
	logger.Info("starting", "version", Version, "endpoint", cfg.Search.Endpoint, "posters", cfg.Posters.Enabled)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && cmd.Context().Err() != nil {
			return cmd.Context().Err()
		}
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// newModel wires the search, detail and poster services into the TUI.
func newModel(c *config.Config, log *slog.Logger) tui.Model {
	client := httpx.NewClient(c.Timeout(), c.Search.UserAgent)

	ctrl := search.NewController(
		search.NewClient(c.Search.Endpoint, client),
		search.Options{FallbackTerm: c.Search.FallbackTerm, Logger: log},
	)

	opts := tui.Options{
		Animation: c.AnimConfig(),
		Details:   details.NewFetcher(client),
		Logger:    log,
	}
	if c.Posters.Enabled {
		opts.Posters = poster.NewRenderer(client, poster.Options{
			Width:        c.Posters.Width,
			Height:       c.Posters.Height,
			RateLimitQPS: c.Posters.RateLimitQPS,
		})
	}
	return tui.New(ctrl, opts)
}

// ExecuteContext runs the root command with the given context, so a
// signal cancels in-flight requests and stops the program.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.moviecards/config.toml)")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "home directory (overrides MOVIECARDS_HOME)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().StringVar(&endpoint, "endpoint", "", "search endpoint URL")
	rootCmd.Flags().BoolVar(&noPosters, "no-posters", false, "show text placeholders instead of poster art")
}
