package main

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sndx/internal/auth"
	"github.com/desertthunder/sndx/internal/shared"
	"github.com/desertthunder/sndx/internal/soundcloud"
	"github.com/desertthunder/sndx/internal/store"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	store   store.Store
	session *auth.Session
	client  *soundcloud.Client
	logger  *log.Logger
	output  io.Writer
	db      *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Store      store.Store
	Session    *auth.Session
	Client     *soundcloud.Client
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	DB         *sql.DB
}

// NewRunner creates a new Runner with the provided configuration.
//
// Missing dependencies are built from config: an in-memory store when no
// database is available, then a session and an API client on top of it.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		timeout := time.Duration(opts.Config.API.TimeoutSecs) * time.Second
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		opts.HTTPClient = &http.Client{Timeout: timeout}
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
		opts.Logger.Warn("no database available, credentials will not survive this run")
	}

	if opts.Session == nil {
		opts.Session = auth.NewSession(
			opts.Config.Credentials.SoundCloud,
			auth.Endpoints{
				Token:   opts.Config.API.AuthBaseURL + "/oauth/token",
				SignOut: opts.Config.API.AuthBaseURL + "/sign-out",
			},
			opts.Store,
			opts.HTTPClient,
			opts.Logger,
		)
	}

	if opts.Client == nil {
		opts.Client = soundcloud.NewClient(opts.Session, opts.Store, soundcloud.ClientOpts{
			BaseURL:    opts.Config.API.BaseURL,
			HTTPClient: opts.HTTPClient,
			Logger:     opts.Logger,
			PageSize:   opts.Config.API.PageSize,
			RateLimit:  opts.Config.API.RateLimit,
		})
	}

	return &Runner{
		config:  opts.Config,
		store:   opts.Store,
		session: opts.Session,
		client:  opts.Client,
		logger:  opts.Logger,
		output:  opts.Output,
		db:      opts.DB,
	}
}

// SetLogger swaps the Runner's logger (used by the TUI to log to a file).
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, tracksCommand, playlistsCommand, usersCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// writeRaw decodes nothing; dumps already-marshaled bytes with a trailing newline.
func (r *Runner) writeRaw(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		if _, err := r.output.Write([]byte("\n")); err != nil {
			return fmt.Errorf("failed to write newline: %w", err)
		}
	}
	return nil
}
