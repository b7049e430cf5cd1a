package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/clickwheel/internal/artwork"
	"github.com/desertthunder/clickwheel/internal/catalog"
	"github.com/desertthunder/clickwheel/internal/models"
	"github.com/desertthunder/clickwheel/internal/repositories"
	"github.com/desertthunder/clickwheel/internal/shared"
	"github.com/desertthunder/clickwheel/internal/wheel"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    *models.Catalog
	opener     wheel.Opener
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	errOutput  io.Writer
	db         *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    *models.Catalog
	Opener     wheel.Opener
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	ErrOutput  io.Writer // progress bars; defaults to stderr
}

// NewRunner creates a new Runner with the provided configuration
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
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}
	if opts.Opener == nil {
		opts.Opener = shared.SystemOpener{}
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		opener:     opts.Opener,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		errOutput:  opts.ErrOutput,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		tuiCommand, genresCommand, playlistsCommand, searchCommand, openCommand, artworkCommand, catalogCommand, serveCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads configuration and the catalog named by the global flags.
//
// A missing config file is not an error; the embedded defaults apply.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err == nil {
			config, err := shared.LoadConfig(r.configPath)
			if err != nil {
				return ctx, err
			}
			r.config = config
		}
	}

	shared.SetLogLevel(r.logger, r.config.Log.ParsedLevel())
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	catalogPath := cmd.String("catalog")
	if catalogPath == "" {
		catalogPath = r.config.Catalog.Path
	}

	if catalogPath != "" || r.catalog == nil {
		c, err := catalog.LoadOrDefault(catalogPath)
		if err != nil {
			return ctx, fmt.Errorf("failed to load catalog: %w", err)
		}
		r.catalog = c
		r.logger.Debug("catalog loaded", "path", catalogPath, "genres", c.Len())
	}

	return ctx, nil
}

// After releases the database connection if a command opened one.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	return r.Close()
}

// Close closes the artwork database.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// SetLogger replaces the logger used by subsequent commands.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// browser builds a [wheel.Browser] over the loaded catalog using the configured timings.
func (r *Runner) browser() *wheel.Browser {
	return wheel.New(r.catalog,
		wheel.WithOpener(r.opener),
		wheel.WithLogger(shared.WithLogger(r.logger, "component", "wheel")),
		wheel.WithTiming(wheel.Timing{Exit: r.config.UI.ExitDuration(), Enter: r.config.UI.EnterDuration()}),
	)
}

// database opens (once) and migrates the artwork cache database.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open artwork cache: %w", err)
	}
	r.db = db
	return db, nil
}

// resolver builds an artwork resolver whose writes are tagged with source.
//
// The remote fetcher is attached only when artwork.fetch is enabled (or forced by fetch).
func (r *Runner) resolver(source string, fetch bool) (*artwork.Resolver, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}

	opts := artwork.ResolverOpts{
		Store:       repositories.NewArtworkRepository(db).WithSource(source),
		Placeholder: r.config.Artwork.Placeholder,
		Logger:      shared.WithLogger(r.logger, "component", "artwork"),
	}

	if fetch || r.config.Artwork.Fetch {
		opts.Fetcher = artwork.NewFetcher(artwork.FetcherOpts{
			Client:        r.httpClient,
			RatePerSecond: r.config.Artwork.RatePerSecond,
			Burst:         r.config.Artwork.Burst,
			Timeout:       r.config.Artwork.Timeout(),
		})
	}

	return artwork.NewResolver(opts), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

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
	text := fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
