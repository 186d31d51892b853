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
	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/repositories"
	"github.com/desertthunder/mvx/internal/services"
	"github.com/desertthunder/mvx/internal/session"
	"github.com/desertthunder/mvx/internal/shared"
	"github.com/desertthunder/mvx/internal/tasks"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Collaborators that were not injected are built from the loaded config the
// first time a command needs them.
type Runner struct {
	config     *shared.Config
	configPath string
	service    services.MovieService
	store      repositories.FavoritesStore
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	db         *sql.DB
	sess       *session.Session
	fullPlot   bool
	openMovie  func(models.Movie) (string, error)
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Service    services.MovieService
	Store      repositories.FavoritesStore
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.OMDb.Timeout()}
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		service:    opts.Service,
		store:      opts.Store,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		openMovie:  shared.OpenIMDb,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, searchCommand, showCommand, favoritesCommand, tuiCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by the runner and anything it builds afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Before loads the configuration named by --config and applies the log level.
//
// A missing file at the default path is not an error; the embedded defaults
// are used instead.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if path == "" {
		path = defaultConfigPath
	}

	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
		r.configPath = path
	} else if cmd.IsSet("config") {
		return ctx, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
	}

	level := shared.ParseLogLevel(r.config.Logging.Level)
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	return ctx, nil
}

// After releases the database handle opened during the command, if any.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	return r.Close()
}

// Close closes the favorites database.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// movieService returns the injected service, or the OMDb client described by
// the config behind a circuit breaker when one is configured.
func (r *Runner) movieService() services.MovieService {
	if r.service != nil {
		return r.service
	}

	omdb := services.NewOMDbService(r.config.OMDb, r.httpClient)
	if r.fullPlot {
		omdb = omdb.WithPlot("full")
	}

	var svc services.MovieService = omdb
	if cfg := r.config.OMDb.Breaker; cfg.Enabled() {
		svc = services.NewBreakerService(svc, cfg, r.logger)
	}
	r.service = svc
	return svc
}

// favoritesStore returns the injected store, or one backed by the configured
// SQLite database (migrated on open).
func (r *Runner) favoritesStore() (repositories.FavoritesStore, error) {
	if r.store != nil {
		return r.store, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	r.db = db
	r.store = repositories.NewFavoritesRepository(repositories.NewKVRepository(db))
	r.logger.Debug("opened favorites database", "path", r.config.Database.Path)
	return r.store, nil
}

// session returns an opened session over the movie service and favorites store.
func (r *Runner) session() (*session.Session, error) {
	if r.sess != nil {
		return r.sess, nil
	}

	store, err := r.favoritesStore()
	if err != nil {
		return nil, err
	}

	sess := session.New(r.movieService(), store, r.logger)
	if err := sess.Open(); err != nil {
		return nil, err
	}
	r.sess = sess
	return sess, nil
}

func (r *Runner) engine() *tasks.FavoritesEngine {
	return tasks.NewFavoritesEngine(r.movieService())
}

// refreshOpts reads --workers and --rate, falling back to the export config.
func (r *Runner) refreshOpts(cmd *cli.Command) tasks.RefreshOpts {
	opts := tasks.RefreshOpts{
		NumWorkers: r.config.Export.Workers,
		RateLimit:  r.config.Export.RateLimit,
	}
	if cmd.IsSet("workers") {
		opts.NumWorkers = int(cmd.Int("workers"))
	}
	if cmd.IsSet("rate") {
		opts.RateLimit = cmd.Float("rate")
	}
	return opts
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
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
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
