package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vocx/internal/models"
	"github.com/desertthunder/vocx/internal/repositories"
	"github.com/desertthunder/vocx/internal/services"
	"github.com/desertthunder/vocx/internal/shared"
	"github.com/desertthunder/vocx/internal/tasks"
	"github.com/desertthunder/vocx/internal/words"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Stores and clients are created on first use from the loaded config unless injected through [RunnerOpts].
type Runner struct {
	config     *shared.Config
	configPath string
	source     services.RangeReader
	target     services.TargetStore
	dictionary services.Dictionary
	runs       *repositories.RunRepository
	pacer      tasks.Pacer
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	db         *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Source     services.RangeReader
	Target     services.TargetStore
	Dictionary services.Dictionary
	Runs       *repositories.RunRepository
	Pacer      tasks.Pacer
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
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		source:     opts.Source,
		target:     opts.Target,
		dictionary: opts.Dictionary,
		runs:       opts.Runs,
		pacer:      opts.Pacer,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, syncCommand, wordsCommand, lookupCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by the runner and every store it creates afterwards.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Close releases the database handle, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// loadConfig reloads the config when --config names a file, then validates it.
//
// A missing default config.toml keeps the current config with VOCX_* overrides applied; an explicitly named missing file is an error.
func (r *Runner) loadConfig(cmd *cli.Command) error {
	path := cmd.String("config")
	loaded := false
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			config, err := shared.LoadConfig(path)
			if err != nil {
				return err
			}
			r.config = config
			r.configPath = path
			loaded = true
		} else if cmd.IsSet("config") {
			return fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		}
	}

	if !loaded {
		if err := shared.ApplyEnv(r.config); err != nil {
			return err
		}
	}

	return r.config.Validate()
}

// engineOptions converts the loaded config into immutable engine options.
func (r *Runner) engineOptions() tasks.Options {
	ranges := make([]models.CellRange, len(r.config.Source.Ranges))
	for i, rc := range r.config.Source.Ranges {
		ranges[i] = models.CellRange{StartRow: rc.StartRow, EndRow: rc.EndRow, StartCol: rc.StartCol, EndCol: rc.EndCol}
	}

	return tasks.Options{
		Ranges:        ranges,
		Headers:       r.config.Target.Headers,
		Pacing:        r.config.Pacing(),
		ProgressEvery: r.config.Sync.ProgressEvery,
		Filter:        words.Filter{ASCIIOnly: r.config.Sync.ASCIIOnly},
	}
}

// newEngine wires a [tasks.SyncEngine] from the source, target and dictionary.
func (r *Runner) newEngine(ctx context.Context) (*tasks.SyncEngine, error) {
	source, err := r.sourceReader(ctx)
	if err != nil {
		return nil, err
	}
	target, err := r.targetStore(ctx)
	if err != nil {
		return nil, err
	}

	return tasks.NewEngine(source, target, r.dictionaryService(), r.engineOptions(), r.pacer, r.logger), nil
}

// sheetsClient builds an authenticated HTTP client from the service account key.
func (r *Runner) sheetsClient(ctx context.Context) (*http.Client, error) {
	return services.NewSheetsClient(ctx, r.config.Credentials.Google.ServiceAccountFile)
}

func (r *Runner) sourceReader(ctx context.Context) (services.RangeReader, error) {
	if r.source != nil {
		return r.source, nil
	}

	client, err := r.sheetsClient(ctx)
	if err != nil {
		return nil, err
	}

	svc := services.NewSheetsService(client, services.SheetsOptions{
		BaseURL:           r.config.Sheets.BaseURL,
		SpreadsheetID:     r.config.Source.SpreadsheetID,
		Sheet:             r.config.Source.Sheet,
		RequestsPerSecond: r.config.Sheets.RequestsPerSecond,
	}, shared.WithLogger(r.logger, "sheet", "source"))

	if err := svc.Open(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrSourceUnavailable, err)
	}
	r.logger.Info("opened source sheet", "spreadsheet", svc.Title(), "sheet", svc.Sheet())

	r.source = svc
	return svc, nil
}

func (r *Runner) targetStore(ctx context.Context) (services.TargetStore, error) {
	if r.target != nil {
		return r.target, nil
	}

	switch r.config.Target.Kind {
	case shared.TargetSQLite:
		db, err := r.database()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrTargetUnavailable, err)
		}
		r.target = repositories.NewVocabularyRepository(db)
		r.logger.Info("opened target database", "path", r.config.Database.Path)
	default:
		client, err := r.sheetsClient(ctx)
		if err != nil {
			return nil, err
		}

		svc := services.NewSheetsService(client, services.SheetsOptions{
			BaseURL:           r.config.Sheets.BaseURL,
			SpreadsheetID:     r.config.Target.SpreadsheetID,
			Sheet:             r.config.Target.Sheet,
			RequestsPerSecond: r.config.Sheets.RequestsPerSecond,
		}, shared.WithLogger(r.logger, "sheet", "target"))

		if err := svc.Open(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrTargetUnavailable, err)
		}
		r.logger.Info("opened target sheet", "spreadsheet", svc.Title(), "sheet", svc.Sheet())
		r.target = svc
	}

	return r.target, nil
}

func (r *Runner) dictionaryService() services.Dictionary {
	if r.dictionary == nil {
		client := &http.Client{Timeout: r.config.DictionaryTimeout(), Transport: r.httpClient.Transport}
		r.dictionary = services.NewDictionaryService(r.config.Dictionary.BaseURL, client, r.logger)
	}
	return r.dictionary
}

func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := repositories.Open(r.config.Database)
	if err != nil {
		return nil, err
	}
	r.db = db
	return db, nil
}

// history returns the run repository. It is optional for syncs, so callers decide how to treat the error.
func (r *Runner) history() (*repositories.RunRepository, error) {
	if r.runs != nil {
		return r.runs, nil
	}

	db, err := r.database()
	if err != nil {
		return nil, fmt.Errorf("failed to open run history: %w", err)
	}
	r.runs = repositories.NewRunRepository(db)
	return r.runs, nil
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
