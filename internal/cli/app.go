// Package cli holds the dependencies shared by the tabshell commands.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/bnema/tabshell/internal/cli/styles"
	"github.com/bnema/tabshell/internal/domain/build"
	"github.com/bnema/tabshell/internal/domain/repository"
	"github.com/bnema/tabshell/internal/infrastructure/config"
	"github.com/bnema/tabshell/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/tabshell/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config        *config.Config
	ConfigManager *config.Manager
	Theme         *styles.Theme
	BuildInfo     build.Info
	History       repository.HistoryRepository

	db      *sql.DB
	logFile *logging.FileWriter
	ctx     context.Context
}

// Options tune NewApp.
type Options struct {
	// LogToFile sends logs to the rotated log file instead of stderr, for
	// commands that take over the terminal.
	LogToFile bool
}

// NewApp loads the configuration, sets up logging and opens the database.
func NewApp(opts Options) (*App, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("create config manager: %w", err)
	}
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()

	app := &App{
		Config:        cfg,
		ConfigManager: mgr,
		Theme:         styles.NewTheme(),
	}

	logger, err := app.newLogger(cfg, opts)
	if err != nil {
		return nil, err
	}
	app.ctx = logging.WithContext(context.Background(), logger)

	db, err := sqlite.NewConnection(app.ctx, cfg.Database.Path)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	app.db = db
	app.History = sqlite.NewHistoryRepository(db)
	logger.Debug().Str("db_path", cfg.Database.Path).Msg("database connected")

	return app, nil
}

func (a *App) newLogger(cfg *config.Config, opts Options) (zerolog.Logger, error) {
	level := cfg.Logging.Level
	if env := os.Getenv("TABSHELL_LOG_LEVEL"); env != "" {
		level = env
	}
	logCfg := logging.Config{
		Level:      logging.ParseLevel(level),
		Format:     cfg.Logging.Format,
		TimeFormat: "15:04:05",
	}

	if !opts.LogToFile {
		return logging.New(logCfg), nil
	}

	dir := cfg.Logging.LogDir
	if dir == "" {
		var err error
		if dir, err = config.GetLogDir(); err != nil {
			return zerolog.Logger{}, fmt.Errorf("resolve log dir: %w", err)
		}
	}
	w, err := logging.NewFileWriter(dir, "tabshell.log", cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups)
	if err != nil {
		return zerolog.Logger{}, err
	}
	a.logFile = w
	logCfg.Output = io.Writer(w)
	return logging.New(logCfg), nil
}

// Close releases all resources.
func (a *App) Close() error {
	var err error
	if a.db != nil {
		err = sqlite.Close(a.db)
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
	return err
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}
