// Package app wires storage, the board store and its collaborators for one workspace.
package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"kanban/internal/auth"
	"kanban/internal/board"
	"kanban/internal/config"
	"kanban/internal/db"
	"kanban/internal/events"
	"kanban/internal/logging"
	"kanban/internal/migrate"
	"kanban/internal/mockapi"
	"kanban/internal/session"
	"kanban/internal/storage"
)

type Options struct {
	Workspace string
	// Config overrides the workspace's kanban.yml when set.
	Config    *config.Config
	JWTSecret string
	// Logger overrides the logger built from Config.Log.
	Logger *logrus.Logger
}

type App struct {
	Workspace string
	Config    *config.Config
	DB        *sqlx.DB
	Store     *board.Store
	Events    events.Writer
	Boards    storage.BoardRepo
	API       *mockapi.Client
	Log       *logrus.Logger

	secret  string
	closers []io.Closer
}

// Open loads config, migrates the workspace database and loads the board
// store from durable storage.
func Open(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.LoadOptional(opts.Workspace); err != nil {
			return nil, err
		}
	}
	a := &App{Workspace: opts.Workspace, Config: cfg, Log: opts.Logger, secret: opts.JWTSecret}
	if a.Log == nil {
		logger, closer, err := logging.New(cfg.Log, opts.Workspace)
		if err != nil {
			return nil, fmt.Errorf("init logging: %w", err)
		}
		a.Log = logger
		a.closers = append(a.closers, closer)
	}

	conn, err := db.Open(db.Config{Workspace: opts.Workspace})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.DB = conn
	a.closers = append(a.closers, conn)
	if _, err := migrate.Migrate(ctx, conn); err != nil {
		a.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	a.Events = events.Writer{DB: conn}
	a.API = mockapi.New(cfg.API.Delay, cfg.API.FailureRate)
	source := mockapi.WithBreaker(a.API, mockapi.BreakerConfig{
		MaxFailures: cfg.API.Breaker.MaxFailures,
		OpenFor:     cfg.API.Breaker.OpenFor,
		Logger:      a.Log,
	})
	a.Boards = storage.BoardRepo{KV: a.kv()}
	a.Store = board.New(board.Options{
		Source:    source,
		Persister: a.Boards,
		Recorder:  a.Events,
		Logger:    a.Log.WithField("component", "board"),
	})
	if err := a.Store.Load(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("load boards: %w", err)
	}
	return a, nil
}

func (a *App) kv() storage.KV {
	if a.Config.Storage.Driver == storage.DriverFile {
		return storage.File{Dir: filepath.Join(db.Dir(a.Workspace), "storage")}
	}
	return storage.SQLite{DB: a.DB}
}

// Persist writes the current collection to durable storage.
func (a *App) Persist(ctx context.Context) error {
	active := ""
	if b := a.Store.ActiveBoard(); b != nil {
		active = b.ID
	}
	return a.Boards.SaveBoards(ctx, a.Store.Boards(), active)
}

// Auth builds the login service; it needs a JWT secret.
func (a *App) Auth() (*auth.Service, error) {
	if a.secret == "" {
		return nil, fmt.Errorf("KANBAN_JWT_SECRET is required; run kanban auth init-secret")
	}
	return auth.New(auth.Config{
		Secret:     a.secret,
		TTL:        a.Config.Auth.TTL,
		LoginDelay: a.Config.Auth.LoginDelay,
	})
}

// Sessions opens the keyring holding the CLI login.
func (a *App) Sessions() (*session.Store, error) {
	return session.Open(session.Config{
		Backend: a.Config.Auth.Keyring,
		FileDir: filepath.Join(db.Dir(a.Workspace), "keyring"),
	})
}

// LogFile is the configured log file, or "" when logging to stderr.
func (a *App) LogFile() string {
	return logging.FilePath(a.Config.Log, a.Workspace)
}

func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
