package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwrobel/budzetnik/internal/config"
	"github.com/jwrobel/budzetnik/internal/database"
	"github.com/jwrobel/budzetnik/internal/database/repository"
	"github.com/jwrobel/budzetnik/internal/i18n"
	"github.com/jwrobel/budzetnik/internal/mirror"
	"github.com/jwrobel/budzetnik/internal/oracle"
	"github.com/jwrobel/budzetnik/internal/service"
	"github.com/jwrobel/budzetnik/internal/state"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app holds everything the commands share. Repos are nil in mirror-only
// mode; commands that need the database answer db_required instead of
// failing.
type app struct {
	cfg config.Config
	log zerolog.Logger

	db     *sql.DB
	store  *state.Store
	ledger mirror.Ledger

	users     *repository.UserRepo
	expenses  *repository.ExpenseRepo
	budgets   *repository.BudgetRepo
	recurring *repository.RecurringRepo
	incomes   *repository.IncomeRepo

	controller *service.Controller
	committer  *service.Committer
	syncer     *service.Syncer
	recurrer   *service.Recurrer
	reporter   *service.Reporter
	manager    *service.Manager

	requesterID int64

	closers []func() error
}

func (a *app) setup(ctx context.Context, verbose bool, requesterOverride int64) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).With().Timestamp().Logger()

	i18n.SetLanguage(cfg.Locale.Language)

	a.requesterID = cfg.Auth.RequesterID
	if requesterOverride != 0 {
		a.requesterID = requesterOverride
	}
	if a.requesterID == 0 {
		a.requesterID = 1 // local single-user default
	}

	if err := os.MkdirAll(filepath.Dir(cfg.State.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir state dir: %w", err)
	}
	a.store, err = state.Open(cfg.State.Path)
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	a.closers = append(a.closers, a.store.Close)

	if cfg.Database.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return fmt.Errorf("mkdir db dir: %w", err)
		}
		if err := database.RunMigrations(cfg.Database.Path, cfg.Database.MigrationsPath); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		db, err := database.Open(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.db = db

		a.users = repository.NewUserRepo(db)
		a.expenses = repository.NewExpenseRepo(db)
		a.budgets = repository.NewBudgetRepo(db)
		a.recurring = repository.NewRecurringRepo(db)
		a.incomes = repository.NewIncomeRepo(db)

		// a stored per-user preference beats the config default
		if lang, err := a.users.Language(ctx, a.requesterID); err == nil && lang != "" {
			i18n.SetLanguage(lang)
		}
	} else {
		a.log.Warn().Msg("no database configured, running mirror-only")
	}

	if cfg.Sheets.SpreadsheetID != "" {
		ledger, err := mirror.NewSheets(ctx, cfg.Sheets)
		if err != nil {
			// degrade rather than die: commits stay unsynced until the
			// mirror comes back
			a.log.Error().Err(err).Msg("mirror unavailable")
		} else {
			a.ledger = ledger
		}
	}
	if a.expenses == nil && a.ledger == nil {
		return fmt.Errorf("neither database.path nor sheets.spreadsheet_id is configured")
	}

	a.committer = &service.Committer{
		Users: a.users, Expenses: a.expenses, Mirror: a.ledger, State: a.store, Log: a.log,
	}
	a.controller = &service.Controller{
		Oracle: oracle.New(cfg.ResolveAPIKey(), cfg.OpenAI.Model,
			time.Duration(cfg.OpenAI.TimeoutSeconds)*time.Second),
		State:     a.store,
		Committer: a.committer,
		Incomes:   a.incomes,
		Users:     a.users,
		AllowedID: cfg.Auth.RequesterID,
		Log:       a.log,
	}
	a.syncer = &service.Syncer{Expenses: a.expenses, Mirror: a.ledger, Log: a.log}
	a.recurrer = &service.Recurrer{Rules: a.recurring, Expenses: a.expenses, Log: a.log}
	if a.expenses != nil {
		a.reporter = &service.Reporter{
			Users: a.users, Expenses: a.expenses, Budgets: a.budgets, Incomes: a.incomes,
		}
		a.manager = &service.Manager{Users: a.users, Budgets: a.budgets, Recurring: a.recurring}
	}
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn().Err(err).Msg("close")
		}
	}
}

// requireDB reports whether database-backed commands can run.
func (a *app) requireDB() bool { return a.reporter != nil }
