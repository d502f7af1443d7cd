package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	in "github.com/goevexx/toggl-invoiceninja-sync/internal/adapter/invoiceninja"
	msql "github.com/goevexx/toggl-invoiceninja-sync/internal/adapter/mysql"
	tg "github.com/goevexx/toggl-invoiceninja-sync/internal/adapter/toggl"
	"github.com/goevexx/toggl-invoiceninja-sync/internal/config"
	"github.com/goevexx/toggl-invoiceninja-sync/internal/ports"
	"github.com/goevexx/toggl-invoiceninja-sync/internal/reference"
	"github.com/goevexx/toggl-invoiceninja-sync/internal/usecase"
)

// App wires adapters and use cases. Every invocation is one batch run
// identified by a fresh run id.
type App struct {
	log     *slog.Logger
	cfg     config.Config
	runID   string
	toggl   *tg.Client
	reports *tg.ReportsClient
	ninja   *in.Client
	journal ports.Journal
	scheme  *reference.Scheme
}

func New(ctx context.Context, log *slog.Logger, cfg config.Config) (*App, error) {
	runID := uuid.NewString()
	log = log.With(slog.String("run_id", runID))

	a := &App{
		log:     log,
		cfg:     cfg,
		runID:   runID,
		toggl:   tg.NewClient(cfg.Toggl.BaseURL, cfg.Toggl.APIToken, cfg.Toggl.DeletePause, log),
		reports: tg.NewReportsClient(cfg.Toggl.BaseURL, cfg.Toggl.APIToken, cfg.Toggl.UserAgent, log),
		ninja:   in.NewClient(cfg.InvoiceNinja.BaseURL, cfg.InvoiceNinja.APIToken, log),
		scheme:  reference.NewScheme(cfg.Sync.RefLabel),
	}

	// The journal is optional; without a DSN the use cases run with a
	// nil journal and record nothing.
	if cfg.Journal.DSN != "" {
		if err := msql.EnsureSchema(ctx, cfg.Journal.DSN, log); err != nil {
			return nil, err
		}
		journal, err := msql.NewJournal(ctx, cfg.Journal.DSN, log)
		if err != nil {
			return nil, err
		}
		a.journal = journal
	}
	return a, nil
}

// Close releases the journal connection, if any.
func (a *App) Close() error {
	if a.journal != nil {
		return a.journal.Close()
	}
	return nil
}

// Log returns the run-scoped logger.
func (a *App) Log() *slog.Logger { return a.log }

// SyncTimings reconciles time entries into tasks. roundMinutes and
// billableOnly override the configured defaults when the CLI passes them.
func (a *App) SyncTimings(ctx context.Context, since, until time.Time, roundMinutes int, billableOnly bool) (usecase.TimingsResult, error) {
	uc := &usecase.SyncTimings{
		Log:     a.log,
		Toggl:   a.toggl,
		Reports: a.reports,
		Ninja:   a.ninja,
		Journal: a.journal,
		Scheme:  a.scheme,
		Mappings: usecase.Mappings{
			Clients:  a.cfg.Mappings.Clients,
			Projects: a.cfg.Mappings.Projects,
			Users:    a.cfg.Mappings.Users,
		},
		RoundMinutes: roundMinutes,
		BillableOnly: billableOnly,
		IgnoreFields: a.cfg.Sync.IgnoreFields,
		RunID:        a.runID,
	}
	return uc.Run(ctx, since, until)
}

// Clean deletes reference tags whose task is gone.
func (a *App) Clean(ctx context.Context) (usecase.CleanResult, error) {
	uc := &usecase.Clean{
		Log:     a.log,
		Toggl:   a.toggl,
		Ninja:   a.ninja,
		Journal: a.journal,
		Scheme:  a.scheme,
		RunID:   a.runID,
	}
	return uc.Run(ctx)
}

// DeleteTasks removes tasks starting in the range and their tags.
func (a *App) DeleteTasks(ctx context.Context, since, until time.Time) (usecase.DeleteResult, error) {
	uc := &usecase.DeleteTasks{
		Log:     a.log,
		Toggl:   a.toggl,
		Ninja:   a.ninja,
		Journal: a.journal,
		Scheme:  a.scheme,
		RunID:   a.runID,
	}
	return uc.Run(ctx, since, until)
}

// Analyze checks the 1:1 link invariant.
func (a *App) Analyze(ctx context.Context, since, until time.Time) ([]usecase.Finding, error) {
	uc := &usecase.Analyze{
		Log:     a.log,
		Toggl:   a.toggl,
		Reports: a.reports,
		Scheme:  a.scheme,
	}
	return uc.Run(ctx, since, until)
}
