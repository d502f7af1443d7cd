package mysql

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/goevexx/toggl-invoiceninja-sync/internal/domain"
)

// Journal implements ports.Journal by appending audit rows to MySQL.
// It is strictly write-only for the reconciler; nothing in a run reads
// the table back.
type Journal struct {
	db  *sql.DB
	log *slog.Logger
}

// NewJournal opens a MySQL connection using the provided DSN.
// Example DSN: user:pass@tcp(host:3306)/dbname?parseTime=true
func NewJournal(ctx context.Context, dsn string, log *slog.Logger) (*Journal, error) {
	if dsn == "" {
		return nil, errors.New("mysql: DSN is required")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	// Conservative pool defaults; a batch run writes from one goroutine.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db, log: log}, nil
}

// Record appends one audit row.
func (j *Journal) Record(ctx context.Context, entry domain.JournalEntry) error {
	const q = `
INSERT INTO sync_journal
  (run_id, operation, workspace_id, subject_id, task_id, action, detail, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err := j.db.ExecContext(
		ctx,
		q,
		entry.RunID,
		entry.Operation,
		entry.WorkspaceID,
		entry.SubjectID,
		entry.TaskID,
		entry.Action,
		entry.Detail,
		time.Now().UTC(),
	)
	return err
}

func (j *Journal) Close() error {
	return j.db.Close()
}
