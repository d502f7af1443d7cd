package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// schemaSteps is the ordered journal schema. New statements get the next
// version number and are appended; applied versions are tracked in the
// sync_schema ledger so EnsureSchema is safe to run before every sync.
var schemaSteps = []struct {
	version int
	ddl     string
}{
	{1, `CREATE TABLE IF NOT EXISTS sync_journal (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    run_id CHAR(36) NOT NULL,
    operation VARCHAR(32) NOT NULL,
    workspace_id BIGINT NOT NULL DEFAULT 0,
    subject_id BIGINT NOT NULL DEFAULT 0,
    task_id VARCHAR(64) NOT NULL DEFAULT '',
    action VARCHAR(32) NOT NULL,
    detail TEXT NOT NULL,
    created_at DATETIME(6) NOT NULL,
    KEY idx_sync_journal_run (run_id),
    KEY idx_sync_journal_created (created_at)
) ENGINE=InnoDB;`},
}

// EnsureSchema brings the journal database up to the current schema,
// applying any steps the ledger has not seen yet.
func EnsureSchema(ctx context.Context, dsn string, log *slog.Logger) error {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		return err
	}

	const ledger = `CREATE TABLE IF NOT EXISTS sync_schema (
    version BIGINT PRIMARY KEY,
    applied_at DATETIME(6) NOT NULL
) ENGINE=InnoDB;`
	if _, err := db.ExecContext(ctx, ledger); err != nil {
		return err
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}
	for _, step := range schemaSteps {
		if applied[step.version] {
			continue
		}
		log.Info("applying journal schema step", slog.Int("version", step.version))
		if _, err := db.ExecContext(ctx, step.ddl); err != nil {
			return fmt.Errorf("schema step %d: %w", step.version, err)
		}
		if _, err := db.ExecContext(ctx,
			"INSERT INTO sync_schema(version, applied_at) VALUES(?, ?)",
			step.version, time.Now().UTC()); err != nil {
			return err
		}
	}
	return nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM sync_schema")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	m := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		m[v] = true
	}
	return m, rows.Err()
}
