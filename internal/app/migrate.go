package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/podium/backend/internal/config"
	"github.com/podium/backend/internal/db"
)

// migrationLedger records which collection-table migrations the Postgres
// document store has already received.
const migrationLedger = "podium_migrations"

const (
	migrationAttempts    = 3
	migrationBaseBackoff = 100 * time.Millisecond
	migrationMaxBackoff  = 3 * time.Second
)

// SQLSTATEs worth another attempt: serialization_failure, deadlock_detected
// and lock_not_available.
var retryablePgErrorCodes = []string{"40001", "40P01", "55P03"}

// runMigrations prepares the Postgres collection tables. Mongo and memory
// stores create collections on first write and are left alone.
func runMigrations(ctx context.Context, args []string, out io.Writer) error {
	command := "up"
	if len(args) > 0 {
		command = args[0]
	}
	switch command {
	case "up", "status":
	case "down":
		return errors.New("collection tables are never dropped by migrate; drop them by hand")
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}

	cfg, logger, err := bootstrap(os.Stderr)
	if err != nil {
		return err
	}
	if cfg.Store.Driver != config.DriverPostgres {
		fmt.Fprintf(out, "%s document store needs no migrations\n", cfg.Store.Driver)
		return nil
	}

	dir, names, err := pendingMigrationFiles(cfg.Store.MigrationDir)
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	applied, err := appliedMigrations(ctx, conn)
	if err != nil {
		return err
	}

	if command == "status" {
		for _, name := range names {
			state := "pending"
			if applied[name] {
				state = "applied"
			}
			fmt.Fprintf(out, "%-8s %s\n", state, name)
		}
		return nil
	}

	var ran int
	for _, name := range names {
		if applied[name] {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read collection migration %s: %w", name, err)
		}
		if err := applyMigrationWithRetry(ctx, conn, logger, name, string(contents)); err != nil {
			return err
		}
		fmt.Fprintf(out, "collection tables migrated: %s\n", name)
		ran++
	}
	if ran == 0 {
		fmt.Fprintln(out, "collection tables are up to date")
	}
	return nil
}

// pendingMigrationFiles resolves dir against the working directory and lists
// its .sql files in apply order.
func pendingMigrationFiles(dir string) (string, []string, error) {
	if !filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return "", nil, fmt.Errorf("determine working directory: %w", err)
		}
		dir = filepath.Join(wd, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", nil, fmt.Errorf("read collection migrations in %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".sql") {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)
	return dir, names, nil
}

func appliedMigrations(ctx context.Context, conn *pgxpool.Conn) (map[string]bool, error) {
	if _, err := conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+migrationLedger+` (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		return nil, fmt.Errorf("ensure %s: %w", migrationLedger, err)
	}

	rows, err := conn.Query(ctx, `SELECT version FROM `+migrationLedger)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", migrationLedger, err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", migrationLedger, err)
	}

	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

func applyMigrationWithRetry(ctx context.Context, conn *pgxpool.Conn, logger *slog.Logger, name, contents string) error {
	var err error
	for attempt := 1; attempt <= migrationAttempts; attempt++ {
		if attempt > 1 {
			timer := time.NewTimer(migrationBackoff(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		err = applyMigration(ctx, conn, name, contents)
		if err == nil || !shouldRetryMigration(err) {
			return err
		}
		logger.Warn("transient error migrating collection tables",
			"migration", name, "attempt", attempt, "of", migrationAttempts, "error", err)
	}
	return fmt.Errorf("%w (gave up after %d attempts)", err, migrationAttempts)
}

// applyMigration runs one file and records it in the ledger inside a single
// serializable transaction.
func applyMigration(ctx context.Context, conn *pgxpool.Conn, name, contents string) error {
	tx, err := conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin collection migration %s: %w", name, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, contents); err != nil {
		return fmt.Errorf("collection migration %s: %w", name, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO `+migrationLedger+` (version) VALUES ($1)`, name); err != nil {
		return fmt.Errorf("record collection migration %s: %w", name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit collection migration %s: %w", name, err)
	}
	return nil
}

// migrationBackoff doubles from the base delay for each retry, capped at the max.
func migrationBackoff(attempt int) time.Duration {
	backoff := migrationBaseBackoff << (attempt - 2)
	if backoff <= 0 || backoff > migrationMaxBackoff {
		return migrationMaxBackoff
	}
	return backoff
}

func shouldRetryMigration(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, pgx.ErrTxClosed) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && slices.Contains(retryablePgErrorCodes, pgErr.Code)
}
