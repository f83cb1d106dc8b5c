package sink

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"sjsage522/fashionetl/internal/record"
	"sjsage522/fashionetl/logger"
	"sjsage522/fashionetl/pkg/errors"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

const insertBatchSize = 50

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLConfig holds the relational destination
type SQLConfig struct {
	Driver string
	DSN    string
	Table  string
}

// SQLSink replaces a table with the clean dataset
type SQLSink struct {
	cfg SQLConfig
	log *logger.Logger
}

// NewSQLSink creates a relational sink. Without a DSN every load is skipped.
func NewSQLSink(cfg SQLConfig, log *logger.Logger) *SQLSink {
	if cfg.Driver == "" {
		cfg.Driver = DriverPostgres
	}
	if cfg.Table == "" {
		cfg.Table = "products"
	}
	return &SQLSink{cfg: cfg, log: logger.OrNop(log)}
}

func (s *SQLSink) Name() string { return s.cfg.Driver }

func (s *SQLSink) Load(ctx context.Context, ds record.CleanDataset) Result {
	if s.cfg.DSN == "" {
		return Skipped("no database config provided")
	}
	if !tableNamePattern.MatchString(s.cfg.Table) {
		return Failed(errors.NewSink(s.Name(), fmt.Sprintf("invalid table name %q", s.cfg.Table), nil))
	}

	db, err := sql.Open(s.cfg.Driver, s.cfg.DSN)
	if err != nil {
		return Failed(errors.NewSink(s.Name(), "open failed", err))
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return Failed(errors.NewSink(s.Name(), "connect failed", err))
	}

	if err := withTransaction(ctx, db, func(tx *sql.Tx) error {
		return s.replaceTable(ctx, tx, ds)
	}); err != nil {
		return Failed(errors.NewSink(s.Name(), "write failed", err))
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(s.cfg.Table)).Scan(&count); err != nil {
		return Failed(errors.NewSink(s.Name(), "verify failed", err))
	}
	if count != len(ds) {
		return Failed(errors.NewSink(s.Name(),
			fmt.Sprintf("table %s holds %d rows, expected %d", s.cfg.Table, count, len(ds)), nil))
	}

	target := describeTarget(s.cfg.Driver, s.cfg.DSN)
	s.log.Info().Int("rows", count).Str("table", s.cfg.Table).Str("target", target).Msg("Table replaced")
	return Success(target + "/" + s.cfg.Table)
}

func (s *SQLSink) replaceTable(ctx context.Context, tx *sql.Tx, ds record.CleanDataset) error {
	table := quoteIdent(s.cfg.Table)
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	create := fmt.Sprintf(`CREATE TABLE %s (
		"Title"     TEXT NOT NULL,
		"Price"     DOUBLE PRECISION NOT NULL,
		"Rating"    DOUBLE PRECISION NOT NULL,
		"Colors"    INTEGER NOT NULL,
		"Size"      TEXT NOT NULL,
		"Gender"    TEXT NOT NULL,
		"Timestamp" TEXT NOT NULL
	)`, table)
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	for i := 0; i < len(ds); i += insertBatchSize {
		end := min(i+insertBatchSize, len(ds))
		if err := s.insertBatch(ctx, tx, ds[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLSink) insertBatch(ctx context.Context, tx *sql.Tx, batch record.CleanDataset) error {
	columns := len(record.Columns)
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*columns)

	for idx, r := range batch {
		placeholders := make([]string, columns)
		for c := range placeholders {
			placeholders[c] = s.placeholder(idx*columns + c + 1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs, r.Title, r.Price, r.Rating, r.Colors, r.Size, r.Gender, r.Timestamp)
	}

	quoted := make([]string, columns)
	for i, c := range record.Columns {
		quoted[i] = quoteIdent(c)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		quoteIdent(s.cfg.Table), strings.Join(quoted, ", "), strings.Join(valueStrings, ","))

	if _, err := tx.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

func (s *SQLSink) placeholder(n int) string {
	if s.cfg.Driver == DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func withTransaction(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// describeTarget renders the DSN without credentials
func describeTarget(driver, dsn string) string {
	if driver != DriverPostgres {
		path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
		return path
	}

	if u, err := url.Parse(dsn); err == nil && u.Host != "" {
		return u.Host + u.Path
	}

	fields := make(map[string]string)
	for _, kv := range strings.Fields(dsn) {
		if k, v, ok := strings.Cut(kv, "="); ok {
			fields[k] = strings.Trim(v, `'`)
		}
	}
	host := fields["host"]
	if host == "" {
		host = "localhost"
	}
	port := fields["port"]
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("%s:%s/%s", host, port, fields["dbname"])
}
