package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/huandu/go-sqlbuilder"
	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver, registered as "pgx"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

const defaultDSN = "file:listfeed.db?mode=rwc"

// dialect describes the storage backend selected by DSN
type dialect struct {
	name   string // migrations sub-directory and log name
	driver string // database/sql driver name
	flavor sqlbuilder.Flavor
}

var (
	sqliteDialect   = dialect{name: "sqlite", driver: "sqlite", flavor: sqlbuilder.SQLite}
	postgresDialect = dialect{name: "postgres", driver: "pgx", flavor: sqlbuilder.PostgreSQL}
)

// dialectFor picks the backend by DSN scheme, everything but postgres urls is treated as SQLite
func dialectFor(dsn string) dialect {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return postgresDialect
	}
	return sqliteDialect
}

// sqliteDSN adds the connection parameters every pooled SQLite connection needs.
// Pragmas set with Exec would apply to a single connection only.
func sqliteDSN(dsn string) string {
	params := []string{
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
		"_pragma=journal_mode(WAL)",
		"_pragma=synchronous(NORMAL)",
		"_time_format=sqlite",
	}
	var add []string
	for _, p := range params {
		if !strings.Contains(dsn, strings.SplitN(p, "(", 2)[0]) {
			add = append(add, p)
		}
	}
	if len(add) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(add, "&")
}

// openDB opens and configures the connection pool for the given config
func openDB(ctx context.Context, cfg Config) (*sqlx.DB, dialect, error) {
	if cfg.DSN == "" {
		cfg.DSN = defaultDSN
	}
	d := dialectFor(cfg.DSN)
	dsn := cfg.DSN
	if d == sqliteDialect {
		dsn = sqliteDSN(dsn)
	}

	db, err := sqlx.Open(d.driver, dsn)
	if err != nil {
		return nil, d, fmt.Errorf("open %s database: %w", d.name, err)
	}

	// configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, d, fmt.Errorf("ping %s database: %w", d.name, err)
	}
	return db, d, nil
}
