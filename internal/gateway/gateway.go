// Package gateway is the Persistence Gateway: owner-scoped CRUD over the
// hosted relational backend's tables.
package gateway

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

var (
	// ErrNotFound is returned when no row matches the id within the owner's scope.
	ErrNotFound = errors.New("gateway: record not found")
	// ErrConflict is returned for unique constraint violations.
	ErrConflict = errors.New("gateway: record conflicts with an existing one")
	// ErrInvalidReference is returned when a foreign key points nowhere.
	ErrInvalidReference = errors.New("gateway: referenced record does not exist")
)

// Observer receives one call per gateway operation.
type Observer interface {
	ObserveGatewayCall(table, op string, elapsed time.Duration, err error)
}

// Gateway implements the per-table CRUD contract on a database/sql handle.
type Gateway struct {
	db       *sql.DB
	driver   string
	observer Observer
	now      func() time.Time
}

// Open opens a database handle for driver ("pgx" or "sqlite") and pings it.
// SQLite databases get their pragmas and schema applied.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if driver == "sqlite" {
		// Pragmas and in-memory databases are per connection.
		db.SetMaxOpenConns(1)
		pragmas := []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA busy_timeout=5000",
			"PRAGMA foreign_keys=ON",
		}
		for _, p := range pragmas {
			if _, err := db.ExecContext(ctx, p); err != nil {
				db.Close()
				return nil, fmt.Errorf("setting pragma %q: %w", p, err)
			}
		}
		if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return db, nil
}

// New wraps an open handle. driver selects the placeholder style.
func New(db *sql.DB, driver string) *Gateway {
	return &Gateway{db: db, driver: driver, now: func() time.Time { return time.Now().UTC() }}
}

// WithObserver attaches an Observer and returns the gateway.
func (g *Gateway) WithObserver(o Observer) *Gateway {
	g.observer = o
	return g
}

// DB returns the underlying handle.
func (g *Gateway) DB() *sql.DB {
	return g.db
}

// Ping checks the backend is reachable.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.db.PingContext(ctx)
}

// rebind rewrites '?' placeholders to $n for Postgres.
func (g *Gateway) rebind(query string) string {
	if g.driver == "sqlite" {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// track starts timing a call; the returned func reports *err once the call returns.
func (g *Gateway) track(table, op string, err *error) func() {
	start := time.Now()
	return func() {
		if g.observer != nil {
			g.observer.ObserveGatewayCall(table, op, time.Since(start), *err)
		}
	}
}

func newID() string {
	return uuid.NewString()
}

// classify maps driver errors onto the gateway's sentinel errors.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
		case "23503":
			return fmt.Errorf("%w: %s", ErrInvalidReference, pgErr.ConstraintName)
		}
		return err
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint"):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case strings.Contains(msg, "foreign key constraint"):
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	return err
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func strPtrValue(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
