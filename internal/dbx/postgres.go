package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
)

// SessionSettings are applied to every physical connection the pool opens.
type SessionSettings struct {
	// TimeZone is a fixed UTC offset such as "-08:00".
	TimeZone string
}

// PoolOptions bound the connection pool.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

var offsetPattern = regexp.MustCompile(`^[+-](0\d|1[0-4]):[0-5]\d$`)

// ValidOffset reports whether tz is a "+HH:MM"/"-HH:MM" offset.
func ValidOffset(tz string) bool {
	return offsetPattern.MatchString(tz)
}

// SessionStatements renders the statements that pin a connection's session.
func SessionStatements(s SessionSettings) ([]string, error) {
	if !ValidOffset(s.TimeZone) {
		return nil, fmt.Errorf("invalid time zone offset %q", s.TimeZone)
	}
	return []string{
		"SET standard_conforming_strings = on",
		fmt.Sprintf("SET TIME ZONE INTERVAL '%s' HOUR TO MINUTE", s.TimeZone),
	}, nil
}

type sessionExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func applySession(ctx context.Context, conn sessionExecer, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("pin session (%s): %w", stmt, err)
		}
	}
	return nil
}

// OpenPostgres opens a pgx-backed *sql.DB whose connections are pinned to
// the given session settings as soon as they are established.
func OpenPostgres(dsn string, session SessionSettings, pool PoolOptions) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	stmts, err := SessionStatements(session)
	if err != nil {
		return nil, err
	}

	db := stdlib.OpenDB(*cfg, stdlib.OptionAfterConnect(func(ctx context.Context, conn *pgx.Conn) error {
		return applySession(ctx, conn, stmts)
	}))

	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	return db, nil
}
