package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers the repositories translate into domain errors.
const (
	ErrNumDuplicateEntry  = 1062
	ErrNumNoReferencedRow = 1452
	ErrNumCheckViolated   = 3819
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(user, pass, host, port, name))
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// DSN builds the driver connection string.
// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
func DSN(user, pass, host, port, name string) string {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = pass
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%s", host, port)
	cfg.DBName = name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	// RowsAffected counts matched rows, so an UPDATE that rewrites the same
	// value still reports 1.
	cfg.ClientFoundRows = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// IsDuplicate reports whether err is a unique-key violation.
func IsDuplicate(err error) bool { return hasNumber(err, ErrNumDuplicateEntry) }

// IsMissingReference reports whether err is a foreign-key violation on insert.
func IsMissingReference(err error) bool { return hasNumber(err, ErrNumNoReferencedRow) }

// IsCheckViolation reports whether a CHECK constraint rejected the row.
func IsCheckViolation(err error) bool { return hasNumber(err, ErrNumCheckViolated) }

func hasNumber(err error, n uint16) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == n
}
