// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. At the scale this bot serves (hundreds to low thousands of
// birthdays) it is more than fast enough.
//
// Importing the driver package registers the "sqlite3" driver with
// database/sql via its init() function. We also reference it directly
// to recognise constraint-violation error codes.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aanand-mishra/birthday-bot/internal/config"
	"github.com/aanand-mishra/birthday-bot/internal/storage"
	"github.com/aanand-mishra/birthday-bot/internal/types"

	// Registers the "sqlite3" driver as a side effect; also used for
	// sqlite3.Error so conflicts can be told apart from other failures.
	"github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines,
// so command handlers and the notifier share this one handle — no
// per-call open/close, no in-process cache.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at the path specified in cfg.StoragePath,
// creates the birthdays table if it does not already exist, and returns
// a ready-to-use *SQLite.
//
// Naming convention: New() acts as a constructor. Go has no constructors,
// so the community convention is a package-level New() function that
// returns an initialised instance (and an error as the second value).
func New(cfg *config.Config) (*SQLite, error) {
	// sql.Open does NOT open a real connection yet — it just validates
	// the driver name and data source name (DSN).
	// The first actual connection happens on the first query.
	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent — safe to run on every
	// startup. If the table already exists nothing happens.
	//
	// Schema:
	//   user_id  — the platform's 64-bit user identifier, primary key.
	//              One row per user, enforced here, not in Go code.
	//   birthday — epoch seconds of midnight UTC on the birth date
	//   name     — display name shown in embeds and announcements
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS birthdays (
			user_id  INTEGER PRIMARY KEY,
			birthday INTEGER NOT NULL,
			name     TEXT    NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// CreateBirthday inserts a new row into the birthdays table.
//
// user_id is the primary key, so inserting a second birthday for the
// same user fails with a constraint violation from the driver. We
// translate that into storage.ErrConflict so callers don't have to
// know anything about sqlite3 error codes.
//
// Prepared statements use placeholders (?). The database driver sends
// the query and the values separately, so the values are treated as
// pure data, never as SQL syntax — no injection risk.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) CreateBirthday(b types.Birthday) error {
	stmt, err := s.Db.Prepare(
		"INSERT INTO birthdays (user_id, birthday, name) VALUES (?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("CreateBirthday: prepare: %w", err)
	}
	// defer ensures the statement is closed when this function returns,
	// even if we return early due to an error. Prevents resource leaks.
	defer stmt.Close()

	// The date is persisted as epoch seconds of midnight UTC.
	// int64(b.UserID): platform user IDs fit in 63 bits, so the
	// uint64 → INTEGER round trip through SQLite is lossless.
	_, err = stmt.Exec(int64(b.UserID), b.Birthday.UTC().Unix(), b.Name)
	if err != nil {
		if isConstraintErr(err) {
			return fmt.Errorf("CreateBirthday: user %d: %w", b.UserID, storage.ErrConflict)
		}
		return fmt.Errorf("CreateBirthday: exec: %w", err)
	}

	return nil
}

// isConstraintErr reports whether err is the driver's unique/primary-key
// constraint violation.
func isConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// ─────────────────────────────────────────────────────────────────────────────
// GetBirthdayByUserID fetches exactly one record matched by primary key.
//
// QueryRow executes the query and returns a *Row — a single-row result.
// Scan reads the columns from that row into Go variables IN ORDER; the
// order of variables in Scan must match the order of columns in SELECT.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) GetBirthdayByUserID(userID uint64) (types.Birthday, error) {
	stmt, err := s.Db.Prepare(
		"SELECT user_id, birthday, name FROM birthdays WHERE user_id = ? LIMIT 1",
	)
	if err != nil {
		return types.Birthday{}, fmt.Errorf("GetBirthdayByUserID: prepare: %w", err)
	}
	defer stmt.Close()

	var (
		id      int64
		bdaySec int64
		name    string
	)

	// QueryRow returns exactly one row. If the query finds no match the
	// error surfaces only when you call Scan.
	err = stmt.QueryRow(int64(userID)).Scan(&id, &bdaySec, &name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// sql.ErrNoRows is the sentinel for "nothing matched".
			// Translate it into our own sentinel so callers stay
			// decoupled from database/sql.
			return types.Birthday{}, fmt.Errorf("GetBirthdayByUserID: user %d: %w",
				userID, storage.ErrNotFound)
		}
		return types.Birthday{}, fmt.Errorf("GetBirthdayByUserID: scan: %w", err)
	}

	return rowToBirthday(id, bdaySec, name), nil
}

// rowToBirthday converts raw column values back into the model type.
// The stored epoch seconds become a UTC time.Time so month/day reads
// are independent of the host timezone.
func rowToBirthday(id, bdaySec int64, name string) types.Birthday {
	return types.Birthday{
		UserID:   uint64(id),
		Name:     name,
		Birthday: time.Unix(bdaySec, 0).UTC(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetBirthdays returns all records as a slice, unordered as delivered
// by SQLite. Callers (the list command) do their own grouping.
//
// Query (unlike QueryRow) returns *sql.Rows — a cursor over multiple
// rows. We iterate with rows.Next() and Scan each row inside the loop.
// Always defer rows.Close() to release the database connection.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) GetBirthdays() ([]types.Birthday, error) {
	stmt, err := s.Db.Prepare(
		// Explicitly list columns — never use SELECT * in production code.
		// If a column is added later, SELECT * would break Scan's ordering.
		"SELECT user_id, birthday, name FROM birthdays",
	)
	if err != nil {
		return nil, fmt.Errorf("GetBirthdays: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("GetBirthdays: query: %w", err)
	}
	defer rows.Close() // must close rows to free the DB connection

	// Pre-allocate an empty (non-nil) slice so "no records" and
	// "query failed" stay distinguishable for callers.
	birthdays := make([]types.Birthday, 0)

	for rows.Next() { // advances cursor; returns false when exhausted
		var (
			id      int64
			bdaySec int64
			name    string
		)

		if err := rows.Scan(&id, &bdaySec, &name); err != nil {
			return nil, fmt.Errorf("GetBirthdays: scan row: %w", err)
		}

		birthdays = append(birthdays, rowToBirthday(id, bdaySec, name))
	}

	// rows.Err() captures any error that occurred during iteration.
	// This is separate from Scan errors.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetBirthdays: rows iteration: %w", err)
	}

	return birthdays, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateBirthday replaces the birthday date of an existing record.
//
// The name column is simply not mentioned in the UPDATE, so it is
// preserved without a prior read. One statement, atomic in SQLite —
// there is no window where a concurrent delete could make us rewrite
// the row with stale data.
//
// RowsAffected distinguishes "updated" from "no such user": an UPDATE
// that matches zero rows is not an error at the SQL level, so we check
// the count ourselves and return ErrNotFound.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) UpdateBirthday(userID uint64, newDate time.Time) error {
	stmt, err := s.Db.Prepare(
		"UPDATE birthdays SET birthday = ? WHERE user_id = ?",
	)
	if err != nil {
		return fmt.Errorf("UpdateBirthday: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(newDate.UTC().Unix(), int64(userID))
	if err != nil {
		return fmt.Errorf("UpdateBirthday: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateBirthday: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("UpdateBirthday: user %d: %w", userID, storage.ErrNotFound)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// DeleteBirthday removes a record by primary key.
//
// Deliberately no existence check: deleting a user who has no record
// matches zero rows and succeeds. Deleting twice has the same effect
// as deleting once.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) DeleteBirthday(userID uint64) error {
	stmt, err := s.Db.Prepare("DELETE FROM birthdays WHERE user_id = ?")
	if err != nil {
		return fmt.Errorf("DeleteBirthday: prepare: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(int64(userID))
	if err != nil {
		return fmt.Errorf("DeleteBirthday: exec: %w", err)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetBirthdaysDueOn returns every record whose month and day match the
// reference date, regardless of the stored year.
//
// This is a full-table scan filtered in process. SQLite cannot index
// "month and day of an epoch-seconds column" without a computed column,
// and at hundreds to low thousands of rows a scan once a day is free.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) GetBirthdaysDueOn(ref time.Time) ([]types.Birthday, error) {
	all, err := s.GetBirthdays()
	if err != nil {
		return nil, fmt.Errorf("GetBirthdaysDueOn: %w", err)
	}

	due := make([]types.Birthday, 0)
	for _, b := range all {
		if b.DueOn(ref) {
			due = append(due, b)
		}
	}

	return due, nil
}
