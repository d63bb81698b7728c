// Package storage defines the Storage interface — a contract that any
// database backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// Handlers (command layer) and the notifier should not know or care
// which database they are talking to. By depending only on this
// interface:
//
//   - Switching databases = implement the interface for the new DB,
//     change one line in main.go. Zero handler changes.
//
//   - Writing tests = pass a fake that satisfies the interface.
//     No real database needed for unit tests.
//
// This is the Dependency Inversion Principle in practice.
package storage

import (
	"errors"
	"time"

	"github.com/aanand-mishra/birthday-bot/internal/types"
)

// Sentinel errors returned by Storage implementations.
//
// Callers match them with errors.Is, never by string comparison:
//
//	if errors.Is(err, storage.ErrNotFound) { ... }
var (
	// ErrNotFound — no birthday record exists for the given user.
	ErrNotFound = errors.New("no birthday found for user")

	// ErrConflict — a create collided with an existing record.
	// At most one record per user is a hard invariant, enforced by the
	// primary key in the underlying store.
	ErrConflict = errors.New("birthday already set for user")
)

// Storage is the database contract.
// Any concrete type that implements ALL of these methods automatically
// satisfies this interface — Go does this implicitly (no "implements"
// keyword required).
type Storage interface {
	// CreateBirthday inserts a new birthday record.
	// Returns ErrConflict if the user already has one.
	CreateBirthday(b types.Birthday) error

	// GetBirthdayByUserID fetches a single record by user ID.
	// Returns ErrNotFound if the user has no birthday set.
	GetBirthdayByUserID(userID uint64) (types.Birthday, error)

	// GetBirthdays returns every stored record, unordered as delivered
	// by the database. Returns an empty slice (not nil) when there are
	// no records; callers do their own grouping and sorting.
	GetBirthdays() ([]types.Birthday, error)

	// UpdateBirthday replaces the birthday date of an existing record,
	// leaving the stored name untouched.
	// Returns ErrNotFound if the user has no birthday set.
	UpdateBirthday(userID uint64, newDate time.Time) error

	// DeleteBirthday removes a record permanently. Deleting a user who
	// has no record is not an error — the operation is idempotent.
	DeleteBirthday(userID uint64) error

	// GetBirthdaysDueOn returns every record whose stored month and day
	// equal the reference date's month and day, regardless of year.
	GetBirthdaysDueOn(ref time.Time) ([]types.Birthday, error)
}
