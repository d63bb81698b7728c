package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aanand-mishra/birthday-bot/internal/config"
	"github.com/aanand-mishra/birthday-bot/internal/storage"
	"github.com/aanand-mishra/birthday-bot/internal/types"
)

// newTestStorage opens a fresh SQLite database in a per-test temp
// directory. t.TempDir is removed automatically when the test ends.
func newTestStorage(t *testing.T) *SQLite {
	t.Helper()

	cfg := &config.Config{StoragePath: filepath.Join(t.TempDir(), "birthdays.db")}

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { s.Db.Close() })

	return s
}

// date builds a midnight-UTC calendar date the way ingestion does.
func date(t *testing.T, s string) time.Time {
	t.Helper()

	d, err := types.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	want := types.Birthday{UserID: 42, Name: "Alice", Birthday: date(t, "15-03-1990")}
	if err := s.CreateBirthday(want); err != nil {
		t.Fatalf("CreateBirthday failed: %v", err)
	}

	got, err := s.GetBirthdayByUserID(42)
	if err != nil {
		t.Fatalf("GetBirthdayByUserID failed: %v", err)
	}

	if got.UserID != want.UserID {
		t.Errorf("user id = %d, want %d", got.UserID, want.UserID)
	}
	if got.Name != want.Name {
		t.Errorf("name = %q, want %q", got.Name, want.Name)
	}
	if !got.Birthday.Equal(want.Birthday) {
		t.Errorf("birthday = %v, want %v", got.Birthday, want.Birthday)
	}
}

func TestGetNotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetBirthdayByUserID(999)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateConflictLeavesRecordUnchanged(t *testing.T) {
	s := newTestStorage(t)

	original := types.Birthday{UserID: 42, Name: "Alice", Birthday: date(t, "15-03-1990")}
	if err := s.CreateBirthday(original); err != nil {
		t.Fatalf("first CreateBirthday failed: %v", err)
	}

	dupe := types.Birthday{UserID: 42, Name: "Mallory", Birthday: date(t, "01-01-2000")}
	err := s.CreateBirthday(dupe)
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// The losing insert must not have touched the stored row.
	got, err := s.GetBirthdayByUserID(42)
	if err != nil {
		t.Fatalf("GetBirthdayByUserID failed: %v", err)
	}
	if got.Name != "Alice" || !got.Birthday.Equal(original.Birthday) {
		t.Errorf("record changed after conflict: %+v", got)
	}
}

func TestUpdatePreservesName(t *testing.T) {
	s := newTestStorage(t)

	if err := s.CreateBirthday(types.Birthday{
		UserID: 42, Name: "Alice", Birthday: date(t, "15-03-1990"),
	}); err != nil {
		t.Fatalf("CreateBirthday failed: %v", err)
	}

	newDate := date(t, "16-04-1991")
	if err := s.UpdateBirthday(42, newDate); err != nil {
		t.Fatalf("UpdateBirthday failed: %v", err)
	}

	got, err := s.GetBirthdayByUserID(42)
	if err != nil {
		t.Fatalf("GetBirthdayByUserID failed: %v", err)
	}
	if got.Name != "Alice" {
		t.Errorf("name = %q, want it preserved as %q", got.Name, "Alice")
	}
	if !got.Birthday.Equal(newDate) {
		t.Errorf("birthday = %v, want %v", got.Birthday, newDate)
	}
}

func TestUpdateNotFound(t *testing.T) {
	s := newTestStorage(t)

	err := s.UpdateBirthday(999, date(t, "01-01-2000"))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStorage(t)

	// Deleting a user who never had a record succeeds silently.
	if err := s.DeleteBirthday(999); err != nil {
		t.Fatalf("delete of absent record failed: %v", err)
	}

	if err := s.CreateBirthday(types.Birthday{
		UserID: 42, Name: "Alice", Birthday: date(t, "15-03-1990"),
	}); err != nil {
		t.Fatalf("CreateBirthday failed: %v", err)
	}

	// Deleting twice has the same observable effect as deleting once.
	if err := s.DeleteBirthday(42); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := s.DeleteBirthday(42); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}

	if _, err := s.GetBirthdayByUserID(42); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGetBirthdaysEmpty(t *testing.T) {
	s := newTestStorage(t)

	got, err := s.GetBirthdays()
	if err != nil {
		t.Fatalf("GetBirthdays failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected an empty non-nil slice")
	}
	if len(got) != 0 {
		t.Fatalf("expected no records, got %d", len(got))
	}
}

func TestGetBirthdaysDueOn(t *testing.T) {
	s := newTestStorage(t)

	records := []types.Birthday{
		{UserID: 1, Name: "Alice", Birthday: date(t, "15-03-1990")},
		{UserID: 2, Name: "Bob", Birthday: date(t, "15-03-2001")}, // same day, other year
		{UserID: 3, Name: "Carol", Birthday: date(t, "16-03-1990")},
		{UserID: 4, Name: "Dave", Birthday: date(t, "15-04-1990")},
	}
	for _, b := range records {
		if err := s.CreateBirthday(b); err != nil {
			t.Fatalf("CreateBirthday(%d) failed: %v", b.UserID, err)
		}
	}

	due, err := s.GetBirthdaysDueOn(time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetBirthdaysDueOn failed: %v", err)
	}

	// Month/day matches regardless of stored year: exactly users 1 and 2.
	got := map[uint64]bool{}
	for _, b := range due {
		got[b.UserID] = true
	}
	if len(due) != 2 || !got[1] || !got[2] {
		t.Errorf("due = %+v, want exactly users 1 and 2", due)
	}

	// A day with no matches yields an empty set, not an error.
	none, err := s.GetBirthdaysDueOn(time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetBirthdaysDueOn failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no due records, got %+v", none)
	}
}
