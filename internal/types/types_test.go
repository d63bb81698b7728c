package types

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "dash separator",
			input: "15-03-1990",
			want:  time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "slash separator accepted",
			input: "15/03/1990",
			want:  time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "wrong field order",
			input:   "1990-03-15",
			wantErr: true,
		},
		{
			name:    "impossible calendar date",
			input:   "31-02-2000",
			wantErr: true,
		},
		{
			name:    "not a date",
			input:   "soon",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q) succeeded, expected an error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) failed: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatDateRoundTrip(t *testing.T) {
	b := Birthday{Birthday: time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC)}

	if got := b.FormatDate(); got != "15-03-1990" {
		t.Errorf("FormatDate() = %q, want %q", got, "15-03-1990")
	}
}

func TestDueOn(t *testing.T) {
	b := Birthday{Birthday: time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC)}

	// The stored year never matters, only month and day.
	if !b.DueOn(time.Date(2024, time.March, 15, 18, 0, 0, 0, time.UTC)) {
		t.Error("expected due on 15 March of a later year")
	}
	if b.DueOn(time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC)) {
		t.Error("not due one day later")
	}
	if b.DueOn(time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)) {
		t.Error("not due on the same day of another month")
	}
}

// Age is days-since-birthday divided by 365, which ignores leap years.
// These cases pin that quirk: a person born on 1 Jan 2000 counts as one
// year old on 31 Dec 2000, because 365 full days have elapsed.
func TestAgeOn(t *testing.T) {
	b := Birthday{Birthday: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		ref  time.Time
		want int64
	}{
		{time.Date(2000, time.June, 1, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2000, time.December, 31, 0, 0, 0, 0, time.UTC), 1}, // 365 days, a day early
		{time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC), 10},
	}

	for _, tt := range tests {
		if got := b.AgeOn(tt.ref); got != tt.want {
			t.Errorf("AgeOn(%s) = %d, want %d", tt.ref.Format("2006-01-02"), got, tt.want)
		}
	}
}
