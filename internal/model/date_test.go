package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDateFormats(t *testing.T) {
	d := NewDate(2001, time.March, 7)

	if got := d.String(); got != "2001-03-07" {
		t.Errorf("String() = %q, want 2001-03-07", got)
	}
	if got := d.FormatDisplay(); got != "07-03-2001" {
		t.Errorf("FormatDisplay() = %q, want 07-03-2001", got)
	}
}

func TestDateOfDropsClock(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	d := DateOf(time.Date(2020, time.December, 31, 23, 30, 0, 0, loc))
	if d.String() != "2020-12-31" {
		t.Errorf("DateOf kept wrong day: %s", d)
	}
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		DateOfBirth Date `json:"dateOfBirth"`
	}
	if err := json.Unmarshal([]byte(`{"dateOfBirth":"1999-12-01"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.DateOfBirth.Equal(NewDate(1999, time.December, 1).Time) {
		t.Errorf("unexpected date %v", payload.DateOfBirth)
	}

	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"dateOfBirth":"1999-12-01"}` {
		t.Errorf("marshal = %s", out)
	}

	if err := json.Unmarshal([]byte(`{"dateOfBirth":"01/12/1999"}`), &payload); err == nil {
		t.Error("expected error for non ISO date")
	}
}

func TestDateScan(t *testing.T) {
	tests := []struct {
		name string
		src  interface{}
		want string
	}{
		{"nil", nil, ""},
		{"string", "2010-05-06", "2010-05-06"},
		{"bytes", []byte("2010-05-06"), "2010-05-06"},
		{"timestamp string", "2010-05-06 00:00:00+00:00", "2010-05-06"},
		{"time", time.Date(2010, time.May, 6, 12, 0, 0, 0, time.UTC), "2010-05-06"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			if err := d.Scan(tt.src); err != nil {
				t.Fatalf("Scan: %v", err)
			}
			if d.String() != tt.want {
				t.Errorf("got %q, want %q", d.String(), tt.want)
			}
		})
	}

	var d Date
	if err := d.Scan(42); err == nil {
		t.Error("expected error for int source")
	}
}

func TestParseDisplayDate(t *testing.T) {
	d, err := ParseDisplayDate("25-08-2004")
	if err != nil {
		t.Fatalf("ParseDisplayDate: %v", err)
	}
	if d.String() != "2004-08-25" {
		t.Errorf("got %s", d)
	}
}

func TestValidateBirthDate(t *testing.T) {
	if err := ValidateBirthDate(Today()); err != nil {
		t.Errorf("today: %v", err)
	}
	if err := ValidateBirthDate(NewDate(2004, time.January, 2)); err != nil {
		t.Errorf("past: %v", err)
	}
	tomorrow := DateOf(time.Now().AddDate(0, 0, 1))
	if err := ValidateBirthDate(tomorrow); !errors.Is(err, ErrFutureBirthDate) {
		t.Errorf("tomorrow: expected ErrFutureBirthDate, got %v", err)
	}
}
