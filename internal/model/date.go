package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout format tanggal di API dan database
	DateLayout = "2006-01-02"
	// DisplayDateLayout format tanggal yang ditampilkan ke user
	DisplayDateLayout = "02-01-2006"
)

// Date menyimpan tanggal kalender tanpa jam dan zona waktu.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf memotong jam dari t, tanggal diambil dari zona waktu t sendiri.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

var ErrFutureBirthDate = errors.New("tanggal lahir tidak boleh di masa depan")

// ValidateBirthDate menolak tanggal lahir setelah hari ini
func ValidateBirthDate(d Date) error {
	if d.After(Today().Time) {
		return ErrFutureBirthDate
	}
	return nil
}

// ParseDate parse tanggal format YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("format tanggal tidak valid, gunakan YYYY-MM-DD: %w", err)
	}
	return Date{t}, nil
}

// ParseDisplayDate parse tanggal format DD-MM-YYYY
func ParseDisplayDate(s string) (Date, error) {
	t, err := time.Parse(DisplayDateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("format tanggal tidak valid, gunakan DD-MM-YYYY: %w", err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) FormatDisplay() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DisplayDateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("tipe %T tidak bisa dikonversi ke Date", src)
	}
}

func (d *Date) scanString(s string) error {
	// sqlite bisa mengembalikan "YYYY-MM-DD" atau timestamp lengkap
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
