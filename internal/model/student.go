package model

import (
	"time"

	"github.com/google/uuid"
)

type Student struct {
	ID          uuid.UUID   `db:"id"            json:"id"`
	Name        string      `db:"name"          json:"name"`
	DateOfBirth Date        `db:"date_of_birth" json:"dateOfBirth"`
	PhotoURL    *string     `db:"photo_url"     json:"photoUrl,omitempty"`
	CreatedAt   time.Time   `db:"created_at"    json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at"    json:"updatedAt"`
	CourseIDs   []uuid.UUID `db:"-"             json:"courseIds"`
}

// StudentRequest dipakai untuk create dan update.
// CourseIDs nil berarti enrollment tidak diubah saat update.
type StudentRequest struct {
	ID          *uuid.UUID   `json:"id,omitempty"`
	Name        string       `json:"name"`
	DateOfBirth string       `json:"dateOfBirth"` // format: YYYY-MM-DD
	CourseIDs   *[]uuid.UUID `json:"courseIds,omitempty"`
}

type StudentFilter struct {
	Search   string
	CourseID *uuid.UUID
	Page     int
	PerPage  int
}

// ImportResult ringkasan hasil import siswa dari file XLSX
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
