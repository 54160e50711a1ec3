package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID         uuid.UUID   `db:"id"          json:"id"`
	CourseName string      `db:"course_name" json:"courseName"`
	CreatedAt  time.Time   `db:"created_at"  json:"createdAt"`
	UpdatedAt  time.Time   `db:"updated_at"  json:"updatedAt"`
	StudentIDs []uuid.UUID `db:"-"           json:"studentIds"`
}

// CourseDetail course beserta daftar siswa yang terdaftar
type CourseDetail struct {
	Course
	Students []*Student `json:"students"`
}

type CourseRequest struct {
	ID         *uuid.UUID  `json:"id,omitempty"`
	CourseName string      `json:"courseName"`
	StudentIDs []uuid.UUID `json:"studentIds"`
}

type CourseFilter struct {
	Search    string
	StudentID *uuid.UUID
	Page      int
	PerPage   int
}

// Enrollment satu baris di tabel enrollments
type Enrollment struct {
	CourseID  uuid.UUID `db:"course_id"`
	StudentID uuid.UUID `db:"student_id"`
}

// EnrollmentSummary teks ringkas jumlah siswa di course
func EnrollmentSummary(count int) string {
	if count > 0 {
		return fmt.Sprintf("Enrolled Students: %d", count)
	}
	return "No Students Enrolled Yet"
}
