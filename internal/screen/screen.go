// Package screen berisi controller layar siswa dan course: state list,
// form, dan detail, serta orkestrasi panggilan ke API roster.
// Error dari API di-log dan tidak menghentikan layar.
package screen

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/ahmadqo/student-course-roster/internal/client"
	"github.com/ahmadqo/student-course-roster/internal/model"
)

var ErrIncompleteForm = errors.New("nama dan tanggal lahir wajib diisi")

// API endpoint yang dipakai layar, diimplementasikan oleh *client.Client
type API interface {
	ListStudents(ctx context.Context) ([]model.Student, error)
	GetStudent(ctx context.Context, id uuid.UUID) (*model.Student, error)
	CreateStudent(ctx context.Context, req model.StudentRequest) (*model.Student, error)
	UpdateStudent(ctx context.Context, id uuid.UUID, req model.StudentRequest) (*model.Student, error)
	DeleteStudent(ctx context.Context, id uuid.UUID) error

	ListCourses(ctx context.Context) ([]model.Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*model.Course, error)
	CreateCourse(ctx context.Context, req model.CourseRequest) (*model.Course, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, req model.CourseRequest) (*model.Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error
}

var _ API = (*client.Client)(nil)

func defaultLogger(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return logger
}
