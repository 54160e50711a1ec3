package screen

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ahmadqo/student-course-roster/internal/client"
	"github.com/ahmadqo/student-course-roster/internal/model"
)

// StudentsScreen daftar siswa dengan form tambah / edit
type StudentsScreen struct {
	api API
	log *log.Logger
	now func() time.Time

	Students []model.Student
	// Form nil berarti form tertutup
	Form *StudentForm
}

func NewStudentsScreen(api API, logger *log.Logger) *StudentsScreen {
	return &StudentsScreen{
		api:      api,
		log:      defaultLogger(logger),
		now:      time.Now,
		Students: []model.Student{},
	}
}

// Fetch memuat ulang daftar siswa. Jika gagal, daftar lama dipertahankan.
func (s *StudentsScreen) Fetch(ctx context.Context) error {
	students, err := s.api.ListStudents(ctx)
	if err != nil {
		s.log.Printf("Error fetching students: %v", err)
		return err
	}
	s.Students = students
	return nil
}

// Add membuka form kosong dengan tanggal hari ini
func (s *StudentsScreen) Add() {
	s.Form = &StudentForm{DateOfBirth: model.DateOf(s.now())}
}

// Edit membuka form berisi data siswa
func (s *StudentsScreen) Edit(student model.Student) {
	id := student.ID
	s.Form = &StudentForm{
		ID:          &id,
		Name:        student.Name,
		DateOfBirth: student.DateOfBirth,
	}
}

// Cancel menutup dan mengosongkan form
func (s *StudentsScreen) Cancel() {
	s.Form = nil
}

// Save mengirim form: PUT jika ada id, POST jika tidak. Setelah berhasil
// daftar dimuat ulang dan form ditutup. Jika gagal form tetap terbuka.
func (s *StudentsScreen) Save(ctx context.Context, form StudentForm) error {
	if !form.Valid() {
		return ErrIncompleteForm
	}

	var err error
	if form.ID != nil {
		_, err = s.api.UpdateStudent(ctx, *form.ID, form.Request())
	} else {
		_, err = s.api.CreateStudent(ctx, form.Request())
	}
	if err != nil {
		s.log.Printf("Error saving student: %v", err)
		return err
	}

	s.Fetch(ctx)
	s.Form = nil
	return nil
}

// Delete menghapus siswa lalu mengeluarkannya dari roster setiap course
// yang diikutinya. Langkah dijalankan berurutan tanpa rollback: jika satu
// langkah gagal, langkah berikutnya tidak dijalankan.
func (s *StudentsScreen) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.deleteCascade(ctx, id); err != nil {
		s.log.Printf("Error deleting student: %v", err)
		return err
	}
	s.Fetch(ctx)
	return nil
}

func (s *StudentsScreen) deleteCascade(ctx context.Context, id uuid.UUID) error {
	student, err := s.api.GetStudent(ctx, id)
	if err != nil {
		return err
	}

	if err := s.api.DeleteStudent(ctx, id); err != nil {
		return err
	}

	for _, courseID := range student.CourseIDs {
		if err := s.removeFromRoster(ctx, courseID, id); err != nil {
			return fmt.Errorf("course %s: %w", courseID, err)
		}
	}
	return nil
}

// removeFromRoster PUT course tanpa studentID. Server biasanya sudah
// membersihkan enrollment, jadi PUT hanya dikirim jika id masih ada.
func (s *StudentsScreen) removeFromRoster(ctx context.Context, courseID, studentID uuid.UUID) error {
	course, err := s.api.GetCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return nil
		}
		return err
	}

	remaining := make([]uuid.UUID, 0, len(course.StudentIDs))
	for _, sid := range course.StudentIDs {
		if sid != studentID {
			remaining = append(remaining, sid)
		}
	}
	if len(remaining) == len(course.StudentIDs) {
		return nil
	}

	_, err = s.api.UpdateCourse(ctx, courseID, model.CourseRequest{
		ID:         &course.ID,
		CourseName: course.CourseName,
		StudentIDs: remaining,
	})
	return err
}
