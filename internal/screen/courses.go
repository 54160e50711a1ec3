package screen

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/ahmadqo/student-course-roster/internal/model"
)

// CoursesScreen daftar course dengan form dan detail roster
type CoursesScreen struct {
	api API
	log *log.Logger

	Students []model.Student
	Courses  []model.Course
	// Form dan Detail nil berarti tertutup
	Form   *CourseForm
	Detail *CourseDetail
}

func NewCoursesScreen(api API, logger *log.Logger) *CoursesScreen {
	return &CoursesScreen{
		api:      api,
		log:      defaultLogger(logger),
		Students: []model.Student{},
		Courses:  []model.Course{},
	}
}

// Fetch memuat siswa dan course. Masing-masing dipertahankan jika gagal.
func (s *CoursesScreen) Fetch(ctx context.Context) error {
	return errors.Join(s.fetchStudents(ctx), s.fetchCourses(ctx))
}

func (s *CoursesScreen) fetchStudents(ctx context.Context) error {
	students, err := s.api.ListStudents(ctx)
	if err != nil {
		s.log.Printf("Error fetching students: %v", err)
		return err
	}
	s.Students = students
	return nil
}

func (s *CoursesScreen) fetchCourses(ctx context.Context) error {
	courses, err := s.api.ListCourses(ctx)
	if err != nil {
		s.log.Printf("Error fetching courses: %v", err)
		return err
	}
	s.Courses = courses
	return nil
}

// Add membuka form course baru tanpa siswa terpilih
func (s *CoursesScreen) Add() {
	s.Form = newCourseForm(nil)
}

// Edit membuka form berisi nama dan roster course
func (s *CoursesScreen) Edit(course model.Course) {
	s.Form = newCourseForm(&course)
}

func (s *CoursesScreen) Cancel() {
	s.Form = nil
}

// Submit PUT jika sedang edit, POST jika tidak. Form selalu ditutup,
// termasuk ketika request gagal.
func (s *CoursesScreen) Submit(ctx context.Context, form CourseForm) error {
	defer func() { s.Form = nil }()

	var err error
	if form.Editing {
		req := form.Request()
		req.ID = &form.CourseID
		_, err = s.api.UpdateCourse(ctx, form.CourseID, req)
	} else {
		_, err = s.api.CreateCourse(ctx, form.Request())
	}
	if err != nil {
		s.log.Printf("Error saving course: %v", err)
		return err
	}

	s.Fetch(ctx)
	return nil
}

// ShowDetail memuat ulang data lalu membuka detail course. Roster diambil
// dari data terbaru jika course masih ada.
func (s *CoursesScreen) ShowDetail(ctx context.Context, course model.Course) {
	s.Fetch(ctx)
	for _, c := range s.Courses {
		if c.ID == course.ID {
			course = c
			break
		}
	}
	s.Detail = NewCourseDetail(course, s.Students)
}

func (s *CoursesScreen) CloseDetail() {
	s.Detail = nil
}

func (s *CoursesScreen) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.api.DeleteCourse(ctx, id); err != nil {
		s.log.Printf("Error deleting course: %v", err)
		return err
	}
	s.fetchCourses(ctx)
	return nil
}

// DetailRow satu baris tabel roster. Known false jika id siswa tidak
// ada di daftar siswa, baris ditampilkan kosong.
type DetailRow struct {
	StudentID   uuid.UUID
	Name        string
	DateOfBirth string
	Known       bool
}

type CourseDetail struct {
	CourseID   uuid.UUID
	CourseName string
	Rows       []DetailRow
}

// NewCourseDetail memetakan setiap studentId course ke data siswa
func NewCourseDetail(course model.Course, students []model.Student) *CourseDetail {
	byID := make(map[uuid.UUID]model.Student, len(students))
	for _, st := range students {
		byID[st.ID] = st
	}

	detail := &CourseDetail{
		CourseID:   course.ID,
		CourseName: course.CourseName,
		Rows:       make([]DetailRow, 0, len(course.StudentIDs)),
	}
	for _, sid := range course.StudentIDs {
		row := DetailRow{StudentID: sid}
		if st, ok := byID[sid]; ok {
			row.Name = st.Name
			row.DateOfBirth = st.DateOfBirth.FormatDisplay()
			row.Known = true
		}
		detail.Rows = append(detail.Rows, row)
	}
	return detail
}

func (d *CourseDetail) Summary() string {
	return model.EnrollmentSummary(len(d.Rows))
}
