package screen

import (
	"github.com/google/uuid"

	"github.com/ahmadqo/student-course-roster/internal/model"
)

// StudentForm state form tambah / edit siswa
type StudentForm struct {
	ID          *uuid.UUID
	Name        string
	DateOfBirth model.Date
}

func (f *StudentForm) Title() string {
	if f.ID != nil {
		return "Edit Student"
	}
	return "Add Student"
}

// DisplayDate tanggal lahir format DD-MM-YYYY
func (f *StudentForm) DisplayDate() string {
	return f.DateOfBirth.FormatDisplay()
}

// Valid nama dan tanggal lahir harus terisi
func (f *StudentForm) Valid() bool {
	return f.Name != "" && !f.DateOfBirth.IsZero()
}

// Request body untuk POST / PUT siswa, tanggal dikirim YYYY-MM-DD.
// courseIds tidak dikirim supaya enrollment tidak berubah.
func (f *StudentForm) Request() model.StudentRequest {
	return model.StudentRequest{
		ID:          f.ID,
		Name:        f.Name,
		DateOfBirth: f.DateOfBirth.String(),
	}
}

// CourseForm state form tambah / edit course
type CourseForm struct {
	Editing    bool
	CourseID   uuid.UUID
	CourseName string
	selected   []uuid.UUID
}

func newCourseForm(course *model.Course) *CourseForm {
	if course == nil {
		return &CourseForm{}
	}
	f := &CourseForm{
		Editing:    true,
		CourseID:   course.ID,
		CourseName: course.CourseName,
	}
	for _, id := range course.StudentIDs {
		if !f.IsSelected(id) {
			f.selected = append(f.selected, id)
		}
	}
	return f
}

func (f *CourseForm) Title() string {
	if f.Editing {
		return "Edit Course"
	}
	return "Add Course"
}

func (f *CourseForm) IsSelected(studentID uuid.UUID) bool {
	for _, id := range f.selected {
		if id == studentID {
			return true
		}
	}
	return false
}

// Toggle memilih atau membatalkan pilihan siswa
func (f *CourseForm) Toggle(studentID uuid.UUID) {
	for i, id := range f.selected {
		if id == studentID {
			f.selected = append(f.selected[:i], f.selected[i+1:]...)
			return
		}
	}
	f.selected = append(f.selected, studentID)
}

// Selected id siswa yang dipilih sesuai urutan dipilih
func (f *CourseForm) Selected() []uuid.UUID {
	out := make([]uuid.UUID, len(f.selected))
	copy(out, f.selected)
	return out
}

func (f *CourseForm) Request() model.CourseRequest {
	return model.CourseRequest{
		CourseName: f.CourseName,
		StudentIDs: f.Selected(),
	}
}
