package screen

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ahmadqo/student-course-roster/internal/model"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// RenderStudents tabel siswa: id, nama, tanggal lahir (DD-MM-YYYY), jumlah course
func RenderStudents(w io.Writer, students []model.Student) error {
	if len(students) == 0 {
		_, err := fmt.Fprintln(w, "No students yet")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tDATE OF BIRTH\tCOURSES")
	for _, st := range students {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", st.ID, st.Name, st.DateOfBirth.FormatDisplay(), len(st.CourseIDs))
	}
	return tw.Flush()
}

// RenderCourses tabel course dengan ringkasan jumlah siswa
func RenderCourses(w io.Writer, courses []model.Course) error {
	if len(courses) == 0 {
		_, err := fmt.Fprintln(w, "No courses yet")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCOURSE\tSTUDENTS")
	for _, c := range courses {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.CourseName, model.EnrollmentSummary(len(c.StudentIDs)))
	}
	return tw.Flush()
}

// RenderDetail nama course lalu tabel Name / Date of Birth
func RenderDetail(w io.Writer, d *CourseDetail) error {
	fmt.Fprintf(w, "Course Name: %s\n", d.CourseName)
	fmt.Fprintln(w, d.Summary())
	if len(d.Rows) == 0 {
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "Name\tDate of Birth")
	for _, row := range d.Rows {
		fmt.Fprintf(tw, "%s\t%s\n", row.Name, row.DateOfBirth)
	}
	return tw.Flush()
}
