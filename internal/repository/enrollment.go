package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ahmadqo/student-course-roster/internal/model"
)

// MaxPerPage batas atas per_page untuk semua list
const MaxPerPage = 100

func NormalizePage(page, perPage int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// uniqueIDs membuang duplikat dan uuid.Nil dengan urutan tetap
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// replaceCourseRoster mengganti seluruh siswa di sebuah course
func replaceCourseRoster(ctx context.Context, tx *sqlx.Tx, courseID uuid.UUID, studentIDs []uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM enrollments WHERE course_id = ?"), courseID); err != nil {
		return fmt.Errorf("failed to clear roster: %w", err)
	}
	for _, studentID := range uniqueIDs(studentIDs) {
		if _, err := tx.ExecContext(ctx,
			tx.Rebind("INSERT INTO enrollments (course_id, student_id) VALUES (?, ?)"),
			courseID, studentID,
		); err != nil {
			return fmt.Errorf("failed to enroll student %s: %w", studentID, err)
		}
	}
	return nil
}

// replaceStudentCourses mengganti seluruh course yang diikuti seorang siswa
func replaceStudentCourses(ctx context.Context, tx *sqlx.Tx, studentID uuid.UUID, courseIDs []uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM enrollments WHERE student_id = ?"), studentID); err != nil {
		return fmt.Errorf("failed to clear enrollments: %w", err)
	}
	for _, courseID := range uniqueIDs(courseIDs) {
		if _, err := tx.ExecContext(ctx,
			tx.Rebind("INSERT INTO enrollments (course_id, student_id) VALUES (?, ?)"),
			courseID, studentID,
		); err != nil {
			return fmt.Errorf("failed to enroll in course %s: %w", courseID, err)
		}
	}
	return nil
}

// enrollmentsBy mengambil baris enrollments dengan kolom column IN ids
func enrollmentsBy(ctx context.Context, db *sqlx.DB, column string, ids []uuid.UUID) ([]model.Enrollment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf(`
		SELECT course_id, student_id FROM enrollments
		WHERE %s IN (?)
		ORDER BY enrolled_at ASC, course_id ASC, student_id ASC
	`, column), ids)
	if err != nil {
		return nil, err
	}

	var rows []model.Enrollment
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func attachCourseIDs(ctx context.Context, db *sqlx.DB, students []*model.Student) error {
	ids := make([]uuid.UUID, 0, len(students))
	byID := make(map[uuid.UUID]*model.Student, len(students))
	for _, s := range students {
		s.CourseIDs = []uuid.UUID{}
		ids = append(ids, s.ID)
		byID[s.ID] = s
	}

	rows, err := enrollmentsBy(ctx, db, "student_id", ids)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if s, ok := byID[row.StudentID]; ok {
			s.CourseIDs = append(s.CourseIDs, row.CourseID)
		}
	}
	return nil
}

func attachStudentIDs(ctx context.Context, db *sqlx.DB, courses []*model.Course) error {
	ids := make([]uuid.UUID, 0, len(courses))
	byID := make(map[uuid.UUID]*model.Course, len(courses))
	for _, c := range courses {
		c.StudentIDs = []uuid.UUID{}
		ids = append(ids, c.ID)
		byID[c.ID] = c
	}

	rows, err := enrollmentsBy(ctx, db, "course_id", ids)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if c, ok := byID[row.CourseID]; ok {
			c.StudentIDs = append(c.StudentIDs, row.StudentID)
		}
	}
	return nil
}
