package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ahmadqo/student-course-roster/internal/model"
)

type StudentRepository interface {
	FindAll(ctx context.Context, filter model.StudentFilter) ([]*model.Student, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Student, error)
	Create(ctx context.Context, student *model.Student) error
	Update(ctx context.Context, student *model.Student, syncCourses bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdatePhoto(ctx context.Context, id uuid.UUID, photoURL string) error
}

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) StudentRepository {
	return &studentRepository{db: db}
}

const studentColumns = `id, name, date_of_birth, photo_url, created_at, updated_at`

func (r *studentRepository) FindAll(ctx context.Context, filter model.StudentFilter) ([]*model.Student, int64, error) {
	filter.Page, filter.PerPage = NormalizePage(filter.Page, filter.PerPage)

	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Search != "" {
		conditions = append(conditions, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.CourseID != nil {
		conditions = append(conditions, "id IN (SELECT student_id FROM enrollments WHERE course_id = ?)")
		args = append(args, *filter.CourseID)
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := r.db.Rebind("SELECT COUNT(*) FROM students WHERE " + where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	query := r.db.Rebind(`
		SELECT ` + studentColumns + `
		FROM students
		WHERE ` + where + `
		ORDER BY name ASC, id ASC
		LIMIT ? OFFSET ?
	`)
	args = append(args, filter.PerPage, offset)

	students := []*model.Student{}
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, err
	}
	if err := attachCourseIDs(ctx, r.db, students); err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *studentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	var student model.Student
	query := r.db.Rebind("SELECT " + studentColumns + " FROM students WHERE id = ?")
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := attachCourseIDs(ctx, r.db, []*model.Student{&student}); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByIDs mengembalikan siswa yang ditemukan saja, urut nama
func (r *studentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Student, error) {
	ids = uniqueIDs(ids)
	students := []*model.Student{}
	if len(ids) == 0 {
		return students, nil
	}

	query, args, err := sqlx.In("SELECT "+studentColumns+" FROM students WHERE id IN (?) ORDER BY name ASC, id ASC", ids)
	if err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &students, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	if err := attachCourseIDs(ctx, r.db, students); err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) Create(ctx context.Context, student *model.Student) error {
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	student.CourseIDs = uniqueIDs(student.CourseIDs)

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO students (id, name, date_of_birth, photo_url, created_at, updated_at)
			VALUES (:id, :name, :date_of_birth, :photo_url, :created_at, :updated_at)
		`
		if _, err := tx.NamedExecContext(ctx, query, student); err != nil {
			return err
		}
		return replaceStudentCourses(ctx, tx, student.ID, student.CourseIDs)
	})
}

// Update menyimpan nama dan tanggal lahir. Jika syncCourses true,
// enrollment diganti dengan student.CourseIDs dalam transaksi yang sama.
func (r *studentRepository) Update(ctx context.Context, student *model.Student, syncCourses bool) error {
	student.UpdatedAt = time.Now().UTC()

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE students SET
				name = :name, date_of_birth = :date_of_birth, updated_at = :updated_at
			WHERE id = :id
		`
		if _, err := tx.NamedExecContext(ctx, query, student); err != nil {
			return err
		}
		if !syncCourses {
			return nil
		}
		student.CourseIDs = uniqueIDs(student.CourseIDs)
		return replaceStudentCourses(ctx, tx, student.ID, student.CourseIDs)
	})
}

// Delete menghapus siswa, enrollment ikut terhapus lewat ON DELETE CASCADE
// dan juga dihapus eksplisit untuk database tanpa foreign key.
func (r *studentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM enrollments WHERE student_id = ?"), id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM students WHERE id = ?"), id)
		return err
	})
}

func (r *studentRepository) UpdatePhoto(ctx context.Context, id uuid.UUID, photoURL string) error {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE students SET photo_url = ?, updated_at = ? WHERE id = ?"),
		photoURL, time.Now().UTC(), id,
	)
	return err
}

var _ StudentRepository = (*studentRepository)(nil)
