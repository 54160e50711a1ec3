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

type CourseRepository interface {
	FindAll(ctx context.Context, filter model.CourseFilter) ([]*model.Course, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	Create(ctx context.Context, course *model.Course) error
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

type courseRepository struct {
	db *sqlx.DB
}

func NewCourseRepository(db *sqlx.DB) CourseRepository {
	return &courseRepository{db: db}
}

const courseColumns = `id, course_name, created_at, updated_at`

func (r *courseRepository) FindAll(ctx context.Context, filter model.CourseFilter) ([]*model.Course, int64, error) {
	filter.Page, filter.PerPage = NormalizePage(filter.Page, filter.PerPage)

	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Search != "" {
		conditions = append(conditions, "LOWER(course_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.StudentID != nil {
		conditions = append(conditions, "id IN (SELECT course_id FROM enrollments WHERE student_id = ?)")
		args = append(args, *filter.StudentID)
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx,
		r.db.Rebind("SELECT COUNT(*) FROM courses WHERE "+where), args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	query := r.db.Rebind(`
		SELECT ` + courseColumns + `
		FROM courses
		WHERE ` + where + `
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`)
	args = append(args, filter.PerPage, offset)

	courses := []*model.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, err
	}
	if err := attachStudentIDs(ctx, r.db, courses); err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (r *courseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	var course model.Course
	if err := r.db.GetContext(ctx, &course,
		r.db.Rebind("SELECT "+courseColumns+" FROM courses WHERE id = ?"), id,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := attachStudentIDs(ctx, r.db, []*model.Course{&course}); err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	course.StudentIDs = uniqueIDs(course.StudentIDs)

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO courses (id, course_name, created_at, updated_at)
			VALUES (:id, :course_name, :created_at, :updated_at)
		`
		if _, err := tx.NamedExecContext(ctx, query, course); err != nil {
			return err
		}
		return replaceCourseRoster(ctx, tx, course.ID, course.StudentIDs)
	})
}

// Update menyimpan nama course dan mengganti roster dengan course.StudentIDs
func (r *courseRepository) Update(ctx context.Context, course *model.Course) error {
	course.UpdatedAt = time.Now().UTC()
	course.StudentIDs = uniqueIDs(course.StudentIDs)

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE courses SET course_name = :course_name, updated_at = :updated_at
			WHERE id = :id
		`
		if _, err := tx.NamedExecContext(ctx, query, course); err != nil {
			return err
		}
		return replaceCourseRoster(ctx, tx, course.ID, course.StudentIDs)
	})
}

func (r *courseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM enrollments WHERE course_id = ?"), id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM courses WHERE id = ?"), id)
		return err
	})
}

// ExistingIDs mengembalikan id course yang benar-benar ada dari ids
func (r *courseRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	ids = uniqueIDs(ids)
	found := []uuid.UUID{}
	if len(ids) == 0 {
		return found, nil
	}

	query, args, err := sqlx.In("SELECT id FROM courses WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &found, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return found, nil
}

var _ CourseRepository = (*courseRepository)(nil)
