package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-api/internal/models"
)

const courseSelect = `SELECT id, course_code, title, description, credits, university_id, created_at, updated_at FROM courses`

// CourseRepository manages persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns every course ordered by id.
func (r *CourseRepository) List(ctx context.Context, exec sqlx.ExtContext) ([]models.Course, error) {
	courses := []models.Course{}
	if err := sqlx.SelectContext(ctx, target(r.db, exec), &courses, courseSelect+" ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID loads a course by id.
func (r *CourseRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Course, error) {
	var course models.Course
	if err := sqlx.GetContext(ctx, target(r.db, exec), &course, courseSelect+" WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &course, nil
}

// Create inserts a course and assigns its id.
func (r *CourseRepository) Create(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error {
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	const query = `INSERT INTO courses (course_code, title, description, credits, university_id, created_at, updated_at)
        VALUES (:course_code, :title, :description, :credits, :university_id, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, target(r.db, exec), query, course)
	if err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	course.ID = id
	return nil
}

// Update overwrites every mutable column of the course.
func (r *CourseRepository) Update(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET course_code = :course_code, title = :title, description = :description, credits = :credits, university_id = :university_id, updated_at = :updated_at WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, target(r.db, exec), query, course)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a course by id.
func (r *CourseRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	res, err := target(r.db, exec).ExecContext(ctx, "DELETE FROM courses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return expectAffected(res)
}
