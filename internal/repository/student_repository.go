package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-api/internal/models"
)

// Email is stored as NULL when blank so the unique index only applies to real addresses.
const studentSelect = `SELECT id, student_id, full_name, COALESCE(email, '') AS email, major, year, phone_number, university_id, created_at, updated_at FROM students`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns every student ordered by id.
func (r *StudentRepository) List(ctx context.Context, exec sqlx.ExtContext) ([]models.Student, error) {
	students := []models.Student{}
	if err := sqlx.SelectContext(ctx, target(r.db, exec), &students, studentSelect+" ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by id.
func (r *StudentRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Student, error) {
	var student models.Student
	if err := sqlx.GetContext(ctx, target(r.db, exec), &student, studentSelect+" WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error {
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	const query = `INSERT INTO students (student_id, full_name, email, major, year, phone_number, university_id, created_at, updated_at)
        VALUES (:student_id, :full_name, NULLIF(:email, ''), :major, :year, :phone_number, :university_id, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, target(r.db, exec), query, student)
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	student.ID = id
	return nil
}

// Update overwrites every mutable column of the student.
func (r *StudentRepository) Update(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET student_id = :student_id, full_name = :full_name, email = NULLIF(:email, ''), major = :major, year = :year, phone_number = :phone_number, university_id = :university_id, updated_at = :updated_at WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, target(r.db, exec), query, student)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a student by id.
func (r *StudentRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	res, err := target(r.db, exec).ExecContext(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return expectAffected(res)
}

// DeleteByUniversity removes every student of a university and reports how many went.
func (r *StudentRepository) DeleteByUniversity(ctx context.Context, exec sqlx.ExtContext, universityID int64) (int64, error) {
	res, err := target(r.db, exec).ExecContext(ctx, "DELETE FROM students WHERE university_id = $1", universityID)
	if err != nil {
		return 0, fmt.Errorf("delete students of university: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted students: %w", err)
	}
	return n, nil
}
