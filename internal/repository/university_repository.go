package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-api/internal/models"
)

const universitySelect = `SELECT u.id, u.name, u.est_year, u.address, u.status, u.admin_name,
        (SELECT COUNT(*) FROM students s WHERE s.university_id = u.id) AS student_count,
        (SELECT COUNT(*) FROM courses c WHERE c.university_id = u.id) AS course_count,
        u.created_at, u.updated_at
        FROM universities u`

// UniversityRepository manages persistence for universities.
type UniversityRepository struct {
	db *sqlx.DB
}

// NewUniversityRepository constructs a UniversityRepository.
func NewUniversityRepository(db *sqlx.DB) *UniversityRepository {
	return &UniversityRepository{db: db}
}

// List returns every university ordered by id.
func (r *UniversityRepository) List(ctx context.Context, exec sqlx.ExtContext) ([]models.University, error) {
	universities := []models.University{}
	if err := sqlx.SelectContext(ctx, target(r.db, exec), &universities, universitySelect+" ORDER BY u.id"); err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	return universities, nil
}

// FindByID fetches a university with its live student and course counts.
func (r *UniversityRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.University, error) {
	var university models.University
	if err := sqlx.GetContext(ctx, target(r.db, exec), &university, universitySelect+" WHERE u.id = $1", id); err != nil {
		return nil, err
	}
	return &university, nil
}

// Exists reports whether a university with id is present.
func (r *UniversityRepository) Exists(ctx context.Context, exec sqlx.ExtContext, id int64) (bool, error) {
	var exists int
	if err := sqlx.GetContext(ctx, target(r.db, exec), &exists, "SELECT 1 FROM universities WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check university: %w", err)
	}
	return true, nil
}

// Lock takes a row lock on the university for the rest of the transaction.
func (r *UniversityRepository) Lock(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	var locked int64
	if err := sqlx.GetContext(ctx, target(r.db, exec), &locked, "SELECT id FROM universities WHERE id = $1 FOR UPDATE", id); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("lock university: %w", err)
	}
	return nil
}

// Create inserts a university and assigns its id.
func (r *UniversityRepository) Create(ctx context.Context, exec sqlx.ExtContext, university *models.University) error {
	now := time.Now().UTC()
	university.CreatedAt = now
	university.UpdatedAt = now
	const query = `INSERT INTO universities (name, est_year, address, status, admin_name, created_at, updated_at)
        VALUES (:name, :est_year, :address, :status, :admin_name, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, target(r.db, exec), query, university)
	if err != nil {
		return fmt.Errorf("create university: %w", err)
	}
	university.ID = id
	return nil
}

// Update overwrites every mutable column of the university.
func (r *UniversityRepository) Update(ctx context.Context, exec sqlx.ExtContext, university *models.University) error {
	university.UpdatedAt = time.Now().UTC()
	const query = `UPDATE universities SET name = :name, est_year = :est_year, address = :address, status = :status, admin_name = :admin_name, updated_at = :updated_at WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, target(r.db, exec), query, university)
	if err != nil {
		return fmt.Errorf("update university: %w", err)
	}
	return expectAffected(res)
}

// Delete removes the university row. Callers remove dependent students first.
func (r *UniversityRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	res, err := target(r.db, exec).ExecContext(ctx, "DELETE FROM universities WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete university: %w", err)
	}
	return expectAffected(res)
}
