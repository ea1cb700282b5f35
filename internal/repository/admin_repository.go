package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-api/internal/models"
)

const adminSelect = `SELECT id, admin_name, uni_name, role, status, email, students, phone_number, department, admin_status, created_at, updated_at FROM admins`

// AdminRepository manages persistence for administrators.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository constructs an AdminRepository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// List returns every admin ordered by id.
func (r *AdminRepository) List(ctx context.Context, exec sqlx.ExtContext) ([]models.Admin, error) {
	admins := []models.Admin{}
	if err := sqlx.SelectContext(ctx, target(r.db, exec), &admins, adminSelect+" ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

// FindByID loads an admin by id.
func (r *AdminRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Admin, error) {
	var admin models.Admin
	if err := sqlx.GetContext(ctx, target(r.db, exec), &admin, adminSelect+" WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &admin, nil
}

// Create inserts an admin and assigns its id.
func (r *AdminRepository) Create(ctx context.Context, exec sqlx.ExtContext, admin *models.Admin) error {
	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	const query = `INSERT INTO admins (admin_name, uni_name, role, status, email, students, phone_number, department, admin_status, created_at, updated_at)
        VALUES (:admin_name, :uni_name, :role, :status, :email, :students, :phone_number, :department, :admin_status, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, target(r.db, exec), query, admin)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	admin.ID = id
	return nil
}

// Update overwrites every mutable column of the admin.
func (r *AdminRepository) Update(ctx context.Context, exec sqlx.ExtContext, admin *models.Admin) error {
	admin.UpdatedAt = time.Now().UTC()
	const query = `UPDATE admins SET admin_name = :admin_name, uni_name = :uni_name, role = :role, status = :status, email = :email, students = :students, phone_number = :phone_number, department = :department, admin_status = :admin_status, updated_at = :updated_at WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, target(r.db, exec), query, admin)
	if err != nil {
		return fmt.Errorf("update admin: %w", err)
	}
	return expectAffected(res)
}

// Delete removes an admin by id.
func (r *AdminRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	res, err := target(r.db, exec).ExecContext(ctx, "DELETE FROM admins WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	return expectAffected(res)
}
