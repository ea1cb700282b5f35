package models

import "time"

// Admin is a university administrator. UniName is free text, not a reference.
type Admin struct {
	ID          int64     `db:"id"`
	AdminName   string    `db:"admin_name"`
	UniName     string    `db:"uni_name"`
	Role        string    `db:"role"`
	Status      Status    `db:"status"`
	Email       string    `db:"email"`
	Students    int       `db:"students"`
	PhoneNumber int64     `db:"phone_number"`
	Department  int       `db:"department"`
	AdminStatus Status    `db:"admin_status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
