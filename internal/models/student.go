package models

import "time"

// Student represents a learner enrolled at a university.
type Student struct {
	ID           int64     `db:"id"`
	StudentID    string    `db:"student_id"`
	FullName     string    `db:"full_name"`
	Email        string    `db:"email"`
	Major        string    `db:"major"`
	Year         string    `db:"year"`
	PhoneNumber  string    `db:"phone_number"`
	UniversityID int64     `db:"university_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
