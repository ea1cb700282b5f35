package models

import "time"

// Course is a catalogue entry offered by a university.
type Course struct {
	ID           int64     `db:"id"`
	CourseCode   string    `db:"course_code"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	Credits      int       `db:"credits"`
	UniversityID int64     `db:"university_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
