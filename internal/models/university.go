package models

import "time"

// University is a campus record. StudentCount and CourseCount are computed on read.
type University struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	EstYear      string    `db:"est_year"`
	Address      string    `db:"address"`
	Status       Status    `db:"status"`
	AdminName    string    `db:"admin_name"`
	StudentCount int       `db:"student_count"`
	CourseCount  int       `db:"course_count"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
