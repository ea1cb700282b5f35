package dto

// StudentDTO is the API view of a student, with the university flattened to its id.
type StudentDTO struct {
	ID           int64  `json:"id"`
	StudentID    string `json:"studentId" validate:"required"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Major        string `json:"major"`
	Year         string `json:"year"`
	PhoneNumber  string `json:"phoneNumber"`
	UniversityID int64  `json:"universityId" validate:"required"`
}
