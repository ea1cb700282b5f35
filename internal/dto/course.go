package dto

// CourseDTO is the API view of a course.
type CourseDTO struct {
	ID           int64  `json:"id"`
	CourseCode   string `json:"courseCode"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Credits      int    `json:"credits"`
	UniversityID int64  `json:"universityId" validate:"required"`
}
