package dto

// UniversityDTO is the API view of a university. Students and Courses are read-only counts.
type UniversityDTO struct {
	ID        int64  `json:"id"`
	UniName   string `json:"uniName"`
	EstYear   string `json:"estYear"`
	Address   string `json:"address"`
	Status    string `json:"status"`
	AdminName string `json:"adminName"`
	Students  int    `json:"students"`
	Courses   int    `json:"courses"`
}
