package dto

// AdminDTO is the API view of an administrator.
type AdminDTO struct {
	ID          int64  `json:"id"`
	AdminName   string `json:"adminName"`
	UniName     string `json:"uniName"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	Email       string `json:"email"`
	Students    int    `json:"students"`
	Phnnum      int64  `json:"phnnum"`
	Department  int    `json:"department"`
	AdminStatus string `json:"adminStatus"`
}
