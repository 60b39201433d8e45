package leader

type CreateLeaderDTO struct {
	FullName   string `json:"full_name" validate:"required,max=200"`
	Position   string `json:"position" validate:"required,max=200"`
	Department string `json:"department" validate:"max=100"`
	Photo      string `json:"photo" validate:"omitempty,url"`
	Bio        string `json:"bio" validate:"max=2000"`
	Contacts   string `json:"contacts" validate:"max=500"`
}
