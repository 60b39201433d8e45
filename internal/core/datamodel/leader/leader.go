package leader

type Leader struct {
	ID         int64  `json:"id"`
	FullName   string `json:"full_name"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Photo      string `json:"photo"`
	Bio        string `json:"bio"`
	Contacts   string `json:"contacts"`
}
