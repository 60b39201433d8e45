package fleet

type Vehicle struct {
	ID           int64  `json:"id"`
	Department   string `json:"department"`
	Type         string `json:"type"`
	Model        string `json:"model"`
	Plate        string `json:"plate"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
	IsLeadership bool   `json:"isLeadership,omitempty"`
}
