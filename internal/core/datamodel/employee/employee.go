package employee

type Employee struct {
	ID          int64  `json:"id"`
	FullName    string `json:"full_name"`
	Rank        string `json:"rank"`
	Position    string `json:"position"`
	Department  string `json:"department"`
	Phone       string `json:"phone"`
	BadgeNumber string `json:"badgeNumber"`
	StartDate   string `json:"startDate"`
	Status      string `json:"status"`
}

// FiredEmployee is the archival copy written when an employee is deleted.
type FiredEmployee struct {
	Employee
	FiredAt string `json:"firedAt"`
	Reason  string `json:"reason"`
}
