package violator

// Record is an entry of the violator database ("database" collection).
type Record struct {
	ID          int64  `json:"id"`
	FullName    string `json:"fullName"`
	BirthDate   string `json:"birthDate"`
	Document    string `json:"document"`
	CaseNumber  string `json:"caseNumber"`
	CaseType    string `json:"caseType"`
	Status      string `json:"status"`
	Department  string `json:"department"`
	Officer     string `json:"officer"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}
