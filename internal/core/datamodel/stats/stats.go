package stats

type Stats struct {
	Employees    int `json:"employees"`
	Applications int `json:"applications"`
	InProgress   int `json:"inProgress"`
	Database     int `json:"database"`
}
