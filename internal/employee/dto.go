package employee

// CreateEmployeeDTO accepts "name" as an older spelling of full_name.
type CreateEmployeeDTO struct {
	FullName    string `json:"full_name" validate:"required_without=Name,max=200"`
	Name        string `json:"name" validate:"max=200"`
	Rank        string `json:"rank" validate:"max=100"`
	Position    string `json:"position" validate:"max=200"`
	Department  string `json:"department" validate:"required,max=100"`
	Phone       string `json:"phone" validate:"max=50"`
	BadgeNumber string `json:"badgeNumber" validate:"max=50"`
	StartDate   string `json:"startDate" validate:"omitempty,isodate"`
	Status      string `json:"status" validate:"max=100"`
}

func (dto CreateEmployeeDTO) employee() Employee {
	name := dto.FullName
	if name == "" {
		name = dto.Name
	}
	return Employee{
		FullName:    name,
		Rank:        dto.Rank,
		Position:    dto.Position,
		Department:  dto.Department,
		Phone:       dto.Phone,
		BadgeNumber: dto.BadgeNumber,
		StartDate:   dto.StartDate,
		Status:      dto.Status,
	}
}
