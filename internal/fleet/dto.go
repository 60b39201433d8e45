package fleet

type CreateVehicleDTO struct {
	Department   string `json:"department" validate:"required_unless=IsLeadership true,max=100"`
	Type         string `json:"type" validate:"required,max=100"`
	Model        string `json:"model" validate:"required,max=100"`
	Plate        string `json:"plate" validate:"required,max=20"`
	Status       string `json:"status" validate:"omitempty,oneof='В строю' 'В ремонте' 'Списан'"`
	Notes        string `json:"notes" validate:"max=1000"`
	IsLeadership bool   `json:"isLeadership"`
}
