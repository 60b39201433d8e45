package user

type UpdateRoleDTO struct {
	Role string `json:"role" validate:"required"`
}
