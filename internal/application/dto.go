package application

// CreateApplicationDTO is what a citizen or staff member submits. Author
// fields come from the authenticated account.
type CreateApplicationDTO struct {
	Type        string `json:"type" validate:"required,max=100"`
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"required,max=10000"`
	Priority    string `json:"priority" validate:"omitempty,oneof=низкий средний высокий критический"`
	Department  string `json:"department" validate:"max=100"`
}

// RespondDTO appends a response. Action "response" or empty means a plain
// reply without a status change.
type RespondDTO struct {
	Text       string `json:"text" validate:"required,max=10000"`
	IsOfficial bool   `json:"is_official"`
	Action     string `json:"action" validate:"omitempty,oneof=response accept reject close"`
}
