package auth

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterDTO creates an account. Role is honoured only for administrators.
type RegisterDTO struct {
	Name     string `json:"name" validate:"required,max=100"`
	Login    string `json:"login" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=user employee leader admin"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
