package user

// User is a portal account as persisted in the state blob. Password holds a
// bcrypt hash (or legacy plaintext from imported snapshots).
type User struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Login      string `json:"login"`
	Password   string `json:"password,omitempty"`
	Role       string `json:"role"`
	Department string `json:"department"`
	LastActive string `json:"lastActive"`
}
