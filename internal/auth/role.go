package auth

const (
	RoleUser     = "user"
	RoleEmployee = "employee"
	RoleLeader   = "leader"
	RoleAdmin    = "admin"
)

var roleOrdinals = map[string]int{
	RoleUser:     1,
	RoleEmployee: 2,
	RoleLeader:   3,
	RoleAdmin:    4,
}

// Roles lists the known roles from least to most privileged.
func Roles() []string {
	return []string{RoleUser, RoleEmployee, RoleLeader, RoleAdmin}
}

func ValidRole(role string) bool {
	_, ok := roleOrdinals[role]
	return ok
}

// HasRole reports whether u holds at least the required role. A missing user
// or an unknown role on either side never grants access.
func HasRole(u *User, required string) bool {
	if u == nil {
		return false
	}
	have, ok := roleOrdinals[u.Role]
	if !ok {
		return false
	}
	need, ok := roleOrdinals[required]
	if !ok {
		return false
	}
	return have >= need
}
