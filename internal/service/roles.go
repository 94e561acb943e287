package service

// Role is the privilege level of a user. The declaration order is the
// privilege order; comparisons rely on it.
type Role int

const (
	RoleViewer Role = iota
	RoleAdmin
	RoleOwner
)

var roleNames = map[Role]string{
	RoleViewer: "viewer",
	RoleAdmin:  "admin",
	RoleOwner:  "owner",
}

// ParseRole turns an untrusted role string into a Role. Anything outside
// the known set fails; callers treat that as a closed gate, never as
// viewer access.
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return 0, ErrInvalidRole
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

func (r Role) AtLeast(min Role) bool { return r >= min }
