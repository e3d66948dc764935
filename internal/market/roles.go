package market

import "fmt"

type Role string

const (
	RoleNone    Role = ""
	RoleArtisan Role = "artisan"
	RoleBuyer   Role = "buyer"
	RoleAdmin   Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleArtisan, RoleBuyer, RoleAdmin:
		return Role(s), nil
	}
	return RoleNone, fmt.Errorf("unknown role %q", s)
}

func (r Role) table() (string, error) {
	switch r {
	case RoleArtisan:
		return "artisans", nil
	case RoleBuyer:
		return "buyers", nil
	case RoleAdmin:
		return "admins", nil
	}
	return "", fmt.Errorf("unknown role %q", string(r))
}
