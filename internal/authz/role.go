// internal/authz/role.go
package authz

import (
	"fmt"
	"strings"
)

// Role - закрытый набор ролей. Роли в виде строк живут только в БД.
type Role int

const (
	RoleGuest Role = iota
	RoleInspector
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleGuest:
		return "guest"
	case RoleInspector:
		return "inspector"
	case RoleAdmin:
		return "admin"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// ParseRole разбирает значение колонки profiles.role. Гость в БД не хранится.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "inspector":
		return RoleInspector, nil
	}
	return RoleGuest, fmt.Errorf("неизвестная роль: %q", s)
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
