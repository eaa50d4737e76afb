package auth

// Role es el rol global del usuario autenticado.
type Role string

const (
	RoleOwner        Role = "owner"
	RoleVeterinarian Role = "veterinarian"
	RoleAdmin        Role = "admin"
	RoleBanned       Role = "banned"
)

// ParseRole normaliza el rol recibido del proveedor de identidad.
// Un rol vacío o desconocido se trata como owner (usuario ganadero).
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleVeterinarian, RoleAdmin, RoleBanned:
		return Role(s)
	default:
		return RoleOwner
	}
}

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Role   Role
	Email  string
}
