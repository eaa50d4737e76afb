package events

import "union-ganadera/internal/ports/auth"

type Access int

const (
	OwnerRestricted Access = iota
	VeterinarianRestricted
)

func (a Access) String() string {
	if a == VeterinarianRestricted {
		return "veterinarian"
	}
	return "owner"
}

// Classify es total: lo que no está en la tabla exige ser dueño, igual que general.
func Classify(k Kind) Access {
	if row, ok := kinds[k]; ok {
		return row.access
	}
	return OwnerRestricted
}

// authorizeRole revisa solo el rol; la propiedad del bovino se revisa después
// porque necesita leer el almacenamiento.
func authorizeRole(k Kind, actor Actor) error {
	if Classify(k) == VeterinarianRestricted && actor.Role != auth.RoleVeterinarian {
		return ErrVeterinarianRequired
	}
	return nil
}

func authorizeOwner(k Kind, actor Actor, ownerID string) error {
	if Classify(k) == OwnerRestricted && ownerID != actor.ID {
		return ErrNotOwner
	}
	return nil
}
