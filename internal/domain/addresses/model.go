package addresses

import "time"

// Address es un domicilio del usuario.
type Address struct {
	ID           string
	OwnerID      string
	Street       string
	Neighborhood string
	PostalCode   string
	State        string
	Municipality string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
