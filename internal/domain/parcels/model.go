package parcels

import "time"

// Parcel es un predio del usuario. CadastralKey es única en el sistema.
type Parcel struct {
	ID           string
	OwnerID      string
	AddressID    *string
	CadastralKey string
	TotalArea    *float64
	Latitude     *float64
	Longitude    *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
