package animals

import "time"

// Sex del bovino.
type Sex string

const (
	SexMale    Sex = "M"
	SexFemale  Sex = "F"
	SexUnknown Sex = "X"
)

const StatusActive = "active"

// Animal es un bovino registrado. Pertenece a un único usuario (OwnerID) a la vez.
type Animal struct {
	ID              string
	OwnerID         string
	OriginalOwnerID string
	ParcelID        *string

	TagBarcode string
	TagRFID    string
	Folio      string // asignado una sola vez al crear

	Name     string
	MotherID *string
	FatherID *string

	Breed         string
	BirthDate     *time.Time
	Sex           Sex
	BirthWeight   *float64
	CurrentWeight *float64
	Purpose       string
	Status        string

	CreatedAt time.Time
	UpdatedAt time.Time
}
