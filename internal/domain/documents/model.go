package documents

import "time"

type DocType string

const (
	DocTypeIDFront        DocType = "id_front"
	DocTypeIDBack         DocType = "id_back"
	DocTypeProofOfAddress DocType = "proof_of_address"
	DocTypeParcel         DocType = "parcel"
	DocTypeVetLicense     DocType = "vet_license"
	DocTypeBrand          DocType = "brand"
	DocTypeOther          DocType = "other"
)

func (t DocType) Valid() bool {
	switch t {
	case DocTypeIDFront, DocTypeIDBack, DocTypeProofOfAddress, DocTypeParcel,
		DocTypeVetLicense, DocTypeBrand, DocTypeOther:
		return true
	}
	return false
}

// Document es un archivo del usuario. El contenido vive en el almacenamiento
// de objetos bajo StorageKey; aquí solo la metadata. Uno por tipo y usuario.
type Document struct {
	ID               string
	OwnerID          string
	Type             DocType
	StorageKey       string
	OriginalFilename string
	Authored         bool
	CreatedAt        time.Time
}
