package events

import (
	"context"

	"union-ganadera/internal/domain/events/details"
)

// Procedures son las operaciones de registro, una por tipo. Cada una inserta
// la entrada del libro y su detalle y devuelve el id de la entrada, salvo
// RegisterIllness que devuelve el id de la enfermedad.
// Solo son válidas dentro de Repository.InTx.
type Procedures interface {
	RegisterWeight(ctx context.Context, subjectID, notes string, d details.Weight) (string, error)
	RegisterDiet(ctx context.Context, subjectID, notes string, d details.Diet) (string, error)
	RegisterVaccination(ctx context.Context, subjectID, notes string, d details.Vaccination) (string, error)
	RegisterDeworming(ctx context.Context, subjectID, notes string, d details.Deworming) (string, error)
	RegisterLab(ctx context.Context, subjectID, notes string, d details.Lab) (string, error)
	RegisterSale(ctx context.Context, subjectID, notes string, d details.Sale) (string, error)
	RegisterTransfer(ctx context.Context, subjectID, notes string, d details.Transfer) (string, error)
	RegisterIllness(ctx context.Context, subjectID, notes string, d details.Illness) (illnessID string, err error)
	RegisterTreatment(ctx context.Context, subjectID, notes string, d details.Treatment) (string, error)
	RegisterGeneral(ctx context.Context, subjectID, notes string) (string, error)

	// LedgerIDOfIllness resuelve enfermedad -> entrada del libro.
	LedgerIDOfIllness(ctx context.Context, illnessID string) (string, error)
	// SubjectOfIllness devuelve el bovino de la enfermedad; found=false si no existe.
	SubjectOfIllness(ctx context.Context, illnessID string) (subjectID string, found bool, err error)
}

type Repository interface {
	// InTx ejecuta fn en una sola transacción: si fn falla no queda nada escrito.
	InTx(ctx context.Context, fn func(tx Procedures) error) error

	GetByID(ctx context.Context, id string) (LedgerEntry, error)
	ListByOwner(ctx context.Context, ownerID string, page Page) ([]LedgerEntry, error)
	ListBySubject(ctx context.Context, subjectID string, page Page) ([]LedgerEntry, error)

	GetDetail(ctx context.Context, kind Kind, eventID string) (Detail, error)
	ListDetails(ctx context.Context, kind Kind, filter DetailFilter) ([]Detail, error)

	// IllnessSubject es la versión de solo lectura de SubjectOfIllness.
	IllnessSubject(ctx context.Context, illnessID string) (subjectID string, found bool, err error)
}

type Page struct {
	Offset int
	Limit  int
}

// DetailFilter: exactamente uno de OwnerID, SubjectID o IllnessID (solo treatment).
// Orden: más reciente primero.
type DetailFilter struct {
	OwnerID   string
	SubjectID string
	IllnessID string
	Page
}
