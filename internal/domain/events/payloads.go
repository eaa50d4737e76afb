package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"union-ganadera/internal/domain/events/details"
	"union-ganadera/internal/platform/validate"
)

// Payload es una variante tipada de "data". Cada variante sabe registrarse
// y devuelve siempre el id de la entrada del libro.
type Payload interface {
	common() *Common
	register(ctx context.Context, tx Procedures) (ledgerID string, err error)
}

// Common lo leen todos los tipos.
type Common struct {
	SubjectID string `json:"subject_id" validate:"required"`
	Notes     string `json:"notes"`
}

func (c *Common) common() *Common { return c }

// Veterinary marca las variantes atribuidas a un veterinario.
// El id enviado por el cliente se ignora: attribute lo sobreescribe.
type Veterinary struct {
	VeterinarianID string `json:"veterinarian_id"`
}

func (v *Veterinary) attribute(id string) { v.VeterinarianID = id }

type veterinary interface {
	attribute(id string)
}

type kindRow struct {
	access     Access
	newPayload func() Payload
}

// kinds es la tabla tipo -> (autorización, variante). Agregar un tipo es agregar una fila.
var kinds = map[Kind]kindRow{
	KindWeight:      {OwnerRestricted, func() Payload { return &WeightPayload{} }},
	KindDiet:        {OwnerRestricted, func() Payload { return &DietPayload{} }},
	KindVaccination: {VeterinarianRestricted, func() Payload { return &VaccinationPayload{} }},
	KindDeworming:   {VeterinarianRestricted, func() Payload { return &DewormingPayload{} }},
	KindLab:         {VeterinarianRestricted, func() Payload { return &LabPayload{} }},
	KindSale:        {OwnerRestricted, func() Payload { return &SalePayload{} }},
	KindTransfer:    {OwnerRestricted, func() Payload { return &TransferPayload{} }},
	KindIllness:     {VeterinarianRestricted, func() Payload { return &IllnessPayload{} }},
	KindTreatment:   {VeterinarianRestricted, func() Payload { return &TreatmentPayload{} }},
	KindGeneral:     {OwnerRestricted, func() Payload { return &GeneralPayload{} }},
}

// Decode convierte "data" en la variante de kind y valida sus campos requeridos.
// Las llaves extra se ignoran.
func Decode(kind Kind, data json.RawMessage) (Payload, error) {
	row, ok := kinds[kind]
	if !ok {
		row = kinds[KindGeneral]
	}
	p := row.newPayload()

	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("%w: data must be an object matching %q: %v", ErrValidation, kind, err)
		}
	}

	c := p.common()
	c.SubjectID = strings.TrimSpace(c.SubjectID)
	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return p, nil
}

type WeightPayload struct {
	Common
	NewWeight *float64 `json:"new_weight" validate:"required,gt=0"`
}

func (p *WeightPayload) register(ctx context.Context, tx Procedures) (string, error) {
	return tx.RegisterWeight(ctx, p.SubjectID, p.Notes, details.Weight{NewWeight: *p.NewWeight})
}

type DietPayload struct {
	Common
	Feed string `json:"feed" validate:"required"`
}

func (p *DietPayload) register(ctx context.Context, tx Procedures) (string, error) {
	return tx.RegisterDiet(ctx, p.SubjectID, p.Notes, details.Diet{Feed: p.Feed})
}

type VaccinationPayload struct {
	Common
	Veterinary
	Type        string `json:"type" validate:"required"`
	Lot         string `json:"lot" validate:"required"`
	Lab         string `json:"lab" validate:"required"`
	NextDueDate string `json:"next_due_date" validate:"required,datetime=2006-01-02"`
}

func (p *VaccinationPayload) register(ctx context.Context, tx Procedures) (string, error) {
	due, err := details.ParseDate(p.NextDueDate)
	if err != nil {
		return "", fmt.Errorf("%w: next_due_date: %v", ErrValidation, err)
	}
	return tx.RegisterVaccination(ctx, p.SubjectID, p.Notes, details.Vaccination{
		VeterinarianID: p.VeterinarianID,
		Type:           p.Type,
		Lot:            p.Lot,
		Lab:            p.Lab,
		NextDueDate:    due,
	})
}

type DewormingPayload struct {
	Common
	Veterinary
	Medication  string `json:"medication" validate:"required"`
	Dose        string `json:"dose" validate:"required"`
	NextDueDate string `json:"next_due_date" validate:"required,datetime=2006-01-02"`
}

func (p *DewormingPayload) register(ctx context.Context, tx Procedures) (string, error) {
	due, err := details.ParseDate(p.NextDueDate)
	if err != nil {
		return "", fmt.Errorf("%w: next_due_date: %v", ErrValidation, err)
	}
	return tx.RegisterDeworming(ctx, p.SubjectID, p.Notes, details.Deworming{
		VeterinarianID: p.VeterinarianID,
		Medication:     p.Medication,
		Dose:           p.Dose,
		NextDueDate:    due,
	})
}

type LabPayload struct {
	Common
	Veterinary
	Type   string `json:"type" validate:"required"`
	Result string `json:"result" validate:"required"`
}

func (p *LabPayload) register(ctx context.Context, tx Procedures) (string, error) {
	return tx.RegisterLab(ctx, p.SubjectID, p.Notes, details.Lab{
		VeterinarianID: p.VeterinarianID,
		Type:           p.Type,
		Result:         p.Result,
	})
}

type SalePayload struct {
	Common
	BuyerID  string `json:"buyer_id" validate:"required"`
	SellerID string `json:"seller_id" validate:"required"`
}

func (p *SalePayload) register(ctx context.Context, tx Procedures) (string, error) {
	return tx.RegisterSale(ctx, p.SubjectID, p.Notes, details.Sale{BuyerID: p.BuyerID, SellerID: p.SellerID})
}

type TransferPayload struct {
	Common
	NewParcelID string `json:"new_parcel_id" validate:"required"`
}

func (p *TransferPayload) register(ctx context.Context, tx Procedures) (string, error) {
	return tx.RegisterTransfer(ctx, p.SubjectID, p.Notes, details.Transfer{NewParcelID: p.NewParcelID})
}

type IllnessPayload struct {
	Common
	Veterinary
	Type string `json:"type" validate:"required"`
}

// register: el procedimiento devuelve el id de la enfermedad, no el de la
// entrada; se resuelve aquí para que el despachador reciba siempre un id del libro.
func (p *IllnessPayload) register(ctx context.Context, tx Procedures) (string, error) {
	illnessID, err := tx.RegisterIllness(ctx, p.SubjectID, p.Notes, details.Illness{
		VeterinarianID: p.VeterinarianID,
		Type:           p.Type,
	})
	if err != nil {
		return "", err
	}
	return tx.LedgerIDOfIllness(ctx, illnessID)
}

type TreatmentPayload struct {
	Common
	Veterinary
	IllnessID  string `json:"illness_id" validate:"required"`
	Medication string `json:"medication" validate:"required"`
	Dose       string `json:"dose" validate:"required"`
	Period     string `json:"period" validate:"required"`
}

// register verifica que la enfermedad sea del mismo bovino. Si la enfermedad
// no existe no hay vínculo que revisar y se registra igual.
// La lectura y la escritura no se bloquean entre sí: un cambio concurrente
// de la enfermedad entre ambas no se detecta.
func (p *TreatmentPayload) register(ctx context.Context, tx Procedures) (string, error) {
	subject, found, err := tx.SubjectOfIllness(ctx, p.IllnessID)
	if err != nil {
		return "", err
	}
	if found && subject != p.SubjectID {
		return "", fmt.Errorf("%w: illness %s belongs to a different animal", ErrValidation, p.IllnessID)
	}
	return tx.RegisterTreatment(ctx, p.SubjectID, p.Notes, details.Treatment{
		IllnessID:      p.IllnessID,
		VeterinarianID: p.VeterinarianID,
		Medication:     p.Medication,
		Dose:           p.Dose,
		Period:         p.Period,
	})
}

// GeneralPayload crea solo la entrada del libro, sin detalle.
type GeneralPayload struct {
	Common
}

func (p *GeneralPayload) register(ctx context.Context, tx Procedures) (string, error) {
	return tx.RegisterGeneral(ctx, p.SubjectID, p.Notes)
}
