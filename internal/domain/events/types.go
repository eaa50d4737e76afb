package events

import "strings"

// Kind es la etiqueta de tipo de evento que envía el cliente en "type".
type Kind string

const (
	KindWeight      Kind = "weight"
	KindDiet        Kind = "diet"
	KindVaccination Kind = "vaccination"
	KindDeworming   Kind = "deworming"
	KindLab         Kind = "lab"
	KindSale        Kind = "sale"
	KindTransfer    Kind = "transfer"
	KindIllness     Kind = "illness"
	KindTreatment   Kind = "treatment"
	KindGeneral     Kind = "general"
)

// DetailKinds son los tipos con fila de detalle (todos menos general).
var DetailKinds = []Kind{
	KindWeight, KindDiet, KindVaccination, KindDeworming, KindLab,
	KindSale, KindTransfer, KindIllness, KindTreatment,
}

// ParseKind normaliza la etiqueta; cualquier valor desconocido cae en general.
func ParseKind(s string) Kind {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := kinds[k]; ok {
		return k
	}
	return KindGeneral
}

// HasDetail indica si k tiene relación de detalle propia.
func HasDetail(k Kind) bool {
	return k != KindGeneral && ParseKind(string(k)) == k
}
