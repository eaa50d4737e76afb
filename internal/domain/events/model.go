package events

import (
	"time"

	"union-ganadera/internal/ports/auth"
)

// LedgerEntry es el registro genérico que comparten todos los tipos de evento.
// Inmutable una vez creado.
type LedgerEntry struct {
	ID        string
	SubjectID string
	Timestamp time.Time
	Notes     string
}

// Actor es quien envía el evento.
type Actor struct {
	ID   string
	Role auth.Role
}

// Detail une la entrada del libro con su fila de detalle (uno de details.*).
type Detail struct {
	Entry LedgerEntry
	Kind  Kind
	Row   any
}
