package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"union-ganadera/internal/domain/events"
	"union-ganadera/internal/domain/events/details"
)

// EventsRepo escribe eventos a través de las funciones registrar_* de la base;
// cada una inserta en eventos, en su tabla de detalle y actualiza el bovino
// cuando aplica (peso_actual, predio_id).
type EventsRepo struct {
	db *sql.DB
}

func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

func (r *EventsRepo) InTx(ctx context.Context, fn func(tx events.Procedures) error) (err error) {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()

	if err = fn(procedures{tx: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (events.LedgerEntry, error) {
	id = strings.TrimSpace(id)
	if !validID(id) {
		return events.LedgerEntry{}, events.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT e.id, e.bovino_id, e.fecha, e.observaciones
		FROM eventos e
		WHERE e.id = $1
	`, id)

	var e events.LedgerEntry
	if err := scanEntry(row, &e); err != nil {
		return events.LedgerEntry{}, err
	}
	return e, nil
}

func (r *EventsRepo) ListByOwner(ctx context.Context, ownerID string, page events.Page) ([]events.LedgerEntry, error) {
	return r.listEntries(ctx, `
		SELECT e.id, e.bovino_id, e.fecha, e.observaciones
		FROM eventos e
		JOIN bovinos b ON b.id = e.bovino_id
		WHERE b.usuario_id = $1
		ORDER BY e.fecha DESC
		OFFSET $2 LIMIT $3
	`, ownerID, page)
}

func (r *EventsRepo) ListBySubject(ctx context.Context, subjectID string, page events.Page) ([]events.LedgerEntry, error) {
	if !validID(subjectID) {
		return []events.LedgerEntry{}, nil
	}
	return r.listEntries(ctx, `
		SELECT e.id, e.bovino_id, e.fecha, e.observaciones
		FROM eventos e
		WHERE e.bovino_id = $1
		ORDER BY e.fecha DESC
		OFFSET $2 LIMIT $3
	`, subjectID, page)
}

func (r *EventsRepo) listEntries(ctx context.Context, query, arg string, page events.Page) ([]events.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, arg, page.Offset, page.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.LedgerEntry, 0)
	for rows.Next() {
		var e events.LedgerEntry
		if err := scanEntry(rows, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EventsRepo) GetDetail(ctx context.Context, kind events.Kind, eventID string) (events.Detail, error) {
	t, ok := detailTables[kind]
	if !ok || !validID(eventID) {
		return events.Detail{}, events.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, t.selectSQL()+` WHERE e.id = $1`, eventID)
	d, err := t.scanDetail(kind, row)
	if errors.Is(err, sql.ErrNoRows) {
		return events.Detail{}, fmt.Errorf("%w: %s event %s", events.ErrNotFound, kind, eventID)
	}
	return d, err
}

func (r *EventsRepo) ListDetails(ctx context.Context, kind events.Kind, f events.DetailFilter) ([]events.Detail, error) {
	t, ok := detailTables[kind]
	if !ok {
		return nil, events.ErrNotFound
	}

	var where, arg string
	switch {
	case f.IllnessID != "":
		if kind != events.KindTreatment {
			return nil, events.ErrValidation
		}
		where, arg = `d.enfermedad_id = $1`, f.IllnessID
	case f.SubjectID != "":
		where, arg = `e.bovino_id = $1`, f.SubjectID
	default:
		where, arg = `b.usuario_id = $1`, f.OwnerID
	}
	if !validID(arg) {
		return []events.Detail{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		t.selectSQL()+` WHERE `+where+` ORDER BY e.fecha DESC OFFSET $2 LIMIT $3`,
		arg, f.Offset, f.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.Detail, 0)
	for rows.Next() {
		d, err := t.scanDetail(kind, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *EventsRepo) IllnessSubject(ctx context.Context, illnessID string) (string, bool, error) {
	return subjectOfIllness(ctx, r.db, illnessID)
}

// -------------------------
// Tablas de detalle
// -------------------------

type detailTable struct {
	table   string
	columns string
	scan    func(s scanner, entry *events.LedgerEntry) (any, error)
}

func (t detailTable) selectSQL() string {
	return `
		SELECT e.id, e.bovino_id, e.fecha, e.observaciones, ` + t.columns + `
		FROM ` + t.table + ` d
		JOIN eventos e ON e.id = d.evento_id
		JOIN bovinos b ON b.id = e.bovino_id`
}

func (t detailTable) scanDetail(kind events.Kind, s scanner) (events.Detail, error) {
	var entry events.LedgerEntry
	row, err := t.scan(s, &entry)
	if err != nil {
		return events.Detail{}, err
	}
	return events.Detail{Entry: entry, Kind: kind, Row: row}, nil
}

func entryDest(e *events.LedgerEntry, notes *sql.NullString) []any {
	return []any{&e.ID, &e.SubjectID, &e.Timestamp, notes}
}

// scanWith escanea la entrada y luego las columnas del detalle.
func scanWith(s scanner, e *events.LedgerEntry, cols ...any) error {
	var notes sql.NullString
	if err := s.Scan(append(entryDest(e, &notes), cols...)...); err != nil {
		return err
	}
	e.Notes = notes.String
	return nil
}

var detailTables = map[events.Kind]detailTable{
	events.KindWeight: {
		table:   "pesos",
		columns: "d.peso_actual, d.peso_nuevo",
		scan: func(s scanner, e *events.LedgerEntry) (any, error) {
			var prev sql.NullFloat64
			var w details.Weight
			if err := scanWith(s, e, &prev, &w.NewWeight); err != nil {
				return nil, err
			}
			w.EventID, w.PreviousWeight = e.ID, fromNullFloat(prev)
			return w, nil
		},
	},
	events.KindDiet: {
		table:   "dietas",
		columns: "d.alimento",
		scan: func(s scanner, e *events.LedgerEntry) (any, error) {
			var d details.Diet
			if err := scanWith(s, e, &d.Feed); err != nil {
				return nil, err
			}
			d.EventID = e.ID
			return d, nil
		},
	},
	events.KindVaccination: {
		table:   "vacunaciones",
		columns: "d.veterinario_id, d.tipo, d.lote, d.laboratorio, d.fecha_prox",
		scan: func(s scanner, e *events.LedgerEntry) (any, error) {
			var v details.Vaccination
			var vet, typ, lot, lab sql.NullString
			var due sql.NullTime
			if err := scanWith(s, e, &vet, &typ, &lot, &lab, &due); err != nil {
				return nil, err
			}
			v.EventID, v.VeterinarianID = e.ID, vet.String
			v.Type, v.Lot, v.Lab = typ.String, lot.String, lab.String
			v.NextDueDate = details.Date{Time: due.Time}
			return v, nil
		},
	},
	events.KindDeworming: {
		table:   "desparasitaciones",
		columns: "d.veterinario_id, d.medicamento, d.dosis_admin, d.fecha_prox",
		scan: func(s scanner, e *events.LedgerEntry) (any, error) {
			var d details.Deworming
			var vet, med, dose sql.NullString
			var due sql.NullTime
			if err := scanWith(s, e, &vet, &med, &dose, &due); err != nil {
				return nil, err
			}
			d.EventID, d.VeterinarianID = e.ID, vet.String
			d.Medication, d.Dose = med.String, dose.String
			d.NextDueDate = details.Date{Time: due.Time}
			return d, nil
		},
	},
	events.KindLab: {
		table:   "laboratorios",
		columns: "d.veterinario_id, d.tipo, d.resultado",
		scan: func(s scanner, e *events.LedgerEntry) (any, error) {
			var l details.Lab
			var vet, typ, result sql.NullString
			if err := scanWith(s, e, &vet, &typ, &result); err != nil {
				return nil, err
			}
			l.EventID, l.VeterinarianID, l.Type, l.Result = e.ID, vet.String, typ.String, result.String
			return l, nil
		},
	},
	events.KindSale: {
		table:   "compraventas",
		columns: "d.comprador_curp, d.vendedor_curp",
		scan: func(s scanner, e *events.LedgerEntry) (any, error) {
			var d details.Sale
			var buyer, seller sql.NullString
			if err := scanWith(s, e, &buyer, &seller); err != nil {
				return nil, err
			}
			d.EventID, d.BuyerID, d.SellerID = e.ID, buyer.String, seller.String
			return d, nil
		},
	},
	events.KindTransfer: {
		table:   "traslado",
		columns: "d.predio_anterior_id, d.predio_nuevo_id",
		scan: func(s scanner, e *events.LedgerEntry) (any, error) {
			var d details.Transfer
			var prev, next sql.NullString
			if err := scanWith(s, e, &prev, &next); err != nil {
				return nil, err
			}
			d.EventID, d.PreviousParcelID, d.NewParcelID = e.ID, fromNullString(prev), next.String
			return d, nil
		},
	},
	events.KindIllness: {
		table:   "enfermedades",
		columns: "d.id, d.veterinario_id, d.tipo",
		scan: func(s scanner, e *events.LedgerEntry) (any, error) {
			var d details.Illness
			var vet, typ sql.NullString
			if err := scanWith(s, e, &d.IllnessID, &vet, &typ); err != nil {
				return nil, err
			}
			d.EventID, d.VeterinarianID, d.Type = e.ID, vet.String, typ.String
			return d, nil
		},
	},
	events.KindTreatment: {
		table:   "tratamientos",
		columns: "d.enfermedad_id, d.veterinario_id, d.medicamento, d.dosis, d.periodo",
		scan: func(s scanner, e *events.LedgerEntry) (any, error) {
			var d details.Treatment
			var illness, vet, med, dose, period sql.NullString
			if err := scanWith(s, e, &illness, &vet, &med, &dose, &period); err != nil {
				return nil, err
			}
			d.EventID, d.IllnessID, d.VeterinarianID = e.ID, illness.String, vet.String
			d.Medication, d.Dose, d.Period = med.String, dose.String, period.String
			return d, nil
		},
	},
}

func scanEntry(s scanner, e *events.LedgerEntry) error {
	err := scanWith(s, e)
	if errors.Is(err, sql.ErrNoRows) {
		return events.ErrNotFound
	}
	return err
}

// -------------------------
// Procedimientos
// -------------------------

// querier lo cumplen *sql.DB y *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type procedures struct {
	tx *sql.Tx
}

// call ejecuta SELECT fn(args...) y devuelve el uuid que regresa la función.
func (p procedures) call(ctx context.Context, fn string, args ...any) (string, error) {
	params := make([]string, 0, len(args)+1)
	for i := range args {
		params = append(params, fmt.Sprintf("$%d", i+1))
	}
	// la fecha siempre es la del servidor
	params = append(params[:len(params)-1], "NOW()", params[len(params)-1])

	var id string
	q := `SELECT ` + fn + `(` + strings.Join(params, ", ") + `)::text`
	if err := p.tx.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
		return "", fmt.Errorf("%s: %w", fn, err)
	}
	return id, nil
}

func nullNotes(notes string) sql.NullString {
	return sql.NullString{String: notes, Valid: notes != ""}
}

func (p procedures) RegisterWeight(ctx context.Context, subjectID, notes string, d details.Weight) (string, error) {
	return p.call(ctx, "registrar_peso", subjectID, d.NewWeight, nullNotes(notes))
}

func (p procedures) RegisterDiet(ctx context.Context, subjectID, notes string, d details.Diet) (string, error) {
	return p.call(ctx, "registrar_dieta", subjectID, d.Feed, nullNotes(notes))
}

func (p procedures) RegisterVaccination(ctx context.Context, subjectID, notes string, d details.Vaccination) (string, error) {
	return p.call(ctx, "registrar_vacunacion",
		subjectID, d.VeterinarianID, d.Type, d.Lot, d.Lab, d.NextDueDate.Time, nullNotes(notes))
}

func (p procedures) RegisterDeworming(ctx context.Context, subjectID, notes string, d details.Deworming) (string, error) {
	return p.call(ctx, "registrar_desparasitacion",
		subjectID, d.VeterinarianID, d.Medication, d.Dose, d.NextDueDate.Time, nullNotes(notes))
}

func (p procedures) RegisterLab(ctx context.Context, subjectID, notes string, d details.Lab) (string, error) {
	return p.call(ctx, "registrar_laboratorio", subjectID, d.VeterinarianID, d.Type, d.Result, nullNotes(notes))
}

func (p procedures) RegisterSale(ctx context.Context, subjectID, notes string, d details.Sale) (string, error) {
	return p.call(ctx, "registrar_compraventa", subjectID, d.BuyerID, d.SellerID, nullNotes(notes))
}

func (p procedures) RegisterTransfer(ctx context.Context, subjectID, notes string, d details.Transfer) (string, error) {
	return p.call(ctx, "registrar_traslado", subjectID, d.NewParcelID, nullNotes(notes))
}

// RegisterIllness devuelve el id de enfermedades, no el del evento.
func (p procedures) RegisterIllness(ctx context.Context, subjectID, notes string, d details.Illness) (string, error) {
	return p.call(ctx, "registrar_enfermedad", subjectID, d.VeterinarianID, d.Type, nullNotes(notes))
}

func (p procedures) RegisterTreatment(ctx context.Context, subjectID, notes string, d details.Treatment) (string, error) {
	return p.call(ctx, "registrar_tratamiento",
		subjectID, d.IllnessID, d.VeterinarianID, d.Medication, d.Dose, d.Period, nullNotes(notes))
}

func (p procedures) RegisterGeneral(ctx context.Context, subjectID, notes string) (string, error) {
	var id string
	err := p.tx.QueryRowContext(ctx, `
		INSERT INTO eventos (bovino_id, fecha, observaciones)
		VALUES ($1, NOW(), $2)
		RETURNING id::text
	`, subjectID, nullNotes(notes)).Scan(&id)
	return id, err
}

func (p procedures) LedgerIDOfIllness(ctx context.Context, illnessID string) (string, error) {
	var id string
	err := p.tx.QueryRowContext(ctx, `SELECT evento_id::text FROM enfermedades WHERE id = $1`, illnessID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("illness %s has no ledger entry", illnessID)
	}
	return id, err
}

func (p procedures) SubjectOfIllness(ctx context.Context, illnessID string) (string, bool, error) {
	return subjectOfIllness(ctx, p.tx, illnessID)
}

func subjectOfIllness(ctx context.Context, q querier, illnessID string) (string, bool, error) {
	if !validID(illnessID) {
		return "", false, nil
	}
	var subject string
	err := q.QueryRowContext(ctx, `
		SELECT e.bovino_id::text
		FROM enfermedades d
		JOIN eventos e ON e.id = d.evento_id
		WHERE d.id = $1
	`, illnessID).Scan(&subject)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return subject, true, nil
}
