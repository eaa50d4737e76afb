package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"union-ganadera/internal/domain/animals"
)

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

const animalColumns = `
	id, usuario_id, usuario_original_id, predio_id,
	arete_barcode, arete_rfid, folio,
	nombre, madre_id, padre_id,
	raza_dominante, fecha_nac, sexo,
	peso_nac, peso_actual, proposito, status,
	created_at, updated_at`

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bovinos (`+animalColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`,
		a.ID,
		a.OwnerID,
		a.OriginalOwnerID,
		toNullString(a.ParcelID),
		nullIfEmpty(a.TagBarcode),
		nullIfEmpty(a.TagRFID),
		a.Folio,
		a.Name,
		toNullString(a.MotherID),
		toNullString(a.FatherID),
		a.Breed,
		toNullDate(a.BirthDate),
		nullIfEmpty(string(a.Sex)),
		toNullFloat(a.BirthWeight),
		toNullFloat(a.CurrentWeight),
		a.Purpose,
		a.Status,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", animals.ErrConflict, err)
	}
	return err
}

// Update no toca folio ni usuario_original_id.
func (r *AnimalsRepo) Update(ctx context.Context, a animals.Animal) error {
	if !validID(a.ID) {
		return animals.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE bovinos
		SET
			usuario_id = $2,
			predio_id = $3,
			arete_barcode = $4,
			arete_rfid = $5,
			nombre = $6,
			madre_id = $7,
			padre_id = $8,
			raza_dominante = $9,
			fecha_nac = $10,
			sexo = $11,
			peso_nac = $12,
			peso_actual = $13,
			proposito = $14,
			status = $15,
			updated_at = $16
		WHERE id = $1
	`,
		a.ID,
		a.OwnerID,
		toNullString(a.ParcelID),
		nullIfEmpty(a.TagBarcode),
		nullIfEmpty(a.TagRFID),
		a.Name,
		toNullString(a.MotherID),
		toNullString(a.FatherID),
		a.Breed,
		toNullDate(a.BirthDate),
		nullIfEmpty(string(a.Sex)),
		toNullFloat(a.BirthWeight),
		toNullFloat(a.CurrentWeight),
		a.Purpose,
		a.Status,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", animals.ErrConflict, err)
		}
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

func (r *AnimalsRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return animals.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM bovinos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	id = strings.TrimSpace(id)
	if !validID(id) {
		return animals.Animal{}, animals.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+animalColumns+` FROM bovinos WHERE id = $1`, id)
	return scanAnimal(row)
}

func (r *AnimalsRepo) List(ctx context.Context, f animals.ListFilter) ([]animals.Animal, error) {
	q := `SELECT ` + animalColumns + ` FROM bovinos WHERE usuario_id = $1`
	args := []any{f.OwnerID}
	if f.ParcelID != "" {
		if !validID(f.ParcelID) {
			return []animals.Animal{}, nil
		}
		q += ` AND predio_id = $2`
		args = append(args, f.ParcelID)
	}
	q += fmt.Sprintf(` ORDER BY created_at ASC OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, f.Offset, f.Limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// FindOne usa un solo criterio; el servicio ya dejó vacíos los de menor prioridad.
func (r *AnimalsRepo) FindOne(ctx context.Context, q animals.SearchQuery) (animals.Animal, error) {
	var (
		where string
		arg   string
	)
	switch {
	case q.TagBarcode != "":
		where, arg = "arete_barcode = $2", q.TagBarcode
	case q.TagRFID != "":
		where, arg = "arete_rfid = $2", q.TagRFID
	case q.Name != "":
		where, arg = "nombre ILIKE '%' || $2 || '%'", q.Name
	default:
		return animals.Animal{}, animals.ErrInvalidInput
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+animalColumns+`
		FROM bovinos
		WHERE usuario_id = $1 AND `+where+`
		ORDER BY created_at ASC
		LIMIT 1
	`, q.OwnerID, arg)
	return scanAnimal(row)
}

func (r *AnimalsRepo) FolioExists(ctx context.Context, folio string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM bovinos WHERE folio = $1)`, folio).Scan(&exists)
	return exists, err
}

func scanAnimal(s scanner) (animals.Animal, error) {
	var (
		a                       animals.Animal
		original, parcel        sql.NullString
		barcode, rfid, sex      sql.NullString
		mother, father          sql.NullString
		name, breed, purpose    sql.NullString
		birth                   sql.NullTime
		birthWeight, currWeight sql.NullFloat64
	)
	err := s.Scan(
		&a.ID,
		&a.OwnerID,
		&original,
		&parcel,
		&barcode,
		&rfid,
		&a.Folio,
		&name,
		&mother,
		&father,
		&breed,
		&birth,
		&sex,
		&birthWeight,
		&currWeight,
		&purpose,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return animals.Animal{}, animals.ErrNotFound
		}
		return animals.Animal{}, err
	}

	a.OriginalOwnerID = original.String
	a.ParcelID = fromNullString(parcel)
	a.TagBarcode = barcode.String
	a.TagRFID = rfid.String
	a.Name = name.String
	a.MotherID = fromNullString(mother)
	a.FatherID = fromNullString(father)
	a.Breed = breed.String
	a.BirthDate = fromNullTime(birth)
	a.Sex = animals.Sex(sex.String)
	a.BirthWeight = fromNullFloat(birthWeight)
	a.CurrentWeight = fromNullFloat(currWeight)
	a.Purpose = purpose.String
	return a, nil
}

// nullIfEmpty: las columnas únicas aceptan varios NULL pero no varios "".
func nullIfEmpty(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
