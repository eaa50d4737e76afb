package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"union-ganadera/internal/domain/parcels"
)

type ParcelsRepo struct {
	db *sql.DB
}

func NewParcelsRepo(db *sql.DB) *ParcelsRepo {
	return &ParcelsRepo{db: db}
}

const parcelColumns = `id, usuario_id, domicilio_id, clave_catastral, superficie_total, latitud, longitud, created_at, updated_at`

func (r *ParcelsRepo) Create(ctx context.Context, p parcels.Parcel) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO predio (`+parcelColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		p.ID,
		p.OwnerID,
		toNullString(p.AddressID),
		nullIfEmpty(p.CadastralKey),
		toNullFloat(p.TotalArea),
		toNullFloat(p.Latitude),
		toNullFloat(p.Longitude),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: cadastral key %q", parcels.ErrConflict, p.CadastralKey)
	}
	return err
}

func (r *ParcelsRepo) Update(ctx context.Context, p parcels.Parcel) error {
	if !validID(p.ID) {
		return parcels.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE predio
		SET
			domicilio_id = $2,
			clave_catastral = $3,
			superficie_total = $4,
			latitud = $5,
			longitud = $6,
			updated_at = $7
		WHERE id = $1
	`,
		p.ID,
		toNullString(p.AddressID),
		nullIfEmpty(p.CadastralKey),
		toNullFloat(p.TotalArea),
		toNullFloat(p.Latitude),
		toNullFloat(p.Longitude),
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: cadastral key %q", parcels.ErrConflict, p.CadastralKey)
		}
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return parcels.ErrNotFound
	}
	return nil
}

func (r *ParcelsRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return parcels.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM predio WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return parcels.ErrNotFound
	}
	return nil
}

func (r *ParcelsRepo) GetByID(ctx context.Context, id string) (parcels.Parcel, error) {
	if !validID(id) {
		return parcels.Parcel{}, parcels.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+parcelColumns+` FROM predio WHERE id = $1`, id)
	return scanParcel(row)
}

func (r *ParcelsRepo) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]parcels.Parcel, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+parcelColumns+`
		FROM predio
		WHERE usuario_id = $1
		ORDER BY created_at ASC
		OFFSET $2 LIMIT $3
	`, ownerID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]parcels.Parcel, 0)
	for rows.Next() {
		p, err := scanParcel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanParcel(s scanner) (parcels.Parcel, error) {
	var (
		p              parcels.Parcel
		address, key   sql.NullString
		area, lat, lng sql.NullFloat64
	)
	if err := s.Scan(&p.ID, &p.OwnerID, &address, &key, &area, &lat, &lng, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return parcels.Parcel{}, parcels.ErrNotFound
		}
		return parcels.Parcel{}, err
	}
	p.AddressID = fromNullString(address)
	p.CadastralKey = key.String
	p.TotalArea = fromNullFloat(area)
	p.Latitude = fromNullFloat(lat)
	p.Longitude = fromNullFloat(lng)
	return p, nil
}
