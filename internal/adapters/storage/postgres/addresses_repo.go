package postgres

import (
	"context"
	"database/sql"
	"errors"

	"union-ganadera/internal/domain/addresses"
)

type AddressesRepo struct {
	db *sql.DB
}

func NewAddressesRepo(db *sql.DB) *AddressesRepo {
	return &AddressesRepo{db: db}
}

const addressColumns = `id, usuario_id, calle, colonia, cp, estado, municipio, created_at, updated_at`

func (r *AddressesRepo) Create(ctx context.Context, a addresses.Address) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO domicilios (`+addressColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, a.ID, a.OwnerID, a.Street, a.Neighborhood, a.PostalCode, a.State, a.Municipality, a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *AddressesRepo) Update(ctx context.Context, a addresses.Address) error {
	if !validID(a.ID) {
		return addresses.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE domicilios
		SET calle = $2, colonia = $3, cp = $4, estado = $5, municipio = $6, updated_at = $7
		WHERE id = $1
	`, a.ID, a.Street, a.Neighborhood, a.PostalCode, a.State, a.Municipality, a.UpdatedAt)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return addresses.ErrNotFound
	}
	return nil
}

func (r *AddressesRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return addresses.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM domicilios WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return addresses.ErrNotFound
	}
	return nil
}

func (r *AddressesRepo) GetByID(ctx context.Context, id string) (addresses.Address, error) {
	if !validID(id) {
		return addresses.Address{}, addresses.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+addressColumns+` FROM domicilios WHERE id = $1`, id)
	return scanAddress(row)
}

func (r *AddressesRepo) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]addresses.Address, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+addressColumns+`
		FROM domicilios
		WHERE usuario_id = $1
		ORDER BY created_at ASC
		OFFSET $2 LIMIT $3
	`, ownerID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]addresses.Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAddress(s scanner) (addresses.Address, error) {
	var (
		a                         addresses.Address
		street, hood, cp, st, mun sql.NullString
	)
	if err := s.Scan(&a.ID, &a.OwnerID, &street, &hood, &cp, &st, &mun, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return addresses.Address{}, addresses.ErrNotFound
		}
		return addresses.Address{}, err
	}
	a.Street = street.String
	a.Neighborhood = hood.String
	a.PostalCode = cp.String
	a.State = st.String
	a.Municipality = mun.String
	return a, nil
}
