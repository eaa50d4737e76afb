package postgres

import (
	"context"
	"database/sql"
	"errors"

	"union-ganadera/internal/domain/documents"
)

type DocumentsRepo struct {
	db *sql.DB
}

func NewDocumentsRepo(db *sql.DB) *DocumentsRepo {
	return &DocumentsRepo{db: db}
}

const documentColumns = `id, usuario_id, doc_type, storage_key, original_filename, authored, created_at`

func (r *DocumentsRepo) Create(ctx context.Context, d documents.Document) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documentos (`+documentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, d.ID, d.OwnerID, string(d.Type), d.StorageKey, d.OriginalFilename, d.Authored, d.CreatedAt)
	return err
}

func (r *DocumentsRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return documents.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM documentos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return documents.ErrNotFound
	}
	return nil
}

func (r *DocumentsRepo) GetByID(ctx context.Context, id string) (documents.Document, error) {
	if !validID(id) {
		return documents.Document{}, documents.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documentos WHERE id = $1`, id)
	return scanDocument(row)
}

func (r *DocumentsRepo) FindByOwnerAndType(ctx context.Context, ownerID string, t documents.DocType) (documents.Document, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+`
		FROM documentos
		WHERE usuario_id = $1 AND doc_type = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, ownerID, string(t))
	d, err := scanDocument(row)
	if errors.Is(err, documents.ErrNotFound) {
		return documents.Document{}, false, nil
	}
	if err != nil {
		return documents.Document{}, false, err
	}
	return d, true, nil
}

func (r *DocumentsRepo) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]documents.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+documentColumns+`
		FROM documentos
		WHERE usuario_id = $1
		ORDER BY created_at ASC
		OFFSET $2 LIMIT $3
	`, ownerID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]documents.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDocument(s scanner) (documents.Document, error) {
	var (
		d        documents.Document
		docType  string
		filename sql.NullString
		authored sql.NullBool
	)
	if err := s.Scan(&d.ID, &d.OwnerID, &docType, &d.StorageKey, &filename, &authored, &d.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return documents.Document{}, documents.ErrNotFound
		}
		return documents.Document{}, err
	}
	d.Type = documents.DocType(docType)
	d.OriginalFilename = filename.String
	d.Authored = authored.Bool
	return d, nil
}
