package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"union-ganadera/internal/platform/logger"
	"union-ganadera/internal/ports/blob"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("document not found")
	ErrForbidden    = errors.New("forbidden")
	ErrStorage      = errors.New("storage failure")
)

type Service struct {
	repo  Repository
	store blob.Store
	ttl   time.Duration
	log   logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, store blob.Store, presignTTL time.Duration, log logger.Logger) *Service {
	if presignTTL <= 0 {
		presignTTL = time.Hour
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Service{repo: repo, store: store, ttl: presignTTL, log: log, now: time.Now}
}

type UploadInput struct {
	Type        DocType
	Filename    string
	ContentType string
	Body        io.Reader
}

// Upload sube el archivo y registra el documento. Si ya había uno del mismo
// tipo se reemplaza (se borra su objeto primero; si el objeto ya no existe se ignora).
func (s *Service) Upload(ctx context.Context, ownerID string, in UploadInput) (Document, error) {
	if strings.TrimSpace(ownerID) == "" || in.Body == nil {
		return Document{}, ErrInvalidInput
	}
	if !in.Type.Valid() {
		return Document{}, fmt.Errorf("%w: unknown doc_type %q", ErrInvalidInput, in.Type)
	}

	prev, found, err := s.repo.FindByOwnerAndType(ctx, ownerID, in.Type)
	if err != nil {
		return Document{}, err
	}
	if found {
		if err := s.store.Delete(ctx, prev.StorageKey); err != nil && !errors.Is(err, blob.ErrNotFound) {
			s.log.Warn("replace: delete previous object failed", map[string]any{"key": prev.StorageKey, "err": err})
		}
		if err := s.repo.Delete(ctx, prev.ID); err != nil {
			return Document{}, err
		}
	}

	filename := filepath.Base(strings.TrimSpace(in.Filename))
	if filename == "." || filename == string(filepath.Separator) {
		filename = ""
	}
	key := StorageKey(ownerID, in.Type, uuid.NewString(), filename)

	if _, err := s.store.Put(ctx, key, in.Body, blob.PutOptions{
		ContentType: in.ContentType,
		Metadata:    map[string]string{"owner": ownerID, "doc-type": string(in.Type)},
	}); err != nil {
		return Document{}, fmt.Errorf("%w: upload: %v", ErrStorage, err)
	}

	d := Document{
		ID:               uuid.NewString(),
		OwnerID:          ownerID,
		Type:             in.Type,
		StorageKey:       key,
		OriginalFilename: filename,
		CreatedAt:        s.now(),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		// sin fila no hay forma de llegar al objeto: se limpia
		_ = s.store.Delete(ctx, key)
		return Document{}, err
	}
	return d, nil
}

// Listed es un documento con su URL de descarga (nil si no se pudo firmar).
type Listed struct {
	Document
	DownloadURL *string
}

func (s *Service) List(ctx context.Context, ownerID string, offset, limit int) ([]Listed, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, err
	}

	out := make([]Listed, 0, len(items))
	for _, d := range items {
		l := Listed{Document: d}
		u, err := s.store.PresignGet(ctx, d.StorageKey, s.ttl)
		if err != nil {
			s.log.Warn("presign failed", map[string]any{"doc_id": d.ID, "err": err})
		} else {
			l.DownloadURL = &u
		}
		out = append(out, l)
	}
	return out, nil
}

// Delete borra objeto y fila. Si el objeto no se puede borrar la fila se conserva.
func (s *Service) Delete(ctx context.Context, id, ownerID string) (Document, error) {
	d, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Document{}, err
	}
	if d.OwnerID != ownerID {
		return Document{}, ErrForbidden
	}

	if err := s.store.Delete(ctx, d.StorageKey); err != nil && !errors.Is(err, blob.ErrNotFound) {
		return Document{}, fmt.Errorf("%w: delete object: %v", ErrStorage, err)
	}
	if err := s.repo.Delete(ctx, d.ID); err != nil {
		return Document{}, err
	}
	return d, nil
}

// StorageKey arma "<usuario>/<tipo>/<uuid><ext>".
func StorageKey(ownerID string, t DocType, id, filename string) string {
	return ownerID + "/" + string(t) + "/" + id + filepath.Ext(filename)
}
