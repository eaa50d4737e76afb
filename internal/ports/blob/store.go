package blob

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound indica que la clave no existe en el almacenamiento.
var ErrNotFound = errors.New("blob not found")

// PutOptions configura una escritura.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Info describe un objeto almacenado.
type Info struct {
	Key         string
	Size        int64
	ContentType string
}

// Store es el almacenamiento de objetos usado por documentos.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
