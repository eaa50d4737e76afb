package animals

import (
	"context"
	"crypto/rand"
	"io"
)

const (
	folioAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	folioLength      = 7
	folioMaxAttempts = 10
)

// FolioGenerator sortea folios de 7 caracteres A-Z0-9.
type FolioGenerator struct {
	rand   io.Reader
	exists func(ctx context.Context, folio string) (bool, error)
}

// NewFolioGenerator usa crypto/rand si src es nil.
func NewFolioGenerator(src io.Reader, exists func(ctx context.Context, folio string) (bool, error)) *FolioGenerator {
	if src == nil {
		src = rand.Reader
	}
	return &FolioGenerator{rand: src, exists: exists}
}

// Generate intenta hasta 10 sorteos sin colisión. Si los 10 colisionan
// devuelve el último sorteado: no hay garantía dura de unicidad.
func (g *FolioGenerator) Generate(ctx context.Context) (string, error) {
	var folio string
	for i := 0; i < folioMaxAttempts; i++ {
		f, err := g.draw()
		if err != nil {
			return "", err
		}
		folio = f

		taken, err := g.exists(ctx, folio)
		if err != nil {
			return "", err
		}
		if !taken {
			break
		}
	}
	return folio, nil
}

// draw usa muestreo por rechazo para que cada símbolo sea uniforme
// (252 = 7*36 es el mayor múltiplo de 36 que cabe en un byte).
func (g *FolioGenerator) draw() (string, error) {
	const limit = 256 - 256%len(folioAlphabet)

	out := make([]byte, 0, folioLength)
	buf := make([]byte, folioLength*2)
	for len(out) < folioLength {
		if _, err := io.ReadFull(g.rand, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, folioAlphabet[int(b)%len(folioAlphabet)])
			if len(out) == folioLength {
				break
			}
		}
	}
	return string(out), nil
}
