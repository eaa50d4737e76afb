package animals

import "context"

// OwnerOf expone el dueño actual de un animal.
// Lo usa el despachador de eventos sin depender del resto del servicio.
func (s *Service) OwnerOf(ctx context.Context, animalID string) (string, error) {
	a, err := s.GetByID(ctx, animalID)
	if err != nil {
		return "", err
	}
	return a.OwnerID, nil
}
