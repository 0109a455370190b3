package deal

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Haleralex/paytogether/internal/domain/errors"
	"github.com/Haleralex/paytogether/internal/domain/validators"
)

// Delete удаляет deal по ID.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.deals.DeleteByID(ctx, id); err != nil {
		if stderrors.Is(err, errors.ErrEntityNotFound) {
			return errors.NewNotFoundError(validators.CodeDealNotFound, id.String())
		}
		return fmt.Errorf("failed to delete deal: %w", err)
	}
	return nil
}
