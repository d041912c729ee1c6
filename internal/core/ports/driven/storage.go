package driven

import (
	"context"

	"github.com/custodia-labs/defectdoc/internal/core/domain"
)

// DefectDocStore holds reconciled defect documents between merges.
// Implementations own concurrency; the core treats stored documents as
// owned by the store once saved.
type DefectDocStore interface {
	// Save stores or replaces a document by its id.
	Save(ctx context.Context, doc *domain.DefectDoc) error

	// Get retrieves a document by id. Misses fail with
	// domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.DefectDoc, error)

	// ListByMaterial returns every document for one host material.
	ListByMaterial(ctx context.Context, materialID string) ([]*domain.DefectDoc, error)

	// List returns every stored document.
	List(ctx context.Context) ([]*domain.DefectDoc, error)

	// Delete removes a document. Deleting a missing id is a no-op.
	Delete(ctx context.Context, id string) error
}
