package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/defectdoc/internal/core/domain"
	"github.com/custodia-labs/defectdoc/internal/core/ports/driven"
)

// Ensure DefectDocStore implements the interface.
var _ driven.DefectDocStore = (*DefectDocStore)(nil)

// DefectDocStore is an in-memory implementation of
// driven.DefectDocStore, keyed by document id with a per-material
// index. Suitable for single-process reconciliation runs and tests.
type DefectDocStore struct {
	mu         sync.RWMutex
	docs       map[string]*domain.DefectDoc
	byMaterial map[string]map[string]struct{}
}

// NewDefectDocStore creates a new in-memory defect document store.
func NewDefectDocStore() *DefectDocStore {
	return &DefectDocStore{
		docs:       make(map[string]*domain.DefectDoc),
		byMaterial: make(map[string]map[string]struct{}),
	}
}

// Save stores or replaces a document by its id.
func (s *DefectDocStore) Save(_ context.Context, doc *domain.DefectDoc) error {
	if doc == nil || doc.ID == "" {
		return fmt.Errorf("save document: missing id: %w", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.docs[doc.ID]; ok && old.MaterialID != doc.MaterialID {
		delete(s.byMaterial[old.MaterialID], doc.ID)
	}
	s.docs[doc.ID] = doc
	if s.byMaterial[doc.MaterialID] == nil {
		s.byMaterial[doc.MaterialID] = make(map[string]struct{})
	}
	s.byMaterial[doc.MaterialID][doc.ID] = struct{}{}
	return nil
}

// Get retrieves a document by id.
func (s *DefectDocStore) Get(_ context.Context, id string) (*domain.DefectDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return doc, nil
}

// ListByMaterial returns every document for one host material, sorted
// by defect name then charge.
func (s *DefectDocStore) ListByMaterial(_ context.Context, materialID string) ([]*domain.DefectDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.DefectDoc
	for id := range s.byMaterial[materialID] {
		out = append(out, s.docs[id])
	}
	sortDocs(out)
	return out, nil
}

// List returns every stored document, sorted by material id, defect
// name then charge.
func (s *DefectDocStore) List(_ context.Context) ([]*domain.DefectDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.DefectDoc, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, doc)
	}
	sortDocs(out)
	return out, nil
}

// Delete removes a document. Deleting a missing id is a no-op.
func (s *DefectDocStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil
	}
	delete(s.docs, id)
	delete(s.byMaterial[doc.MaterialID], id)
	return nil
}

func sortDocs(docs []*domain.DefectDoc) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].MaterialID != docs[j].MaterialID {
			return docs[i].MaterialID < docs[j].MaterialID
		}
		if docs[i].Name != docs[j].Name {
			return docs[i].Name < docs[j].Name
		}
		return docs[i].Charge < docs[j].Charge
	})
}
