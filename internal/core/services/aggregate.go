package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/defectdoc/internal/core/domain"
	"github.com/custodia-labs/defectdoc/internal/core/ports/driven"
	"github.com/custodia-labs/defectdoc/internal/logger"
)

// GroupByMaterial partitions defect documents by host material and
// builds one aggregate per material, sorted by material id.
func GroupByMaterial(docs []*domain.DefectDoc) []*domain.DefectiveMaterialDoc {
	byMaterial := make(map[string][]*domain.DefectDoc)
	for _, doc := range docs {
		byMaterial[doc.MaterialID] = append(byMaterial[doc.MaterialID], doc)
	}

	ids := make([]string, 0, len(byMaterial))
	for id := range byMaterial {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*domain.DefectiveMaterialDoc, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.NewDefectiveMaterialDoc(id, byMaterial[id]))
	}
	return out
}

// DocFilter selects which member documents enter a formation-energy
// view. A nil filter admits everything.
type DocFilter func(*domain.DefectDoc) bool

// FormationEnergyView assembles the formation-energy diagram for one
// aggregate and one run type, delegating the thermodynamics to the
// provider. Members lacking a canonical record for the run type, or
// rejected by the filter, are skipped. One representative bulk entry
// and valence-band maximum are taken from the first admitted member.
func FormationEnergyView(
	ctx context.Context,
	agg *domain.DefectiveMaterialDoc,
	runType domain.RunType,
	atomic []domain.ReferenceEntry,
	phaseDiagram domain.PhaseDiagram,
	filter DocFilter,
	provider driven.FormationEnergyProvider,
) (*domain.FormationEnergyDiagram, error) {
	if agg == nil {
		return nil, fmt.Errorf("formation energy view: nil aggregate: %w", domain.ErrInvalidInput)
	}
	if provider == nil {
		return nil, fmt.Errorf("formation energy view: nil provider: %w", domain.ErrInvalidInput)
	}

	var defects []domain.DefectEntry
	var bulk domain.SupercellEntry
	var vbm float64
	found := false
	for _, doc := range agg.DefectDocs {
		rec, ok := doc.Record(runType)
		if !ok {
			continue
		}
		if filter != nil && !filter(doc) {
			continue
		}
		if !found {
			bulk = rec.Bulk
			vbm = rec.VBM
			found = true
		}
		defects = append(defects, rec.Defect)
	}
	if !found {
		return nil, fmt.Errorf("formation energy view: no member has a %s record: %w", runType, domain.ErrInvalidInput)
	}

	logger.Debug("formation energy view for %s (%s): %d defects", agg.MaterialID, runType, len(defects))
	diagram, err := provider.MultiFormationDiagram(ctx, bulk, defects, atomic, phaseDiagram, vbm)
	if err != nil {
		return nil, fmt.Errorf("formation energy view: %w", err)
	}
	diagram.MaterialID = agg.MaterialID
	diagram.RunType = runType
	return diagram, nil
}
