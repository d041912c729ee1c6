package driven

import (
	"context"

	"github.com/custodia-labs/defectdoc/internal/core/domain"
)

// FormationEnergyProvider is the thermodynamics collaborator contract:
// given one representative bulk entry, the defect entries for one run
// type, the elemental reference entries, a phase diagram and one
// representative valence-band maximum, it returns the multi-defect
// formation-energy diagram. The core does not inspect how the diagram
// is built.
type FormationEnergyProvider interface {
	MultiFormationDiagram(
		ctx context.Context,
		bulk domain.SupercellEntry,
		defects []domain.DefectEntry,
		atomic []domain.ReferenceEntry,
		phaseDiagram domain.PhaseDiagram,
		vbm float64,
	) (*domain.FormationEnergyDiagram, error)
}
