package linear

import (
	"context"
	"fmt"

	"github.com/custodia-labs/defectdoc/internal/core/domain"
	"github.com/custodia-labs/defectdoc/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.FormationEnergyProvider = (*Provider)(nil)

// Provider computes formation-energy lines with the standard supercell
// expression:
//
//	E_f(E_F) = E_def(corrected) - E_bulk - sum_i n_i*mu_i + q*(VBM + E_F)
//
// so each line's intercept is the formation energy at the valence-band
// maximum and its slope is the charge state.
type Provider struct{}

// NewProvider creates a linear formation-energy provider.
func NewProvider() *Provider {
	return &Provider{}
}

// MultiFormationDiagram implements driven.FormationEnergyProvider.
func (p *Provider) MultiFormationDiagram(
	ctx context.Context,
	bulk domain.SupercellEntry,
	defects []domain.DefectEntry,
	atomic []domain.ReferenceEntry,
	phaseDiagram domain.PhaseDiagram,
	vbm float64,
) (*domain.FormationEnergyDiagram, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(defects) == 0 {
		return nil, fmt.Errorf("formation diagram: no defect entries: %w", domain.ErrInvalidInput)
	}

	potentials := make(map[string]float64, len(phaseDiagram.ChemicalPotentials)+len(atomic))
	for _, ref := range atomic {
		potentials[ref.Element] = ref.EnergyPerAtom
	}
	for el, mu := range phaseDiagram.ChemicalPotentials {
		potentials[el] = mu
	}

	diagram := &domain.FormationEnergyDiagram{
		VBM:   vbm,
		Lines: make([]domain.FormationEnergyLine, 0, len(defects)),
	}
	for _, entry := range defects {
		intercept := entry.CorrectedEnergy() - bulk.Energy
		for el, n := range entry.Identity.ElementChanges {
			mu, ok := potentials[el]
			if !ok {
				return nil, fmt.Errorf("formation diagram: no chemical potential for %s: %w", el, domain.ErrInvalidInput)
			}
			intercept -= float64(n) * mu
		}
		intercept += float64(entry.ChargeState) * vbm
		diagram.Lines = append(diagram.Lines, domain.FormationEnergyLine{
			Name:      entry.Identity.Name,
			Charge:    entry.ChargeState,
			Intercept: intercept,
		})
	}
	return diagram, nil
}
