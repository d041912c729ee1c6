package linear

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/defectdoc/internal/core/domain"
)

func vacancyEntry(charge int, energy, correction float64) domain.DefectEntry {
	entry := domain.DefectEntry{
		Identity: domain.DefectIdentity{
			Name:           "v_O",
			Type:           domain.DefectVacancy,
			ElementChanges: map[string]int{"O": -1},
		},
		ChargeState: charge,
		Supercell:   domain.SupercellEntry{Energy: energy},
		Corrections: domain.CorrectionSet{},
	}
	if correction != 0 {
		entry.Corrections["freysoldt"] = domain.Correction{Energy: correction}
	}
	return entry
}

func TestMultiFormationDiagram(t *testing.T) {
	bulk := domain.SupercellEntry{Energy: -100}
	pd := domain.PhaseDiagram{ChemicalPotentials: map[string]float64{"O": -5}}

	diagram, err := NewProvider().MultiFormationDiagram(
		context.Background(),
		bulk,
		[]domain.DefectEntry{
			vacancyEntry(0, -97, 0),
			vacancyEntry(2, -96, 0.3),
		},
		nil,
		pd,
		1.5,
	)
	require.NoError(t, err)
	require.Len(t, diagram.Lines, 2)
	assert.Equal(t, 1.5, diagram.VBM)

	// Neutral: E_def - E_bulk - (-1)*mu_O = -97 + 100 - 5 = -2.
	assert.Equal(t, "v_O", diagram.Lines[0].Name)
	assert.Equal(t, 0, diagram.Lines[0].Charge)
	assert.InDelta(t, -2.0, diagram.Lines[0].Intercept, 1e-9)

	// Charged: corrected energy and the q*VBM term enter the intercept:
	// (-96 + 0.3) + 100 - 5 + 2*1.5 = 2.3.
	assert.Equal(t, 2, diagram.Lines[1].Charge)
	assert.InDelta(t, 2.3, diagram.Lines[1].Intercept, 1e-9)
}

func TestMultiFormationDiagramAtomicFallback(t *testing.T) {
	bulk := domain.SupercellEntry{Energy: -100}
	atomic := []domain.ReferenceEntry{{Element: "O", EnergyPerAtom: -4}}

	diagram, err := NewProvider().MultiFormationDiagram(
		context.Background(),
		bulk,
		[]domain.DefectEntry{vacancyEntry(0, -97, 0)},
		atomic,
		domain.PhaseDiagram{},
		0,
	)
	require.NoError(t, err)
	// -97 + 100 - 4 = -1.
	assert.InDelta(t, -1.0, diagram.Lines[0].Intercept, 1e-9)
}

func TestMultiFormationDiagramPhaseDiagramWins(t *testing.T) {
	bulk := domain.SupercellEntry{Energy: -100}
	atomic := []domain.ReferenceEntry{{Element: "O", EnergyPerAtom: -4}}
	pd := domain.PhaseDiagram{ChemicalPotentials: map[string]float64{"O": -6}}

	diagram, err := NewProvider().MultiFormationDiagram(
		context.Background(),
		bulk,
		[]domain.DefectEntry{vacancyEntry(0, -97, 0)},
		atomic,
		pd,
		0,
	)
	require.NoError(t, err)
	// Phase-diagram potential overrides the atomic fallback: -97+100-6.
	assert.InDelta(t, -3.0, diagram.Lines[0].Intercept, 1e-9)
}

func TestMultiFormationDiagramErrors(t *testing.T) {
	bulk := domain.SupercellEntry{Energy: -100}

	t.Run("no entries", func(t *testing.T) {
		_, err := NewProvider().MultiFormationDiagram(
			context.Background(), bulk, nil, nil, domain.PhaseDiagram{}, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing chemical potential", func(t *testing.T) {
		_, err := NewProvider().MultiFormationDiagram(
			context.Background(), bulk,
			[]domain.DefectEntry{vacancyEntry(0, -97, 0)},
			nil, domain.PhaseDiagram{}, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewProvider().MultiFormationDiagram(
			ctx, bulk,
			[]domain.DefectEntry{vacancyEntry(0, -97, 0)},
			nil, domain.PhaseDiagram{}, 0)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
