package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/defectdoc/internal/core/domain"
)

// relaxationCase builds a defect task whose only site outside the
// isolation sphere moved by the given distance in angstroms.
func relaxationCase(displacement float64) (*domain.TaskRecord, domain.DefectEntry) {
	initial := &domain.Structure{
		Lattice: domain.CubicLattice(10),
		Sites: []domain.Site{
			{Species: "Mg", Frac: domain.FracCoord{0, 0, 0}},
			{Species: "Mg", Frac: domain.FracCoord{0.45, 0.5, 0.5}},
		},
	}
	final := initial.Copy()
	final.Sites[0].Frac = domain.FracCoord{displacement / 10, 0, 0}

	task := &domain.TaskRecord{
		TaskID:         "task-relax",
		Structure:      final,
		InputStructure: initial,
	}
	entry := domain.DefectEntry{
		Identity:   vacancyIdentity(),
		Supercell:  domain.SupercellEntry{Structure: final},
		FracCoords: domain.FracCoord{0.5, 0.5, 0.5},
	}
	return task, entry
}

func TestValidateAtomicRelaxation(t *testing.T) {
	v := NewValidator(DefaultValidatorConfig())

	t.Run("at threshold passes", func(t *testing.T) {
		task, entry := relaxationCase(0.02)
		outcome, err := v.Validate(task, entry)
		require.NoError(t, err)
		assert.True(t, outcome[domain.CheckAtomicRelaxation])
		assert.True(t, outcome.OK())
	})

	t.Run("above threshold fails", func(t *testing.T) {
		task, entry := relaxationCase(0.021)
		outcome, err := v.Validate(task, entry)
		require.NoError(t, err)
		assert.False(t, outcome[domain.CheckAtomicRelaxation])
		assert.False(t, outcome.OK())
	})

	t.Run("missing input structure passes", func(t *testing.T) {
		task, entry := relaxationCase(5)
		task.InputStructure = nil
		outcome, err := v.Validate(task, entry)
		require.NoError(t, err)
		assert.True(t, outcome[domain.CheckAtomicRelaxation])
	})

	t.Run("malformed input errors", func(t *testing.T) {
		task, entry := relaxationCase(0.01)
		task.InputStructure = withoutSite(task.InputStructure, 0)
		_, err := v.Validate(task, entry)
		assert.ErrorIs(t, err, domain.ErrGeometry)
	})
}

// adsorbateCase builds an adsorbate entry with one neighbour at the
// given distance in angstroms.
func adsorbateCase(neighbourDist float64) (*domain.TaskRecord, domain.DefectEntry) {
	s := &domain.Structure{
		Lattice: domain.CubicLattice(20),
		Sites: []domain.Site{
			{Species: "H", Frac: domain.FracCoord{0.5, 0.5, 0.5}},
			{Species: "Mg", Frac: domain.FracCoord{0.5, 0.5, 0.5 + neighbourDist/20}},
		},
	}
	task := &domain.TaskRecord{TaskID: "task-ads", Structure: s}
	entry := domain.DefectEntry{
		Identity: domain.DefectIdentity{
			Name:           "H_ads",
			Type:           domain.DefectAdsorbate,
			ElementChanges: map[string]int{"H": 1},
		},
		Supercell:  domain.SupercellEntry{Structure: s},
		FracCoords: domain.FracCoord{0.5, 0.5, 0.5},
	}
	return task, entry
}

func TestValidateDesorption(t *testing.T) {
	v := NewValidator(DefaultValidatorConfig())

	t.Run("attached", func(t *testing.T) {
		task, entry := adsorbateCase(2)
		outcome, err := v.Validate(task, entry)
		require.NoError(t, err)
		assert.True(t, outcome[domain.CheckDesorption])
	})

	t.Run("desorbed", func(t *testing.T) {
		task, entry := adsorbateCase(5)
		outcome, err := v.Validate(task, entry)
		require.NoError(t, err)
		assert.False(t, outcome[domain.CheckDesorption])
		assert.False(t, outcome.OK())
	})

	t.Run("skipped for non-adsorbate", func(t *testing.T) {
		task, entry := adsorbateCase(5)
		entry.Identity = vacancyIdentity()
		outcome, err := v.Validate(task, entry)
		require.NoError(t, err)
		assert.True(t, outcome[domain.CheckDesorption])
	})
}

func TestValidateOutcomeAlwaysComplete(t *testing.T) {
	v := NewValidator(DefaultValidatorConfig())
	task, entry := relaxationCase(0.01)
	outcome, err := v.Validate(task, entry)
	require.NoError(t, err)
	assert.Contains(t, outcome, domain.CheckAtomicRelaxation)
	assert.Contains(t, outcome, domain.CheckDesorption)
}
