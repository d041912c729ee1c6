package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectionSet_TotalEnergy(t *testing.T) {
	cs := CorrectionSet{
		"freysoldt":           {Energy: 0.25},
		"potential_alignment": {Energy: -0.05},
	}

	assert.InDelta(t, 0.20, cs.TotalEnergy(), 1e-12)
}

func TestCorrectionSet_MergeDisjoint(t *testing.T) {
	cs := CorrectionSet{"freysoldt": {Energy: 0.25}}

	err := cs.Merge(CorrectionSet{"freysoldt2d": {Energy: 0.1}})

	require.NoError(t, err)
	assert.Len(t, cs, 2)
}

func TestCorrectionSet_MergeConflict(t *testing.T) {
	cs := CorrectionSet{"freysoldt": {Energy: 0.25}}

	err := cs.Merge(CorrectionSet{"freysoldt": {Energy: 0.3}})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrectionConflict)
	// Original value retained.
	assert.InDelta(t, 0.25, cs["freysoldt"].Energy, 1e-12)
}

func TestDefectEntry_CorrectedEnergy(t *testing.T) {
	entry := DefectEntry{
		ChargeState: 1,
		Supercell:   SupercellEntry{Energy: -100.0},
		Corrections: CorrectionSet{"freysoldt": {Energy: 0.4}},
	}

	assert.InDelta(t, -99.6, entry.CorrectedEnergy(), 1e-12)
}

func TestValidationOutcome_OK(t *testing.T) {
	assert.True(t, ValidationOutcome{CheckAtomicRelaxation: true, CheckDesorption: true}.OK())
	assert.False(t, ValidationOutcome{CheckAtomicRelaxation: true, CheckDesorption: false}.OK())
	assert.True(t, ValidationOutcome{}.OK())
}

func TestDefectIdentity_IsIntrinsic(t *testing.T) {
	host := &Structure{
		Lattice: CubicLattice(5.0),
		Sites: []Site{
			{Species: "Ga", Frac: FracCoord{0, 0, 0}},
			{Species: "N", Frac: FracCoord{0.25, 0.25, 0.25}},
		},
	}

	vacancy := DefectIdentity{Name: "v_N", Type: DefectVacancy, ElementChanges: map[string]int{"N": -1}}
	dopant := DefectIdentity{Name: "Mg_Ga", Type: DefectSubstitution, ElementChanges: map[string]int{"Ga": -1, "Mg": 1}}

	assert.True(t, vacancy.IsIntrinsic(host))
	assert.False(t, dopant.IsIntrinsic(host))
}
