package services

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/defectdoc/internal/core/domain"
)

func slabInput(charge int) CorrectionInput {
	s := withCharge(simpleCubic("Mo", 10, 1), charge)
	bulk := simpleCubic("Mo", 10, 1)
	return CorrectionInput{
		Charge: charge,
		TwoD:   true,
		Dielectric: &domain.DielectricTensor{
			{15, 0, 0},
			{0, 15, 0},
			{0, 0, 1.8},
		},
		DefectStructure: s,
		BulkStructure:   bulk,
		FracCoords:      domain.FracCoord{0.5, 0.5, 0.5},
		DefectPotential: constantVolume(s, 4, 4, 8, -0.2),
		BulkPotential:   constantVolume(bulk, 4, 4, 8, -0.2),
	}
}

func TestFreysoldt2DApplicable(t *testing.T) {
	strategy := &Freysoldt2DStrategy{EnergyCutoff: 520, SlabBuffer: 2}
	base := slabInput(1)
	assert.True(t, strategy.Applicable(base))

	flat := base
	flat.TwoD = false
	assert.False(t, strategy.Applicable(flat))

	neutral := base
	neutral.Charge = 0
	assert.False(t, strategy.Applicable(neutral))

	noPot := base
	noPot.DefectPotential = nil
	assert.False(t, strategy.Applicable(noPot))
}

func TestFreysoldt2DApply(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	strategy := &Freysoldt2DStrategy{EnergyCutoff: 520, SlabBuffer: 2}
	set, meta, err := strategy.Apply(slabInput(1))
	require.NoError(t, err)
	require.Contains(t, set, CorrectionFreysoldt2D)

	// eps_eff = (eps_par - 1) / (1 - 1/eps_perp) = 14 / (4/9).
	assert.InDelta(t, 31.5, meta["effective_dielectric"].(float64), 1e-9)

	// Flat identical potentials leave no alignment; the image sum is
	// strictly positive for a charged cell.
	assert.InDelta(t, 0, meta["potential_alignment"].(float64), 1e-12)
	assert.Greater(t, set[CorrectionFreysoldt2D].Energy, 0.0)
}

func TestFreysoldt2DApplyReleasesScratch(t *testing.T) {
	scratch := t.TempDir()
	t.Setenv("TMPDIR", scratch)

	strategy := &Freysoldt2DStrategy{EnergyCutoff: 520, SlabBuffer: 2}
	_, _, err := strategy.Apply(slabInput(1))
	require.NoError(t, err)

	left, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, left, "scratch directory must be released")
}

func TestFreysoldt2DApplyErrors(t *testing.T) {
	strategy := &Freysoldt2DStrategy{EnergyCutoff: 520, SlabBuffer: 2}

	t.Run("vacuum out-of-plane dielectric", func(t *testing.T) {
		in := slabInput(1)
		in.Dielectric = &domain.DielectricTensor{
			{15, 0, 0},
			{0, 15, 0},
			{0, 0, 1},
		}
		_, _, err := strategy.Apply(in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("non-positive effective dielectric", func(t *testing.T) {
		in := slabInput(1)
		in.Dielectric = &domain.DielectricTensor{
			{0.5, 0, 0},
			{0, 0.5, 0},
			{0, 0, 1.8},
		}
		_, _, err := strategy.Apply(in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("grid mismatch releases scratch", func(t *testing.T) {
		scratch := t.TempDir()
		t.Setenv("TMPDIR", scratch)

		in := slabInput(1)
		in.BulkPotential = constantVolume(in.BulkStructure, 4, 4, 4, 0)
		_, _, err := strategy.Apply(in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		left, err := os.ReadDir(scratch)
		require.NoError(t, err)
		assert.Empty(t, left)
	})
}
