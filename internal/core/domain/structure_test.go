package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructure_SymbolSet(t *testing.T) {
	s := &Structure{
		Lattice: CubicLattice(5.0),
		Sites: []Site{
			{Species: "Ti", Frac: FracCoord{0, 0, 0}},
			{Species: "O", Frac: FracCoord{0.5, 0, 0}},
			{Species: "O", Frac: FracCoord{0, 0.5, 0}},
			{Species: "O", Frac: FracCoord{0.25, 0.25, 0.25}, Ghost: true},
		},
	}

	assert.Equal(t, []string{"O", "Ti"}, s.SymbolSet())
	assert.True(t, s.HasElement("Ti"))
	assert.False(t, s.HasElement("N"))
}

func TestStructure_GhostSite(t *testing.T) {
	s := &Structure{
		Lattice: CubicLattice(5.0),
		Sites: []Site{
			{Species: "Si", Frac: FracCoord{0, 0, 0}},
			{Species: "Si", Frac: FracCoord{0.5, 0.5, 0.5}, Ghost: true},
		},
	}

	frac, ok := s.GhostSite()

	require.True(t, ok)
	assert.Equal(t, FracCoord{0.5, 0.5, 0.5}, frac)
}

func TestStructure_GhostSiteAbsent(t *testing.T) {
	s := &Structure{
		Lattice: CubicLattice(5.0),
		Sites:   []Site{{Species: "Si", Frac: FracCoord{0, 0, 0}}},
	}

	_, ok := s.GhostSite()

	assert.False(t, ok)
}

func TestStructure_CopyIsDeep(t *testing.T) {
	s := &Structure{
		Lattice: CubicLattice(5.0),
		Sites: []Site{
			{Species: "Si", Frac: FracCoord{0, 0, 0}, Properties: map[string]any{"magmom": 0.5}},
		},
		Charge: -2,
	}

	c := s.Copy()
	c.Sites[0].Species = "Ge"
	c.Sites[0].Properties["magmom"] = 1.0

	assert.Equal(t, "Si", s.Sites[0].Species)
	assert.Equal(t, 0.5, s.Sites[0].Properties["magmom"])
	assert.Equal(t, -2, c.Charge)
}

func TestVolumetricData_PlanarAverage(t *testing.T) {
	// 2x2x2 grid where the value equals the c-layer index.
	grid := make([][][]float64, 2)
	for i := range grid {
		grid[i] = make([][]float64, 2)
		for j := range grid[i] {
			grid[i][j] = []float64{0.0, 1.0}
		}
	}
	v := &VolumetricData{
		Structure: &Structure{Lattice: CubicLattice(4.0)},
		Grid:      grid,
	}

	avg := v.PlanarAverage(2)

	require.Len(t, avg, 2)
	assert.InDelta(t, 0.0, avg[0], 1e-12)
	assert.InDelta(t, 1.0, avg[1], 1e-12)
}

func TestVolumetricData_WithLattice(t *testing.T) {
	v := &VolumetricData{
		Structure: &Structure{Lattice: CubicLattice(4.0)},
		Grid:      [][][]float64{{{1.0}}},
	}

	forced := v.WithLattice(CubicLattice(5.0))

	assert.InDelta(t, 5.0, forced.Structure.Lattice.Matrix[0][0], 1e-12)
	// Original untouched.
	assert.InDelta(t, 4.0, v.Structure.Lattice.Matrix[0][0], 1e-12)
	assert.Equal(t, v.Grid[0][0][0], forced.Grid[0][0][0])
}

func TestVolumetricData_FileRoundTrip(t *testing.T) {
	v := &VolumetricData{
		Structure: &Structure{Lattice: Lattice{Matrix: [3][3]float64{{4, 0, 0}, {0, 5, 0}, {0, 0, 6}}}},
		Grid: [][][]float64{
			{{0.1, 0.2}, {0.3, 0.4}},
			{{0.5, 0.6}, {0.7, 0.8}},
		},
	}
	path := t.TempDir() + "/vol.dat"

	require.NoError(t, v.WriteFile(path))
	back, err := ReadVolumetricFile(path)

	require.NoError(t, err)
	na, nb, nc := back.Dims()
	assert.Equal(t, [3]int{2, 2, 2}, [3]int{na, nb, nc})
	assert.InDelta(t, 0.7, back.Grid[1][1][0], 1e-9)
	assert.InDelta(t, 5.0, back.Structure.Lattice.Matrix[1][1], 1e-9)
}

func TestReadVolumetricFile_Truncated(t *testing.T) {
	path := t.TempDir() + "/bad.dat"
	require.NoError(t, writeFileString(path, "1 0 0\n0 1 0\n0 0 1\n2 2 2\n0.5\n"))

	_, err := ReadVolumetricFile(path)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
