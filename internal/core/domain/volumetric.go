package domain

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// VolumeKind names a volumetric field emitted by the simulation code.
type VolumeKind string

// Volumetric field kinds recognised at the task-record boundary.
const (
	VolumeHartreePotential VolumeKind = "v_hartree"
	VolumeElectronDensity  VolumeKind = "electron_density"
	VolumeSpinDensity      VolumeKind = "spin_density"
)

// VolumetricData is a scalar field sampled on a regular grid spanning a
// structure's cell. Grid is indexed [a][b][c] along the lattice vectors.
type VolumetricData struct {
	Structure *Structure
	Grid      [][][]float64
}

// Dims returns the grid dimensions along a, b and c.
func (v *VolumetricData) Dims() (int, int, int) {
	na := len(v.Grid)
	if na == 0 {
		return 0, 0, 0
	}
	nb := len(v.Grid[0])
	if nb == 0 {
		return na, 0, 0
	}
	return na, nb, len(v.Grid[0][0])
}

// PlanarAverage returns the field averaged over the planes perpendicular
// to the given lattice direction (0, 1 or 2).
func (v *VolumetricData) PlanarAverage(axis int) []float64 {
	na, nb, nc := v.Dims()
	dims := [3]int{na, nb, nc}
	n := dims[axis]
	if n == 0 {
		return nil
	}
	out := make([]float64, n)
	var count int
	switch axis {
	case 0:
		count = nb * nc
	case 1:
		count = na * nc
	default:
		count = na * nb
	}
	for i := 0; i < na; i++ {
		for j := 0; j < nb; j++ {
			for k := 0; k < nc; k++ {
				switch axis {
				case 0:
					out[i] += v.Grid[i][j][k]
				case 1:
					out[j] += v.Grid[i][j][k]
				default:
					out[k] += v.Grid[i][j][k]
				}
			}
		}
	}
	for i := range out {
		out[i] /= float64(count)
	}
	return out
}

// Copy returns a deep copy of the volumetric data.
func (v *VolumetricData) Copy() *VolumetricData {
	na, nb, nc := v.Dims()
	grid := make([][][]float64, na)
	for i := 0; i < na; i++ {
		grid[i] = make([][]float64, nb)
		for j := 0; j < nb; j++ {
			grid[i][j] = make([]float64, nc)
			copy(grid[i][j], v.Grid[i][j])
		}
	}
	var st *Structure
	if v.Structure != nil {
		st = v.Structure.Copy()
	}
	return &VolumetricData{Structure: st, Grid: grid}
}

// WithLattice returns a copy of the volumetric data with the lattice
// replaced. The grid values are untouched, so the field is effectively
// shifted onto the new cell. This is the lattice-forcing approximation
// used by the 2-D finite-size correction.
func (v *VolumetricData) WithLattice(l Lattice) *VolumetricData {
	out := v.Copy()
	if out.Structure == nil {
		out.Structure = &Structure{}
	}
	out.Structure.Lattice = l
	return out
}

// WriteFile materializes the volume as a plain-text file: three lattice
// rows, a dims row, then grid values in a-major order. The format is
// only used for transient scratch files consumed by the slab correction
// routine.
func (v *VolumetricData) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var lat Lattice
	if v.Structure != nil {
		lat = v.Structure.Lattice
	}
	for i := 0; i < 3; i++ {
		fmt.Fprintf(w, "%.10f %.10f %.10f\n", lat.Matrix[i][0], lat.Matrix[i][1], lat.Matrix[i][2])
	}
	na, nb, nc := v.Dims()
	fmt.Fprintf(w, "%d %d %d\n", na, nb, nc)
	for i := 0; i < na; i++ {
		for j := 0; j < nb; j++ {
			for k := 0; k < nc; k++ {
				fmt.Fprintf(w, "%.10e\n", v.Grid[i][j][k])
			}
		}
	}
	return w.Flush()
}

// ReadVolumetricFile reads a volume written by WriteFile.
func ReadVolumetricFile(path string) (*VolumetricData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var lat Lattice
	for i := 0; i < 3; i++ {
		row, err := scanFields(sc, 3)
		if err != nil {
			return nil, fmt.Errorf("volume lattice row %d: %w", i, err)
		}
		lat.Matrix[i] = [3]float64{row[0], row[1], row[2]}
	}
	dims, err := scanFields(sc, 3)
	if err != nil {
		return nil, fmt.Errorf("volume dims: %w", err)
	}
	na, nb, nc := int(dims[0]), int(dims[1]), int(dims[2])
	if na <= 0 || nb <= 0 || nc <= 0 {
		return nil, fmt.Errorf("non-positive volume dims: %w", ErrInvalidInput)
	}
	grid := make([][][]float64, na)
	for i := 0; i < na; i++ {
		grid[i] = make([][]float64, nb)
		for j := 0; j < nb; j++ {
			grid[i][j] = make([]float64, nc)
			for k := 0; k < nc; k++ {
				row, err := scanFields(sc, 1)
				if err != nil {
					return nil, fmt.Errorf("volume value (%d,%d,%d): %w", i, j, k, err)
				}
				grid[i][j][k] = row[0]
			}
		}
	}
	return &VolumetricData{
		Structure: &Structure{Lattice: lat},
		Grid:      grid,
	}, nil
}

func scanFields(sc *bufio.Scanner, n int) ([]float64, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unexpected end of file: %w", ErrInvalidInput)
	}
	fields := strings.Fields(sc.Text())
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d fields, got %d: %w", n, len(fields), ErrInvalidInput)
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", f, ErrInvalidInput)
		}
		out[i] = v
	}
	return out, nil
}
