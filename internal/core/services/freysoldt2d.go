package services

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/custodia-labs/defectdoc/internal/core/domain"
)

// hbar2Over2m is hbar^2/(2 m_e) in eV*angstrom^2, converting a
// plane-wave energy cutoff to a reciprocal-space radius.
const hbar2Over2m = 3.80998

// CorrectionFreysoldt2D is the correction key claimed by the 2-D
// strategy.
const CorrectionFreysoldt2D = "freysoldt2d"

// Freysoldt2DStrategy is the finite-size correction variant for charged
// defects in 2-D materials. An effective scalar dielectric is derived
// from the in-plane and out-of-plane tensor components, the defect
// potential is forced onto the bulk lattice (a known approximation: the
// slab routine requires exactly matching cells, and the forcing shifts
// the defect's volumetric data rather than resampling it), and both
// volumes are materialized to a scratch directory for the slab
// correction routine.
type Freysoldt2DStrategy struct {
	// EnergyCutoff bounds the in-plane reciprocal sum, in eV.
	EnergyCutoff float64

	// SlabBuffer is the out-of-plane decay length in angstroms.
	SlabBuffer float64
}

// Name implements Strategy.
func (s *Freysoldt2DStrategy) Name() string { return CorrectionFreysoldt2D }

// Applicable reports true for a charged defect tagged 2-D with a known
// dielectric and both potential volumes present.
func (s *Freysoldt2DStrategy) Applicable(in CorrectionInput) bool {
	return in.Charge != 0 &&
		in.TwoD &&
		in.Dielectric != nil &&
		in.DefectPotential != nil &&
		in.BulkPotential != nil
}

// Apply computes the correction. The scratch directory holding the two
// intermediate potential files is released on every exit path.
func (s *Freysoldt2DStrategy) Apply(in CorrectionInput) (domain.CorrectionSet, map[string]any, error) {
	epsPerp := in.Dielectric.OutOfPlane()
	if epsPerp == 0 || epsPerp == 1 {
		return nil, nil, fmt.Errorf("freysoldt2d: out-of-plane dielectric %.4f unusable: %w", epsPerp, domain.ErrInvalidInput)
	}
	epsEff := (in.Dielectric.InPlane() - 1) / (1 - 1/epsPerp)
	if epsEff <= 0 {
		return nil, nil, fmt.Errorf("freysoldt2d: non-positive effective dielectric %.4f: %w", epsEff, domain.ErrInvalidInput)
	}

	if in.BulkPotential.Structure == nil {
		return nil, nil, fmt.Errorf("freysoldt2d: bulk potential has no cell: %w", domain.ErrInvalidInput)
	}
	// Force the bulk lattice onto the defect volume so the slab routine
	// sees exactly matching cells.
	forced := in.DefectPotential.WithLattice(in.BulkPotential.Structure.Lattice)

	scratch, err := os.MkdirTemp("", "defectdoc-slab-")
	if err != nil {
		return nil, nil, fmt.Errorf("freysoldt2d: scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	bulkPath := filepath.Join(scratch, "locpot_bulk.dat")
	defectPath := filepath.Join(scratch, "locpot_defect.dat")
	if err := in.BulkPotential.WriteFile(bulkPath); err != nil {
		return nil, nil, fmt.Errorf("freysoldt2d: write bulk potential: %w", err)
	}
	if err := forced.WriteFile(defectPath); err != nil {
		return nil, nil, fmt.Errorf("freysoldt2d: write defect potential: %w", err)
	}

	energy, alignment, err := slabCorrection(in.Charge, epsEff, defectPath, bulkPath, in.FracCoords, s.EnergyCutoff, s.SlabBuffer)
	if err != nil {
		return nil, nil, fmt.Errorf("freysoldt2d: %w", err)
	}

	meta := map[string]any{
		"effective_dielectric": epsEff,
		"energy_cutoff":        s.EnergyCutoff,
		"slab_buffer":          s.SlabBuffer,
		"potential_alignment":  alignment,
	}
	corrections := domain.CorrectionSet{
		CorrectionFreysoldt2D: {
			Energy:   energy,
			Metadata: meta,
		},
	}
	return corrections, meta, nil
}

// slabCorrection is the underlying 2-D correction routine. It consumes
// the two materialized potential files: an in-plane reciprocal-space
// image sum bounded by the energy cutoff, damped over the slab buffer,
// plus a potential-alignment term from the out-of-plane planar
// averages.
func slabCorrection(charge int, epsEff float64, defectPath, bulkPath string, frac domain.FracCoord, cutoff, buffer float64) (float64, float64, error) {
	defectVol, err := domain.ReadVolumetricFile(defectPath)
	if err != nil {
		return 0, 0, err
	}
	bulkVol, err := domain.ReadVolumetricFile(bulkPath)
	if err != nil {
		return 0, 0, err
	}
	da, db, dc := defectVol.Dims()
	ba, bb, bc := bulkVol.Dims()
	if da != ba || db != bb || dc != bc {
		return 0, 0, fmt.Errorf("potential grids %dx%dx%d vs %dx%dx%d: %w",
			da, db, dc, ba, bb, bc, domain.ErrInvalidInput)
	}

	lattice := bulkVol.Structure.Lattice
	a := lattice.Vector(0)
	b := lattice.Vector(1)
	cross := domain.CartCoord{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
	area := math.Sqrt(cross[0]*cross[0] + cross[1]*cross[1] + cross[2]*cross[2])
	if area <= 0 {
		return 0, 0, fmt.Errorf("degenerate in-plane cell: %w", domain.ErrInvalidInput)
	}

	recip, err := lattice.Reciprocal()
	if err != nil {
		return 0, 0, err
	}
	b1 := recip.Vector(0)
	b2 := recip.Vector(1)

	gMax := math.Sqrt(cutoff / hbar2Over2m)
	bound := imageBound(gMax, b1, b2)

	q := float64(charge)
	var latticeSum float64
	for m := -bound; m <= bound; m++ {
		for n := -bound; n <= bound; n++ {
			if m == 0 && n == 0 {
				continue
			}
			gx := float64(m)*b1[0] + float64(n)*b2[0]
			gy := float64(m)*b1[1] + float64(n)*b2[1]
			gz := float64(m)*b1[2] + float64(n)*b2[2]
			g := math.Sqrt(gx*gx + gy*gy + gz*gz)
			if g > gMax {
				continue
			}
			latticeSum += math.Exp(-g*buffer) / g
		}
	}
	latticeTerm := math.Pi * coulombConst * q * q / (area * epsEff) * latticeSum

	// Out-of-plane alignment, sampled half a cell from the defect plane.
	pd := defectVol.PlanarAverage(2)
	pb := bulkVol.PlanarAverage(2)
	nPlanes := len(pd)
	if nPlanes == 0 {
		return 0, 0, fmt.Errorf("empty potential grid: %w", domain.ErrInvalidInput)
	}
	defectPlane := int(math.Round(frac[2]*float64(nPlanes))) % nPlanes
	if defectPlane < 0 {
		defectPlane += nPlanes
	}
	far := (defectPlane + nPlanes/2) % nPlanes
	alignment := pd[far] - pb[far]

	return latticeTerm - q*alignment, alignment, nil
}

// imageBound returns the image index bound needed to cover reciprocal
// vectors up to gMax.
func imageBound(gMax float64, b1, b2 domain.CartCoord) int {
	shortest := math.Min(
		math.Sqrt(b1[0]*b1[0]+b1[1]*b1[1]+b1[2]*b1[2]),
		math.Sqrt(b2[0]*b2[0]+b2[1]*b2[1]+b2[2]*b2[2]),
	)
	if shortest <= 0 {
		return 1
	}
	bound := int(gMax/shortest) + 1
	if bound < 1 {
		bound = 1
	}
	return bound
}
