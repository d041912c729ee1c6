package domain

import "fmt"

// Correction is one named finite-size energy correction: a scalar energy
// adjustment in eV plus structured diagnostic metadata.
type Correction struct {
	Energy   float64
	Metadata map[string]any
}

// CorrectionSet maps correction-strategy names to their contributions.
// Computed fresh per entry build; never merged across entries.
type CorrectionSet map[string]Correction

// TotalEnergy returns the sum of all correction energies.
func (c CorrectionSet) TotalEnergy() float64 {
	var sum float64
	for _, corr := range c {
		sum += corr.Energy
	}
	return sum
}

// Merge adds all corrections from other into c. A key already present
// in c fails with ErrCorrectionConflict: strategies must never silently
// overwrite each other.
func (c CorrectionSet) Merge(other CorrectionSet) error {
	for name, corr := range other {
		if _, exists := c[name]; exists {
			return fmt.Errorf("correction %q: %w", name, ErrCorrectionConflict)
		}
		c[name] = corr
	}
	return nil
}

// SupercellEntry is a structure/energy record for one supercell
// calculation.
type SupercellEntry struct {
	Structure *Structure
	Energy    float64
}

// NumAtoms returns the supercell atom count, the primary merge
// tie-break key.
func (e SupercellEntry) NumAtoms() int {
	if e.Structure == nil {
		return 0
	}
	return e.Structure.NumAtoms()
}

// DefectEntry is a derived defect energy record built from one matched
// (defect task, bulk task) pair. Always rebuilt from task records,
// never mutated in place.
type DefectEntry struct {
	// Identity is the abstract defect description.
	Identity DefectIdentity

	// ChargeState is the net charge of the defect supercell.
	ChargeState int

	// Supercell is the final defect structure with its raw energy.
	Supercell SupercellEntry

	// FracCoords is the defect's fractional position in the supercell.
	FracCoords FracCoord

	// Corrections are the finite-size corrections applied to this entry.
	Corrections CorrectionSet
}

// CorrectedEnergy returns the raw supercell energy plus all corrections.
func (e DefectEntry) CorrectedEnergy() float64 {
	return e.Supercell.Energy + e.Corrections.TotalEnergy()
}
