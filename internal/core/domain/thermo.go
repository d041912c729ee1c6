package domain

// ReferenceEntry is an elemental reference calculation used to anchor
// chemical potentials in a formation-energy diagram.
type ReferenceEntry struct {
	// Element is the element symbol.
	Element string

	// EnergyPerAtom is the reference energy per atom in eV.
	EnergyPerAtom float64
}

// PhaseDiagram is the thermodynamic context supplied by the caller. The
// core treats it as opaque beyond reading chemical potentials.
type PhaseDiagram struct {
	// ChemicalPotentials maps element symbols to chemical potentials in
	// eV per atom at the chosen conditions.
	ChemicalPotentials map[string]float64
}

// FormationEnergyLine is one defect's formation energy as a function of
// the Fermi level: E_f(E_F) = Intercept + Charge * E_F, with E_F
// referenced to the valence-band maximum.
type FormationEnergyLine struct {
	Name      string
	Charge    int
	Intercept float64
}

// FormationEnergyDiagram is the multi-defect formation-energy view for
// one host material and one run type, produced by the thermodynamics
// collaborator.
type FormationEnergyDiagram struct {
	MaterialID string
	RunType    RunType
	VBM        float64
	Lines      []FormationEnergyLine
}
