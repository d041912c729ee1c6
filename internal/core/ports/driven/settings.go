package driven

// SettingsStore provides the reconciliation thresholds and correction
// parameters. Implementations load them from configuration files; the
// core only ever sees explicit values, never global state.
type SettingsStore interface {
	// MaxDisplacement is the atomic-relaxation threshold in angstroms.
	MaxDisplacement() float64

	// DesorptionDistance is the desorption threshold in angstroms.
	DesorptionDistance() float64

	// EnergyCutoff is the in-plane energy cutoff for the 2-D correction
	// in eV.
	EnergyCutoff() float64

	// SlabBuffer is the out-of-plane buffer for the 2-D correction in
	// angstroms.
	SlabBuffer() float64
}
