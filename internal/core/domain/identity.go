package domain

// DefectType classifies the structural nature of a point defect.
type DefectType int

const (
	DefectVacancy DefectType = iota
	DefectSubstitution
	DefectInterstitial
	DefectAdsorbate
)

// String returns the lower-case name of the defect type.
func (t DefectType) String() string {
	switch t {
	case DefectVacancy:
		return "vacancy"
	case DefectSubstitution:
		return "substitution"
	case DefectInterstitial:
		return "interstitial"
	case DefectAdsorbate:
		return "adsorbate"
	default:
		return "unknown"
	}
}

// DefectIdentity is the abstract description of a point defect,
// independent of any particular supercell calculation. Immutable once
// extracted from a task record.
type DefectIdentity struct {
	// Name is the defect name, e.g. "v_O" for an oxygen vacancy.
	Name string

	// Type is the structural classification.
	Type DefectType

	// ElementChanges maps element symbols to the signed change in atom
	// count relative to the host, e.g. {"O": -1} for an oxygen vacancy.
	ElementChanges map[string]int
}

// IsAdsorbate reports whether the defect is of adsorbate type.
func (d DefectIdentity) IsAdsorbate() bool {
	return d.Type == DefectAdsorbate
}

// IsIntrinsic reports whether every element involved in the defect is
// already part of the host structure.
func (d DefectIdentity) IsIntrinsic(host *Structure) bool {
	if host == nil {
		return false
	}
	for el := range d.ElementChanges {
		if !host.HasElement(el) {
			return false
		}
	}
	return true
}
