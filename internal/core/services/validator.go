package services

import (
	"fmt"

	"github.com/custodia-labs/defectdoc/internal/core/domain"
)

// ValidatorConfig holds the physical-plausibility thresholds. Passed
// explicitly at construction; there is no global settings state.
type ValidatorConfig struct {
	// MaxDisplacement is the largest acceptable mean displacement, in
	// angstroms, of atoms outside the isolation sphere. Larger means
	// the supercell was too small to isolate the defect's elastic
	// field.
	MaxDisplacement float64

	// DesorptionDistance is the distance, in angstroms, beyond which an
	// adsorbate with no neighbour counts as detached.
	DesorptionDistance float64
}

// DefaultValidatorConfig returns the standard thresholds.
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		MaxDisplacement:    0.02,
		DesorptionDistance: 3.0,
	}
}

// Validator applies physically motivated pass/fail predicates to a
// built defect entry. Stateless; physical failures are recorded as
// flags, never raised as errors.
type Validator struct {
	cfg ValidatorConfig
}

// NewValidator creates a validator with the given thresholds.
func NewValidator(cfg ValidatorConfig) *Validator {
	return &Validator{cfg: cfg}
}

// Validate runs every check against the defect task and its built
// entry. Both flags are always present in the outcome; neither check
// blocks the other. Only malformed input errors.
func (v *Validator) Validate(defectTask *domain.TaskRecord, entry domain.DefectEntry) (domain.ValidationOutcome, error) {
	outcome := domain.ValidationOutcome{
		domain.CheckAtomicRelaxation: true,
		domain.CheckDesorption:       true,
	}

	relaxOK, err := v.checkAtomicRelaxation(defectTask, entry)
	if err != nil {
		return nil, err
	}
	outcome[domain.CheckAtomicRelaxation] = relaxOK

	if entry.Identity.IsAdsorbate() {
		outcome[domain.CheckDesorption] = v.checkDesorption(entry)
	}
	return outcome, nil
}

// checkAtomicRelaxation fails when the mean displacement of atoms
// outside the isolation sphere exceeds the threshold. A value exactly
// equal to the threshold passes. Skipped (passes) when the producer did
// not supply the input structure.
func (v *Validator) checkAtomicRelaxation(defectTask *domain.TaskRecord, entry domain.DefectEntry) (bool, error) {
	if defectTask.InputStructure == nil {
		return true, nil
	}
	final := defectTask.Structure
	radius := IsolationRadius(final)
	mean, err := MeanDisplacementOutside(defectTask.InputStructure, final, entry.FracCoords, radius)
	if err != nil {
		return false, fmt.Errorf("atomic relaxation check: %w", err)
	}
	return mean <= v.cfg.MaxDisplacement, nil
}

// checkDesorption fails when every atom other than the adsorbate lies
// farther than the desorption distance from the defect site.
func (v *Validator) checkDesorption(entry domain.DefectEntry) bool {
	s := entry.Supercell.Structure
	if s == nil || s.NumAtoms() < 2 {
		return false
	}
	adsorbate := nearestSiteIndex(s, s.Lattice, entry.FracCoords)
	for i := range s.Sites {
		if i == adsorbate || s.Sites[i].Ghost {
			continue
		}
		d := s.Lattice.MinImageDistance(entry.FracCoords, s.Sites[i].Frac)
		if d <= v.cfg.DesorptionDistance {
			return true
		}
	}
	return false
}
