package services

import (
	"github.com/custodia-labs/defectdoc/internal/core/domain"
)

// CorrectionInput is the parameter bundle consumed by correction
// strategies and the validator. Assembled once per entry build.
type CorrectionInput struct {
	// Charge is the defect charge state.
	Charge int

	// TwoD is set when the defect task is tagged as a 2-D material.
	TwoD bool

	// Dielectric is the host dielectric response. Nil means no
	// correction is possible.
	Dielectric *domain.DielectricTensor

	// DefectEnergy and BulkEnergy are the raw total energies in eV.
	DefectEnergy float64
	BulkEnergy   float64

	// DefectStructure and BulkStructure are the final structures.
	DefectStructure *domain.Structure
	BulkStructure   *domain.Structure

	// FracCoords is the defect position in the supercell.
	FracCoords domain.FracCoord

	// DefectPotential and BulkPotential are the electrostatic potential
	// volumes, when the task records carry them.
	DefectPotential *domain.VolumetricData
	BulkPotential   *domain.VolumetricData
}

// Strategy is one independent, conditionally-applicable finite-size
// correction. An inapplicable strategy contributes nothing; that is a
// zero-effect branch, not an error.
type Strategy interface {
	// Name identifies the strategy in logs and errors.
	Name() string

	// Applicable reports whether the guard condition holds for the
	// input bundle.
	Applicable(in CorrectionInput) bool

	// Apply computes the correction set and diagnostic metadata. Only
	// called when Applicable returned true.
	Apply(in CorrectionInput) (domain.CorrectionSet, map[string]any, error)
}

// DefaultStrategies returns the fixed ordered strategy list: the 3-D
// and 2-D finite-size electrostatic corrections. Order does not affect
// the result; strategies are independent.
func DefaultStrategies(cfg BuilderConfig) []Strategy {
	return []Strategy{
		&FreysoldtStrategy{},
		&Freysoldt2DStrategy{
			EnergyCutoff: cfg.EnergyCutoff,
			SlabBuffer:   cfg.SlabBuffer,
		},
	}
}
