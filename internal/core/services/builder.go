package services

import (
	"fmt"

	"github.com/custodia-labs/defectdoc/internal/core/domain"
	"github.com/custodia-labs/defectdoc/internal/logger"
)

// BuilderConfig holds the correction parameters passed explicitly at
// construction.
type BuilderConfig struct {
	// EnergyCutoff bounds the 2-D correction's in-plane sum, in eV.
	EnergyCutoff float64

	// SlabBuffer is the 2-D correction's out-of-plane buffer in
	// angstroms.
	SlabBuffer float64
}

// DefaultBuilderConfig returns the standard correction parameters.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		EnergyCutoff: 520,
		SlabBuffer:   2,
	}
}

// EntryBuilder assembles defect energy records from matched (defect
// task, bulk task) pairs: it locates the defect, runs every applicable
// correction strategy, constructs the DefectEntry and validates it.
type EntryBuilder struct {
	strategies []Strategy
	validator  *Validator
}

// NewEntryBuilder creates a builder with the default strategy list.
func NewEntryBuilder(cfg BuilderConfig, validator *Validator) *EntryBuilder {
	return &EntryBuilder{
		strategies: DefaultStrategies(cfg),
		validator:  validator,
	}
}

// NewEntryBuilderWithStrategies creates a builder with an explicit
// strategy list. Used by tests and callers with custom corrections.
func NewEntryBuilderWithStrategies(strategies []Strategy, validator *Validator) *EntryBuilder {
	return &EntryBuilder{
		strategies: strategies,
		validator:  validator,
	}
}

// Build extracts a defect entry and its validation outcome from one
// matched pair of tasks. knownCoords, when non-nil, bypasses the
// geometric defect search. The entry and the outcome are returned as
// one atomic unit: on any error neither is produced.
func (b *EntryBuilder) Build(
	defectTask, bulkTask *domain.TaskRecord,
	identity domain.DefectIdentity,
	dielectric *domain.DielectricTensor,
	knownCoords *domain.FracCoord,
) (domain.DefectEntry, domain.ValidationOutcome, error) {
	if defectTask == nil || bulkTask == nil {
		return domain.DefectEntry{}, nil, fmt.Errorf("build entry: nil task record: %w", domain.ErrInvalidInput)
	}
	if defectTask.Structure == nil || bulkTask.Structure == nil {
		return domain.DefectEntry{}, nil, fmt.Errorf("build entry: task without final structure: %w", domain.ErrInvalidInput)
	}

	var coords domain.FracCoord
	if knownCoords != nil {
		coords = *knownCoords
	} else {
		var err error
		coords, err = LocateDefect(defectTask.Structure, bulkTask.Structure)
		if err != nil {
			return domain.DefectEntry{}, nil, fmt.Errorf("build entry: %w", err)
		}
	}

	in := CorrectionInput{
		Charge:          defectTask.ChargeState(),
		TwoD:            defectTask.IsTwoD(),
		Dielectric:      dielectric,
		DefectEnergy:    defectTask.Energy,
		BulkEnergy:      bulkTask.Energy,
		DefectStructure: defectTask.Structure,
		BulkStructure:   bulkTask.Structure,
		FracCoords:      coords,
	}
	if v, ok := defectTask.Volume(domain.VolumeHartreePotential); ok {
		in.DefectPotential = v
	}
	if v, ok := bulkTask.Volume(domain.VolumeHartreePotential); ok {
		in.BulkPotential = v
	}

	corrections := make(domain.CorrectionSet)
	for _, strategy := range b.strategies {
		if !strategy.Applicable(in) {
			continue
		}
		set, _, err := strategy.Apply(in)
		if err != nil {
			return domain.DefectEntry{}, nil, fmt.Errorf("build entry: strategy %s: %w", strategy.Name(), err)
		}
		if err := corrections.Merge(set); err != nil {
			return domain.DefectEntry{}, nil, fmt.Errorf("build entry: strategy %s: %w", strategy.Name(), err)
		}
		logger.Debug("applied correction %s to task %s", strategy.Name(), defectTask.TaskID)
	}

	entry := domain.DefectEntry{
		Identity:    identity,
		ChargeState: in.Charge,
		Supercell: domain.SupercellEntry{
			Structure: defectTask.Structure,
			Energy:    defectTask.Energy,
		},
		FracCoords:  coords,
		Corrections: corrections,
	}

	outcome, err := b.validator.Validate(defectTask, entry)
	if err != nil {
		return domain.DefectEntry{}, nil, fmt.Errorf("build entry: %w", err)
	}
	return entry, outcome, nil
}
