package domain

import "time"

// RunType labels the calculation fidelity/settings family under which a
// task was run, e.g. "PBE" or "PBE+D3". Canonical records are keyed by
// run type.
type RunType string

// TagTwoDimensional marks a defect task as belonging to a 2-D material.
const TagTwoDimensional = "2d"

// TaskRecord is the normalized result of one simulation, produced by the
// external task-record collaborator. It is the input boundary contract
// of this core and is treated as read-only.
type TaskRecord struct {
	// TaskID is the globally unique task identifier.
	TaskID string

	// RunType is the calculation category of this task.
	RunType RunType

	// Structure is the final (relaxed) structure with per-site
	// properties. The cell charge is the defect charge state.
	Structure *Structure

	// InputStructure is the ideal structure the relaxation started from,
	// when the producer supplies it. Used by the atomic-relaxation check.
	InputStructure *Structure

	// Energy is the total energy in eV.
	Energy float64

	// VBM is the valence-band-maximum estimate in eV.
	VBM float64

	// Volumes maps volumetric field kinds to field data.
	Volumes map[VolumeKind]*VolumetricData

	// Tags are free-form labels attached by the producer.
	Tags []string

	// CompletedAt is when the simulation finished.
	CompletedAt time.Time
}

// HasTag reports whether the task carries the given tag.
func (t *TaskRecord) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// IsTwoD reports whether the task is tagged as a 2-D material.
func (t *TaskRecord) IsTwoD() bool {
	return t.HasTag(TagTwoDimensional)
}

// ChargeState returns the defect charge state, read from the final
// structure's cell charge.
func (t *TaskRecord) ChargeState() int {
	if t.Structure == nil {
		return 0
	}
	return t.Structure.Charge
}

// Volume returns the named volumetric field, if present.
func (t *TaskRecord) Volume(kind VolumeKind) (*VolumetricData, bool) {
	v, ok := t.Volumes[kind]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}
