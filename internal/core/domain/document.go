package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Validation check names recorded in a ValidationOutcome.
const (
	CheckAtomicRelaxation = "atomic_relaxation"
	CheckDesorption       = "desorption"
)

// ValidationOutcome maps check names to pass/fail flags. Physical
// failures are data, not errors: downstream consumers filter on them.
type ValidationOutcome map[string]bool

// OK reports whether every check passed.
func (v ValidationOutcome) OK() bool {
	for _, pass := range v {
		if !pass {
			return false
		}
	}
	return true
}

// CanonicalRecord is the single retained best defect/bulk result for one
// calculation category within one DefectDoc. Replaced atomically by the
// canonical selector; never partially updated.
type CanonicalRecord struct {
	Defect       DefectEntry
	Bulk         SupercellEntry
	DefectTaskID string
	BulkTaskID   string
	VBM          float64
	Validation   ValidationOutcome
}

// ConvergencePoint is one observation in a category's convergence
// series: the supercell size of a merged candidate and the corrected
// formation energy it implied.
type ConvergencePoint struct {
	NumAtoms        int
	FormationEnergy float64
}

// DefectDoc represents a single defect in a single charge state, e.g. an
// oxygen vacancy with charge -2, observed possibly many times at
// different calculation fidelities. It holds the best-known canonical
// record per run type.
type DefectDoc struct {
	// ID is the unique document identifier.
	ID string

	// MaterialID identifies the host material.
	MaterialID string

	// Name is the defect name from the identity.
	Name string

	// Charge is the defect charge state shared by all canonical records.
	Charge int

	// Identity is the abstract defect description shared by all
	// canonical records.
	Identity DefectIdentity

	// Canonical maps run type to the best-known record for it.
	Canonical map[RunType]CanonicalRecord

	// TaskIDs is the set of every defect task id ever merged, including
	// superseded ones. Retained for auditability.
	TaskIDs map[string]struct{}

	// Convergence records, per run type, the supercell sizes and
	// corrected formation energies seen across merges.
	Convergence map[RunType][]ConvergencePoint

	// Metadata contains free-form document metadata, e.g. defect_origin.
	Metadata map[string]any

	// CreatedAt is when the document was first created.
	CreatedAt time.Time

	// UpdatedAt refreshes on every merge.
	UpdatedAt time.Time
}

// NewDefectDoc creates an empty document for one defect in one charge
// state. Material id, charge and identity are fixed for the document's
// lifetime.
func NewDefectDoc(materialID string, charge int, identity DefectIdentity) *DefectDoc {
	now := time.Now().UTC()
	return &DefectDoc{
		ID:          uuid.NewString(),
		MaterialID:  materialID,
		Name:        identity.Name,
		Charge:      charge,
		Identity:    identity,
		Canonical:   make(map[RunType]CanonicalRecord),
		TaskIDs:     make(map[string]struct{}),
		Convergence: make(map[RunType][]ConvergencePoint),
		Metadata:    make(map[string]any),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AddTask records a defect task id in the document's task-id set.
func (d *DefectDoc) AddTask(taskID string) {
	d.TaskIDs[taskID] = struct{}{}
}

// HasTask reports whether the task id was ever merged.
func (d *DefectDoc) HasTask(taskID string) bool {
	_, ok := d.TaskIDs[taskID]
	return ok
}

// SortedTaskIDs returns the task-id set as a sorted slice.
func (d *DefectDoc) SortedTaskIDs() []string {
	out := make([]string, 0, len(d.TaskIDs))
	for id := range d.TaskIDs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Record returns the canonical record for the run type, if present.
func (d *DefectDoc) Record(rt RunType) (CanonicalRecord, bool) {
	rec, ok := d.Canonical[rt]
	return rec, ok
}

// RunTypes returns the sorted run types with a canonical record.
func (d *DefectDoc) RunTypes() []RunType {
	out := make([]RunType, 0, len(d.Canonical))
	for rt := range d.Canonical {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DefectiveMaterialDoc aggregates the defect docs of one host material.
// Read-mostly; rebuilt whenever the member set changes.
type DefectiveMaterialDoc struct {
	// ID is the unique document identifier.
	ID string

	// MaterialID identifies the host material shared by all members.
	MaterialID string

	// DefectDocs are the member documents, ordered by defect name then
	// charge for stable output.
	DefectDocs []*DefectDoc

	// Metadata contains free-form aggregate metadata.
	Metadata map[string]any

	// CreatedAt is when this aggregate was built.
	CreatedAt time.Time

	// UpdatedAt is the latest update time across members.
	UpdatedAt time.Time
}

// NewDefectiveMaterialDoc builds the aggregate for one material from its
// member docs. The aggregate timestamp is the maximum member timestamp.
func NewDefectiveMaterialDoc(materialID string, docs []*DefectDoc) *DefectiveMaterialDoc {
	members := make([]*DefectDoc, len(docs))
	copy(members, docs)
	sort.Slice(members, func(i, j int) bool {
		if members[i].Name != members[j].Name {
			return members[i].Name < members[j].Name
		}
		return members[i].Charge < members[j].Charge
	})

	now := time.Now().UTC()
	updated := time.Time{}
	for _, d := range members {
		if d.UpdatedAt.After(updated) {
			updated = d.UpdatedAt
		}
	}
	if updated.IsZero() {
		updated = now
	}

	return &DefectiveMaterialDoc{
		ID:         uuid.NewString(),
		MaterialID: materialID,
		DefectDocs: members,
		Metadata:   make(map[string]any),
		CreatedAt:  now,
		UpdatedAt:  updated,
	}
}

// ElementSet returns the union of all elements involved across member
// defects: the host structure elements plus every element-change
// species. Computed on demand, not stored.
func (m *DefectiveMaterialDoc) ElementSet() []string {
	seen := make(map[string]struct{})
	for _, doc := range m.DefectDocs {
		for _, rt := range doc.RunTypes() {
			rec := doc.Canonical[rt]
			if rec.Bulk.Structure != nil {
				for _, sym := range rec.Bulk.Structure.SymbolSet() {
					seen[sym] = struct{}{}
				}
			}
		}
		for el := range doc.Identity.ElementChanges {
			seen[el] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for sym := range seen {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
