package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/defectdoc/internal/core/domain"
	"github.com/custodia-labs/defectdoc/internal/logger"
)

// TaskSet is one matched triple at the input boundary: a defect task,
// its bulk reference task, the defect identity, an optional dielectric
// and an optional pre-known defect position.
type TaskSet struct {
	DefectTask *domain.TaskRecord
	BulkTask   *domain.TaskRecord
	Identity   domain.DefectIdentity
	Dielectric *domain.DielectricTensor
	FracCoords *domain.FracCoord
}

// TripleError records the failure of one triple during batch
// construction. The remaining triples are unaffected.
type TripleError struct {
	// Index is the triple's position in the batch input.
	Index int

	// TaskID is the defect task id, when known.
	TaskID string

	// Err is the underlying failure.
	Err error
}

// Error implements error.
func (e TripleError) Error() string {
	return fmt.Sprintf("triple %d (task %s): %v", e.Index, e.TaskID, e.Err)
}

// Unwrap exposes the underlying failure for errors.Is / errors.As.
func (e TripleError) Unwrap() error { return e.Err }

// BatchReport summarises a batch construction: which triples failed and
// why. An empty report means full success.
type BatchReport struct {
	// Merged is the number of triples merged into the document.
	Merged int

	// Failed holds one entry per failed triple.
	Failed []TripleError
}

// OK reports whether every triple merged.
func (r *BatchReport) OK() bool { return len(r.Failed) == 0 }

// Selector is the canonical merge core. Per calculation category it
// maintains the single best-known defect/bulk entry pair of a
// DefectDoc under a deterministic tie-break, in both one-shot batch and
// incremental streaming modes.
type Selector struct {
	builder *EntryBuilder
}

// NewSelector creates a selector around an entry builder.
func NewSelector(builder *EntryBuilder) *Selector {
	return &Selector{builder: builder}
}

// candidate is one fully built merge candidate.
type candidate struct {
	runType domain.RunType
	bulkRef float64 // raw bulk energy, for the convergence series
	rec     domain.CanonicalRecord
}

// supersedes reports whether cand should replace incumbent under the
// strict lexicographic tie-break: larger supercell first, then strictly
// lower raw defect energy. Equal on both keys retains the incumbent.
func supersedes(cand, incumbent domain.CanonicalRecord) bool {
	ca, ia := cand.Defect.Supercell.NumAtoms(), incumbent.Defect.Supercell.NumAtoms()
	if ca != ia {
		return ca > ia
	}
	return cand.Defect.Supercell.Energy < incumbent.Defect.Supercell.Energy
}

// buildCandidate constructs the canonical-record candidate for one
// triple.
func (s *Selector) buildCandidate(set TaskSet) (candidate, error) {
	entry, outcome, err := s.builder.Build(set.DefectTask, set.BulkTask, set.Identity, set.Dielectric, set.FracCoords)
	if err != nil {
		return candidate{}, err
	}
	return candidate{
		runType: set.DefectTask.RunType,
		bulkRef: set.BulkTask.Energy,
		rec: domain.CanonicalRecord{
			Defect: entry,
			Bulk: domain.SupercellEntry{
				Structure: set.BulkTask.Structure,
				Energy:    set.BulkTask.Energy,
			},
			DefectTaskID: set.DefectTask.TaskID,
			BulkTaskID:   set.BulkTask.TaskID,
			VBM:          set.BulkTask.VBM,
			Validation:   outcome,
		},
	}, nil
}

// merge applies one candidate to the document: the candidate's task id
// always joins the task-id set, the canonical record for the category
// is replaced as a whole value when the candidate supersedes it, the
// convergence series grows and the timestamp refreshes. Either the
// whole merge applies or, on a caller-side build failure, none of it.
func merge(doc *domain.DefectDoc, c candidate) {
	doc.AddTask(c.rec.DefectTaskID)
	incumbent, exists := doc.Canonical[c.runType]
	if !exists || supersedes(c.rec, incumbent) {
		doc.Canonical[c.runType] = c.rec
	}
	doc.Convergence[c.runType] = append(doc.Convergence[c.runType], domain.ConvergencePoint{
		NumAtoms:        c.rec.Defect.Supercell.NumAtoms(),
		FormationEnergy: c.rec.Defect.CorrectedEnergy() - c.bulkRef,
	})
	doc.UpdatedAt = time.Now().UTC()
}

// FromTasks builds a DefectDoc from scratch out of a batch of matched
// triples. Candidates are grouped by run type and merged per group;
// groups never interact, so they are processed in parallel. A failing
// triple is reported and skipped; the remainder still merges (partial
// success). The resulting canonical records are independent of input
// order.
func (s *Selector) FromTasks(ctx context.Context, sets []TaskSet, materialID string) (*domain.DefectDoc, *BatchReport, error) {
	if len(sets) == 0 {
		return nil, nil, fmt.Errorf("batch construction needs at least one triple: %w", domain.ErrInvalidInput)
	}
	for i, set := range sets {
		if set.DefectTask == nil || set.BulkTask == nil {
			return nil, nil, fmt.Errorf("triple %d has a nil task: %w", i, domain.ErrInvalidInput)
		}
	}

	// Document charge and identity are fixed by the first triple.
	charge := sets[0].DefectTask.ChargeState()
	doc := domain.NewDefectDoc(materialID, charge, sets[0].Identity)

	type indexedSet struct {
		index int
		set   TaskSet
	}
	groups := make(map[domain.RunType][]indexedSet)
	report := &BatchReport{}
	var mu sync.Mutex

	for i, set := range sets {
		if set.DefectTask.ChargeState() != charge {
			report.Failed = append(report.Failed, TripleError{
				Index:  i,
				TaskID: set.DefectTask.TaskID,
				Err:    fmt.Errorf("charge %d vs document charge %d: %w", set.DefectTask.ChargeState(), charge, domain.ErrInconsistentCharge),
			})
			continue
		}
		rt := set.DefectTask.RunType
		groups[rt] = append(groups[rt], indexedSet{index: i, set: set})
	}

	g, _ := errgroup.WithContext(ctx)
	for rt, members := range groups {
		rt, members := rt, members
		g.Go(func() error {
			var localFailed []TripleError
			merged := 0
			for _, m := range members {
				cand, err := s.buildCandidate(m.set)
				if err != nil {
					localFailed = append(localFailed, TripleError{
						Index:  m.index,
						TaskID: m.set.DefectTask.TaskID,
						Err:    err,
					})
					continue
				}
				merged++
				mu.Lock()
				merge(doc, cand)
				mu.Unlock()
			}
			mu.Lock()
			report.Failed = append(report.Failed, localFailed...)
			report.Merged += merged
			mu.Unlock()
			logger.Debug("category %s: merged %d of %d triples", rt, merged, len(members))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if report.Merged == 0 {
		return nil, report, fmt.Errorf("no triple could be merged: %w", domain.ErrInvalidInput)
	}

	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i].Index < report.Failed[j].Index })
	annotateOrigin(doc)
	return doc, report, nil
}

// Update merges one new triple into an existing document, applying the
// same tie-break as batch construction. A charge state differing from
// the document's fails with ErrInconsistentCharge; on any error the
// document is untouched.
func (s *Selector) Update(ctx context.Context, doc *domain.DefectDoc, set TaskSet) error {
	if doc == nil {
		return fmt.Errorf("update: nil document: %w", domain.ErrInvalidInput)
	}
	if set.DefectTask == nil || set.BulkTask == nil {
		return fmt.Errorf("update: nil task: %w", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if got := set.DefectTask.ChargeState(); got != doc.Charge {
		return fmt.Errorf("update: charge %d vs document charge %d: %w", got, doc.Charge, domain.ErrInconsistentCharge)
	}

	cand, err := s.buildCandidate(set)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	merge(doc, cand)
	annotateOrigin(doc)
	logger.Debug("merged task %s into document %s", set.DefectTask.TaskID, doc.ID)
	return nil
}

// annotateOrigin records whether the defect is intrinsic (all involved
// elements already occur in the host) or extrinsic.
func annotateOrigin(doc *domain.DefectDoc) {
	for _, rt := range doc.RunTypes() {
		rec := doc.Canonical[rt]
		if rec.Bulk.Structure == nil {
			continue
		}
		origin := "extrinsic"
		if doc.Identity.IsIntrinsic(rec.Bulk.Structure) {
			origin = "intrinsic"
		}
		doc.Metadata["defect_origin"] = origin
		return
	}
}
