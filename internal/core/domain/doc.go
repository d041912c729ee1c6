// Package domain defines the core data model for defect reconciliation.
//
// The central objects are:
//
//   - TaskRecord: a normalized simulation result produced by the external
//     task-record collaborator. Read-only to this core.
//   - DefectEntry: a derived defect energy record built from a matched
//     (defect task, bulk task) pair. Always rebuilt, never mutated.
//   - CanonicalRecord: the single retained best defect/bulk result for
//     one calculation category within one DefectDoc.
//   - DefectDoc: one defect in one charge state, observed possibly many
//     times at different calculation fidelities.
//   - DefectiveMaterialDoc: all defect docs sharing one host material.
//
// Domain types carry no behaviour that reaches outside the process; the
// reconciliation, correction and validation logic lives in the services
// package.
//
// Import rules: this package imports nothing from internal/.
package domain
