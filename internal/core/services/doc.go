// Package services implements the defect reconciliation pipeline:
// geometry utilities, finite-size correction strategies, the defect
// entry builder, the physical-plausibility validator, the canonical
// selector (merge core) and the aggregate material view.
//
// Services depend on domain types and driven ports only; they hold no
// external resources beyond the transient scratch directory used by the
// 2-D correction.
package services
