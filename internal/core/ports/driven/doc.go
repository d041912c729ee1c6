// Package driven defines the interfaces that core calls OUT to
// collaborators.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces; adapters implement them.
//
// # Interfaces
//
//   - FormationEnergyProvider: the thermodynamics collaborator that
//     builds a multi-defect formation-energy diagram. The core treats
//     its construction as opaque.
//   - SettingsStore: source of validator and correction configuration.
//   - DefectDocStore: holds reconciled defect documents between merges.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: any adapter package
package driven
