// Package linear is a reference implementation of the
// driven.FormationEnergyProvider port. It computes each defect's
// formation-energy line with the standard supercell expression, taking
// chemical potentials from the supplied phase diagram and falling back
// to elemental reference energies. Production deployments may swap in a
// richer thermodynamics collaborator behind the same port.
package linear
