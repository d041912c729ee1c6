package services

import (
	"github.com/custodia-labs/defectdoc/internal/core/domain"
)

// simpleCubic builds an n x n x n simple cubic supercell of one species
// with edge length a per repeat.
func simpleCubic(species string, a float64, n int) *domain.Structure {
	s := &domain.Structure{Lattice: domain.CubicLattice(a * float64(n))}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				s.Sites = append(s.Sites, domain.Site{
					Species: species,
					Frac: domain.FracCoord{
						float64(i) / float64(n),
						float64(j) / float64(n),
						float64(k) / float64(n),
					},
				})
			}
		}
	}
	return s
}

// withoutSite returns a copy of s with site idx removed.
func withoutSite(s *domain.Structure, idx int) *domain.Structure {
	out := s.Copy()
	out.Sites = append(out.Sites[:idx:idx], out.Sites[idx+1:]...)
	return out
}

// withCharge returns a copy of s with the cell charge set.
func withCharge(s *domain.Structure, charge int) *domain.Structure {
	out := s.Copy()
	out.Charge = charge
	return out
}

// constantVolume builds a volumetric field of one value over the
// structure's cell.
func constantVolume(s *domain.Structure, na, nb, nc int, value float64) *domain.VolumetricData {
	grid := make([][][]float64, na)
	for i := 0; i < na; i++ {
		grid[i] = make([][]float64, nb)
		for j := 0; j < nb; j++ {
			grid[i][j] = make([]float64, nc)
			for k := 0; k < nc; k++ {
				grid[i][j][k] = value
			}
		}
	}
	return &domain.VolumetricData{Structure: s.Copy(), Grid: grid}
}

// newTask builds a task record around a final structure.
func newTask(id string, rt domain.RunType, s *domain.Structure, energy float64) *domain.TaskRecord {
	return &domain.TaskRecord{
		TaskID:    id,
		RunType:   rt,
		Structure: s,
		Energy:    energy,
	}
}

// vacancyIdentity is the Mg-vacancy identity used across tests.
func vacancyIdentity() domain.DefectIdentity {
	return domain.DefectIdentity{
		Name:           "v_Mg",
		Type:           domain.DefectVacancy,
		ElementChanges: map[string]int{"Mg": -1},
	}
}
