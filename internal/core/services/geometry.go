package services

import (
	"fmt"

	"github.com/custodia-labs/defectdoc/internal/core/domain"
)

// latticeTol is the absolute tolerance, in angstroms, for two supercell
// lattices to count as commensurate.
const latticeTol = 0.5

// LocateDefect returns the defect's fractional position in the defect
// supercell. If a site is explicitly tagged as the defect marker (a
// ghost site), its coordinate is returned directly. Otherwise the
// defect and bulk structures are compared site-by-site to find the
// best-fit position. Fails with ErrGeometry when the structures are not
// commensurate.
func LocateDefect(defect, bulk *domain.Structure) (domain.FracCoord, error) {
	if defect == nil || bulk == nil {
		return domain.FracCoord{}, fmt.Errorf("locate defect: nil structure: %w", domain.ErrInvalidInput)
	}
	if frac, ok := defect.GhostSite(); ok {
		return frac, nil
	}
	if !defect.Lattice.ApproxEqual(bulk.Lattice, latticeTol) {
		return domain.FracCoord{}, fmt.Errorf("locate defect: lattices differ beyond %.2f A: %w", latticeTol, domain.ErrGeometry)
	}

	delta := defect.NumAtoms() - bulk.NumAtoms()
	switch delta {
	case -1:
		// Vacancy: the bulk site farthest from any defect site.
		idx, err := farthestSite(bulk, defect)
		if err != nil {
			return domain.FracCoord{}, err
		}
		return bulk.Sites[idx].Frac, nil
	case 1:
		// Interstitial or adsorbate: the defect site farthest from any
		// bulk site.
		idx, err := farthestSite(defect, bulk)
		if err != nil {
			return domain.FracCoord{}, err
		}
		return defect.Sites[idx].Frac, nil
	case 0:
		return locateSubstitution(defect, bulk)
	default:
		return domain.FracCoord{}, fmt.Errorf("locate defect: site counts differ by %d: %w", delta, domain.ErrGeometry)
	}
}

// farthestSite returns the index of the site in a that is farthest from
// its nearest site in b.
func farthestSite(a, b *domain.Structure) (int, error) {
	if a.NumAtoms() == 0 || b.NumAtoms() == 0 {
		return 0, fmt.Errorf("locate defect: empty structure: %w", domain.ErrGeometry)
	}
	best, bestDist := 0, -1.0
	for i, site := range a.Sites {
		nearest := nearestDistance(b, a.Lattice, site.Frac)
		if nearest > bestDist {
			best, bestDist = i, nearest
		}
	}
	return best, nil
}

// locateSubstitution finds the defect site when defect and bulk have
// equal site counts: the defect site whose nearest bulk neighbour has a
// different species, falling back to the most displaced site.
func locateSubstitution(defect, bulk *domain.Structure) (domain.FracCoord, error) {
	bestIdx, bestDist := -1, -1.0
	for i, site := range defect.Sites {
		j := nearestSiteIndex(bulk, defect.Lattice, site.Frac)
		if bulk.Sites[j].Species != site.Species {
			return site.Frac, nil
		}
		d := defect.Lattice.MinImageDistance(site.Frac, bulk.Sites[j].Frac)
		if d > bestDist {
			bestIdx, bestDist = i, d
		}
	}
	if bestIdx < 0 {
		return domain.FracCoord{}, fmt.Errorf("locate defect: empty structure: %w", domain.ErrGeometry)
	}
	return defect.Sites[bestIdx].Frac, nil
}

func nearestSiteIndex(s *domain.Structure, l domain.Lattice, from domain.FracCoord) int {
	best, bestDist := 0, -1.0
	for i, site := range s.Sites {
		d := l.MinImageDistance(from, site.Frac)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func nearestDistance(s *domain.Structure, l domain.Lattice, from domain.FracCoord) float64 {
	bestDist := -1.0
	for _, site := range s.Sites {
		d := l.MinImageDistance(from, site.Frac)
		if bestDist < 0 || d < bestDist {
			bestDist = d
		}
	}
	return bestDist
}

// IsolationRadius returns the radius, in angstroms, beyond which atomic
// displacement should be negligible for a well-converged supercell: the
// truncated-Coulomb cutoff of the cell, half its minimum perpendicular
// width. Charge screening is exact inside that sphere for a truncated
// operator.
func IsolationRadius(s *domain.Structure) float64 {
	w := s.Lattice.PerpendicularWidths()
	min := w[0]
	if w[1] < min {
		min = w[1]
	}
	if w[2] < min {
		min = w[2]
	}
	return min / 2
}

// MeanDisplacementOutside returns the mean site-by-site minimum-image
// displacement between initial and final, restricted to sites whose
// initial position lies outside a sphere of the given radius around
// center. Requires identical site ordering and count; fails with
// ErrGeometry otherwise. Returns zero when no site lies outside.
func MeanDisplacementOutside(initial, final *domain.Structure, center domain.FracCoord, radius float64) (float64, error) {
	if initial == nil || final == nil {
		return 0, fmt.Errorf("mean displacement: nil structure: %w", domain.ErrInvalidInput)
	}
	if initial.NumAtoms() != final.NumAtoms() {
		return 0, fmt.Errorf("mean displacement: site counts %d vs %d: %w",
			initial.NumAtoms(), final.NumAtoms(), domain.ErrGeometry)
	}
	var sum float64
	var count int
	for i := range initial.Sites {
		if initial.Sites[i].Species != final.Sites[i].Species {
			return 0, fmt.Errorf("mean displacement: species mismatch at site %d: %w", i, domain.ErrGeometry)
		}
		if initial.Lattice.MinImageDistance(initial.Sites[i].Frac, center) <= radius {
			continue
		}
		sum += initial.Lattice.MinImageDistance(initial.Sites[i].Frac, final.Sites[i].Frac)
		count++
	}
	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

// NeighborsWithin returns the indices of non-ghost sites within radius
// of center under the minimum-image convention.
func NeighborsWithin(s *domain.Structure, center domain.FracCoord, radius float64) []int {
	var out []int
	for i, site := range s.Sites {
		if site.Ghost {
			continue
		}
		if s.Lattice.MinImageDistance(center, site.Frac) <= radius {
			out = append(out, i)
		}
	}
	return out
}
