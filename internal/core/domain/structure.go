package domain

import "sort"

// Site is one atomic site in a periodic structure.
type Site struct {
	// Species is the element symbol occupying the site.
	Species string

	// Frac is the fractional coordinate within the lattice.
	Frac FracCoord

	// Ghost marks a basis-only site with no potential. The task-record
	// producer uses a ghost site to tag the defect position exactly.
	Ghost bool

	// Properties contains arbitrary per-site key-value pairs.
	Properties map[string]any
}

// Structure is a periodic atomic structure: a lattice plus sites.
type Structure struct {
	// Lattice is the periodic cell.
	Lattice Lattice

	// Sites are the atomic sites, order-significant.
	Sites []Site

	// Charge is the net electronic charge of the cell relative to the
	// neutral host.
	Charge int
}

// NumAtoms returns the number of sites in the structure.
func (s *Structure) NumAtoms() int {
	return len(s.Sites)
}

// SymbolSet returns the sorted set of element symbols present,
// excluding ghost sites.
func (s *Structure) SymbolSet() []string {
	seen := make(map[string]struct{})
	for _, site := range s.Sites {
		if site.Ghost {
			continue
		}
		seen[site.Species] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for sym := range seen {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// HasElement reports whether the element occupies any non-ghost site.
func (s *Structure) HasElement(symbol string) bool {
	for _, site := range s.Sites {
		if !site.Ghost && site.Species == symbol {
			return true
		}
	}
	return false
}

// GhostSite returns the fractional coordinate of the first ghost site,
// if any.
func (s *Structure) GhostSite() (FracCoord, bool) {
	for _, site := range s.Sites {
		if site.Ghost {
			return site.Frac, true
		}
	}
	return FracCoord{}, false
}

// Copy returns a deep copy of the structure.
func (s *Structure) Copy() *Structure {
	out := &Structure{
		Lattice: s.Lattice,
		Sites:   make([]Site, len(s.Sites)),
		Charge:  s.Charge,
	}
	for i, site := range s.Sites {
		out.Sites[i] = site
		if site.Properties != nil {
			props := make(map[string]any, len(site.Properties))
			for k, v := range site.Properties {
				props[k] = v
			}
			out.Sites[i].Properties = props
		}
	}
	return out
}
