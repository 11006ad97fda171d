package resume

import "strings"

// Selector scores loaded profiles against listing text. It performs no I/O
// after construction, so selection is pure and deterministic.
type Selector struct {
	profiles []Profile
}

// NewSelector builds a Selector directly from already-loaded profiles.
// Intended for tests; production code goes through LoadProfiles.
func NewSelector(profiles []Profile) *Selector {
	return &Selector{profiles: profiles}
}

// Len returns the number of loaded profiles.
func (s *Selector) Len() int {
	return len(s.profiles)
}

// Names lists loaded profile names in insertion order.
func (s *Selector) Names() []string {
	names := make([]string, len(s.profiles))
	for i, p := range s.profiles {
		names[i] = p.Name
	}
	return names
}

// ByName returns the resume path for a named profile, or "" if not loaded.
func (s *Selector) ByName(name string) string {
	for _, p := range s.profiles {
		if p.Name == name {
			return p.Path
		}
	}
	return ""
}

// Select returns the resume path best matching the listing text, or "" when
// no profiles are loaded.
//
// With a single profile it is returned unconditionally. Otherwise each
// profile scores weight x (distinct keywords present in the lowercase
// title+description+organization haystack) and the strictly highest score
// wins; ties keep the earlier-loaded profile. If nothing scores above zero
// the first-loaded profile is the fallback, so a resume is always supplied
// whenever at least one profile exists.
func (s *Selector) Select(title, description, organization string) string {
	if len(s.profiles) == 0 {
		return ""
	}
	if len(s.profiles) == 1 {
		return s.profiles[0].Path
	}

	haystack := strings.ToLower(title + " " + description + " " + organization)

	best := -1
	bestScore := 0.0
	for i, p := range s.profiles {
		score := p.score(haystack)
		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	if best < 0 {
		return s.profiles[0].Path
	}
	return s.profiles[best].Path
}

func (p Profile) score(haystack string) float64 {
	matched := 0
	for _, kw := range p.Keywords {
		if strings.Contains(haystack, kw) {
			matched++
		}
	}
	return float64(matched) * p.Weight
}
