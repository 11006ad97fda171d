// Package resume selects the most appropriate resume for a listing by
// scoring configured keyword profiles against the listing text.
package resume

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// ProfileConfig is the on-disk description of one resume profile.
type ProfileConfig struct {
	Name     string   `json:"name" validate:"required"`
	File     string   `json:"file" validate:"required"`
	Keywords []string `json:"keywords"`
	Weight   float64  `json:"weight"`
}

// Profile is a loaded, scorable resume profile. Keywords are lowercased at
// load time; matching is substring containment against a lowercase haystack.
type Profile struct {
	Name     string
	Path     string
	Keywords []string
	Weight   float64
}

// LoadProfiles builds a Selector from profile configs, resolving each file
// against dir. Profiles whose resume file does not exist are dropped with a
// warning rather than failing the load: a missing file just means that
// resume variant is unavailable on this machine.
//
// Profile order is preserved. The first loaded profile doubles as the
// deterministic fallback when scoring produces no positive match.
func LoadProfiles(dir string, configs []ProfileConfig, verbose bool) (*Selector, error) {
	var profiles []Profile
	for _, cfg := range configs {
		if cfg.Name == "" || cfg.File == "" {
			return nil, fmt.Errorf("resume profile missing name or file")
		}

		path := filepath.Join(dir, cfg.File)
		if _, err := os.Stat(path); err != nil {
			log.Printf("[RESUME] skipping profile %s: %s not found", cfg.Name, cfg.File)
			continue
		}

		weight := cfg.Weight
		if weight == 0 {
			weight = 1.0
		}

		keywords := make([]string, 0, len(cfg.Keywords))
		for _, kw := range cfg.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}

		profiles = append(profiles, Profile{
			Name:     cfg.Name,
			Path:     path,
			Keywords: keywords,
			Weight:   weight,
		})
		if verbose {
			log.Printf("[RESUME] loaded profile %s (%s, %d keywords)", cfg.Name, cfg.File, len(keywords))
		}
	}

	return &Selector{profiles: profiles}, nil
}
