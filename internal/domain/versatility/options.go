// Package versatility computes how easily a garment combines with the rest
// of its closet.
package versatility

import "strings"

// Default scoring vocabularies, mixing Spanish and English descriptors.
// Matching is substring-based on purpose: "azul marino grisáceo" should still
// count as neutral even though it names two terms. It counts once either way.
var defaultNeutralColors = []string{
	"negro", "black",
	"blanco", "white",
	"gris", "gray",
	"beige",
	"camel",
	"azul marino", "navy",
	"crema", "cream",
}

var defaultBasicVibes = []string{
	"minimalista", "minimalist",
	"basico", "básico", "basic",
	"clasico", "clásico", "classic",
	"casual",
	"esencial", "essential",
	"atemporal", "timeless",
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithNeutralColors replaces the neutral-color vocabulary. Terms are
// lowercased and copied; an empty list is ignored.
func WithNeutralColors(terms []string) Option {
	return func(s *Scorer) {
		if cleaned := cleanVocab(terms); len(cleaned) > 0 {
			s.neutralColors = cleaned
		}
	}
}

// WithBasicVibes replaces the basic/classic vibe vocabulary. Terms are
// lowercased and copied; an empty list is ignored.
func WithBasicVibes(terms []string) Option {
	return func(s *Scorer) {
		if cleaned := cleanVocab(terms); len(cleaned) > 0 {
			s.basicVibes = cleaned
		}
	}
}

// cleanVocab lowercases and trims terms, dropping empties.
func cleanVocab(terms []string) []string {
	cleaned := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return cleaned
}
