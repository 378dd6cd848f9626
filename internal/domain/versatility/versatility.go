// Package versatility computes how easily a garment combines with the rest
// of its closet. Scoring is pure and deterministic: the same garment and
// closet always produce the same score, nothing is cached, and inputs are
// never mutated. Callers that score on every request should memoize keyed on
// closet version; that responsibility deliberately lives outside this package.
package versatility

import (
	"sort"
	"strings"

	"github.com/vrodas/ropero/internal/domain/model"
)

// Scoring term constants.
const (
	baseScore          = 20
	neutralColorBonus  = 10
	basicVibeBonus     = 5
	coreCategoryBonus  = 5
	multiSeasonBonus   = 5
	multiSeasonMinimum = 3
	combinationCap     = 30
	combinationDivisor = 2
	maxScore           = 100
)

// Ranked couples a garment with its computed versatility score.
type Ranked struct {
	Garment model.Garment
	Score   int
}

// Scorer computes versatility scores against configurable vocabularies.
// The zero-argument New returns a scorer with the bilingual defaults.
type Scorer struct {
	neutralColors []string
	basicVibes    []string
}

// New creates a Scorer with configuration options.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		neutralColors: defaultNeutralColors,
		basicVibes:    defaultBasicVibes,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score computes the versatility score for item within closet.
// The result is always within [0, 100]. Missing or empty metadata fields
// simply contribute no bonus; a nil closet means a combination bonus of zero.
//
// Garment ids are assumed unique within the closet; duplicates skew the
// combination tally silently.
func (s *Scorer) Score(item model.Garment, closet []model.Garment) int {
	score := baseScore

	if matchesAny(item.ColorPrimary, s.neutralColors) {
		score += neutralColorBonus
	}

	if anyTagMatches(item.VibeTags, s.basicVibes) {
		score += basicVibeBonus
	}

	if item.Category == model.CategoryTop || item.Category == model.CategoryBottom {
		score += coreCategoryBonus
	}

	combinations := s.PotentialCombinations(item, closet)
	bonus := combinations / combinationDivisor
	if bonus > combinationCap {
		bonus = combinationCap
	}
	score += bonus

	if len(item.Seasons) >= multiSeasonMinimum {
		score += multiSeasonBonus
	}

	if score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}
	return score
}

// PotentialCombinations counts the 3-piece outfits (top x bottom x shoes)
// that could include item, given the rest of the closet. This is a coarse
// combinatorial approximation: no compatibility filtering happens here.
func (s *Scorer) PotentialCombinations(item model.Garment, closet []model.Garment) int {
	var tops, bottoms, shoes int
	for _, g := range closet {
		if g.ID == item.ID {
			continue
		}
		switch g.Category {
		case model.CategoryTop:
			tops++
		case model.CategoryBottom:
			bottoms++
		case model.CategoryShoes:
			shoes++
		}
	}

	switch item.Category {
	case model.CategoryTop:
		return bottoms * shoes
	case model.CategoryBottom:
		return tops * shoes
	case model.CategoryShoes:
		return tops * bottoms
	case model.CategoryOnePiece:
		return shoes
	case model.CategoryAccessory, model.CategoryOuterwear:
		// Layers over any complete base outfit.
		return tops * bottoms * shoes
	default:
		return 0
	}
}

// TopItems scores every garment against the full closet and returns up to
// limit of them, ordered by score descending. Ties keep closet order.
func (s *Scorer) TopItems(closet []model.Garment, limit int) []Ranked {
	if limit < 0 {
		limit = 0
	}

	ranked := make([]Ranked, len(closet))
	for i, g := range closet {
		ranked[i] = Ranked{Garment: g, Score: s.Score(g, closet)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}

// matchesAny reports whether value contains any vocabulary term,
// case-insensitively. The first hit wins: a value matching several terms
// still counts once, never twice.
func matchesAny(value string, vocab []string) bool {
	if value == "" {
		return false
	}
	lowered := strings.ToLower(value)
	for _, term := range vocab {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}

// anyTagMatches reports whether any tag contains any vocabulary term.
func anyTagMatches(tags []string, vocab []string) bool {
	for _, tag := range tags {
		if matchesAny(tag, vocab) {
			return true
		}
	}
	return false
}
