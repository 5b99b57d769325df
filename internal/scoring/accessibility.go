// Package scoring computes the two ranking signals: a 0-1 accessibility
// score from structured flags and review sentiment, and a 0-10
// interestingness score from category priors, tags, events, and rating.
package scoring

import (
	"strings"

	"github.com/accessible-outings/outings/internal/model"
)

// AccessibilityWeights are the per-flag contributions to the structured
// score. The values are empirically tuned configuration, not derived; change
// them via config rather than re-deriving.
type AccessibilityWeights struct {
	Wheelchair float64 `mapstructure:"wheelchair" yaml:"wheelchair"`
	Parking    float64 `mapstructure:"parking" yaml:"parking"`
	Restroom   float64 `mapstructure:"restroom" yaml:"restroom"`
	Elevator   float64 `mapstructure:"elevator" yaml:"elevator"`
	WideDoors  float64 `mapstructure:"wide_doors" yaml:"wide_doors"`
	Ramp       float64 `mapstructure:"ramp" yaml:"ramp"`
	Seating    float64 `mapstructure:"seating" yaml:"seating"`

	VerifiedBonus float64 `mapstructure:"verified_bonus" yaml:"verified_bonus"`
	ReviewBlend   float64 `mapstructure:"review_blend" yaml:"review_blend"`
}

// DefaultAccessibilityWeights returns the canonical weight table.
func DefaultAccessibilityWeights() AccessibilityWeights {
	return AccessibilityWeights{
		Wheelchair:    0.25,
		Parking:       0.15,
		Restroom:      0.20,
		Elevator:      0.10,
		WideDoors:     0.10,
		Ramp:          0.10,
		Seating:       0.10,
		VerifiedBonus: 0.10,
		ReviewBlend:   0.30,
	}
}

// Review keyword lists consulted when reviews carry free text but no
// explicit accessibility rating.
var (
	positiveAccessibilityKeywords = []string{
		"wheelchair accessible", "wheelchair friendly", "accessible entrance",
		"ramp available", "elevator access", "wide doors", "accessible parking",
		"accessible restroom", "accessible bathroom", "easy access",
		"handicap accessible", "disability friendly", "accessible seating",
		"smooth entrance", "no steps", "level entrance", "accessible path",
	}
	negativeAccessibilityKeywords = []string{
		"not accessible", "no wheelchair access", "stairs only", "narrow doors",
		"no ramp", "no elevator", "inaccessible", "difficult access",
		"steps required", "not handicap accessible", "narrow entrance",
		"no accessible parking", "no accessible restroom",
	}
)

// AccessibilityScorer computes a venue's 0-1 accessibility score.
type AccessibilityScorer struct {
	weights AccessibilityWeights
}

// NewAccessibilityScorer builds a scorer with the given weight table.
func NewAccessibilityScorer(w AccessibilityWeights) *AccessibilityScorer {
	return &AccessibilityScorer{weights: w}
}

// Score blends the weighted structured flags (plus verified bonus) with the
// review-derived score when one is available: 70/30 by default. The result
// is clamped to [0, 1].
func (s *AccessibilityScorer) Score(in model.ScoreInputs) float64 {
	structured := s.structuredScore(in.Flags, in.Verified)

	review, ok := reviewScore(in.Reviews)
	score := structured
	if ok {
		score = structured*(1-s.weights.ReviewBlend) + review*s.weights.ReviewBlend
	}
	return clamp(score, 0, 1)
}

func (s *AccessibilityScorer) structuredScore(f model.AccessibilityFlags, verified bool) float64 {
	weights := []float64{
		s.weights.Wheelchair,
		s.weights.Parking,
		s.weights.Restroom,
		s.weights.Elevator,
		s.weights.WideDoors,
		s.weights.Ramp,
		s.weights.Seating,
	}
	score := 0.0
	for i, set := range f.List() {
		if set {
			score += weights[i]
		}
	}
	if verified {
		score += s.weights.VerifiedBonus
	}
	return score
}

// reviewScore prefers explicit 1-5 accessibility ratings, mapped linearly to
// [0, 1]. Without ratings it counts positive vs negative keyword mentions in
// review text, at most one of each per review. The second return reports
// whether a score could be derived at all.
func reviewScore(reviews []model.Review) (float64, bool) {
	var ratings []float64
	for _, r := range reviews {
		if r.AccessibilityRating != nil {
			ratings = append(ratings, *r.AccessibilityRating)
		}
	}
	if len(ratings) > 0 {
		sum := 0.0
		for _, r := range ratings {
			sum += r
		}
		avg := sum / float64(len(ratings))
		return (avg - 1) / 4, true
	}

	positive, negative := 0, 0
	for _, r := range reviews {
		if r.Text == "" {
			continue
		}
		text := strings.ToLower(r.Text)
		for _, kw := range positiveAccessibilityKeywords {
			if strings.Contains(text, kw) {
				positive++
				break
			}
		}
		for _, kw := range negativeAccessibilityKeywords {
			if strings.Contains(text, kw) {
				negative++
				break
			}
		}
	}
	if positive+negative == 0 {
		return 0, false
	}
	return float64(positive) / float64(positive+negative), true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
