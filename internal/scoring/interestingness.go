package scoring

import (
	"github.com/accessible-outings/outings/internal/model"
)

// InterestingnessParams hold the tuning constants for the 0-10 composite
// score. Like the accessibility weights these are configuration, preserved
// as tuned rather than derived.
type InterestingnessParams struct {
	CategoryPriors map[string]float64 `mapstructure:"category_priors" yaml:"category_priors"`
	FallbackPrior  float64            `mapstructure:"fallback_prior" yaml:"fallback_prior"`

	TagBoost     float64 `mapstructure:"tag_boost" yaml:"tag_boost"`
	TagBoostCap  float64 `mapstructure:"tag_boost_cap" yaml:"tag_boost_cap"`
	EventWeight  float64 `mapstructure:"event_weight" yaml:"event_weight"`
	EventCap     float64 `mapstructure:"event_cap" yaml:"event_cap"`
	FlagWeight   float64 `mapstructure:"flag_weight" yaml:"flag_weight"`
	RatingWeight float64 `mapstructure:"rating_weight" yaml:"rating_weight"`
	RatingPivot  float64 `mapstructure:"rating_pivot" yaml:"rating_pivot"`
}

// DefaultInterestingnessParams returns the canonical constants.
func DefaultInterestingnessParams() InterestingnessParams {
	return InterestingnessParams{
		CategoryPriors: map[string]float64{
			model.CategoryBotanicalGarden.String(): 7.0,
			model.CategoryBirdWatching.String():    8.0,
			model.CategoryMuseum.String():          6.5,
			model.CategoryAquarium.String():        8.5,
			model.CategoryShoppingCenter.String():  2.0,
			model.CategoryAntiqueShop.String():     7.5,
			model.CategoryArtGallery.String():      7.0,
			model.CategoryLibrary.String():         5.0,
			model.CategoryTheater.String():         4.0,
			model.CategoryCraftStore.String():      6.0,
			model.CategoryGardenCenter.String():    6.5,
			model.CategoryConservatory.String():    8.0,
		},
		FallbackPrior: 5.0,
		TagBoost:      0.5,
		TagBoostCap:   2.0,
		EventWeight:   0.3,
		EventCap:      1.5,
		FlagWeight:    1.0,
		RatingWeight:  0.5,
		RatingPivot:   3.0,
	}
}

// InterestingnessScorer computes a venue's 0-10 interestingness score, the
// primary sort key for discovery results.
type InterestingnessScorer struct {
	params InterestingnessParams
	tagger interestingCounter
}

type interestingCounter interface {
	InterestingCount(tags []string) int
}

// NewInterestingnessScorer builds a scorer. The tagger supplies the curated
// interesting-tag set used for the tag boost.
func NewInterestingnessScorer(p InterestingnessParams, tagger interestingCounter) *InterestingnessScorer {
	return &InterestingnessScorer{params: p, tagger: tagger}
}

// Score sums the category prior, capped tag and event-frequency boosts, a
// flag-coverage boost, and a rating adjustment centered at the pivot. The
// rating term can be negative. A venue with no category contributes no prior
// at all; the fallback prior applies only to categorized venues missing a
// table entry. The result is clamped to [0, 10].
func (s *InterestingnessScorer) Score(in model.ScoreInputs) float64 {
	score := 0.0

	if in.Category != model.CategoryUnknown {
		prior, ok := s.params.CategoryPriors[in.Category.String()]
		if !ok {
			prior = s.params.FallbackPrior
		}
		score += prior
	}

	boost := float64(s.tagger.InterestingCount(in.Tags)) * s.params.TagBoost
	score += min(boost, s.params.TagBoostCap)

	score += min(float64(in.EventFreq)*s.params.EventWeight, s.params.EventCap)

	// Accessibility quality boost over the five core mobility flags.
	coreFlags := []bool{
		in.Flags.WheelchairAccessible,
		in.Flags.AccessibleParking,
		in.Flags.AccessibleRestroom,
		in.Flags.RampAccess,
		in.Flags.ElevatorAccess,
	}
	set := 0
	for _, b := range coreFlags {
		if b {
			set++
		}
	}
	score += float64(set) / float64(len(coreFlags)) * s.params.FlagWeight

	if in.Rating != nil {
		score += (*in.Rating - s.params.RatingPivot) * s.params.RatingWeight
	}

	return clamp(score, 0, 10)
}
