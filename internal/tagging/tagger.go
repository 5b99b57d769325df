// Package tagging infers qualitative experience tags (hands-on, historic,
// quirky, ...) from venue category, name patterns, provider types, and
// quality signals.
package tagging

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/accessible-outings/outings/internal/model"
)

// Tagger derives experience tags for venues. All four tag sources are
// unioned, not prioritized, since tags are non-exclusive.
type Tagger struct {
	rules    Rules
	patterns map[string][]*regexp.Regexp
}

// New compiles the name patterns in rules and returns a Tagger. Patterns
// that fail to compile are logged and skipped rather than failing startup.
func New(rules Rules) *Tagger {
	patterns := make(map[string][]*regexp.Regexp, len(rules.NamePatterns))
	for tag, exprs := range rules.NamePatterns {
		for _, expr := range exprs {
			re, err := regexp.Compile(expr)
			if err != nil {
				zap.L().Warn("skipping bad tag pattern",
					zap.String("tag", tag),
					zap.String("pattern", expr),
					zap.Error(err))
				continue
			}
			patterns[tag] = append(patterns[tag], re)
		}
	}
	return &Tagger{rules: rules, patterns: patterns}
}

// Tag returns the experience tags for the given inputs, sorted for
// deterministic comparison.
func (t *Tagger) Tag(in model.ScoreInputs) []string {
	set := map[string]struct{}{}

	for _, tag := range t.rules.CategoryTags[in.Category.String()] {
		set[tag] = struct{}{}
	}

	lower := strings.ToLower(in.Name)
	for tag, res := range t.patterns {
		for _, re := range res {
			if re.MatchString(lower) {
				set[tag] = struct{}{}
				break
			}
		}
	}

	for _, pt := range in.ProviderTypes {
		for _, tag := range t.rules.TypeTags[pt] {
			set[tag] = struct{}{}
		}
	}

	for _, tag := range t.qualityTags(in) {
		set[tag] = struct{}{}
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// qualityTags derives tags from accessibility coverage, rating, and review
// volume.
func (t *Tagger) qualityTags(in model.ScoreInputs) []string {
	var tags []string

	flags := in.Flags.List()
	coverage := float64(in.Flags.Count()) / float64(len(flags))
	if coverage >= t.rules.ChampionThreshold {
		tags = append(tags, "accessibility-champion")
	}
	if in.Rating != nil && *in.Rating >= t.rules.HighQualityRating {
		tags = append(tags, "high-quality")
	}
	if len(in.Reviews) >= t.rules.AuthenticReviews {
		tags = append(tags, "authentic")
	}
	return tags
}

// InterestingCount reports how many of the given tags belong to the curated
// interesting-tag set, used by the interestingness scorer's tag boost.
func (t *Tagger) InterestingCount(tags []string) int {
	n := 0
	for _, tag := range tags {
		for _, it := range t.rules.InterestingSet {
			if tag == it {
				n++
				break
			}
		}
	}
	return n
}
