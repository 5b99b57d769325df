package tagging

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accessible-outings/outings/internal/model"
)

func TestTagCategorySource(t *testing.T) {
	tagger := New(DefaultRules())

	tags := tagger.Tag(model.ScoreInputs{
		Category: model.CategoryAquarium,
		Name:     "New England", // no pattern hits
	})
	assert.Contains(t, tags, "immersive")
	assert.Contains(t, tags, "family-friendly")
}

func TestTagNamePatterns(t *testing.T) {
	tagger := New(DefaultRules())

	tags := tagger.Tag(model.ScoreInputs{Name: "The Secret Odditorium"})
	assert.Contains(t, tags, "quirky")

	tags = tagger.Tag(model.ScoreInputs{Name: "Hands-On Pottery Studio"})
	assert.Contains(t, tags, "hands-on")
}

func TestTagProviderTypes(t *testing.T) {
	tagger := New(DefaultRules())

	tags := tagger.Tag(model.ScoreInputs{
		Name:          "Somewhere",
		ProviderTypes: []string{"tourist_attraction"},
	})
	assert.Contains(t, tags, "photogenic")
	assert.Contains(t, tags, "unique")
}

func TestTagQualitySignals(t *testing.T) {
	tagger := New(DefaultRules())
	rating := 4.7

	in := model.ScoreInputs{
		Name: "Somewhere",
		Flags: model.AccessibilityFlags{
			WheelchairAccessible: true,
			AccessibleParking:    true,
			AccessibleRestroom:   true,
			ElevatorAccess:       true,
			WideDoorways:         true,
			RampAccess:           true,
		},
		Rating:  &rating,
		Reviews: make([]model.Review, 5),
	}
	tags := tagger.Tag(in)
	// 6 of 7 flags is above the 80% champion threshold.
	assert.Contains(t, tags, "accessibility-champion")
	assert.Contains(t, tags, "high-quality")
	assert.Contains(t, tags, "authentic")

	// 5 of 7 falls below the threshold.
	in.Flags.RampAccess = false
	tags = tagger.Tag(in)
	assert.NotContains(t, tags, "accessibility-champion")
}

func TestTagOutputIsSortedAndDeduplicated(t *testing.T) {
	tagger := New(DefaultRules())

	// museum category and museum provider type both contribute "educational".
	tags := tagger.Tag(model.ScoreInputs{
		Category:      model.CategoryMuseum,
		Name:          "City Museum",
		ProviderTypes: []string{"museum"},
	})
	assert.True(t, sort.StringsAreSorted(tags))
	seen := map[string]int{}
	for _, tag := range tags {
		seen[tag]++
	}
	assert.Equal(t, 1, seen["educational"])
}

func TestInterestingCount(t *testing.T) {
	tagger := New(DefaultRules())
	n := tagger.InterestingCount([]string{"quirky", "peaceful", "hands-on", "sensory"})
	assert.Equal(t, 2, n)
}

func TestLoadRulesOverridesTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.yaml")
	content := `tagging:
  interesting_tags: [quirky]
  high_quality_rating: 4.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"quirky"}, rules.InterestingSet)
	assert.InDelta(t, 4.0, rules.HighQualityRating, 1e-9)
	// Untouched tables keep their defaults.
	assert.NotEmpty(t, rules.CategoryTags)
	assert.Equal(t, 5, rules.AuthenticReviews)
}

func TestLoadRulesMissingFileReturnsDefaults(t *testing.T) {
	rules, err := LoadRules("/nonexistent/tags.yaml")
	assert.Error(t, err)
	assert.NotEmpty(t, rules.CategoryTags)
}
