package tagging

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/accessible-outings/outings/internal/model"
)

// Rules holds every table the tagger consults. The built-in defaults cover
// the full category set; operators can override individual tables from a
// YAML file without rebuilding.
type Rules struct {
	CategoryTags   map[string][]string `yaml:"category_tags"`
	NamePatterns   map[string][]string `yaml:"name_patterns"`
	TypeTags       map[string][]string `yaml:"type_tags"`
	InterestingSet []string            `yaml:"interesting_tags"`

	ChampionThreshold float64 `yaml:"champion_threshold"`
	HighQualityRating float64 `yaml:"high_quality_rating"`
	AuthenticReviews  int     `yaml:"authentic_reviews"`
}

// DefaultRules returns the built-in tag tables.
func DefaultRules() Rules {
	return Rules{
		CategoryTags: map[string][]string{
			model.CategoryBotanicalGarden.String(): {"peaceful", "photogenic", "seasonal", "educational", "sensory"},
			model.CategoryBirdWatching.String():    {"peaceful", "educational", "unique", "seasonal", "solo-friendly"},
			model.CategoryMuseum.String():          {"educational", "historic", "self-guided", "photogenic"},
			model.CategoryAquarium.String():        {"immersive", "educational", "family-friendly", "sensory"},
			model.CategoryShoppingCenter.String():  {},
			model.CategoryAntiqueShop.String():     {"quirky", "unique", "historic", "hands-on"},
			model.CategoryArtGallery.String():      {"artistic", "peaceful", "photogenic", "solo-friendly"},
			model.CategoryLibrary.String():         {"educational", "peaceful", "solo-friendly"},
			model.CategoryTheater.String():         {"immersive", "date-worthy", "group-friendly"},
			model.CategoryCraftStore.String():      {"hands-on", "workshops", "family-friendly", "creative"},
			model.CategoryGardenCenter.String():    {"hands-on", "seasonal", "educational", "peaceful"},
			model.CategoryConservatory.String():    {"immersive", "unique", "photogenic", "sensory"},
		},
		NamePatterns: map[string][]string{
			"quirky": {
				`\b(odditorium|peculiar|bizarre|weird|strange|unusual)\b`,
				`\b(mystery|secret|hidden|forgotten)\b`,
				`\b(world.*largest|smallest.*world)\b`,
			},
			"hands-on": {
				`\b(hands.?on|interactive|touch|make|create|build)\b`,
				`\b(workshop|studio|maker|craft|pottery|glass.*blow)\b`,
				`\b(demonstration|demo|live.*show)\b`,
			},
			"historic": {
				`\b(historic|heritage|colonial|victorian|antique)\b`,
				`\b(old|vintage|traditional|preserved|restored)\b`,
				`\b(museum|house|mansion|homestead)\b`,
			},
			"unique": {
				`\b(only|first|last|original|authentic)\b`,
				`\b(collection|exhibit|display.*rare)\b`,
				`\b(specialty|specialized|unique)\b`,
			},
			"artistic": {
				`\b(art|artist|gallery|studio|creative)\b`,
				`\b(sculpture|painting|craft|handmade)\b`,
				`\b(design|contemporary|modern.*art)\b`,
			},
		},
		TypeTags: map[string][]string{
			"amusement_park":   {"adventurous", "family-friendly", "high-quality"},
			"aquarium":         {"educational", "immersive", "family-friendly", "sensory"},
			"art_gallery":      {"artistic", "peaceful", "photogenic", "solo-friendly"},
			"museum":           {"educational", "historic", "self-guided", "photogenic"},
			"zoo":              {"educational", "family-friendly", "hands-on", "seasonal"},
			"botanical_garden": {"peaceful", "photogenic", "seasonal", "sensory"},
			"library":          {"educational", "peaceful", "solo-friendly"},
			"park":             {"peaceful", "family-friendly", "seasonal", "photogenic"},
			"tourist_attraction": {"photogenic", "unique"},
		},
		InterestingSet: []string{
			"hands-on", "interactive", "quirky", "unique", "educational",
			"guided-tours", "live-performances", "workshops", "demonstrations",
			"seasonal-events", "family-friendly", "behind-the-scenes",
		},
		ChampionThreshold: 0.8,
		HighQualityRating: 4.5,
		AuthenticReviews:  5,
	}
}

// LoadRules reads tag-rule overrides from a YAML file and merges them over
// the defaults. Only tables present in the file replace their default.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, eris.Wrapf(err, "tagging: read rules %s", path)
	}

	var wrapper struct {
		Tagging Rules `yaml:"tagging"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return rules, eris.Wrap(err, "tagging: parse rules")
	}

	o := wrapper.Tagging
	if len(o.CategoryTags) > 0 {
		rules.CategoryTags = o.CategoryTags
	}
	if len(o.NamePatterns) > 0 {
		rules.NamePatterns = o.NamePatterns
	}
	if len(o.TypeTags) > 0 {
		rules.TypeTags = o.TypeTags
	}
	if len(o.InterestingSet) > 0 {
		rules.InterestingSet = o.InterestingSet
	}
	if o.ChampionThreshold > 0 {
		rules.ChampionThreshold = o.ChampionThreshold
	}
	if o.HighQualityRating > 0 {
		rules.HighQualityRating = o.HighQualityRating
	}
	if o.AuthenticReviews > 0 {
		rules.AuthenticReviews = o.AuthenticReviews
	}
	return rules, nil
}
