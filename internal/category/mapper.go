// Package category maps provider taxonomy strings and venue-name patterns to
// the internal category enum.
package category

import (
	"strings"

	"github.com/accessible-outings/outings/internal/model"
)

// typeRule maps a provider "type" token to a category. Rules are evaluated in
// order and the first match wins; type signals are higher-precision than name
// heuristics so the type table always runs first.
type typeRule struct {
	token    string
	category model.Category
}

var typeRules = []typeRule{
	{"aquarium", model.CategoryAquarium},
	{"zoo", model.CategoryAquarium},
	{"art_gallery", model.CategoryArtGallery},
	{"museum", model.CategoryMuseum},
	{"library", model.CategoryLibrary},
	{"movie_theater", model.CategoryTheater},
	{"performing_arts_theater", model.CategoryTheater},
	{"botanical_garden", model.CategoryBotanicalGarden},
	{"shopping_mall", model.CategoryShoppingCenter},
	{"department_store", model.CategoryShoppingCenter},
	{"book_store", model.CategoryShoppingCenter},
	{"florist", model.CategoryGardenCenter},
	{"home_goods_store", model.CategoryCraftStore},
	{"park", model.CategoryBirdWatching},
}

// nameRule maps case-insensitive venue-name keywords to a category. Like the
// type table, evaluation order is load-bearing: "AMC Theater" must land on
// theater before the shopping keywords would claim "Target Plaza Theater",
// and "garden" must not swallow "garden center" names checked later.
type nameRule struct {
	category model.Category
	keywords []string
}

var nameRules = []nameRule{
	{model.CategoryTheater, []string{
		"amc", "cinema", "theater", "theatre", "movie", "cineplex", "regal",
	}},
	{model.CategoryShoppingCenter, []string{
		"target", "walmart", "mall", "shopping", "department store", "costco",
		"home depot", "lowes", "best buy", "barnes & noble", "burlington",
		"jcpenney", "charlotte russe",
	}},
	{model.CategoryMuseum, []string{
		"museum", "gallery", "art center", "history", "science center",
	}},
	{model.CategoryLibrary, []string{
		"library", "public library",
	}},
	{model.CategoryAquarium, []string{
		"aquarium", "sea life", "marine", "zoo",
	}},
	{model.CategoryBotanicalGarden, []string{
		"botanical", "garden", "arboretum", "conservatory", "greenhouse",
	}},
	{model.CategoryBirdWatching, []string{
		"bird", "aviary", "nature center", "wildlife", "audubon",
	}},
	{model.CategoryAntiqueShop, []string{
		"antique", "vintage", "collectible", "consignment", "thrift",
	}},
	{model.CategoryArtGallery, []string{
		"art gallery", "gallery", "art studio", "arts center",
	}},
	{model.CategoryCraftStore, []string{
		"craft", "hobby", "michaels", "joann", "art supply", "fabric",
	}},
	{model.CategoryGardenCenter, []string{
		"nursery", "garden center", "plant", "florist", "greenhouse",
	}},
	{model.CategoryConservatory, []string{
		"conservatory", "glass house", "tropical house", "palm house",
	}},
}

// Map resolves a venue's category from its provider type list and name.
// Provider types are checked first against the ordered type table, then the
// lowercased name is scanned against the ordered keyword chains. When nothing
// matches it returns CategoryUnknown; callers leave the category unset rather
// than guessing.
func Map(providerTypes []string, name string) model.Category {
	for _, rule := range typeRules {
		for _, t := range providerTypes {
			if t == rule.token {
				return rule.category
			}
		}
	}

	lower := strings.ToLower(name)
	for _, rule := range nameRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return model.CategoryUnknown
}
