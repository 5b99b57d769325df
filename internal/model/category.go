package model

// Category identifies one of the fixed venue categories.
type Category int

// CategoryUnknown means no category could be determined. Callers must not
// substitute a default; an unknown category stays unknown until a later
// enrichment pass resolves it.
const (
	CategoryUnknown Category = iota
	CategoryBotanicalGarden
	CategoryBirdWatching
	CategoryMuseum
	CategoryAquarium
	CategoryShoppingCenter
	CategoryAntiqueShop
	CategoryArtGallery
	CategoryLibrary
	CategoryTheater
	CategoryCraftStore
	CategoryGardenCenter
	CategoryConservatory
)

var categoryNames = map[Category]string{
	CategoryUnknown:         "unknown",
	CategoryBotanicalGarden: "botanical_garden",
	CategoryBirdWatching:    "bird_watching",
	CategoryMuseum:          "museum",
	CategoryAquarium:        "aquarium",
	CategoryShoppingCenter:  "shopping_center",
	CategoryAntiqueShop:     "antique_shop",
	CategoryArtGallery:      "art_gallery",
	CategoryLibrary:         "library",
	CategoryTheater:         "theater",
	CategoryCraftStore:      "craft_store",
	CategoryGardenCenter:    "garden_center",
	CategoryConservatory:    "conservatory",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCategory maps a category name back to its Category. Unrecognized
// names return CategoryUnknown.
func ParseCategory(name string) Category {
	for c, n := range categoryNames {
		if n == name {
			return c
		}
	}
	return CategoryUnknown
}

// Categories lists all known categories in a stable order, excluding
// CategoryUnknown.
func Categories() []Category {
	return []Category{
		CategoryBotanicalGarden,
		CategoryBirdWatching,
		CategoryMuseum,
		CategoryAquarium,
		CategoryShoppingCenter,
		CategoryAntiqueShop,
		CategoryArtGallery,
		CategoryLibrary,
		CategoryTheater,
		CategoryCraftStore,
		CategoryGardenCenter,
		CategoryConservatory,
	}
}

// SearchKeywords returns the keywords used when querying place providers for
// venues of this category.
func (c Category) SearchKeywords() []string {
	switch c {
	case CategoryBotanicalGarden:
		return []string{"botanical garden", "arboretum", "public garden"}
	case CategoryBirdWatching:
		return []string{"bird sanctuary", "nature center", "wildlife refuge"}
	case CategoryMuseum:
		return []string{"museum", "history museum", "science center"}
	case CategoryAquarium:
		return []string{"aquarium", "sea life center"}
	case CategoryShoppingCenter:
		return []string{"shopping mall", "shopping center"}
	case CategoryAntiqueShop:
		return []string{"antique shop", "antique mall", "vintage store"}
	case CategoryArtGallery:
		return []string{"art gallery", "art museum", "art center"}
	case CategoryLibrary:
		return []string{"public library", "library"}
	case CategoryTheater:
		return []string{"theater", "performing arts center"}
	case CategoryCraftStore:
		return []string{"craft store", "art supply store", "hobby shop"}
	case CategoryGardenCenter:
		return []string{"garden center", "plant nursery"}
	case CategoryConservatory:
		return []string{"conservatory", "tropical greenhouse"}
	default:
		return nil
	}
}
