package aggregator

import (
	"strings"

	"github.com/accessible-outings/outings/internal/model"
)

// Keyword sets for event type classification, matched against lowercased
// title+description. The flags are independent; an event can carry all
// three.
var (
	funKeywords = []string{
		"workshop", "class", "painting", "craft", "art", "music", "dance",
		"cooking", "game", "party", "festival", "hands-on", "interactive",
	}

	interestingKeywords = []string{
		"lecture", "talk", "presentation", "history", "science", "education",
		"learning", "seminar", "conference", "discussion", "tour", "exhibit",
	}

	offBeatKeywords = []string{
		"unusual", "unique", "mystery", "ghost", "secret", "behind-the-scenes",
		"exclusive", "rare", "underground", "hidden", "weird", "strange",
	}
)

// Classify derives event type flags from title and description. An event
// never ends up with zero flags: when nothing matches it defaults to
// interesting.
func Classify(title, description string) model.EventTypeFlags {
	text := strings.ToLower(title + " " + description)

	flags := model.EventTypeFlags{
		Fun:         containsAny(text, funKeywords),
		Interesting: containsAny(text, interestingKeywords),
		OffBeat:     containsAny(text, offBeatKeywords),
	}
	if flags.None() {
		flags.Interesting = true
	}
	return flags
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
