package events

import "strings"

// accessibilityKeywords are the phrases scanned for in event descriptions
// and venue text. Matches accumulate into the event's accessibility notes.
var accessibilityKeywords = []string{
	"wheelchair accessible", "wheelchair access", "ada compliant",
	"accessible parking", "accessible restroom", "elevator access",
	"hearing loop", "sign language", "asl interpreter",
	"braille", "large print", "audio description",
	"mobility assistance", "accessible entrance",
}

// ExtractAccessibilityInfo scans description and venue text for
// accessibility phrases and joins the matches into a notes string. Empty
// when nothing matched.
func ExtractAccessibilityInfo(description, venueInfo string) string {
	text := strings.ToLower(description + " " + venueInfo)
	var found []string
	for _, keyword := range accessibilityKeywords {
		if strings.Contains(text, keyword) {
			found = append(found, keyword)
		}
	}
	return strings.Join(found, "; ")
}
