package places

import (
	"strings"

	"github.com/accessible-outings/outings/internal/category"
	"github.com/accessible-outings/outings/internal/model"
)

// reviewFeatureKeywords maps review-text keywords to the accessibility flags
// they imply. Only the first five reviews are scanned; beyond that the
// signal-to-noise drops off.
var reviewFeatureKeywords = []struct {
	keyword string
	apply   func(*model.AccessibilityFlags)
}{
	{"wheelchair", func(f *model.AccessibilityFlags) { f.WheelchairAccessible = true; f.RampAccess = true }},
	{"accessible", func(f *model.AccessibilityFlags) { f.WheelchairAccessible = true }},
	{"ramp", func(f *model.AccessibilityFlags) { f.RampAccess = true }},
	{"elevator", func(f *model.AccessibilityFlags) { f.ElevatorAccess = true }},
	{"parking", func(f *model.AccessibilityFlags) { f.AccessibleParking = true }},
	{"restroom", func(f *model.AccessibilityFlags) { f.AccessibleRestroom = true }},
	{"bathroom", func(f *model.AccessibilityFlags) { f.AccessibleRestroom = true }},
	{"wide door", func(f *model.AccessibilityFlags) { f.WideDoorways = true }},
	{"accessible seating", func(f *model.AccessibilityFlags) { f.AccessibleSeating = true }},
}

const reviewScanLimit = 5

// ExtractAccessibility derives accessibility flags and notes from the
// structured entrance flag plus keyword mentions in the leading reviews.
func ExtractAccessibility(p *Place) (model.AccessibilityFlags, string) {
	var flags model.AccessibilityFlags
	var notes []string

	if p.WheelchairAccessibleEntrance {
		flags.WheelchairAccessible = true
		notes = append(notes, "Wheelchair accessible entrance.")
	}

	reviews := p.Reviews
	if len(reviews) > reviewScanLimit {
		reviews = reviews[:reviewScanLimit]
	}
	for _, review := range reviews {
		text := strings.ToLower(review.Text)
		for _, rk := range reviewFeatureKeywords {
			if strings.Contains(text, rk.keyword) {
				rk.apply(&flags)
				notes = append(notes, "Mentioned in reviews: "+rk.keyword)
			}
		}
	}
	return flags, strings.Join(notes, " ")
}

// Venue converts a provider record to the canonical venue shape. The
// category comes from the provider type list with a name-keyword fallback;
// unmatched venues stay uncategorized.
func (c *Client) Venue(p *Place) model.Venue {
	flags, notes := ExtractAccessibility(p)
	street, city, state, zip := parseAddress(p.FormattedAddress)

	return model.Venue{
		Provider:           c.Name(),
		ExternalID:         p.PlaceID,
		Name:               p.Name,
		Address:            street,
		City:               city,
		State:              state,
		ZipCode:            zip,
		Phone:              p.Phone,
		Website:            p.Website,
		Latitude:           p.Geometry.Location.Lat,
		Longitude:          p.Geometry.Location.Lng,
		Category:           category.Map(p.Types, p.Name),
		Rating:             p.Rating,
		Accessibility:      flags,
		AccessibilityNotes: notes,
	}
}

// parseAddress splits a comma-formatted address ("10 Main St, Concord, NH
// 03301, USA") into street, city, state, and ZIP. Pieces that cannot be
// identified stay empty.
func parseAddress(formatted string) (street, city, state, zip string) {
	parts := strings.Split(formatted, ", ")
	if len(parts) == 0 || formatted == "" {
		return "", "", "", ""
	}
	street = parts[0]
	if len(parts) < 3 {
		return street, "", "", ""
	}

	// The component before last is usually "State ZIP".
	stateZip := strings.SplitN(parts[len(parts)-2], " ", 2)
	state = stateZip[0]
	if len(stateZip) > 1 {
		zip = stateZip[1]
	}

	if len(parts) >= 4 {
		city = parts[len(parts)-3]
	} else {
		city = parts[1]
	}
	return street, city, state, zip
}
