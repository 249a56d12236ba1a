// Package location recognizes a place name in extracted document text.
package location

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// knownCities is the recognition gazetteer, lower-cased. Multi-word names
// are matched as phrases.
var knownCities = []string{
	// Major Australian cities
	"sydney", "melbourne", "brisbane", "perth", "adelaide", "canberra",
	"darwin", "hobart", "gold coast", "newcastle", "wollongong", "geelong",
	"townsville", "cairns", "toowoomba", "ballarat", "bendigo", "mackay",

	// Major international cities
	"london", "new york", "tokyo", "singapore", "hong kong", "auckland",
	"los angeles", "chicago", "toronto", "vancouver", "montreal", "paris",
	"berlin", "amsterdam", "zurich", "dubai", "mumbai", "delhi", "bangalore",
	"bangkok", "kuala lumpur", "manila", "jakarta", "seoul", "beijing",
	"shanghai", "boston", "washington", "miami", "san francisco", "seattle",
	"portland", "denver", "atlanta", "houston", "dallas", "phoenix",

	// European cities
	"madrid", "barcelona", "rome", "milan", "vienna", "prague", "budapest",
	"warsaw", "stockholm", "oslo", "copenhagen", "helsinki", "dublin",
	"edinburgh", "glasgow", "manchester", "liverpool", "birmingham",

	// Asian cities
	"osaka", "kyoto", "taipei", "guangzhou", "shenzhen", "chennai", "kolkata",
	"karachi", "lahore", "dhaka", "islamabad", "kathmandu", "colombo",
}

var cityPatterns = buildPatterns(knownCities)

func buildPatterns(cities []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(cities))
	for i, city := range cities {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(city) + `\b`)
	}
	return patterns
}

var titleCaser = cases.Title(language.English)

// Recognize scans text for a known city as a whole word and returns the
// title-cased name of the longest match (ties go to gazetteer order).
// ok is false when no city is found; the pipeline then skips
// location-scoped sources.
func Recognize(text string) (name string, ok bool) {
	lower := strings.ToLower(text)

	best := ""
	for i, p := range cityPatterns {
		if p.MatchString(lower) && len(knownCities[i]) > len(best) {
			best = knownCities[i]
		}
	}
	if best == "" {
		return "", false
	}
	return titleCaser.String(best), true
}
