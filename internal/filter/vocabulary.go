package filter

import (
	"strings"

	"shelterly/server/internal/models"
)

// institutionVariants maps a canonical institution token to the variant
// tokens users type for it. A query and a candidate institution name match
// only when both contain a variant of the same canonical token; new
// variants are data changes, not code changes.
var institutionVariants = map[string][]string{
	"joseph": {"st joseph", "saint joseph", "st josephs", "joseph", "joe", "joes"},
	"mary":   {"st mary", "saint mary", "st marys", "mary", "marys"},
	"xavier": {"st xavier", "saint xavier", "st xaviers", "xavier", "xaviers"},
	"christ": {"christ university", "christ college", "christ"},
	"jain":   {"jain university", "jain college", "jain"},
	"pes":    {"pes university", "pes college", "pesu", "pes"},
	"rv":     {"rv college", "r v college", "rvce"},
	"bms":    {"bms college", "b m s college", "bmsce"},
	"iisc":   {"indian institute of science", "iisc"},
}

// MatchesInstitution reports whether a query refers to the given
// institution name. Plain substring containment matches directly;
// otherwise both sides must share a canonical variant, so "saint mary"
// never matches "St. Joseph's University" even though both carry a
// saint prefix.
func MatchesInstitution(query, institution string) bool {
	q := normalizeText(query)
	n := normalizeText(institution)
	if q == "" || n == "" {
		return false
	}
	if strings.Contains(n, q) {
		return true
	}
	for _, variants := range institutionVariants {
		if containsAny(q, variants) && containsAny(n, variants) {
			return true
		}
	}
	return false
}

// amenitySynonyms is the free-text amenity vocabulary: a query containing
// any of the terms matches listings carrying the amenity.
var amenitySynonyms = []struct {
	terms []string
	has   func(a models.Amenities) bool
}{
	{[]string{"wifi", "wi-fi", "internet"}, func(a models.Amenities) bool { return a.WiFi }},
	{[]string{"television", "tv"}, func(a models.Amenities) bool { return a.Television }},
	{[]string{"food", "meals", "mess"}, func(a models.Amenities) bool { return a.Food }},
	{[]string{"refrigerator", "fridge"}, func(a models.Amenities) bool { return a.Refrigerator }},
	{[]string{"washing machine", "laundry"}, func(a models.Amenities) bool { return a.WashingMachine }},
	{[]string{"housekeeping", "cleaning"}, func(a models.Amenities) bool { return a.Housekeeping }},
	{[]string{"parking", "car", "bike"}, func(a models.Amenities) bool { return a.Parking }},
	{[]string{"security", "guard"}, func(a models.Amenities) bool { return a.Security }},
	{[]string{"lift", "elevator"}, func(a models.Amenities) bool { return a.Lift }},
	{[]string{"power backup", "generator", "inverter"}, func(a models.Amenities) bool { return a.PowerBackup }},
	{[]string{"bathroom", "attached washroom"}, func(a models.Amenities) bool {
		return a.Washroom == models.WashroomAttached || a.Washroom == models.WashroomBoth
	}},
}

// sharingVocabulary maps tier occupancy to the words users type for it.
var sharingVocabulary = map[int][]string{
	1: {"1 sharing", "one sharing", "single", "solo"},
	2: {"2 sharing", "two sharing", "double"},
	3: {"3 sharing", "three sharing", "triple"},
	4: {"4 sharing", "four sharing"},
}

var budgetVocabulary = []string{"cheap", "affordable", "budget"}

var luxuryVocabulary = []string{"luxury", "premium", "high end"}

// normalizeText lowercases, strips punctuation that varies between
// spellings (periods, commas, apostrophes) and collapses whitespace.
func normalizeText(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '\'', '’':
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
