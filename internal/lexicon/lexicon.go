// Package lexicon holds the static keyword tables the classifier and
// extractor match against. Pure data and string matching, no state; the
// tables are deliberately replaceable by a trained model behind the
// Classifier/Extractor interfaces without touching this package's callers.
package lexicon

import (
	"sort"
	"strings"
)

// Greetings matched as whole words/phrases.
var Greetings = []string{
	"hi", "hello", "hey", "howdy", "hai", "helo",
	"good morning", "good afternoon", "good evening",
}

// Farewells close a turn but never destroy the session context.
var Farewells = []string{
	"bye", "goodbye", "good night", "see you", "farewell", "take care", "see ya",
}

// Thanks acknowledgements.
var Thanks = []string{
	"thank you", "thanks", "thx", "appreciate it", "terima kasih",
}

// SillyPhrases is a fixed list of nonsensical/joke-baiting phrasings.
var SillyPhrases = []string{
	"are you real", "are you human", "are you a robot", "do you dream",
	"do you sleep", "sing me a song", "marry me", "tell me a secret",
	"what is the meaning of life", "blah blah",
}

// JokeRequests ask the assistant for a joke outright.
var JokeRequests = []string{
	"tell me a joke", "make me laugh", "know any jokes", "say something funny", "joke",
}

// OffTopicKeywords cover common non-property topics.
var OffTopicKeywords = []string{
	"weather", "rain", "sunny",
	"food", "restaurant", "lunch", "dinner", "breakfast", "eat",
	"movie", "music", "song", "concert", "netflix",
	"football", "soccer", "badminton", "sports", "game",
	"politics", "election", "minister",
	"news", "headline",
}

// DomainKeywords signal a property/financial/location conversation.
var DomainKeywords = []string{
	"property", "house", "home", "apartment", "condo", "condominium",
	"villa", "studio", "terrace", "bungalow", "townhouse", "penthouse",
	"flat", "room", "bedroom", "bathroom", "listing", "unit",
	"buy", "purchase", "rent", "lease", "tenant", "sale", "own",
	"budget", "price", "afford", "salary", "earn", "income", "ringgit", "rm",
	"family", "kids", "children", "move", "stay", "live",
}

// States in the gazetteer, lowercase canonical form.
var States = []string{
	"johor", "selangor", "penang", "kuala lumpur", "melaka", "perak",
	"kedah", "pahang", "sabah", "sarawak", "negeri sembilan", "terengganu",
	"kelantan", "perlis", "putrajaya", "labuan",
}

// Cities in the gazetteer.
var Cities = []string{
	"johor bahru", "shah alam", "petaling jaya", "subang jaya", "george town",
	"ipoh", "seremban", "kuantan", "kota kinabalu", "kuching", "cyberjaya",
	"putra heights", "klang", "ampang jaya", "iskandar puteri",
}

// Areas in the gazetteer (neighbourhoods matched against listing addresses).
var Areas = []string{
	"bukit indah", "mount austin", "skudai", "tebrau", "danga bay",
	"bangsar", "mont kiara", "cheras", "damansara", "wangsa maju",
	"bukit bintang", "sentul", "setapak", "puchong", "kepong",
}

// propertyTypeAliases maps surface forms to the canonical type vocabulary.
var propertyTypeAliases = map[string]string{
	"house":        "house",
	"houses":       "house",
	"landed":       "house",
	"terrace":      "house",
	"bungalow":     "house",
	"townhouse":    "house",
	"apartment":    "apartment",
	"apartments":   "apartment",
	"flat":         "apartment",
	"condo":        "condo",
	"condos":       "condo",
	"condominium":  "condo",
	"condominiums": "condo",
	"villa":        "villa",
	"villas":       "villa",
	"studio":       "studio",
	"studios":      "studio",
	"penthouse":    "penthouse",
}

// amenityAliases groups surface forms under a canonical amenity term.
var amenityAliases = map[string][]string{
	"pool":       {"pool", "swimming pool"},
	"gym":        {"gym", "gymnasium", "fitness", "fitness center"},
	"parking":    {"parking", "car park", "covered parking", "carpark"},
	"aircon":     {"aircon", "air conditioner", "air conditioning", "a/c"},
	"balcony":    {"balcony", "terrace"},
	"security":   {"security", "24-hour security", "guarded", "gated"},
	"playground": {"playground", "kids playground"},
	"furnished":  {"furnished", "fully furnished"},
	"wifi":       {"wifi", "internet"},
	"lift":       {"lift", "elevator"},
	"garden":     {"garden", "yard"},
	"pet":        {"pet friendly", "pets allowed"},
}

// Normalize lowercases and collapses runs of whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// ContainsPhrase reports whether the normalized utterance contains the
// phrase as whole words ("rm" must not match inside "bedroom").
func ContainsPhrase(normalized, phrase string) bool {
	idx := 0
	for {
		i := strings.Index(normalized[idx:], phrase)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(phrase)
		startOK := start == 0 || !isWordChar(normalized[start-1])
		endOK := end == len(normalized) || !isWordChar(normalized[end])
		if startOK && endOK {
			return true
		}
		idx = start + 1
		if idx >= len(normalized) {
			return false
		}
	}
}

// ContainsAny reports whether any phrase from the table appears whole-word.
func ContainsAny(normalized string, phrases []string) bool {
	for _, p := range phrases {
		if ContainsPhrase(normalized, p) {
			return true
		}
	}
	return false
}

// MatchPropertyTypes returns the canonical property types mentioned in the
// utterance, in order of first appearance, deduplicated.
func MatchPropertyTypes(normalized string) []string {
	var found []string
	seen := map[string]bool{}
	for _, word := range strings.Fields(normalized) {
		canonical, ok := propertyTypeAliases[strings.Trim(word, ".,!?;:()\"")]
		if !ok || seen[canonical] {
			continue
		}
		seen[canonical] = true
		found = append(found, canonical)
	}
	return found
}

// MatchAmenities returns the canonical amenities requested in the utterance.
func MatchAmenities(normalized string) []string {
	var found []string
	for canonical, aliases := range amenityAliases {
		for _, alias := range aliases {
			if ContainsPhrase(normalized, alias) {
				found = append(found, canonical)
				break
			}
		}
	}
	// Map iteration order is random; callers need stable output.
	sort.Strings(found)
	return found
}

// AmenityMatches reports whether a listing amenity satisfies a requested
// canonical amenity, via substring or alias match.
func AmenityMatches(requested, listingAmenity string) bool {
	la := Normalize(listingAmenity)
	if la == requested || strings.Contains(la, requested) {
		return true
	}
	for _, alias := range amenityAliases[requested] {
		if strings.Contains(la, alias) {
			return true
		}
	}
	return false
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '\''
}
