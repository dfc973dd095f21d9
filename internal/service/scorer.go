package service

import (
	"sort"
	"strings"

	"propchat/internal/lexicon"
	"propchat/internal/model"
)

// Match reason constants
const (
	ReasonIntentMatch     = "Matches your buy/rent intent"
	ReasonWithinBudget    = "Price within budget"
	ReasonOverBudget      = "Slightly over budget"
	ReasonAboveFloor      = "Price above your minimum"
	ReasonTypeMatch       = "Property type match"
	ReasonStateMatch      = "State match"
	ReasonCityMatch       = "City/area match"
	ReasonBedroomsExact   = "Bedrooms match"
	ReasonBedroomsClose   = "Bedrooms close to what you asked"
	ReasonAmenityMatch    = "Has requested amenities"
	ReasonFeaturedListing = "Featured listing"
)

// Scoring weights. The additive point table is fixed; the threshold and
// result cap are injected from config.
const (
	pointsIntent        = 30
	pointsWithinBudget  = 25
	pointsOverBudget    = -10
	pointsAboveFloor    = 10
	pointsTypeMatch     = 20
	pointsStateMatch    = 15
	pointsCityMatch     = 15
	pointsBedroomsExact = 10
	pointsBedroomsClose = 5
	pointsPerAmenity    = 5
	amenityPointsCap    = 20
	pointsFeatured      = 5
)

// MatchScorer ranks catalog listings against an accumulated context.
// Scoring is a pure function: two calls with the same inputs produce
// identical ordered output.
type MatchScorer struct {
	threshold int
	topN      int
}

// NewMatchScorer creates a scorer with the given relevance threshold and
// result cap. A listing scoring below the threshold is excluded entirely.
func NewMatchScorer(threshold, topN int) *MatchScorer {
	return &MatchScorer{threshold: threshold, topN: topN}
}

// Score evaluates a single listing against the context.
func (s *MatchScorer) Score(listing model.Listing, sctx *model.SearchContext) model.ScoredListing {
	result := model.ScoredListing{Listing: listing, Reasons: []string{}}

	if sctx.Intent != model.IntentUnknown && listingTypeForIntent(sctx.Intent) == listing.ListingType {
		result.Score += pointsIntent
		result.Reasons = append(result.Reasons, ReasonIntentMatch)
	}

	if listing.Price != nil {
		if sctx.Budget.Max != nil {
			if *listing.Price <= *sctx.Budget.Max {
				result.Score += pointsWithinBudget
				result.Reasons = append(result.Reasons, ReasonWithinBudget)
			} else {
				result.Score += pointsOverBudget
				result.Reasons = append(result.Reasons, ReasonOverBudget)
			}
		}
		if sctx.Budget.Min != nil && *listing.Price >= *sctx.Budget.Min {
			result.Score += pointsAboveFloor
			result.Reasons = append(result.Reasons, ReasonAboveFloor)
		}
	}

	if len(sctx.PropertyTypes) > 0 && listing.PropertyType != nil {
		if sctx.PropertyTypes.Contains(lexicon.Normalize(*listing.PropertyType)) {
			result.Score += pointsTypeMatch
			result.Reasons = append(result.Reasons, ReasonTypeMatch)
		}
	}

	if listing.State != nil && sctx.Location.States.Contains(lexicon.Normalize(*listing.State)) {
		result.Score += pointsStateMatch
		result.Reasons = append(result.Reasons, ReasonStateMatch)
	}

	if s.cityOrAreaMatches(listing, sctx) {
		result.Score += pointsCityMatch
		result.Reasons = append(result.Reasons, ReasonCityMatch)
	}

	if sctx.Bedrooms != nil && listing.Bedrooms != nil {
		diff := *listing.Bedrooms - *sctx.Bedrooms
		if diff < 0 {
			diff = -diff
		}
		switch diff {
		case 0:
			result.Score += pointsBedroomsExact
			result.Reasons = append(result.Reasons, ReasonBedroomsExact)
		case 1:
			result.Score += pointsBedroomsClose
			result.Reasons = append(result.Reasons, ReasonBedroomsClose)
		}
	}

	if amenityPoints := s.amenityScore(listing, sctx); amenityPoints > 0 {
		result.Score += amenityPoints
		result.Reasons = append(result.Reasons, ReasonAmenityMatch)
	}

	if listing.Featured {
		result.Score += pointsFeatured
		result.Reasons = append(result.Reasons, ReasonFeaturedListing)
	}

	return result
}

// Rank scores all candidates, drops those below the threshold, sorts
// descending by score with featured-then-recency tie-breaking, and caps
// the output.
func (s *MatchScorer) Rank(listings []model.Listing, sctx *model.SearchContext) []model.ScoredListing {
	results := make([]model.ScoredListing, 0, len(listings))
	for _, listing := range listings {
		scored := s.Score(listing, sctx)
		if scored.Score < s.threshold {
			continue
		}
		results = append(results, scored)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Featured != results[j].Featured {
			return results[i].Featured
		}
		return results[i].ListedAt.After(results[j].ListedAt)
	})

	if len(results) > s.topN {
		results = results[:s.topN]
	}
	return results
}

func (s *MatchScorer) cityOrAreaMatches(listing model.Listing, sctx *model.SearchContext) bool {
	var city, address string
	if listing.City != nil {
		city = lexicon.Normalize(*listing.City)
	}
	if listing.Address != nil {
		address = lexicon.Normalize(*listing.Address)
	}
	for _, want := range append(append(model.StringSet{}, sctx.Location.Cities...), sctx.Location.Areas...) {
		if city == want || strings.Contains(city, want) || strings.Contains(address, want) {
			return true
		}
	}
	return false
}

func (s *MatchScorer) amenityScore(listing model.Listing, sctx *model.SearchContext) int {
	points := 0
	for _, requested := range sctx.Amenities {
		for _, have := range listing.Amenities {
			if lexicon.AmenityMatches(requested, have) {
				points += pointsPerAmenity
				break
			}
		}
		if points >= amenityPointsCap {
			return amenityPointsCap
		}
	}
	return points
}

func listingTypeForIntent(intent model.Intent) string {
	if intent == model.IntentRent {
		return model.ListingTypeRent
	}
	return model.ListingTypeSale
}
