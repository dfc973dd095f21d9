package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propchat/internal/model"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(v float64) *float64 { return &v }
func intPtr(v int) *int         { return &v }

func rentListing(id int64, price float64, bedrooms int) model.Listing {
	return model.Listing{
		ID:           id,
		ListingType:  model.ListingTypeRent,
		Price:        f64Ptr(price),
		PropertyType: strPtr("Condo"),
		Bedrooms:     intPtr(bedrooms),
		City:         strPtr("Johor Bahru"),
		State:        strPtr("Johor"),
		ListedAt:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func rentContext() *model.SearchContext {
	sctx := model.NewSearchContext()
	sctx.Intent = model.IntentRent
	sctx.Budget.Max = f64Ptr(2500)
	sctx.Budget.Explicit = true
	sctx.Location.States.Add("johor")
	sctx.PropertyTypes.Add("condo")
	bedrooms := 3
	sctx.Bedrooms = &bedrooms
	return sctx
}

func TestScorePointTable(t *testing.T) {
	scorer := NewMatchScorer(30, 6)
	sctx := rentContext()

	// intent 30 + budget 25 + type 20 + state 15 + bedrooms 10 = 100
	scored := scorer.Score(rentListing(1, 2300, 3), sctx)
	assert.Equal(t, 100, scored.Score)
	assert.Contains(t, scored.Reasons, ReasonIntentMatch)
	assert.Contains(t, scored.Reasons, ReasonWithinBudget)
	assert.Contains(t, scored.Reasons, ReasonTypeMatch)
	assert.Contains(t, scored.Reasons, ReasonStateMatch)
	assert.Contains(t, scored.Reasons, ReasonBedroomsExact)

	// Off-by-one bedrooms scores 5 instead of 10.
	offByOne := scorer.Score(rentListing(2, 2300, 4), sctx)
	assert.Equal(t, 95, offByOne.Score)
	assert.Contains(t, offByOne.Reasons, ReasonBedroomsClose)

	// Over budget flips +25 to -10.
	overBudget := scorer.Score(rentListing(3, 2800, 3), sctx)
	assert.Equal(t, 65, overBudget.Score)
	assert.Contains(t, overBudget.Reasons, ReasonOverBudget)
}

func TestScoreBudgetFloorAndFeatured(t *testing.T) {
	scorer := NewMatchScorer(30, 6)
	sctx := model.NewSearchContext()
	sctx.Budget.Min = f64Ptr(1000)
	sctx.Budget.Max = f64Ptr(3000)

	listing := rentListing(1, 2000, 3)
	listing.Featured = true

	// budget 25 + floor 10 + featured 5 = 40
	scored := scorer.Score(listing, sctx)
	assert.Equal(t, 40, scored.Score)
	assert.Contains(t, scored.Reasons, ReasonAboveFloor)
	assert.Contains(t, scored.Reasons, ReasonFeaturedListing)
}

func TestScoreCityAndAreaMatch(t *testing.T) {
	scorer := NewMatchScorer(0, 6)

	sctx := model.NewSearchContext()
	sctx.Location.Areas.Add("mount austin")

	listing := rentListing(1, 2000, 3)
	listing.Address = strPtr("12 Jalan Mutiara, Mount Austin")

	scored := scorer.Score(listing, sctx)
	assert.Contains(t, scored.Reasons, ReasonCityMatch)
}

func TestAmenityPointsAreCapped(t *testing.T) {
	scorer := NewMatchScorer(0, 6)

	sctx := model.NewSearchContext()
	for _, a := range []string{"pool", "gym", "parking", "security", "balcony", "lift"} {
		sctx.Amenities.Add(a)
	}

	listing := rentListing(1, 2000, 3)
	listing.Amenities = model.JSONArray{
		"Swimming pool", "Gym", "Covered parking", "24-hour security", "Balcony", "Lift",
	}

	scored := scorer.Score(listing, sctx)
	// Six matches at 5 points each, capped at 20. The listing also scores
	// nothing else: no intent/budget/location/type/bedroom signal is set.
	assert.Equal(t, 20, scored.Score)
}

func TestRankThresholdGate(t *testing.T) {
	scorer := NewMatchScorer(30, 6)

	sctx := model.NewSearchContext()
	sctx.Location.Cities.Add("johor bahru")

	// City match alone is 15 points, below the 30-point threshold: the
	// listing must be excluded even though it is the only candidate.
	results := scorer.Rank([]model.Listing{rentListing(1, 2000, 3)}, sctx)
	assert.Empty(t, results)
}

func TestRankOrderingAndTieBreaks(t *testing.T) {
	scorer := NewMatchScorer(30, 6)
	sctx := rentContext()

	perfect := rentListing(1, 2300, 3)
	weaker := rentListing(2, 2800, 3) // over budget

	tiedFeatured := rentListing(3, 2300, 3)
	tiedFeatured.Featured = true

	newer := rentListing(4, 2300, 3)
	newer.ListedAt = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	results := scorer.Rank([]model.Listing{weaker, perfect, newer, tiedFeatured}, sctx)
	require.Len(t, results, 4)

	// Featured beats equal score (it also earns +5, but verify order).
	assert.Equal(t, int64(3), results[0].ID)
	// Equal scores fall back to recency.
	assert.Equal(t, int64(4), results[1].ID)
	assert.Equal(t, int64(1), results[2].ID)
	assert.Equal(t, int64(2), results[3].ID)
}

func TestRankTopNCap(t *testing.T) {
	scorer := NewMatchScorer(30, 6)
	sctx := rentContext()

	var listings []model.Listing
	for i := int64(1); i <= 10; i++ {
		listings = append(listings, rentListing(i, 2300, 3))
	}
	results := scorer.Rank(listings, sctx)
	assert.Len(t, results, 6)
}

func TestRankIsDeterministic(t *testing.T) {
	scorer := NewMatchScorer(30, 6)
	sctx := rentContext()

	listings := []model.Listing{
		rentListing(1, 2300, 3),
		rentListing(2, 2800, 3),
		rentListing(3, 2100, 4),
	}

	first := scorer.Rank(listings, sctx)
	second := scorer.Rank(listings, sctx)
	assert.Equal(t, first, second)
}
