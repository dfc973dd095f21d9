package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propchat/internal/model"
)

type fakeCatalog struct {
	mu       sync.Mutex
	listings []model.Listing
	err      error
	queries  int
	last     *model.CatalogFilters
}

func (f *fakeCatalog) Query(ctx context.Context, filters *model.CatalogFilters) ([]model.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	f.last = filters
	if f.err != nil {
		return nil, f.err
	}
	return f.listings, nil
}

func newTestSession(catalog CatalogProvider) *ConversationSession {
	return NewConversationSession(
		NewLexiconClassifier(),
		NewRuleExtractor(80),
		NewResponsePlanner(DisabledChatClient{}, time.Second, rand.New(rand.NewSource(1))),
		NewMatchScorer(30, 6),
		catalog,
		time.Second,
		50,
	)
}

func TestSessionGreetingThenRentSearch(t *testing.T) {
	catalog := &fakeCatalog{listings: []model.Listing{rentListing(1, 2400, 3)}}
	session := newTestSession(catalog)

	// Turn 1: greeting. No catalog query, stage stays greeting.
	resp, err := session.Handle(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, model.StageGreeting, resp.Stage)
	assert.Empty(t, resp.Listings)
	assert.Equal(t, 0, catalog.queries)
	assert.Equal(t, 1, resp.Context.TurnCount)

	// Turn 2: a fully specified rent request.
	resp, err = session.Handle(context.Background(), "I want to rent a 3 bedroom condo in Johor under RM2500")
	require.NoError(t, err)

	sctx := resp.Context
	assert.Equal(t, model.IntentRent, sctx.Intent)
	require.NotNil(t, sctx.Bedrooms)
	assert.Equal(t, 3, *sctx.Bedrooms)
	assert.True(t, sctx.PropertyTypes.Contains("condo"))
	assert.True(t, sctx.Location.States.Contains("johor"))
	require.NotNil(t, sctx.Budget.Max)
	assert.Equal(t, 2500.0, *sctx.Budget.Max)

	assert.Equal(t, model.StageShowing, resp.Stage)
	require.Len(t, resp.Listings, 1)
	assert.Equal(t, int64(1), resp.Listings[0].ID)

	// Coarse filters: rent intent, price headroom, exact-ish bedrooms.
	require.NotNil(t, catalog.last)
	assert.Equal(t, model.ListingTypeRent, catalog.last.ListingType)
	require.NotNil(t, catalog.last.MaxPrice)
	assert.Equal(t, 2500.0*1.25, *catalog.last.MaxPrice)
	require.NotNil(t, catalog.last.Bedrooms)
	assert.Equal(t, 3, *catalog.last.Bedrooms)
}

func TestSessionSalaryAndFamilyTurn(t *testing.T) {
	catalog := &fakeCatalog{} // empty catalog
	session := newTestSession(catalog)

	resp, err := session.Handle(context.Background(), "I earn 6000 and have 2 kids")
	require.NoError(t, err)

	sctx := resp.Context
	require.NotNil(t, sctx.Personal.Salary)
	assert.Equal(t, 6000.0, *sctx.Personal.Salary)
	require.NotNil(t, sctx.Personal.FamilySize)
	assert.Equal(t, 4, *sctx.Personal.FamilySize)
	require.NotNil(t, sctx.Bedrooms)
	assert.Equal(t, 3, *sctx.Bedrooms)
	require.NotNil(t, sctx.Budget.Max)
	assert.Equal(t, 480000.0, *sctx.Budget.Max)
	assert.Equal(t, model.IntentBuy, sctx.Intent)

	// Empty catalog: no listings shown, stage stays in gathering.
	assert.Equal(t, model.StageGathering, resp.Stage)
	assert.Empty(t, resp.Listings)

	// Derived bedrooms travel as a lower bound, not an exact filter.
	require.NotNil(t, catalog.last)
	assert.Nil(t, catalog.last.Bedrooms)
	require.NotNil(t, catalog.last.MinBedrooms)
	assert.Equal(t, 3, *catalog.last.MinBedrooms)
}

func TestSessionNonDomainTurnsLeaveContextUntouched(t *testing.T) {
	catalog := &fakeCatalog{listings: []model.Listing{rentListing(1, 2400, 3)}}
	session := newTestSession(catalog)

	_, err := session.Handle(context.Background(), "rent a condo in johor under 2500")
	require.NoError(t, err)
	before := session.Context()

	for _, utterance := range []string{
		"how's the weather", "thanks!", "are you real?", "tell me a joke", "bye",
	} {
		resp, err := session.Handle(context.Background(), utterance)
		require.NoError(t, err)

		after := session.Context()
		// turnCount advances every utterance; every other field must not.
		before.TurnCount = after.TurnCount
		assert.Equal(t, before, after, "utterance %q mutated the context", utterance)
		assert.Equal(t, before.Stage, resp.Stage)
		assert.Empty(t, resp.Listings)
	}
}

func TestSessionCatalogFailureDegrades(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("timeout")}
	session := newTestSession(catalog)

	resp, err := session.Handle(context.Background(), "rent a condo in johor under 2500")

	// The error is reported but a reply is still produced.
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.Reply)
	assert.Empty(t, resp.Listings)
	assert.NotEqual(t, model.StageShowing, resp.Stage)

	// The session survives: once the catalog recovers, the same criteria
	// produce results.
	catalog.mu.Lock()
	catalog.err = nil
	catalog.listings = []model.Listing{rentListing(1, 2400, 3)}
	catalog.mu.Unlock()

	resp, err = session.Handle(context.Background(), "any condo in johor bahru?")
	require.NoError(t, err)
	assert.Equal(t, model.StageShowing, resp.Stage)
	require.Len(t, resp.Listings, 1)
}

func TestSessionFarewellDoesNotEndSession(t *testing.T) {
	catalog := &fakeCatalog{listings: []model.Listing{rentListing(1, 2400, 3)}}
	session := newTestSession(catalog)

	_, err := session.Handle(context.Background(), "rent a condo in johor")
	require.NoError(t, err)
	stage := session.Context().Stage

	_, err = session.Handle(context.Background(), "bye for now")
	require.NoError(t, err)
	assert.Equal(t, stage, session.Context().Stage)

	// Resuming still works at the last stage.
	resp, err := session.Handle(context.Background(), "show me something under 2500")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Listings)
}

func TestSessionSerializesConcurrentTurns(t *testing.T) {
	catalog := &fakeCatalog{listings: []model.Listing{rentListing(1, 2400, 3)}}
	session := newTestSession(catalog)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = session.Handle(context.Background(), "rent a condo in johor under 2500")
		}()
	}
	wg.Wait()

	// Every turn was counted exactly once; the accumulating sets did not
	// lose updates.
	sctx := session.Context()
	assert.Equal(t, 20, sctx.TurnCount)
	assert.True(t, sctx.Location.States.Contains("johor"))
}
