package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"propchat/internal/model"
)

// CatalogProvider is the narrow interface to the external property catalog.
// It only applies coarse filtering; fine-grained ranking is always redone
// locally by the scorer.
type CatalogProvider interface {
	Query(ctx context.Context, filters *model.CatalogFilters) ([]model.Listing, error)
}

// ConversationSession orchestrates one user's conversation: classify,
// extract, plan, and optionally query and rank the catalog. One instance
// per end user; sessions share no mutable state with each other.
type ConversationSession struct {
	mu         sync.Mutex // serializes double-submits on the same session
	sctx       *model.SearchContext
	lastActive time.Time

	classifier Classifier
	extractor  Extractor
	planner    *ResponsePlanner
	scorer     *MatchScorer
	catalog    CatalogProvider

	catalogTimeout time.Duration
	fetchLimit     int
}

// NewConversationSession creates a session with an empty context.
func NewConversationSession(
	classifier Classifier,
	extractor Extractor,
	planner *ResponsePlanner,
	scorer *MatchScorer,
	catalog CatalogProvider,
	catalogTimeout time.Duration,
	fetchLimit int,
) *ConversationSession {
	return &ConversationSession{
		sctx:           model.NewSearchContext(),
		lastActive:     time.Now(),
		classifier:     classifier,
		extractor:      extractor,
		planner:        planner,
		scorer:         scorer,
		catalog:        catalog,
		catalogTimeout: catalogTimeout,
		fetchLimit:     fetchLimit,
	}
}

// Handle processes one turn. It always returns a non-nil response with a
// reply; a catalog failure is reported through the error return but never
// prevents the reply, and never advances the stage to showing.
func (s *ConversationSession) Handle(ctx context.Context, utterance string) (*model.ChatResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	s.lastActive = start
	s.sctx.TurnCount++

	category := s.classifier.Classify(utterance, s.sctx)

	changed := false
	if category.IsDomainRelevant() {
		changed = s.extractor.Extract(utterance, s.sctx)
	}

	var (
		results    []model.ScoredListing
		queried    bool
		catalogErr error
	)
	if category.IsDomainRelevant() && s.sctx.HasSignal() && s.catalog != nil {
		queried = true
		results, catalogErr = s.queryAndRank(ctx)
		if catalogErr != nil {
			log.Printf("catalog query failed: %v", catalogErr)
		}
	}

	reply := s.planner.Plan(ctx, PlanInput{
		Category:   category,
		Utterance:  utterance,
		Queried:    queried,
		Results:    results,
		CatalogErr: catalogErr,
		Changed:    changed,
	}, s.sctx)

	resp := &model.ChatResponse{
		Reply:    reply,
		Listings: results,
		Stage:    s.sctx.Stage,
		Context:  s.sctx.Clone(),
		Took:     time.Since(start).Milliseconds(),
	}
	return resp, catalogErr
}

// Context returns a snapshot of the accumulated criteria.
func (s *ConversationSession) Context() *model.SearchContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sctx.Clone()
}

// LastActive returns when the session last handled a turn.
func (s *ConversationSession) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *ConversationSession) queryAndRank(ctx context.Context) ([]model.ScoredListing, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.catalogTimeout)
	defer cancel()

	listings, err := s.catalog.Query(queryCtx, s.buildFilters())
	if err != nil {
		return nil, fmt.Errorf("catalog provider: %w", err)
	}
	return s.scorer.Rank(listings, s.sctx), nil
}

// buildFilters derives the coarse catalog narrowing from the context.
func (s *ConversationSession) buildFilters() *model.CatalogFilters {
	filters := &model.CatalogFilters{Limit: s.fetchLimit}

	switch s.sctx.Intent {
	case model.IntentBuy:
		filters.ListingType = model.ListingTypeSale
	case model.IntentRent:
		filters.ListingType = model.ListingTypeRent
	}

	if s.sctx.Budget.Max != nil {
		// Query with headroom so near-misses reach the scorer, where the
		// over-budget penalty applies, instead of being cut off in SQL.
		headroom := *s.sctx.Budget.Max * 1.25
		filters.MaxPrice = &headroom
	}

	if s.sctx.Bedrooms != nil {
		if s.sctx.BedroomsExplicit {
			n := *s.sctx.Bedrooms
			filters.Bedrooms = &n
		} else {
			// Family-size hints are a lower bound, not an exact filter.
			n := *s.sctx.Bedrooms
			filters.MinBedrooms = &n
		}
	}
	return filters
}
