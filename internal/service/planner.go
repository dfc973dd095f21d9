package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"propchat/internal/model"
)

// Canned reply pools. Selection is driven by the planner's injected rand
// source so tests can seed it.
var (
	firstGreetings = []string{
		"Hi there! I'm your property assistant. Tell me what you're looking for — to buy or rent, your budget, or a location.",
		"Hello! Looking for a home? Tell me whether you want to buy or rent, and roughly where.",
		"Hey! I can help you find a property. What's your budget, and which area are you interested in?",
	}
	returningGreetings = []string{
		"Welcome back! Shall we pick up your property search where we left off?",
		"Hello again! Ready to continue looking for your home?",
		"Good to see you again. Tell me more about what you're looking for.",
	}
	farewellReplies = []string{
		"Goodbye! Come back any time — I'll keep your search saved for this session.",
		"Take care! Your search criteria are still here if you return.",
		"Bye for now. Happy house hunting!",
	}
	thanksReplies = []string{
		"You're welcome! Anything else about your property search?",
		"Happy to help! Let me know if you want to adjust your criteria.",
		"My pleasure. Shall we keep looking?",
	}
	sillyReplies = []string{
		"Ha! I'm flattered, but I'm much better at finding houses than answering that. What kind of home are you after?",
		"That's one for the philosophers. I'm more of a property person — what's your budget?",
		"You got me there! Let's get back to it — buying or renting?",
	}
	jokeReplies = []string{
		"Why did the house go to the doctor? It had window panes! Now, about that property search…",
		"I told my landlord a joke once. The rent was still not funny. Speaking of rent — buying or renting?",
		"What do you call a property bot with no listings? Homeless! Luckily I have plenty — what are you after?",
	}
	offTopicReplies = []string{
		"That's a bit outside my wheelhouse — I'm all about property. Tell me a budget or a location and I'll get searching.",
		"I'll leave that topic to the experts! I can help you find a home though. Buy or rent?",
		"Interesting, but houses are more my thing. Which area are you thinking of living in?",
	}
	openQuestions = []string{
		"To get started: are you looking to buy or to rent, and do you have a budget in mind?",
		"Tell me a bit more — your budget, whether you want to buy or rent, or a preferred area.",
		"What matters most to you: price, location, or size? Give me any of those and I'll start searching.",
	}
	noMatchReplies = []string{
		"I couldn't find anything matching all of that. Could you loosen the budget or try a different area?",
		"No matches so far, sorry. Want to adjust the price range or location?",
		"Nothing in the catalog fits those criteria yet. Shall we relax one of them?",
	}
	degradedReplies = []string{
		"Sorry — I'm having trouble reaching the listings right now. Your criteria are saved, please try again in a moment.",
		"The catalog isn't responding just now. Nothing is lost, ask me again shortly.",
	}
)

// PlanInput carries everything the planner needs for one turn.
type PlanInput struct {
	Category   Category
	Utterance  string
	Queried    bool // whether the catalog was consulted this turn
	Results    []model.ScoredListing
	CatalogErr error
	Changed    bool // whether the extractor added anything this turn
}

// ResponsePlanner decides the reply for a turn and advances the stage.
// Non-domain categories never mutate the context or its stage.
type ResponsePlanner struct {
	chat        ChatClient
	chatTimeout time.Duration

	// rngMu guards rng: one planner serves many sessions and *rand.Rand
	// is not safe for concurrent use.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewResponsePlanner creates a planner. The rand source is injected so
// canned-reply selection is seedable in tests; pass nil for a time-seeded one.
func NewResponsePlanner(chat ChatClient, chatTimeout time.Duration, rng *rand.Rand) *ResponsePlanner {
	if chat == nil {
		chat = DisabledChatClient{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ResponsePlanner{chat: chat, chatTimeout: chatTimeout, rng: rng}
}

// Plan produces the reply for the turn. For domain-relevant turns it also
// advances sctx.Stage; for every other category the context is left alone.
func (p *ResponsePlanner) Plan(ctx context.Context, in PlanInput, sctx *model.SearchContext) string {
	switch in.Category {
	case CategoryGreeting:
		if sctx.TurnCount <= 1 {
			return p.pick(firstGreetings)
		}
		return p.pick(returningGreetings)
	case CategoryFarewell:
		return p.pick(farewellReplies)
	case CategoryThanks:
		return p.pick(thanksReplies)
	case CategorySilly:
		return p.pick(sillyReplies)
	case CategoryJoke:
		return p.pick(jokeReplies)
	case CategoryOffTopic:
		return p.offTopicReply(ctx, in.Utterance)
	default:
		return p.planDomainTurn(in, sctx)
	}
}

// offTopicReply tries the optional completion fallback and degrades to the
// canned pool on any failure or timeout.
func (p *ResponsePlanner) offTopicReply(ctx context.Context, utterance string) string {
	if !p.chat.IsEnabled() {
		return p.pick(offTopicReplies)
	}
	callCtx, cancel := context.WithTimeout(ctx, p.chatTimeout)
	defer cancel()
	reply, err := p.chat.SmallTalk(callCtx, utterance)
	if err != nil {
		log.Printf("small-talk fallback failed, using canned reply: %v", err)
		return p.pick(offTopicReplies)
	}
	return reply
}

func (p *ResponsePlanner) planDomainTurn(in PlanInput, sctx *model.SearchContext) string {
	if in.CatalogErr != nil {
		// Never advance to showing on a provider failure.
		if sctx.Stage == model.StageGreeting {
			sctx.Stage = model.StageGathering
		}
		return p.pick(degradedReplies)
	}

	if !sctx.HasSignal() {
		sctx.Stage = model.StageGathering
		return p.pick(openQuestions)
	}

	if in.Queried && len(in.Results) > 0 {
		refining := (sctx.Stage == model.StageShowing || sctx.Stage == model.StageRefining) && in.Changed
		if refining {
			sctx.Stage = model.StageRefining
		} else {
			sctx.Stage = model.StageShowing
		}
		return p.resultsSummary(in.Results, sctx, refining)
	}

	// Signal present but nothing cleared the threshold (or the catalog was
	// empty): stay out of showing and ask for the next missing dimension.
	if sctx.Stage == model.StageGreeting || sctx.Stage == model.StageGathering {
		sctx.Stage = model.StageGathering
		return p.pick(noMatchReplies) + " " + p.missingDimensionPrompt(sctx)
	}
	return p.pick(noMatchReplies)
}

// resultsSummary builds the showing/refining reply, including explanations
// for any derived criteria so users see where numbers came from.
func (p *ResponsePlanner) resultsSummary(results []model.ScoredListing, sctx *model.SearchContext, refining bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "I found %d propert%s matching your criteria.", len(results), pluralYies(len(results)))

	if sctx.Budget.Max != nil && !sctx.Budget.Explicit && sctx.Personal.Salary != nil {
		fmt.Fprintf(&b, " With a salary of RM%s you can afford up to around RM%s.",
			formatAmount(*sctx.Personal.Salary), formatAmount(*sctx.Budget.Max))
	}
	if sctx.Bedrooms != nil && !sctx.BedroomsExplicit && sctx.Personal.FamilySize != nil {
		fmt.Fprintf(&b, " For a family of %d, I'd suggest at least %d bedrooms.",
			*sctx.Personal.FamilySize, *sctx.Bedrooms)
	}

	if refining {
		b.WriteString(" Here's the updated list — want to narrow it down further?")
	} else {
		b.WriteString(" Take a look, or add more criteria to refine the results.")
	}
	return b.String()
}

// missingDimensionPrompt asks for the first absent core dimension, in the
// order intent, budget, location.
func (p *ResponsePlanner) missingDimensionPrompt(sctx *model.SearchContext) string {
	switch {
	case sctx.Intent == model.IntentUnknown:
		return "Are you looking to buy or to rent?"
	case sctx.Budget.Max == nil && sctx.Budget.Min == nil:
		return "What's your budget, roughly?"
	case sctx.Location.Empty():
		return "Which state or city would you like to live in?"
	default:
		return "Maybe adjust the property type or number of bedrooms?"
	}
}

func (p *ResponsePlanner) pick(pool []string) string {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	return pool[p.rng.Intn(len(pool))]
}

func pluralYies(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

// formatAmount renders a currency amount with thousands separators.
func formatAmount(v float64) string {
	whole := int64(v)
	s := fmt.Sprintf("%d", whole)
	if whole < 0 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}
