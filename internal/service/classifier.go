package service

import (
	"propchat/internal/lexicon"
	"propchat/internal/model"
)

// Category is the single classification assigned to each utterance.
type Category string

const (
	CategoryGreeting Category = "greeting"
	CategoryFarewell Category = "farewell"
	CategoryThanks   Category = "thanks"
	CategorySilly    Category = "silly"
	CategoryJoke     Category = "joke"
	CategoryOffTopic Category = "off_topic"
	CategoryDomain   Category = "domain"
	CategoryFallback Category = "fallback"
)

// IsDomainRelevant reports whether the category routes through the
// extractor and planner's search path. Fallback carries no keyword signal
// but is still treated as a low-information domain turn.
func (c Category) IsDomainRelevant() bool {
	return c == CategoryDomain || c == CategoryFallback
}

// Classifier decides the category of a single utterance. Implementations
// must be stateless functions of their inputs so a statistical model can
// replace the keyword tables without changing the session contract.
type Classifier interface {
	Classify(utterance string, sctx *model.SearchContext) Category
}

// LexiconClassifier classifies by whole-word matching against the lexicon
// tables. Precedence is fixed so exactly one category wins per call:
// greeting, farewell, thanks, silly, joke, off-topic, domain, fallback.
type LexiconClassifier struct{}

// NewLexiconClassifier creates a new keyword-table classifier.
func NewLexiconClassifier() *LexiconClassifier {
	return &LexiconClassifier{}
}

// Classify returns the category of the utterance.
func (lc *LexiconClassifier) Classify(utterance string, sctx *model.SearchContext) Category {
	normalized := lexicon.Normalize(utterance)
	if normalized == "" {
		return CategoryFallback
	}

	switch {
	case lexicon.ContainsAny(normalized, lexicon.Greetings):
		return CategoryGreeting
	case lexicon.ContainsAny(normalized, lexicon.Farewells):
		return CategoryFarewell
	case lexicon.ContainsAny(normalized, lexicon.Thanks):
		return CategoryThanks
	case lexicon.ContainsAny(normalized, lexicon.SillyPhrases):
		return CategorySilly
	case lexicon.ContainsAny(normalized, lexicon.JokeRequests):
		return CategoryJoke
	case lexicon.ContainsAny(normalized, lexicon.OffTopicKeywords):
		return CategoryOffTopic
	case lc.hasDomainSignal(normalized):
		return CategoryDomain
	default:
		return CategoryFallback
	}
}

func (lc *LexiconClassifier) hasDomainSignal(normalized string) bool {
	if lexicon.ContainsAny(normalized, lexicon.DomainKeywords) {
		return true
	}
	// Location names alone are a domain signal ("somewhere in johor").
	return lexicon.ContainsAny(normalized, lexicon.States) ||
		lexicon.ContainsAny(normalized, lexicon.Cities) ||
		lexicon.ContainsAny(normalized, lexicon.Areas)
}
