package service

import (
	"regexp"
	"strings"

	"propchat/internal/lexicon"
	"propchat/internal/model"
)

// Extractor pulls structured search criteria out of a domain-relevant
// utterance and folds them into the context. Implementations must be
// deterministic and side-effect-free outside the passed context.
type Extractor interface {
	Extract(utterance string, sctx *model.SearchContext) bool
}

// RuleExtractor is the deterministic pattern-based extractor. Numeric
// tokens that fail to parse are ignored silently; a parse-miss is not an
// error and never touches the context.
type RuleExtractor struct {
	affordabilityMultiplier float64

	buyWords     *regexp.Regexp
	rentWords    *regexp.Regexp
	salary       *regexp.Regexp
	familyOf     *regexp.Regexp
	kids         *regexp.Regexp
	bedrooms     *regexp.Regexp
	bathrooms    *regexp.Regexp
	budgetMax    *regexp.Regexp
	budgetMin    *regexp.Regexp
	budgetRange  *regexp.Regexp
	budgetWithin *regexp.Regexp
}

// amount is any number token. moneyAmount additionally demands a money
// shape (rm prefix, k suffix, or at least three digits) so that small
// counts such as "within 3 months" never parse as prices.
const (
	amount      = `((?:rm\s*)?\d[\d,]*(?:\.\d+)?k?)`
	moneyAmount = `(rm\s*\d[\d,]*(?:\.\d+)?k?|\d[\d,]*(?:\.\d+)?k|\d{3}[\d,]*(?:\.\d+)?)`
)

// NewRuleExtractor creates the extractor with the given salary-to-price
// affordability multiplier (monthly income × multiplier = price ceiling).
func NewRuleExtractor(affordabilityMultiplier float64) *RuleExtractor {
	return &RuleExtractor{
		affordabilityMultiplier: affordabilityMultiplier,

		buyWords:     regexp.MustCompile(`\b(?:buy(?:ing)?|purchas(?:e|ing)|own)\b`),
		rentWords:    regexp.MustCompile(`\b(?:rent(?:ing|al)?|leas(?:e|ing)|tenant)\b`),
		salary:       regexp.MustCompile(`\b(?:earn(?:ing)?|salary|income|make|making)\s*(?:is|of|about|around)?\s*` + amount + `\b`),
		familyOf:     regexp.MustCompile(`\bfamily\s+of\s+(\d+)\b`),
		kids:         regexp.MustCompile(`\b(\d+)\s+(?:kids?|child(?:ren)?)\b`),
		bedrooms:     regexp.MustCompile(`\b(\d+)\s*(?:bed(?:room)?s?|br)\b`),
		bathrooms:    regexp.MustCompile(`\b(\d+)\s*bath(?:room)?s?\b`),
		budgetMax:    regexp.MustCompile(`\b(?:under|below|max(?:imum)?|budget(?:\s+(?:of|is))?|up\s+to|less\s+than|at\s+most|not?\s+more\s+than|cheaper\s+than)\s*` + amount + `\b`),
		budgetMin:    regexp.MustCompile(`\b(?:above|over|at\s+least|min(?:imum)?|more\s+than|starting\s+(?:at|from))\s*` + amount + `\b`),
		budgetRange:  regexp.MustCompile(`\bbetween\s*` + amount + `\s+and\s*` + amount + `\b`),
		budgetWithin: regexp.MustCompile(`\bwithin\s*` + moneyAmount + `\b`),
	}
}

// Extract updates the context in place and reports whether any field changed.
func (e *RuleExtractor) Extract(utterance string, sctx *model.SearchContext) bool {
	normalized := lexicon.Normalize(utterance)
	if normalized == "" {
		return false
	}

	changed := false
	changed = e.extractBudget(normalized, sctx) || changed
	changed = e.extractBedrooms(normalized, sctx) || changed
	changed = e.extractBathrooms(normalized, sctx) || changed
	changed = e.extractFamily(normalized, sctx) || changed
	changed = e.extractSalary(normalized, sctx) || changed
	changed = e.extractIntent(normalized, sctx) || changed
	changed = e.extractLocations(normalized, sctx) || changed
	changed = e.extractTypes(normalized, sctx) || changed
	changed = e.extractAmenities(normalized, sctx) || changed
	return changed
}

// extractIntent applies rightmost-wins within the utterance, then
// last-write-wins against the context.
func (e *RuleExtractor) extractIntent(normalized string, sctx *model.SearchContext) bool {
	buyIdx := lastMatchIndex(e.buyWords, normalized)
	rentIdx := lastMatchIndex(e.rentWords, normalized)
	if buyIdx < 0 && rentIdx < 0 {
		return false
	}

	intent := model.IntentBuy
	if rentIdx > buyIdx {
		intent = model.IntentRent
	}
	if sctx.Intent == intent {
		return false
	}
	sctx.Intent = intent
	return true
}

// extractSalary stores the raw salary and derives a price ceiling unless an
// explicit budget already holds. It also defaults the intent to buy, since
// the affordability multiplier is a purchase-price heuristic.
func (e *RuleExtractor) extractSalary(normalized string, sctx *model.SearchContext) bool {
	m := e.salary.FindStringSubmatch(normalized)
	if m == nil {
		return false
	}
	salary, ok := lexicon.ParseAmount(m[1])
	if !ok {
		return false
	}

	sctx.Personal.Salary = &salary
	changed := true

	if !sctx.Budget.Explicit {
		derived := salary * e.affordabilityMultiplier
		sctx.Budget.Max = &derived
	}
	if sctx.Intent == model.IntentUnknown && lastMatchIndex(e.rentWords, normalized) < 0 {
		sctx.Intent = model.IntentBuy
	}
	return changed
}

// extractFamily stores family size (stated count plus two adults) and a
// derived bedroom hint that never overrides an explicit bedroom count.
func (e *RuleExtractor) extractFamily(normalized string, sctx *model.SearchContext) bool {
	m := e.familyOf.FindStringSubmatch(normalized)
	if m == nil {
		m = e.kids.FindStringSubmatch(normalized)
	}
	if m == nil {
		return false
	}
	n, ok := lexicon.ParseCount(m[1])
	if !ok {
		return false
	}

	size := n + 2
	sctx.Personal.FamilySize = &size

	if !sctx.BedroomsExplicit {
		hint := (n+1)/2 + 1
		if hint < 3 {
			hint = 3
		}
		sctx.Bedrooms = &hint
	}
	return true
}

func (e *RuleExtractor) extractBedrooms(normalized string, sctx *model.SearchContext) bool {
	m := e.bedrooms.FindStringSubmatch(normalized)
	if m == nil {
		return false
	}
	n, ok := lexicon.ParseCount(m[1])
	if !ok {
		return false
	}
	sctx.Bedrooms = &n
	sctx.BedroomsExplicit = true
	return true
}

func (e *RuleExtractor) extractBathrooms(normalized string, sctx *model.SearchContext) bool {
	m := e.bathrooms.FindStringSubmatch(normalized)
	if m == nil {
		return false
	}
	n, ok := lexicon.ParseCount(m[1])
	if !ok {
		return false
	}
	sctx.Bathrooms = &n
	return true
}

// extractBudget handles ranges, ceilings, and floors. An explicit ceiling
// always overwrites a salary-derived one and blocks future derivation.
func (e *RuleExtractor) extractBudget(normalized string, sctx *model.SearchContext) bool {
	changed := false

	if m := e.budgetRange.FindStringSubmatch(normalized); m != nil {
		lo, okLo := lexicon.ParseAmount(m[1])
		hi, okHi := lexicon.ParseAmount(m[2])
		if okLo && okHi && lo <= hi {
			sctx.Budget.Min = &lo
			sctx.Budget.Max = &hi
			sctx.Budget.Explicit = true
			return true
		}
	}

	remainder := normalized
	loc := e.budgetMax.FindStringSubmatchIndex(normalized)
	if loc == nil {
		loc = e.budgetWithin.FindStringSubmatchIndex(normalized)
	}
	if loc != nil {
		if v, ok := lexicon.ParseAmount(normalized[loc[2]:loc[3]]); ok {
			sctx.Budget.Max = &v
			sctx.Budget.Explicit = true
			changed = true
		}
		// Blank the consumed span so a ceiling phrasing like "no more
		// than X" cannot also feed the floor pattern below.
		remainder = normalized[:loc[0]] + strings.Repeat(" ", loc[1]-loc[0]) + normalized[loc[1]:]
	}
	if m := e.budgetMin.FindStringSubmatch(remainder); m != nil {
		if v, ok := lexicon.ParseAmount(m[1]); ok {
			sctx.Budget.Min = &v
			changed = true
		}
	}
	return changed
}

func (e *RuleExtractor) extractLocations(normalized string, sctx *model.SearchContext) bool {
	changed := false
	for _, state := range lexicon.States {
		if lexicon.ContainsPhrase(normalized, state) {
			changed = sctx.Location.States.Add(state) || changed
		}
	}
	for _, city := range lexicon.Cities {
		if lexicon.ContainsPhrase(normalized, city) {
			changed = sctx.Location.Cities.Add(city) || changed
		}
	}
	for _, area := range lexicon.Areas {
		if lexicon.ContainsPhrase(normalized, area) {
			changed = sctx.Location.Areas.Add(area) || changed
		}
	}
	return changed
}

func (e *RuleExtractor) extractTypes(normalized string, sctx *model.SearchContext) bool {
	changed := false
	for _, t := range lexicon.MatchPropertyTypes(normalized) {
		changed = sctx.PropertyTypes.Add(t) || changed
	}
	return changed
}

func (e *RuleExtractor) extractAmenities(normalized string, sctx *model.SearchContext) bool {
	changed := false
	for _, a := range lexicon.MatchAmenities(normalized) {
		changed = sctx.Amenities.Add(a) || changed
	}
	return changed
}

func lastMatchIndex(re *regexp.Regexp, s string) int {
	matches := re.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return -1
	}
	return matches[len(matches)-1][0]
}
