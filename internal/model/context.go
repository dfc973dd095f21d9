package model

// Intent is the buy-vs-rent signal extracted from the conversation.
type Intent string

const (
	IntentUnknown Intent = ""
	IntentBuy     Intent = "buy"
	IntentRent    Intent = "rent"
)

// Stage is the conversational state-machine position.
type Stage string

const (
	StageGreeting  Stage = "greeting"
	StageGathering Stage = "gathering"
	StageRefining  Stage = "refining"
	StageShowing   Stage = "showing"
)

// MaxSetEntries caps each accumulating set so a pathological long session
// cannot grow the context without bound.
const MaxSetEntries = 10

// StringSet is an ordered, deduplicated, capped collection of lowercase terms.
// Insertion order is preserved so downstream output stays deterministic.
type StringSet []string

// Add appends a term if it is not already present and the cap allows it.
// Returns true if the set changed.
func (s *StringSet) Add(term string) bool {
	if term == "" || len(*s) >= MaxSetEntries {
		return false
	}
	for _, existing := range *s {
		if existing == term {
			return false
		}
	}
	*s = append(*s, term)
	return true
}

// Contains reports whether the term is in the set.
func (s StringSet) Contains(term string) bool {
	for _, existing := range s {
		if existing == term {
			return true
		}
	}
	return false
}

// Budget holds the accumulated price constraints in whole currency units.
// Explicit tracks whether Max came from a stated budget rather than being
// derived from salary; explicit values are never overwritten by derivation.
type Budget struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Explicit bool     `json:"explicit,omitempty"`
}

// Location holds accumulated place preferences. Sets only grow within a
// session; stating a new city never removes an earlier one.
type Location struct {
	States StringSet `json:"states,omitempty"`
	Cities StringSet `json:"cities,omitempty"`
	Areas  StringSet `json:"areas,omitempty"`
}

// Empty reports whether no location signal has been captured yet.
func (l Location) Empty() bool {
	return len(l.States) == 0 && len(l.Cities) == 0 && len(l.Areas) == 0
}

// Personal retains raw user-stated attributes even after they have been
// converted into budget or bedroom values, so replies can explain derivations.
type Personal struct {
	Salary     *float64 `json:"salary,omitempty"`
	FamilySize *int     `json:"family_size,omitempty"`
}

// SearchContext is the accumulated state of one conversation session.
// It is owned by exactly one session and mutated only by the extractor.
type SearchContext struct {
	Intent           Intent    `json:"intent,omitempty"`
	Budget           Budget    `json:"budget"`
	Location         Location  `json:"location"`
	PropertyTypes    StringSet `json:"property_types,omitempty"`
	Bedrooms         *int      `json:"bedrooms,omitempty"`
	BedroomsExplicit bool      `json:"bedrooms_explicit,omitempty"`
	Bathrooms        *int      `json:"bathrooms,omitempty"`
	Amenities        StringSet `json:"amenities,omitempty"`
	Personal         Personal  `json:"personal"`
	Stage            Stage     `json:"stage"`
	TurnCount        int       `json:"turn_count"`
}

// NewSearchContext returns an empty context at the greeting stage.
func NewSearchContext() *SearchContext {
	return &SearchContext{Stage: StageGreeting}
}

// HasSignal reports whether the context carries enough information to
// justify a catalog query: at least one of intent, budget, or location.
func (c *SearchContext) HasSignal() bool {
	return c.Intent != IntentUnknown || c.Budget.Max != nil || c.Budget.Min != nil || !c.Location.Empty()
}

// Clone returns a deep copy. Used by the session to guarantee that
// non-domain turns leave the stored context untouched.
func (c *SearchContext) Clone() *SearchContext {
	cp := *c
	cp.Location.States = append(StringSet(nil), c.Location.States...)
	cp.Location.Cities = append(StringSet(nil), c.Location.Cities...)
	cp.Location.Areas = append(StringSet(nil), c.Location.Areas...)
	cp.PropertyTypes = append(StringSet(nil), c.PropertyTypes...)
	cp.Amenities = append(StringSet(nil), c.Amenities...)
	if c.Budget.Min != nil {
		v := *c.Budget.Min
		cp.Budget.Min = &v
	}
	if c.Budget.Max != nil {
		v := *c.Budget.Max
		cp.Budget.Max = &v
	}
	if c.Bedrooms != nil {
		v := *c.Bedrooms
		cp.Bedrooms = &v
	}
	if c.Bathrooms != nil {
		v := *c.Bathrooms
		cp.Bathrooms = &v
	}
	if c.Personal.Salary != nil {
		v := *c.Personal.Salary
		cp.Personal.Salary = &v
	}
	if c.Personal.FamilySize != nil {
		v := *c.Personal.FamilySize
		cp.Personal.FamilySize = &v
	}
	return &cp
}
