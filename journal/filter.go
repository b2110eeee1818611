package journal

import (
	"cmp"
	"slices"

	jsoniter "github.com/json-iterator/go"
)

/***** Filter *****/

// Filter selects journal entries. An empty Filter matches every entry;
// otherwise an entry matches if ANY of the FilterItem(s) matches it.
type Filter struct {
	items []FilterItem
}

func (f Filter) Items() []FilterItem {
	return f.items
}

// Matches reports whether entry is selected by the Filter.
func (f Filter) Matches(entry Entry) bool {
	if len(f.items) == 0 {
		return true
	}

	for _, item := range f.items {
		if item.matches(entry) {
			return true
		}
	}

	return false
}

/***** FilterItem *****/

// FilterItem matches an entry whose type is one of EventTypes (if any are given)
// AND whose payload satisfies ANY (or ALL) of the Predicates (if any are given).
type FilterItem struct {
	eventTypes             []string
	predicates             []Predicate
	allPredicatesMustMatch bool
}

func (fi FilterItem) EventTypes() []string {
	return fi.eventTypes
}

func (fi FilterItem) Predicates() []Predicate {
	return fi.predicates
}

func (fi FilterItem) AllPredicatesMustMatch() bool {
	return fi.allPredicatesMustMatch
}

func (fi FilterItem) matches(entry Entry) bool {
	if len(fi.eventTypes) > 0 && !slices.Contains(fi.eventTypes, entry.EventType) {
		return false
	}

	if len(fi.predicates) == 0 {
		return true
	}

	if fi.allPredicatesMustMatch {
		for _, predicate := range fi.predicates {
			if !predicate.matches(entry.PayloadJSON) {
				return false
			}
		}

		return true
	}

	return slices.ContainsFunc(fi.predicates, func(p Predicate) bool { return p.matches(entry.PayloadJSON) })
}

/***** Predicate *****/

// Predicate compares one top-level payload field, rendered as a string, with an expected value.
type Predicate struct {
	key string
	val string
}

// P creates a Predicate.
func P(key, val string) Predicate {
	return Predicate{key: key, val: val}
}

func (p Predicate) Key() string {
	return p.key
}

func (p Predicate) Val() string {
	return p.val
}

func (p Predicate) matches(payloadJSON []byte) bool {
	field := jsoniter.ConfigFastest.Get(payloadJSON, p.key)
	if field.LastError() != nil || field.ValueType() == jsoniter.InvalidValue {
		return false
	}

	return field.ToString() == p.val
}

/***** FilterBuilder *****/

// FilterBuilder builds a journal Filter. It only allows the combinations useful for reading a journal:
//
//   - empty filter
//   - (eventType OR eventType...)
//   - (predicate OR predicate...)
//   - (predicate AND predicate...)
//   - ((eventType OR eventType...) AND (predicate OR predicate...))
//   - ((eventType OR eventType...) AND (predicate AND predicate...))
//   - any of the above OR any of the above... -> multiple FilterItem(s)
type FilterBuilder interface {
	// Matching starts a new FilterItem.
	Matching() EmptyFilterItemBuilder

	// MatchingAnyEvent directly creates an empty Filter.
	MatchingAnyEvent() Filter
}

type EmptyFilterItemBuilder interface {
	AnyEventTypeOf(eventType string, eventTypes ...string) FilterItemBuilderLackingPredicates
	AnyPredicateOf(predicate Predicate, predicates ...Predicate) FilterItemBuilderLackingEventTypes
	AllPredicatesOf(predicate Predicate, predicates ...Predicate) FilterItemBuilderLackingEventTypes
}

type FilterItemBuilderLackingPredicates interface {
	AndAnyPredicateOf(predicate Predicate, predicates ...Predicate) CompletedFilterItemBuilder
	AndAllPredicatesOf(predicate Predicate, predicates ...Predicate) CompletedFilterItemBuilder
	OrMatching() EmptyFilterItemBuilder
	Finalize() Filter
}

type FilterItemBuilderLackingEventTypes interface {
	AndAnyEventTypeOf(eventType string, eventTypes ...string) CompletedFilterItemBuilder
	OrMatching() EmptyFilterItemBuilder
	Finalize() Filter
}

type CompletedFilterItemBuilder interface {
	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// Finalize returns the Filter including the current FilterItem.
	Finalize() Filter
}

// filterBuilder implements all the interfaces of FilterBuilder.
// It is a value type, so every step returns an independent copy.
type filterBuilder struct {
	filter  Filter
	current FilterItem
}

// BuildFilter creates a FilterBuilder which must eventually be finalized with Finalize() or MatchingAnyEvent().
func BuildFilter() FilterBuilder {
	return filterBuilder{}
}

func (fb filterBuilder) Matching() EmptyFilterItemBuilder {
	fb.current = FilterItem{}

	return fb
}

// AnyEventTypeOf adds event types to the current FilterItem; empty and duplicate types are dropped.
func (fb filterBuilder) AnyEventTypeOf(eventType string, eventTypes ...string) FilterItemBuilderLackingPredicates {
	fb.current.eventTypes = sanitizeEventTypes(append(slices.Clone(fb.current.eventTypes), append([]string{eventType}, eventTypes...)...))

	return fb
}

func (fb filterBuilder) AndAnyEventTypeOf(eventType string, eventTypes ...string) CompletedFilterItemBuilder {
	return fb.AnyEventTypeOf(eventType, eventTypes...)
}

// AnyPredicateOf adds predicates of which ANY must match; partial and duplicate predicates are dropped.
func (fb filterBuilder) AnyPredicateOf(predicate Predicate, predicates ...Predicate) FilterItemBuilderLackingEventTypes {
	fb.current.predicates = sanitizePredicates(append(slices.Clone(fb.current.predicates), append([]Predicate{predicate}, predicates...)...))

	return fb
}

func (fb filterBuilder) AndAnyPredicateOf(predicate Predicate, predicates ...Predicate) CompletedFilterItemBuilder {
	return fb.AnyPredicateOf(predicate, predicates...)
}

// AllPredicatesOf adds predicates of which ALL must match; partial and duplicate predicates are dropped.
func (fb filterBuilder) AllPredicatesOf(predicate Predicate, predicates ...Predicate) FilterItemBuilderLackingEventTypes {
	fb.current.allPredicatesMustMatch = true
	fb.current.predicates = sanitizePredicates(append(slices.Clone(fb.current.predicates), append([]Predicate{predicate}, predicates...)...))

	return fb
}

func (fb filterBuilder) AndAllPredicatesOf(predicate Predicate, predicates ...Predicate) CompletedFilterItemBuilder {
	return fb.AllPredicatesOf(predicate, predicates...)
}

func (fb filterBuilder) OrMatching() EmptyFilterItemBuilder {
	fb.filter.items = append(slices.Clone(fb.filter.items), fb.current)
	fb.current = FilterItem{}

	return fb
}

func (fb filterBuilder) MatchingAnyEvent() Filter {
	return fb.filter
}

func (fb filterBuilder) Finalize() Filter {
	fb.filter.items = append(slices.Clone(fb.filter.items), fb.current)

	return fb.filter
}

func sanitizeEventTypes(eventTypes []string) []string {
	eventTypes = slices.DeleteFunc(eventTypes, func(e string) bool { return e == "" })
	slices.Sort(eventTypes)

	return slices.Clip(slices.Compact(eventTypes))
}

func sanitizePredicates(predicates []Predicate) []Predicate {
	predicates = slices.DeleteFunc(predicates, func(p Predicate) bool { return p.key == "" || p.val == "" })
	slices.SortFunc(predicates, func(a, b Predicate) int {
		return cmp.Or(cmp.Compare(a.key, b.key), cmp.Compare(a.val, b.val))
	})

	return slices.Clip(slices.Compact(predicates))
}
