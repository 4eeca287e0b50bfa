// Package query evaluates search criteria against the in-memory catalog.
package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
)

// predicate decides whether a single record survives one criterion.
type predicate func(rec domain.PropertyRecord) bool

// filterBuilder collects one predicate per supplied criterion.
type filterBuilder struct {
	predicates []predicate
}

func (fb *filterBuilder) add(p predicate) {
	fb.predicates = append(fb.predicates, p)
}

// addIntBounds adds inclusive bounds on an integer field. A raw bound that
// does not parse as an integer is skipped.
func (fb *filterBuilder) addIntBounds(field func(domain.PropertyRecord) int, min, max *string) {
	if v, ok := parseBound(min); ok {
		fb.add(func(rec domain.PropertyRecord) bool { return field(rec) >= v })
	}
	if v, ok := parseBound(max); ok {
		fb.add(func(rec domain.PropertyRecord) bool { return field(rec) <= v })
	}
}

func (fb *filterBuilder) match(rec domain.PropertyRecord) bool {
	for _, p := range fb.predicates {
		if !p(rec) {
			return false
		}
	}
	return true
}

func parseBound(raw *string) (int, bool) {
	if raw == nil {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(*raw))
	if err != nil {
		return 0, false
	}
	return v, true
}

func price(rec domain.PropertyRecord) int    { return rec.Price }
func bedrooms(rec domain.PropertyRecord) int { return rec.Bedrooms }

// buildFilter turns criteria into the list of predicates to apply.
func buildFilter(c domain.SearchCriteria) *filterBuilder {
	fb := &filterBuilder{}

	if c.Type != nil {
		want := *c.Type
		fb.add(func(rec domain.PropertyRecord) bool { return rec.Type == want })
	}

	fb.addIntBounds(price, c.MinPrice, c.MaxPrice)
	fb.addIntBounds(bedrooms, c.MinBedrooms, c.MaxBedrooms)

	if c.DateAfter != nil {
		after := domain.DateOnly(*c.DateAfter)
		fb.add(func(rec domain.PropertyRecord) bool { return !rec.Added.Time().Before(after) })
	}
	if c.DateBefore != nil {
		before := domain.DateOnly(*c.DateBefore)
		fb.add(func(rec domain.PropertyRecord) bool { return !rec.Added.Time().After(before) })
	}

	if c.Postcode != nil {
		if want := strings.ToUpper(strings.TrimSpace(*c.Postcode)); want != "" {
			fb.add(func(rec domain.PropertyRecord) bool {
				return domain.PostcodeAreaMatches(domain.ExtractPostcodeArea(rec.Location), want)
			})
		}
	}

	return fb
}

// Filter returns the records that satisfy every supplied criterion, in
// catalog order. Absent criteria impose nothing, so empty criteria return
// the whole input. Malformed bounds are ignored rather than reported.
func Filter(records []domain.PropertyRecord, c domain.SearchCriteria) []domain.PropertyRecord {
	fb := buildFilter(c)
	out := make([]domain.PropertyRecord, 0, len(records))
	for _, rec := range records {
		if fb.match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Matches reports whether a single record satisfies the criteria.
func Matches(rec domain.PropertyRecord, c domain.SearchCriteria) bool {
	return buildFilter(c).match(rec)
}

// DateOn is a small helper for callers building criteria from calendar parts.
func DateOn(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}
