package domain

import (
	"html"
	"strings"
	"time"
)

// SearchCriteria is one search submission. A nil field imposes no constraint.
// Numeric bounds stay raw until the query engine evaluates them.
type SearchCriteria struct {
	Type        *PropertyType
	MinPrice    *string
	MaxPrice    *string
	MinBedrooms *string
	MaxBedrooms *string
	DateAfter   *time.Time
	DateBefore  *time.Time
	Postcode    *string
}

// IsEmpty reports whether no criterion is present.
func (c SearchCriteria) IsEmpty() bool {
	return c.Type == nil && c.MinPrice == nil && c.MaxPrice == nil &&
		c.MinBedrooms == nil && c.MaxBedrooms == nil &&
		c.DateAfter == nil && c.DateBefore == nil && c.Postcode == nil
}

// CriteriaForm holds the search form exactly as submitted, every field a
// string. Empty means "not set".
type CriteriaForm struct {
	Type        string
	MinPrice    string
	MaxPrice    string
	MinBedrooms string
	MaxBedrooms string
	DateAfter   string
	DateBefore  string
	Postcode    string
}

// Accepted date layouts: the picker's dd/MM/yyyy and ISO dates.
var criteriaDateLayouts = []string{"02/01/2006", "2006-01-02", "2/1/2006"}

// Criteria converts the form into SearchCriteria. This is the only place
// free text from a user enters the core, so it is sanitised here.
func (f CriteriaForm) Criteria() SearchCriteria {
	var c SearchCriteria

	if raw := strings.TrimSpace(f.Type); raw != "" {
		t, ok := ParsePropertyType(raw)
		if !ok {
			// unknown types are kept verbatim and simply match nothing
			t = PropertyType(SanitizeInput(raw))
		}
		c.Type = &t
	}

	c.MinPrice = optionalString(f.MinPrice)
	c.MaxPrice = optionalString(f.MaxPrice)
	c.MinBedrooms = optionalString(f.MinBedrooms)
	c.MaxBedrooms = optionalString(f.MaxBedrooms)
	c.DateAfter = parseCriteriaDate(f.DateAfter)
	c.DateBefore = parseCriteriaDate(f.DateBefore)

	if pc := strings.ToUpper(strings.TrimSpace(f.Postcode)); pc != "" {
		pc = SanitizeInput(pc)
		c.Postcode = &pc
	}
	return c
}

// SanitizeInput escapes HTML-significant characters in user supplied text.
func SanitizeInput(s string) string {
	return html.EscapeString(s)
}

// DateOnly drops the clock part of t, keeping its calendar date at UTC
// midnight so it compares cleanly with AddedDate.Time.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func parseCriteriaDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range criteriaDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = DateOnly(t)
			return &t
		}
	}
	return nil
}
