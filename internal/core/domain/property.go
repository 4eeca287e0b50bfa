package domain

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrCatalogUnavailable is returned when the catalog cannot be loaded.
	// Nothing can run without it.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrPropertyNotFound   = errors.New("property not found")
)

// PropertyType is the kind of dwelling a listing describes.
type PropertyType string

const (
	PropertyTypeHouse PropertyType = "House"
	PropertyTypeFlat  PropertyType = "Flat"
)

// ParsePropertyType canonicalises free-form input ("house", " FLAT ") to a
// known type. The query engine itself compares types exactly.
func ParsePropertyType(raw string) (PropertyType, bool) {
	caser := cases.Title(language.BritishEnglish)
	t := PropertyType(caser.String(strings.TrimSpace(raw)))
	switch t {
	case PropertyTypeHouse, PropertyTypeFlat:
		return t, true
	}
	return "", false
}

// PropertyRecord is one catalog listing. Records are never mutated after the
// catalog is built.
type PropertyRecord struct {
	ID              string
	Type            PropertyType
	Price           int
	Bedrooms        int
	Tenure          string
	Location        string
	Description     string
	LongDescription string
	Picture         string
	Images          []string
	FloorPlan       string
	Latitude        float64
	Longitude       float64
	Added           AddedDate
}

// Thumbnail returns the card picture, falling back to the first gallery image.
func (p PropertyRecord) Thumbnail() string {
	if p.Picture != "" {
		return p.Picture
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// Catalog is the ordered, read-only set of listings for the process lifetime.
type Catalog struct {
	records []PropertyRecord
	byID    map[string]int
}

// NewCatalog copies records into an immutable catalog. An empty input or a
// duplicated id is reported as ErrCatalogUnavailable: a partial catalog must
// not be served silently.
func NewCatalog(records []PropertyRecord) (*Catalog, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no properties loaded", ErrCatalogUnavailable)
	}

	c := &Catalog{
		records: make([]PropertyRecord, len(records)),
		byID:    make(map[string]int, len(records)),
	}
	for i, rec := range records {
		if rec.ID == "" {
			return nil, fmt.Errorf("%w: property at position %d has no id", ErrCatalogUnavailable, i)
		}
		if _, dup := c.byID[rec.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate property id %q", ErrCatalogUnavailable, rec.ID)
		}
		rec.Images = append([]string(nil), rec.Images...)
		c.records[i] = rec
		c.byID[rec.ID] = i
	}
	return c, nil
}

// Records returns the catalog in its original order. The slice is a copy.
func (c *Catalog) Records() []PropertyRecord {
	out := make([]PropertyRecord, len(c.records))
	copy(out, c.records)
	return out
}

func (c *Catalog) Len() int {
	return len(c.records)
}

// ByID looks up a record by its identifier.
func (c *Catalog) ByID(id string) (PropertyRecord, error) {
	i, ok := c.byID[id]
	if !ok {
		return PropertyRecord{}, fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
	}
	return c.records[i], nil
}
