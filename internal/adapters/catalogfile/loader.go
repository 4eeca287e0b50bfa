// Package catalogfile loads the property catalog from a JSON document of the
// form {"properties": [...]}, either a file on disk or the bundled default.
package catalogfile

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Venuja2003/Estate-Agent/internal/contextkeys"
	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/port"
)

const schemaURL = "https://estate-agent.local/schemas/properties.schema.json"

//go:embed data/properties.json
var defaultCatalog []byte

//go:embed data/properties.schema.json
var catalogSchema []byte

type addedDTO struct {
	Month string `json:"month"`
	Day   int    `json:"day"`
	Year  int    `json:"year"`
}

type propertyDTO struct {
	ID              string   `json:"id"`
	Type            string   `json:"type"`
	Bedrooms        int      `json:"bedrooms"`
	Price           int      `json:"price"`
	Tenure          string   `json:"tenure"`
	Description     string   `json:"description"`
	LongDescription string   `json:"longDescription"`
	Location        string   `json:"location"`
	Picture         string   `json:"picture"`
	Images          []string `json:"images"`
	FloorPlan       string   `json:"floorPlan"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	Added           addedDTO `json:"added"`
}

type catalogDTO struct {
	Properties []propertyDTO `json:"properties"`
}

func (d propertyDTO) toDomain() domain.PropertyRecord {
	return domain.PropertyRecord{
		ID: d.ID,
		// kept verbatim: an unrecognised type simply never matches a type filter
		Type:            domain.PropertyType(d.Type),
		Price:           d.Price,
		Bedrooms:        d.Bedrooms,
		Tenure:          d.Tenure,
		Location:        d.Location,
		Description:     d.Description,
		LongDescription: d.LongDescription,
		Picture:         d.Picture,
		Images:          d.Images,
		FloorPlan:       d.FloorPlan,
		Latitude:        d.Latitude,
		Longitude:       d.Longitude,
		Added:           domain.AddedDate{Month: d.Added.Month, Day: d.Added.Day, Year: d.Added.Year},
	}
}

// Loader implements port.CatalogLoaderPort. An empty path serves the
// bundled catalog.
type Loader struct {
	path   string
	schema *jsonschema.Schema
}

func NewLoader(path string) (*Loader, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader(catalogSchema)); err != nil {
		return nil, fmt.Errorf("failed to register catalog schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile catalog schema: %w", err)
	}
	return &Loader{path: path, schema: schema}, nil
}

func (l *Loader) source() string {
	if l.path == "" {
		return "embedded"
	}
	return l.path
}

func (l *Loader) Load(ctx context.Context) ([]domain.PropertyRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CatalogFileLoader",
		"source":    l.source(),
	})

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	raw := defaultCatalog
	if l.path != "" {
		var err error
		raw, err = os.ReadFile(l.path)
		if err != nil {
			logger.Error("Failed to read catalog file", err, nil)
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
		}
	}

	records, err := l.decode(raw)
	if err != nil {
		logger.Error("Catalog rejected", err, nil)
		return nil, err
	}

	logger.Info("Catalog loaded", port.Fields{"properties": len(records)})
	return records, nil
}

func (l *Loader) decode(raw []byte) ([]domain.PropertyRecord, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: catalog is not valid JSON: %v", domain.ErrCatalogUnavailable, err)
	}
	if err := l.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: catalog failed schema validation: %v", domain.ErrCatalogUnavailable, err)
	}

	var dto catalogDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	records := make([]domain.PropertyRecord, 0, len(dto.Properties))
	for _, p := range dto.Properties {
		records = append(records, p.toDomain())
	}
	return records, nil
}
