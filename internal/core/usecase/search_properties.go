package usecase

import (
	"context"

	"github.com/Venuja2003/Estate-Agent/internal/contextkeys"
	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/port"
	"github.com/Venuja2003/Estate-Agent/internal/core/query"
)

type SearchPropertiesUseCase struct {
	catalog *domain.Catalog
}

func NewSearchPropertiesUseCase(catalog *domain.Catalog) *SearchPropertiesUseCase {
	return &SearchPropertiesUseCase{catalog: catalog}
}

// Execute filters the catalog. Empty criteria give back the full catalog,
// which is also how the search form is reset.
func (uc *SearchPropertiesUseCase) Execute(ctx context.Context, criteria domain.SearchCriteria) []domain.PropertyRecord {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "SearchProperties"})
	logger.Debug("Use case started", port.Fields{"criteria_empty": criteria.IsEmpty()})

	results := query.Filter(uc.catalog.Records(), criteria)

	logger.Info("Search finished", port.Fields{
		"catalog_size": uc.catalog.Len(),
		"results":      len(results),
	})
	return results
}
