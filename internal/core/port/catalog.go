package port

import (
	"context"

	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
)

// CatalogLoaderPort reads the bundled listings once at startup. Implementations
// wrap failures in domain.ErrCatalogUnavailable.
type CatalogLoaderPort interface {
	Load(ctx context.Context) ([]domain.PropertyRecord, error)
}
