package usecases_port

import (
	"context"

	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
)

type SearchPropertiesUseCasePort interface {
	Execute(ctx context.Context, criteria domain.SearchCriteria) []domain.PropertyRecord
}

type GetPropertyUseCasePort interface {
	Execute(ctx context.Context, propertyID string) (*domain.PropertyDetails, error)
}
