package usecase

import (
	"context"
	"time"

	"github.com/Venuja2003/Estate-Agent/internal/contextkeys"
	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/port"
)

type GetPropertyUseCase struct {
	catalog *domain.Catalog
	mapsKey string
	now     func() time.Time
}

func NewGetPropertyUseCase(catalog *domain.Catalog, mapsKey string) *GetPropertyUseCase {
	return &GetPropertyUseCase{catalog: catalog, mapsKey: mapsKey, now: time.Now}
}

func (uc *GetPropertyUseCase) Execute(ctx context.Context, propertyID string) (*domain.PropertyDetails, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "GetProperty",
		"property_id": propertyID,
	})

	rec, err := uc.catalog.ByID(propertyID)
	if err != nil {
		logger.Warn("Property not found", nil)
		return nil, err
	}

	details := domain.NewPropertyDetails(rec, uc.now(), uc.mapsKey)
	logger.Debug("Property details built", nil)
	return &details, nil
}
