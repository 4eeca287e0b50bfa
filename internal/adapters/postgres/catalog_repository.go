package postgres_adapter

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Venuja2003/Estate-Agent/internal/contextkeys"
	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/port"
)

//go:embed schema.sql
var schemaSQL string

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

var catalogColumns = []string{
	"position", "id", "type", "price", "bedrooms", "tenure", "location",
	"description", "long_description", "picture", "images", "floor_plan",
	"latitude", "longitude", "added_month", "added_day", "added_year",
}

const selectCatalog = `SELECT id, type, price, bedrooms, tenure, location, description,
	long_description, picture, images, floor_plan, latitude, longitude,
	added_month, added_day, added_year
FROM properties ORDER BY position`

// CatalogRepository reads the catalog from the properties table and can
// replace its contents. It implements port.CatalogLoaderPort.
type CatalogRepository struct {
	db DB
}

func NewCatalogRepository(db DB) (*CatalogRepository, error) {
	if db == nil {
		return nil, errors.New("database pool cannot be nil")
	}
	return &CatalogRepository{db: db}, nil
}

func (r *CatalogRepository) logger(ctx context.Context, method string) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresCatalogRepository",
		"method":    method,
	})
}

// Load returns every row in position order.
func (r *CatalogRepository) Load(ctx context.Context) ([]domain.PropertyRecord, error) {
	logger := r.logger(ctx, "Load")

	rows, err := r.db.Query(ctx, selectCatalog)
	if err != nil {
		logger.Error("Failed to query catalog", err, nil)
		return nil, fmt.Errorf("%w: query properties: %v", domain.ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	var records []domain.PropertyRecord
	for rows.Next() {
		var (
			rec      domain.PropertyRecord
			propType string
		)
		err := rows.Scan(&rec.ID, &propType, &rec.Price, &rec.Bedrooms, &rec.Tenure, &rec.Location,
			&rec.Description, &rec.LongDescription, &rec.Picture, &rec.Images, &rec.FloorPlan,
			&rec.Latitude, &rec.Longitude, &rec.Added.Month, &rec.Added.Day, &rec.Added.Year)
		if err != nil {
			logger.Error("Failed to scan property row", err, nil)
			return nil, fmt.Errorf("%w: scan property: %v", domain.ErrCatalogUnavailable, err)
		}
		rec.Type = domain.PropertyType(propType)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Error during catalog iteration", err, nil)
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	logger.Info("Catalog loaded", port.Fields{"properties": len(records)})
	return records, nil
}

// EnsureSchema creates the properties table when missing.
func (r *CatalogRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create properties table: %w", err)
	}
	return nil
}

// Replace swaps the whole table for records in one transaction, keeping
// their order in the position column.
func (r *CatalogRepository) Replace(ctx context.Context, records []domain.PropertyRecord) error {
	logger := r.logger(ctx, "Replace")

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM properties`); err != nil {
		return fmt.Errorf("failed to clear properties: %w", err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"properties"}, catalogColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			rec := records[i]
			images := rec.Images
			if images == nil {
				images = []string{}
			}
			return []any{
				i, rec.ID, string(rec.Type), rec.Price, rec.Bedrooms, rec.Tenure, rec.Location,
				rec.Description, rec.LongDescription, rec.Picture, images, rec.FloorPlan,
				rec.Latitude, rec.Longitude, rec.Added.Month, rec.Added.Day, rec.Added.Year,
			}, nil
		}))
	if err != nil {
		logger.Error("Failed to copy properties", err, nil)
		return fmt.Errorf("failed to copy properties: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit catalog import: %w", err)
	}
	logger.Info("Catalog replaced", port.Fields{"rows": n})
	return nil
}
