package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"propchat/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresCatalog is the catalog-provider adapter backed by PostgreSQL.
// It only applies the coarse filters it is given; ranking happens upstream.
type PostgresCatalog struct {
	db *sqlx.DB
}

// NewPostgresCatalog connects to the catalog database.
func NewPostgresCatalog(dsn string, maxConn, maxIdleConn int) (*PostgresCatalog, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresCatalog{db: db}, nil
}

// Close closes the database connection
func (r *PostgresCatalog) Close() error {
	return r.db.Close()
}

const listingColumns = `
	id, listing_type, title, price, property_type, bedrooms, bathrooms,
	city, state, address, amenities, featured, listed_at
`

// Query returns coarse candidates for ranking. An explicit bedroom filter
// is widened by one in each direction so the scorer's off-by-one credit can
// still apply; a minimum-bedroom filter (family-size hint) is a hard floor.
func (r *PostgresCatalog) Query(ctx context.Context, filters *model.CatalogFilters) ([]model.Listing, error) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if filters != nil {
		if filters.ListingType != "" {
			whereClauses = append(whereClauses, fmt.Sprintf("listing_type = $%d", argIndex))
			args = append(args, filters.ListingType)
			argIndex++
		}
		if filters.MaxPrice != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("price <= $%d", argIndex))
			args = append(args, *filters.MaxPrice)
			argIndex++
		}
		if filters.Bedrooms != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("bedrooms BETWEEN $%d AND $%d", argIndex, argIndex+1))
			args = append(args, *filters.Bedrooms-1, *filters.Bedrooms+1)
			argIndex += 2
		}
		if filters.MinBedrooms != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("bedrooms >= $%d", argIndex))
			args = append(args, *filters.MinBedrooms)
			argIndex++
		}
	}

	limit := 50
	if filters != nil && filters.Limit > 0 {
		limit = filters.Limit
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM listings
		WHERE %s
		ORDER BY featured DESC, listed_at DESC
		LIMIT $%d
	`, listingColumns, strings.Join(whereClauses, " AND "), argIndex)
	args = append(args, limit)

	var listings []model.Listing
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	return listings, nil
}

// GetListingByID retrieves a single listing by its ID
func (r *PostgresCatalog) GetListingByID(ctx context.Context, id int64) (*model.Listing, error) {
	var listing model.Listing
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE id = $1`, listingColumns)
	err := r.db.GetContext(ctx, &listing, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &listing, nil
}
