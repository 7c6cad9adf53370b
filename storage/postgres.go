package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cfl_scraper/models"
)

// PostgresStore is the optional listing sink for batch exports. Records are
// appended as-is; the same property id can appear once per run.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS listings (
			id BIGSERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			property_id TEXT NOT NULL,
			mls_id TEXT,
			street_address TEXT,
			city TEXT,
			state TEXT,
			zip_code TEXT,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			price INTEGER,
			bedrooms INTEGER,
			bathrooms DOUBLE PRECISION,
			sqft INTEGER,
			lot_size INTEGER,
			year_built INTEGER,
			property_type TEXT,
			listing_status TEXT,
			days_on_market INTEGER,
			hoa_fee INTEGER,
			zestimate INTEGER,
			rent_zestimate INTEGER,
			details JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_listings_run ON listings(run_id);
		CREATE INDEX IF NOT EXISTS idx_listings_city ON listings(city);
	`)
	return err
}

var listingColumns = []string{
	"run_id", "property_id", "mls_id", "street_address", "city", "state", "zip_code",
	"latitude", "longitude", "price", "bedrooms", "bathrooms", "sqft", "lot_size",
	"year_built", "property_type", "listing_status", "days_on_market", "hoa_fee",
	"zestimate", "rent_zestimate", "details",
}

// SaveListings bulk-inserts one row per record and returns the row count
func (s *PostgresStore) SaveListings(ctx context.Context, runID string, records []models.PropertyRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(records))
	for _, r := range records {
		row, err := listingRow(runID, r)
		if err != nil {
			return 0, err
		}
		rows = append(rows, row)
	}

	n, err := s.pool.CopyFrom(ctx, pgx.Identifier{"listings"}, listingColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy listings: %w", err)
	}
	return n, nil
}

// listingRow flattens a record into listingColumns order. Nested history,
// agent, school and image data goes into the details document.
func listingRow(runID string, r models.PropertyRecord) ([]any, error) {
	details, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", r.PropertyID, err)
	}

	return []any{
		runID, r.PropertyID, r.MLSID, r.StreetAddress, r.City, r.State, r.ZipCode,
		r.Latitude, r.Longitude, r.Price, r.Bedrooms, r.Bathrooms, r.SqFt, r.LotSize,
		r.YearBuilt, r.PropertyType, r.ListingStatus, r.DaysOnMarket, r.HOAFee,
		r.Zestimate, r.RentZestimate, json.RawMessage(details),
	}, nil
}
