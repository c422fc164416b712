package airquality

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresOverviewRepository reads the overview from PostgreSQL.
//
// Expected schema:
//
//	areas(key text primary key, location text, aqi double precision, main_pollutant text)
//	stations(id int primary key, area_key text, position int, name text,
//	         aqi double precision null, main_pollutant text null)
type PostgresOverviewRepository struct {
	pool    *pgxpool.Pool
	areaKey string
}

// NewPostgresOverviewRepository creates a repository reading the given area.
func NewPostgresOverviewRepository(pool *pgxpool.Pool, areaKey string) *PostgresOverviewRepository {
	return &PostgresOverviewRepository{pool: pool, areaKey: areaKey}
}

// FetchOverview loads the area row and its stations in display order.
func (r *PostgresOverviewRepository) FetchOverview(ctx context.Context) (*Overview, error) {
	areaQuery := `
		SELECT location, aqi, main_pollutant
		FROM areas
		WHERE key = $1
	`

	var overview Overview
	err := r.pool.QueryRow(ctx, areaQuery, r.areaKey).Scan(
		&overview.Location,
		&overview.AQI,
		&overview.MainPollutant,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOverviewNotFound
		}
		return nil, fmt.Errorf("query area: %w", err)
	}

	stationQuery := `
		SELECT id, name, aqi, main_pollutant
		FROM stations
		WHERE area_key = $1
		ORDER BY position, id
	`

	rows, err := r.pool.Query(ctx, stationQuery, r.areaKey)
	if err != nil {
		return nil, fmt.Errorf("query stations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s Station
		if err := rows.Scan(&s.ID, &s.Name, &s.AQI, &s.MainPollutant); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		overview.Stations = append(overview.Stations, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stations: %w", err)
	}

	return &overview, nil
}

// Ensure PostgresOverviewRepository implements OverviewProvider.
var _ OverviewProvider = (*PostgresOverviewRepository)(nil)
