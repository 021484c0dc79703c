package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/skyclaim/flight-claims/internal/domain/geo"
	"github.com/skyclaim/flight-claims/pkg/database"
)

// AirportRepository reads the migration-seeded airport coordinate table
type AirportRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewAirportRepository creates a new airport repository
func NewAirportRepository(db *database.DB, logger *zap.Logger) *AirportRepository {
	return &AirportRepository{
		db:     db,
		logger: logger,
	}
}

// ListCoordinates returns every known airport coordinate. Called once at
// startup to seed the in-process distance resolver.
func (r *AirportRepository) ListCoordinates(ctx context.Context) ([]geo.Coordinate, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT iata, latitude, longitude FROM airports")
	if err != nil {
		r.logger.Error("Failed to list airports", zap.Error(err))
		return nil, fmt.Errorf("list airports: %w", err)
	}
	defer rows.Close()

	var coordinates []geo.Coordinate
	for rows.Next() {
		var c geo.Coordinate
		if err := rows.Scan(&c.IATA, &c.Latitude, &c.Longitude); err != nil {
			return nil, fmt.Errorf("scan airport: %w", err)
		}
		coordinates = append(coordinates, c)
	}

	return coordinates, rows.Err()
}
