package repository

import (
	"context"

	"github.com/yourusername/keiba-features/internal/models"
)

// RowFilter restricts a race-row query. Zero values leave the axis
// unconstrained: an empty EntityID scans the whole population, a zero
// SinceYear spans all seasons.
type RowFilter struct {
	EntityID  string
	SinceYear int
}

// RaceRowRepository reads qualifying race-result rows from the data source.
// Both methods return rows already joined with the entity under study and
// pre-filtered to numeric, non-sentinel finish positions with quoted odds;
// all grouping and statistics happen in the features package.
type RaceRowRepository interface {
	// ListSireRows returns one row per (runner, race) attributed to the
	// runner's sire.
	ListSireRows(ctx context.Context, filter RowFilter) ([]*models.RaceRow, error)

	// ListJockeyRows returns one row per (runner, race) attributed to the
	// riding jockey.
	ListJockeyRows(ctx context.Context, filter RowFilter) ([]*models.RaceRow, error)
}

// HorseRepository reads horse identity and lineage rows.
type HorseRepository interface {
	// GetByID retrieves a horse by registration number. Returns
	// models.ErrHorseNotFound when no such horse is registered.
	GetByID(ctx context.Context, id string) (*models.Horse, error)
}
