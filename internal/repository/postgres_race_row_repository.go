package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/keiba-features/internal/database"
	"github.com/yourusername/keiba-features/internal/models"
)

// PostgresRaceRowRepository implements RaceRowRepository against the JV-Data
// result (jvd_se), race (jvd_ra) and horse (jvd_um) tables.
type PostgresRaceRowRepository struct {
	db *database.DB
}

// NewPostgresRaceRowRepository creates a new race row repository
func NewPostgresRaceRowRepository(db *database.DB) RaceRowRepository {
	return &PostgresRaceRowRepository{db: db}
}

// Row-level eligibility lives in SQL to bound transfer volume; everything
// derived (bucketing, grouping, thresholds) is computed by the caller.
const sireRowsQuery = `
	SELECT
		u.ketto_joho_01a AS entity_id,
		TRIM(u.ketto_joho_01b) AS entity_name,
		r.keibajo_code,
		r.track_code,
		COALESCE(r.babajotai_code_shiba, '') AS turf_going,
		COALESCE(r.babajotai_code_dirt, '') AS dirt_going,
		CAST(r.kyori AS INTEGER) AS distance,
		CAST(r.kaisai_nen AS INTEGER) AS year,
		s.kakutei_chakujun AS finish_pos,
		CAST(s.tansho_odds AS BIGINT) AS win_odds,
		CAST(s.tansho_ninkijun AS INTEGER) AS popularity
	FROM jvd_se s
	JOIN jvd_ra r ON s.kaisai_nen = r.kaisai_nen
		AND s.kaisai_tsukihi = r.kaisai_tsukihi
		AND s.keibajo_code = r.keibajo_code
		AND s.race_bango = r.race_bango
	JOIN jvd_um u ON s.ketto_toroku_bango = u.ketto_toroku_bango
	WHERE s.kakutei_chakujun ~ '^[0-9]+$'
		AND s.kakutei_chakujun NOT IN ('00', '99')
		AND s.tansho_odds IS NOT NULL
		AND u.ketto_joho_01a != '0000000000'
		AND ($1 = '' OR u.ketto_joho_01a = $1)
		AND ($2 = 0 OR CAST(r.kaisai_nen AS INTEGER) >= $2)
`

const jockeyRowsQuery = `
	SELECT
		s.kishu_code AS entity_id,
		TRIM(s.kishumei_ryakusho) AS entity_name,
		r.keibajo_code,
		r.track_code,
		COALESCE(r.babajotai_code_shiba, '') AS turf_going,
		COALESCE(r.babajotai_code_dirt, '') AS dirt_going,
		CAST(r.kyori AS INTEGER) AS distance,
		CAST(r.kaisai_nen AS INTEGER) AS year,
		s.kakutei_chakujun AS finish_pos,
		CAST(s.tansho_odds AS BIGINT) AS win_odds,
		CAST(s.tansho_ninkijun AS INTEGER) AS popularity
	FROM jvd_se s
	JOIN jvd_ra r ON s.kaisai_nen = r.kaisai_nen
		AND s.kaisai_tsukihi = r.kaisai_tsukihi
		AND s.keibajo_code = r.keibajo_code
		AND s.race_bango = r.race_bango
	WHERE s.kakutei_chakujun ~ '^[0-9]+$'
		AND s.kakutei_chakujun NOT IN ('00', '99')
		AND s.tansho_odds IS NOT NULL
		AND ($1 = '' OR s.kishu_code = $1)
		AND ($2 = 0 OR CAST(r.kaisai_nen AS INTEGER) >= $2)
`

// ListSireRows returns qualifying rows attributed to each runner's sire
func (r *PostgresRaceRowRepository) ListSireRows(ctx context.Context, filter RowFilter) ([]*models.RaceRow, error) {
	rows, err := r.collect(ctx, sireRowsQuery, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query sire race rows: %w", err)
	}
	return rows, nil
}

// ListJockeyRows returns qualifying rows attributed to the riding jockey
func (r *PostgresRaceRowRepository) ListJockeyRows(ctx context.Context, filter RowFilter) ([]*models.RaceRow, error) {
	rows, err := r.collect(ctx, jockeyRowsQuery, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query jockey race rows: %w", err)
	}
	return rows, nil
}

func (r *PostgresRaceRowRepository) collect(ctx context.Context, query string, filter RowFilter) ([]*models.RaceRow, error) {
	rows, err := r.db.GetPool().Query(ctx, query, filter.EntityID, filter.SinceYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.RaceRow
	for rows.Next() {
		row := &models.RaceRow{}
		err := rows.Scan(
			&row.EntityID, &row.EntityName, &row.CourseCode, &row.TrackCode,
			&row.TurfGoing, &row.DirtGoing, &row.Distance, &row.Year,
			&row.FinishPos, &row.WinOddsTenths, &row.Popularity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan race row: %w", err)
		}
		results = append(results, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating race rows: %w", err)
	}

	return results, nil
}
