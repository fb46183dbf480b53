package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/keiba-features/internal/database"
	"github.com/yourusername/keiba-features/internal/models"
)

// PostgresHorseRepository implements HorseRepository for PostgreSQL
type PostgresHorseRepository struct {
	db *database.DB
}

// NewPostgresHorseRepository creates a new horse repository
func NewPostgresHorseRepository(db *database.DB) HorseRepository {
	return &PostgresHorseRepository{db: db}
}

// GetByID retrieves a horse with its lineage references by registration number
func (r *PostgresHorseRepository) GetByID(ctx context.Context, id string) (*models.Horse, error) {
	query := `
		SELECT
			u.ketto_toroku_bango,
			TRIM(u.bamei),
			u.ketto_joho_01a,
			TRIM(u.ketto_joho_01b),
			u.ketto_joho_02a,
			TRIM(u.ketto_joho_02b)
		FROM jvd_um u
		WHERE u.ketto_toroku_bango = $1
	`

	horse := &models.Horse{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&horse.ID, &horse.Name,
		&horse.SireID, &horse.SireName,
		&horse.DamID, &horse.DamName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrHorseNotFound
		}
		return nil, fmt.Errorf("failed to query horse: %w", err)
	}

	return horse, nil
}
