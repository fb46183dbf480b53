package repository

import (
	"fmt"

	"github.com/yourusername/keiba-features/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	RaceRows RaceRowRepository
	Horses   HorseRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		RaceRows: NewPostgresRaceRowRepository(db),
		Horses:   NewPostgresHorseRepository(db),
	}, nil
}
