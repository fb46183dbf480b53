package features

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-features/internal/metrics"
	"github.com/yourusername/keiba-features/internal/models"
	"github.com/yourusername/keiba-features/internal/repository"
)

// MaxPedigreeDepth is the deepest generation the builder will expand.
// Requests beyond it are clamped, not rejected.
const MaxPedigreeDepth = 3

// TreeBuilder reconstructs a horse's ancestry as a nested binary tree.
type TreeBuilder struct {
	horses repository.HorseRepository
	log    *logrus.Logger
}

// NewTreeBuilder creates a pedigree tree builder
func NewTreeBuilder(horses repository.HorseRepository, log *logrus.Logger) *TreeBuilder {
	return &TreeBuilder{horses: horses, log: log}
}

// pedigreeRow is one flat expansion record. The path encodes the branch
// taken from the root: "1" is the root, each appended '1' steps to the
// sire, each '2' to the dam.
type pedigreeRow struct {
	generation int
	path       string
	horse      models.Horse
}

// BuildTree expands the ancestry of horseID up to maxDepth generations and
// reshapes the expansion into a nested tree. A missing root yields a nil
// tree; a data-source failure is logged and also yields nil, never an
// error. Identical registry contents always produce an identical tree.
func (b *TreeBuilder) BuildTree(ctx context.Context, horseID string, maxDepth int) *models.PedigreeNode {
	if maxDepth > MaxPedigreeDepth {
		b.log.WithFields(logrus.Fields{"horse_id": horseID, "depth": maxDepth}).
			Warnf("Pedigree depth capped at %d", MaxPedigreeDepth)
		maxDepth = MaxPedigreeDepth
	}
	if maxDepth < 1 {
		maxDepth = 1
	}

	rows, err := b.expand(ctx, horseID, maxDepth)
	if err != nil {
		b.log.WithError(err).WithField("horse_id", horseID).Error("Failed to build pedigree tree")
		return nil
	}
	if len(rows) == 0 {
		b.log.WithField("horse_id", horseID).Warn("No pedigree information found")
		return nil
	}

	metrics.RecordPedigreeTree()
	return reshape(rows)
}

// expand walks the ancestry breadth-first, one generation at a time. A node
// is created from the parent record's own sire/dam references, so an
// ancestor whose registry row is missing still appears as a leaf.
func (b *TreeBuilder) expand(ctx context.Context, horseID string, maxDepth int) ([]pedigreeRow, error) {
	root, err := b.horses.GetByID(ctx, horseID)
	if err != nil {
		if errors.Is(err, models.ErrHorseNotFound) {
			return nil, nil
		}
		return nil, err
	}

	rows := []pedigreeRow{{generation: 1, path: "1", horse: *root}}
	frontier := rows

	for gen := 1; gen < maxDepth; gen++ {
		var next []pedigreeRow
		for _, row := range frontier {
			if row.horse.HasKnownSire() {
				child, err := b.ancestorRow(ctx, row, '1')
				if err != nil {
					return nil, err
				}
				next = append(next, child)
			}
			if row.horse.HasKnownDam() {
				child, err := b.ancestorRow(ctx, row, '2')
				if err != nil {
					return nil, err
				}
				next = append(next, child)
			}
		}
		rows = append(rows, next...)
		frontier = next
	}

	return rows, nil
}

func (b *TreeBuilder) ancestorRow(ctx context.Context, parent pedigreeRow, branch byte) (pedigreeRow, error) {
	id, name := parent.horse.SireID, parent.horse.SireName
	if branch == '2' {
		id, name = parent.horse.DamID, parent.horse.DamName
	}

	row := pedigreeRow{
		generation: parent.generation + 1,
		path:       parent.path + string(branch),
		horse:      models.Horse{ID: id, Name: name},
	}

	// The ancestor's own registry row supplies the next generation's
	// references. Absence just stops expansion at this node.
	ancestor, err := b.horses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrHorseNotFound) {
			return row, nil
		}
		return pedigreeRow{}, err
	}
	row.horse.SireID = ancestor.SireID
	row.horse.SireName = ancestor.SireName
	row.horse.DamID = ancestor.DamID
	row.horse.DamName = ancestor.DamName
	return row, nil
}

// reshape turns the generation-ordered flat rows into the nested tree using
// a path-indexed node map, so each insertion is a single parent lookup.
func reshape(rows []pedigreeRow) *models.PedigreeNode {
	nodes := make(map[string]*models.PedigreeNode, len(rows))
	for _, row := range rows {
		node := &models.PedigreeNode{ID: row.horse.ID, Name: row.horse.Name}
		nodes[row.path] = node
		if row.generation == 1 {
			continue
		}
		parent := nodes[row.path[:len(row.path)-1]]
		if parent == nil {
			continue
		}
		if row.path[len(row.path)-1] == '1' {
			parent.Sire = node
		} else {
			parent.Dam = node
		}
	}
	return nodes["1"]
}
