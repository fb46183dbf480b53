package models

// UnknownAncestorID is the registry's sentinel for a missing parent. It
// never expands into a pedigree node.
const UnknownAncestorID = "0000000000"

// Horse is one entry from the horse registry with its immediate lineage
// references.
type Horse struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	SireID   string `db:"sire_id" json:"sire_id"`
	SireName string `db:"sire_name" json:"sire_name"`
	DamID    string `db:"dam_id" json:"dam_id"`
	DamName  string `db:"dam_name" json:"dam_name"`
}

// HasKnownSire reports whether the sire reference points at a real horse.
func (h *Horse) HasKnownSire() bool {
	return h.SireID != "" && h.SireID != UnknownAncestorID
}

// HasKnownDam reports whether the dam reference points at a real horse.
func (h *Horse) HasKnownDam() bool {
	return h.DamID != "" && h.DamID != UnknownAncestorID
}

// PedigreeNode is one individual in an ancestry tree. The tree is a strict
// binary tree owned by its root; Sire and Dam are omitted past the
// requested depth or when the ancestor is unknown.
type PedigreeNode struct {
	ID   string        `json:"id"`
	Name string        `json:"name"`
	Sire *PedigreeNode `json:"sire,omitempty"`
	Dam  *PedigreeNode `json:"dam,omitempty"`
}
