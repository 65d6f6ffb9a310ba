package character

import (
	"taleward/internal/domain/bio"
)

// Character is the authoritative per-session character record. It is created
// at session start, replaced wholesale each turn, and destroyed only by a
// session reset.
type Character struct {
	Name          string    `json:"name"`
	Bio           bio.State `json:"bio"`
	Conditions    []string  `json:"conditions"`
	Inventory     []string  `json:"inventory"`
	Trauma        int       `json:"trauma"`
	Relationships []string  `json:"relationships"`
	Goals         []string  `json:"goals"`
}

func New(name string) Character {
	return Character{
		Name:       name,
		Bio:        bio.NewState(),
		Conditions: []string{},
		Inventory:  []string{},
	}
}

// HasCondition matches case-insensitively.
func (c Character) HasCondition(name string) bool {
	key := foldKey(name)
	for _, cond := range c.Conditions {
		if foldKey(cond) == key {
			return true
		}
	}
	return false
}

// ClampTrauma keeps trauma inside [0,100].
func ClampTrauma(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
