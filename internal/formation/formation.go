package formation

import (
	"fmt"
	"sort"

	"github.com/derekprior/lineup/internal/roster"
)

// KeeperSlot is the reserved slot key for the goalkeeper.
const KeeperSlot = "GK"

// Slot is a named place in a formation.
type Slot struct {
	Key      string          `yaml:"key" json:"key"`
	Position roster.Position `yaml:"position" json:"position"`
}

// Template is the ordered list of field slots used for every period.
// The goalkeeper is not part of the template.
type Template []Slot

// Default is the 11-a-side template: two center-backs, two full-backs,
// two holding midfielders, an attacking midfielder and three forwards.
func Default() Template {
	return Template{
		{"DC1", roster.DC},
		{"DC2", roster.DC},
		{"DL", roster.DL},
		{"DR", roster.DR},
		{"CDM1", roster.CDM},
		{"CDM2", roster.CDM},
		{"CAM", roster.CAM},
		{"LW", roster.LW},
		{"ST", roster.ST},
		{"RW", roster.RW},
	}
}

// Size is the number of field slots.
func (t Template) Size() int {
	return len(t)
}

// Keys returns slot keys in template order.
func (t Template) Keys() []string {
	keys := make([]string, len(t))
	for i, s := range t {
		keys[i] = s.Key
	}
	return keys
}

// Index returns the template position of key, or -1.
func (t Template) Index(key string) int {
	for i, s := range t {
		if s.Key == key {
			return i
		}
	}
	return -1
}

// ByImportance returns slot indices from most to least important.
// Equal importance keeps template order.
func (t Template) ByImportance() []int {
	order := make([]int, len(t))
	for i := range t {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return t[order[a]].Position.Importance() > t[order[b]].Position.Importance()
	})
	return order
}

// Validate checks the template is usable.
func (t Template) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("formation has no slots")
	}
	seen := make(map[string]bool)
	for _, s := range t {
		if s.Key == "" {
			return fmt.Errorf("formation slot has no key")
		}
		if s.Key == KeeperSlot {
			return fmt.Errorf("slot key %q is reserved for the goalkeeper", KeeperSlot)
		}
		if seen[s.Key] {
			return fmt.Errorf("slot key %q appears more than once", s.Key)
		}
		seen[s.Key] = true
		if !s.Position.Valid() {
			return fmt.Errorf("slot %q: unknown position %q", s.Key, s.Position)
		}
		if s.Position == roster.GK {
			return fmt.Errorf("slot %q: goalkeeper is not a field position", s.Key)
		}
	}
	return nil
}
