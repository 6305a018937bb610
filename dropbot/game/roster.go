package game

import (
	"math/rand"
	"sort"

	"github.com/sahilm/fuzzy"
)

// TrollName is a dud character. Troll cards carry a fixed identifier and
// yield nothing when grabbed or burned.
const (
	TrollName   = "Troll"
	TrollCardID = "7R0115"
)

// Roster is the versioned character table, loaded from configuration rather
// than derived from asset storage.
type Roster struct {
	byRarity map[Rarity][]string
	rarityOf map[string]Rarity
	names    []string
}

func NewRoster(entries map[string]Rarity) *Roster {
	ro := &Roster{
		byRarity: make(map[Rarity][]string),
		rarityOf: make(map[string]Rarity, len(entries)),
	}
	for name, rarity := range entries {
		ro.byRarity[rarity] = append(ro.byRarity[rarity], name)
		ro.rarityOf[name] = rarity
		ro.names = append(ro.names, name)
	}
	// Stable order inside each rarity bucket so a seeded source picks
	// reproducibly.
	for _, names := range ro.byRarity {
		sort.Strings(names)
	}
	sort.Strings(ro.names)
	return ro
}

// Pick selects a character uniformly among those rostered at the given
// rarity.
func (ro *Roster) Pick(rng *rand.Rand, rarity Rarity) (string, error) {
	names := ro.byRarity[rarity]
	if len(names) == 0 {
		return "", ConfigErrorf("no characters rostered at rarity %q", rarity)
	}
	return names[rng.Intn(len(names))], nil
}

func (ro *Roster) RarityOf(name string) (Rarity, bool) {
	r, ok := ro.rarityOf[name]
	return r, ok
}

func (ro *Roster) Names() []string {
	out := make([]string, len(ro.names))
	copy(out, ro.names)
	return out
}

func (ro *Roster) AtRarity(rarity Rarity) []string {
	names := ro.byRarity[rarity]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Search fuzzy-matches a partial character name, best matches first. Used by
// autocomplete.
func (ro *Roster) Search(query string, limit int) []string {
	matches := fuzzy.Find(query, ro.names)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}
	return out
}
