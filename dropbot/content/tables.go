package content

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dropcards/dropbot/dropbot/game"
)

// Currency names a balance on the user account.
type Currency string

const (
	CurrencySilver  Currency = "silver"
	CurrencyStar    Currency = "star"
	CurrencyGem     Currency = "gem"
	CurrencyVoucher Currency = "voucher"
)

func (c Currency) Valid() bool {
	switch c {
	case CurrencySilver, CurrencyStar, CurrencyGem, CurrencyVoucher:
		return true
	}
	return false
}

// Well-known item identifiers referenced by game rules.
const (
	ItemGlisteningGem   = "glistening_gem"
	ItemFusionCrystal   = "fusion_crystal"
	ItemCardSleeve      = "card_sleeve"
	ItemPremiumDrop     = "premium_drop"
	ItemCrown           = "crown"
	ItemBackpackUpgrade = "backpack_upgrade"
)

// PackItemID maps a pack tier to its inventory item.
func PackItemID(tier game.PackTier) string {
	return string(tier) + "_card_pack"
}

// ItemDef is one row of the externally supplied item table.
type ItemDef struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *int64   `json:"price"`
	Currency    Currency `json:"currency"`
	Visible     bool     `json:"visible"`
	Usable      bool     `json:"usable"`
}

// Purchasable items carry a price; the rest only enter inventories through
// rewards.
func (d ItemDef) Purchasable() bool {
	return d.Price != nil
}

// CraftableDef is one row of the craftable-character table. The result
// rarity comes from the roster, not the definition.
type CraftableDef struct {
	Character          string         `json:"character"`
	RequiredCharacters map[string]int `json:"required_characters"`
	RequiredItems      map[string]int `json:"required_items"`
}

// Tables holds every static content table after validation. Immutable once
// loaded.
type Tables struct {
	items      map[string]ItemDef
	itemOrder  []string
	craftables map[string]CraftableDef
	roster     *game.Roster
}

type rosterEntry struct {
	Name   string `json:"name"`
	Rarity string `json:"rarity"`
}

// Load parses and cross-validates the three content tables. Any dangling
// reference or malformed value is a ConfigError; nothing is lazily validated
// later.
func Load(itemsJSON, craftablesJSON, rosterJSON []byte) (*Tables, error) {
	var itemDefs []ItemDef
	if err := json.Unmarshal(itemsJSON, &itemDefs); err != nil {
		return nil, fmt.Errorf("failed to parse item table: %w", err)
	}
	var craftableDefs []CraftableDef
	if err := json.Unmarshal(craftablesJSON, &craftableDefs); err != nil {
		return nil, fmt.Errorf("failed to parse craftable table: %w", err)
	}
	var rosterEntries []rosterEntry
	if err := json.Unmarshal(rosterJSON, &rosterEntries); err != nil {
		return nil, fmt.Errorf("failed to parse roster table: %w", err)
	}

	t := &Tables{
		items:      make(map[string]ItemDef, len(itemDefs)),
		craftables: make(map[string]CraftableDef, len(craftableDefs)),
	}

	for _, def := range itemDefs {
		if def.ID == "" || def.Name == "" {
			return nil, game.ConfigErrorf("item with empty id or name")
		}
		if def.Purchasable() && !def.Currency.Valid() {
			return nil, game.ConfigErrorf("item %q priced in undefined currency %q", def.ID, def.Currency)
		}
		if _, dup := t.items[def.ID]; dup {
			return nil, game.ConfigErrorf("duplicate item id %q", def.ID)
		}
		t.items[def.ID] = def
		t.itemOrder = append(t.itemOrder, def.ID)
	}

	rosterMap := make(map[string]game.Rarity, len(rosterEntries))
	for _, entry := range rosterEntries {
		rarity := game.Rarity(entry.Rarity)
		if entry.Name == "" {
			return nil, game.ConfigErrorf("roster entry with empty name")
		}
		if rarity.Level() == 0 && !rarity.Exclusive() {
			return nil, game.ConfigErrorf("character %q rostered at undefined rarity %q", entry.Name, entry.Rarity)
		}
		if _, dup := rosterMap[entry.Name]; dup {
			return nil, game.ConfigErrorf("duplicate roster entry %q", entry.Name)
		}
		rosterMap[entry.Name] = rarity
	}
	t.roster = game.NewRoster(rosterMap)

	for _, def := range craftableDefs {
		if _, ok := rosterMap[def.Character]; !ok {
			return nil, game.ConfigErrorf("craftable %q is not on the roster", def.Character)
		}
		for name := range def.RequiredCharacters {
			if _, ok := rosterMap[name]; !ok {
				return nil, game.ConfigErrorf("craftable %q requires unrostered character %q", def.Character, name)
			}
		}
		for itemID := range def.RequiredItems {
			if _, ok := t.items[itemID]; !ok {
				return nil, game.ConfigErrorf("craftable %q requires undefined item %q", def.Character, itemID)
			}
		}
		if _, dup := t.craftables[def.Character]; dup {
			return nil, game.ConfigErrorf("duplicate craftable %q", def.Character)
		}
		t.craftables[def.Character] = def
	}

	for _, id := range []string{ItemGlisteningGem, ItemFusionCrystal, ItemCardSleeve, ItemBackpackUpgrade} {
		if _, ok := t.items[id]; !ok {
			return nil, game.ConfigErrorf("item table is missing required item %q", id)
		}
	}

	return t, nil
}

func (t *Tables) Item(id string) (ItemDef, bool) {
	def, ok := t.items[id]
	return def, ok
}

// Items returns definitions in table order.
func (t *Tables) Items() []ItemDef {
	out := make([]ItemDef, 0, len(t.itemOrder))
	for _, id := range t.itemOrder {
		out = append(out, t.items[id])
	}
	return out
}

func (t *Tables) Craftable(character string) (CraftableDef, bool) {
	def, ok := t.craftables[character]
	return def, ok
}

func (t *Tables) Craftables() []CraftableDef {
	out := make([]CraftableDef, 0, len(t.craftables))
	for _, def := range t.craftables {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Character < out[j].Character })
	return out
}

func (t *Tables) Roster() *game.Roster {
	return t.roster
}
