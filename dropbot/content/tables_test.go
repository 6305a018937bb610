package content

import (
	"strings"
	"testing"

	"github.com/dropcards/dropbot/dropbot/game"
)

const validItems = `[
	{"id": "glistening_gem", "name": "Glistening Gem", "price": 2500, "currency": "silver", "visible": true, "usable": true},
	{"id": "fusion_crystal", "name": "Fusion Crystal", "price": 5000, "currency": "silver", "visible": true, "usable": true},
	{"id": "card_sleeve", "name": "Card Sleeve", "price": 1500, "currency": "silver", "visible": true, "usable": true},
	{"id": "backpack_upgrade", "name": "Backpack Upgrade", "price": 1, "currency": "voucher", "visible": true, "usable": true},
	{"id": "crown", "name": "Crown", "visible": true, "usable": false}
]`

const validRoster = `[
	{"name": "Troll", "rarity": "common"},
	{"name": "Frost Hare", "rarity": "rare"},
	{"name": "Starlit Oracle", "rarity": "mythic"},
	{"name": "First Snowfall", "rarity": "icicle"}
]`

const validCraftables = `[
	{"character": "Starlit Oracle", "required_characters": {"Frost Hare": 2}, "required_items": {"fusion_crystal": 2}}
]`

func TestLoadValid(t *testing.T) {
	tables, err := Load([]byte(validItems), []byte(validCraftables), []byte(validRoster))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	gem, ok := tables.Item(ItemGlisteningGem)
	if !ok {
		t.Fatal("Item(glistening_gem) not found")
	}
	if !gem.Purchasable() || *gem.Price != 2500 {
		t.Errorf("gem = %+v, want purchasable at 2500", gem)
	}
	crown, _ := tables.Item(ItemCrown)
	if crown.Purchasable() {
		t.Error("unpriced crown reports Purchasable() = true")
	}

	if got := len(tables.Items()); got != 5 {
		t.Errorf("len(Items()) = %d, want 5", got)
	}
	if _, ok := tables.Craftable("Starlit Oracle"); !ok {
		t.Error("Craftable(Starlit Oracle) not found")
	}
	if r, _ := tables.Roster().RarityOf("First Snowfall"); !r.Exclusive() {
		t.Errorf("RarityOf(First Snowfall) = %q, want exclusive", r)
	}
}

func TestLoadRejectsBadTables(t *testing.T) {
	tests := []struct {
		name       string
		items      string
		craftables string
		roster     string
		wantErr    string
	}{
		{
			name:       "duplicate item id",
			items:      strings.Replace(validItems, `"id": "crown"`, `"id": "card_sleeve"`, 1),
			craftables: validCraftables,
			roster:     validRoster,
			wantErr:    "duplicate item",
		},
		{
			name:       "undefined currency",
			items:      strings.Replace(validItems, `"currency": "voucher"`, `"currency": "doubloon"`, 1),
			craftables: validCraftables,
			roster:     validRoster,
			wantErr:    "undefined currency",
		},
		{
			name:       "missing required item",
			items:      strings.Replace(validItems, "card_sleeve", "card_pouch", 1),
			craftables: validCraftables,
			roster:     validRoster,
			wantErr:    "missing required item",
		},
		{
			name:       "undefined rarity",
			items:      validItems,
			craftables: validCraftables,
			roster:     strings.Replace(validRoster, `"rarity": "rare"`, `"rarity": "shimmering"`, 1),
			wantErr:    "undefined rarity",
		},
		{
			name:       "duplicate roster entry",
			items:      validItems,
			craftables: validCraftables,
			roster:     strings.Replace(validRoster, "First Snowfall", "Troll", 1),
			wantErr:    "duplicate roster entry",
		},
		{
			name:       "craftable off the roster",
			items:      validItems,
			craftables: strings.Replace(validCraftables, "Starlit Oracle", "Moon Prince", 1),
			roster:     validRoster,
			wantErr:    "not on the roster",
		},
		{
			name:       "craftable requires unrostered character",
			items:      validItems,
			craftables: strings.Replace(validCraftables, "Frost Hare", "Moon Prince", 1),
			roster:     validRoster,
			wantErr:    "unrostered character",
		},
		{
			name:       "craftable requires undefined item",
			items:      validItems,
			craftables: strings.Replace(validCraftables, "fusion_crystal", "moon_dust", 1),
			roster:     validRoster,
			wantErr:    "undefined item",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.items), []byte(tt.craftables), []byte(tt.roster))
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestPackItemID(t *testing.T) {
	if got := PackItemID(game.PackMythic); got != "mythic_card_pack" {
		t.Errorf("PackItemID(mythic) = %q, want %q", got, "mythic_card_pack")
	}
}
