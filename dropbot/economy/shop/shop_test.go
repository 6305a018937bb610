package shop

import (
	"testing"

	"github.com/dropcards/dropbot/dropbot/content"
)

func priced(p int64) content.ItemDef {
	return content.ItemDef{
		ID:       "rare_card_pack",
		Name:     "Rare Card Pack",
		Price:    &p,
		Currency: content.CurrencySilver,
		Visible:  true,
	}
}

func TestItemPrice(t *testing.T) {
	tests := []struct {
		name    string
		def     content.ItemDef
		premium bool
		want    int64
	}{
		{"base price", priced(10000), false, 10000},
		{"premium discount", priced(10000), true, 8000},
		{"discount rounds", priced(33), true, 26}, // 26.4 rounds down
		{"unpriced item is free", content.ItemDef{ID: "crown"}, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ItemPrice(tt.def, tt.premium); got != tt.want {
				t.Errorf("ItemPrice() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBackpackUpgradePrice(t *testing.T) {
	tests := []struct {
		level int
		want  int64
	}{
		{1, 75},  // 25 + 100 - 50
		{2, 250}, // 100 + 200 - 50
		{3, 475}, // 225 + 300 - 50
		{4, 750}, // 400 + 400 - 50
	}
	for _, tt := range tests {
		if got := BackpackUpgradePrice(tt.level); got != tt.want {
			t.Errorf("BackpackUpgradePrice(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}
