package forge

import (
	"testing"

	"github.com/dropcards/dropbot/dropbot/game"
)

func TestFusionResultCondition(t *testing.T) {
	tests := []struct {
		a, b game.Condition
		want game.Condition
	}{
		{game.ConditionMint, game.ConditionMint, game.ConditionMint},
		{game.ConditionNearMint, game.ConditionMint, game.ConditionNearMint},
		{game.ConditionMint, game.ConditionNearMint, game.ConditionNearMint},
		{game.ConditionDamaged, game.ConditionPristine, game.ConditionMint},
		{game.ConditionDamaged, game.ConditionPoor, game.ConditionDamaged},
		{game.ConditionDamaged, game.ConditionDamaged, game.ConditionDamaged},
	}
	for _, tt := range tests {
		if got := FusionResultCondition(tt.a, tt.b); got != tt.want {
			t.Errorf("FusionResultCondition(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFusionStarCost(t *testing.T) {
	tests := []struct {
		rarity game.Rarity
		shiny  bool
		want   int64
	}{
		{game.RarityCommon, false, 8},       // round(3 * 2.5)
		{game.RarityUncommon, false, 30},    // 12 * 2.5
		{game.RarityRare, false, 83},        // round(33 * 2.5)
		{game.RarityLegendary, false, 570},  // 228 * 2.5
		{game.RarityCommon, true, 60},       // 3 * 20
		{game.RarityRare, true, 660},        // 33 * 20
	}
	for _, tt := range tests {
		if got := FusionStarCost(tt.rarity, tt.shiny); got != tt.want {
			t.Errorf("FusionStarCost(%q, %v) = %d, want %d", tt.rarity, tt.shiny, got, tt.want)
		}
	}
}
