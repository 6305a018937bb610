package craft

import (
	"testing"

	"github.com/dropcards/dropbot/dropbot/game"
)

func TestResultCondition(t *testing.T) {
	tests := []struct {
		name     string
		consumed []game.Condition
		want     game.Condition
	}{
		{
			name:     "no inputs default to good",
			consumed: nil,
			want:     game.ConditionGood,
		},
		{
			name:     "uniform inputs keep the condition",
			consumed: []game.Condition{game.ConditionMint, game.ConditionMint},
			want:     game.ConditionMint,
		},
		{
			name:     "mean rounds down",
			consumed: []game.Condition{game.ConditionDamaged, game.ConditionPristine, game.ConditionGood},
			want:     game.ConditionGood, // levels 1+6+3 = 10, 10/3 floors to 3
		},
		{
			name:     "all damaged stays damaged",
			consumed: []game.Condition{game.ConditionDamaged, game.ConditionDamaged},
			want:     game.ConditionDamaged,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resultCondition(tt.consumed); got != tt.want {
				t.Errorf("resultCondition(%v) = %q, want %q", tt.consumed, got, tt.want)
			}
		})
	}
}

func TestStarCost(t *testing.T) {
	tests := []struct {
		rarity game.Rarity
		want   int64
	}{
		{game.RarityMythic, 345},    // 138 * 2.5
		{game.RarityLegendary, 570}, // 228 * 2.5
		{game.RarityExotic, 1215},   // 486 * 2.5
	}
	for _, tt := range tests {
		if got := StarCost(tt.rarity); got != tt.want {
			t.Errorf("StarCost(%q) = %d, want %d", tt.rarity, got, tt.want)
		}
	}
}
