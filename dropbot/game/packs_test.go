package game

import (
	"context"
	"testing"
)

func TestOpenPackBudget(t *testing.T) {
	g := NewSeededGenerator(testRoster(), nil, 11)
	for _, tier := range PackTiers() {
		for i := 0; i < 20; i++ {
			drafts, err := g.OpenPack(context.Background(), tier, ActorModifiers{})
			if err != nil {
				t.Fatalf("OpenPack(%q) error = %v", tier, err)
			}
			if len(drafts) != tier.Budget() {
				t.Errorf("OpenPack(%q) returned %d cards, want %d", tier, len(drafts), tier.Budget())
			}
			for _, d := range drafts {
				switch d.Condition {
				case ConditionNearMint, ConditionMint, ConditionPristine:
				default:
					t.Errorf("OpenPack(%q) draft condition = %q, want pack-mode condition", tier, d.Condition)
				}
			}
		}
	}
}

func TestOpenPackFloors(t *testing.T) {
	g := NewSeededGenerator(testRoster(), nil, 12)
	tests := []struct {
		tier     PackTier
		minAt    Rarity
		minCount int
	}{
		{PackRare, RarityRare, 2},
		{PackEpic, RarityEpic, 1},
		{PackMythic, RarityMythic, 1},
		{PackLegendary, RarityLegendary, 1},
	}
	for _, tt := range tests {
		for i := 0; i < 20; i++ {
			drafts, err := g.OpenPack(context.Background(), tt.tier, ActorModifiers{})
			if err != nil {
				t.Fatalf("OpenPack(%q) error = %v", tt.tier, err)
			}
			var atOrAbove int
			for _, d := range drafts {
				if d.Rarity.Level() >= tt.minAt.Level() {
					atOrAbove++
				}
			}
			if atOrAbove < tt.minCount {
				t.Errorf("OpenPack(%q) has %d cards at rarity >= %q, want >= %d", tt.tier, atOrAbove, tt.minAt, tt.minCount)
			}
		}
	}
}

func TestOpenPackUnknownTier(t *testing.T) {
	g := NewSeededGenerator(testRoster(), nil, 13)
	if _, err := g.OpenPack(context.Background(), PackTier("wooden"), ActorModifiers{}); err == nil {
		t.Fatal("OpenPack() with an unknown tier returned nil error")
	}
}

func TestPackTierValid(t *testing.T) {
	for _, tier := range PackTiers() {
		if !tier.Valid() {
			t.Errorf("PackTier(%q).Valid() = false, want true", tier)
		}
	}
	if PackTier("wooden").Valid() {
		t.Error(`PackTier("wooden").Valid() = true, want false`)
	}
}
