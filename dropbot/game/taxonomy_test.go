package game

import "testing"

func TestRarityLevelOrder(t *testing.T) {
	prev := 0
	for _, r := range StandardRarities() {
		if got := r.Level(); got != prev+1 {
			t.Errorf("Rarity(%q).Level() = %d, want %d", r, got, prev+1)
		}
		prev = r.Level()
	}
	if RarityIcicle.Level() != 0 {
		t.Errorf("Rarity(%q).Level() = %d, want 0", RarityIcicle, RarityIcicle.Level())
	}
	if !RarityIcicle.Exclusive() {
		t.Errorf("Rarity(%q).Exclusive() = false, want true", RarityIcicle)
	}
}

func TestRarityValuable(t *testing.T) {
	tests := []struct {
		rarity Rarity
		want   bool
	}{
		{RarityCommon, false},
		{RarityLegendary, false},
		{RarityExotic, true},
		{RarityNightmare, true},
		{RarityIcicle, true},
	}
	for _, tt := range tests {
		if got := tt.rarity.Valuable(); got != tt.want {
			t.Errorf("Rarity(%q).Valuable() = %v, want %v", tt.rarity, got, tt.want)
		}
	}
}

func TestRarityNextUp(t *testing.T) {
	tests := []struct {
		rarity Rarity
		want   Rarity
	}{
		{RarityCommon, RarityUncommon},
		{RarityLegendary, RarityExotic},
		{RarityNightmare, RarityNightmare},
	}
	for _, tt := range tests {
		if got := tt.rarity.NextUp(); got != tt.want {
			t.Errorf("Rarity(%q).NextUp() = %q, want %q", tt.rarity, got, tt.want)
		}
	}
}

func TestConditionChain(t *testing.T) {
	tests := []struct {
		cond          Condition
		wantUpgrade   Condition
		wantDowngrade Condition
	}{
		{ConditionDamaged, ConditionPoor, ConditionDamaged},
		{ConditionGood, ConditionNearMint, ConditionPoor},
		{ConditionPristine, ConditionPristine, ConditionMint},
	}
	for _, tt := range tests {
		if got := tt.cond.Upgrade(); got != tt.wantUpgrade {
			t.Errorf("Condition(%q).Upgrade() = %q, want %q", tt.cond, got, tt.wantUpgrade)
		}
		if got := tt.cond.Downgrade(); got != tt.wantDowngrade {
			t.Errorf("Condition(%q).Downgrade() = %q, want %q", tt.cond, got, tt.wantDowngrade)
		}
	}
}

func TestConditionFromLevelRoundTrip(t *testing.T) {
	for _, c := range Conditions() {
		if got := ConditionFromLevel(c.Level()); got != c {
			t.Errorf("ConditionFromLevel(%d) = %q, want %q", c.Level(), got, c)
		}
	}
	if got := ConditionFromLevel(0); got != ConditionDamaged {
		t.Errorf("ConditionFromLevel(0) = %q, want %q", got, ConditionDamaged)
	}
	if got := ConditionFromLevel(99); got != ConditionPristine {
		t.Errorf("ConditionFromLevel(99) = %q, want %q", got, ConditionPristine)
	}
}

func TestSilverRangeMonotonic(t *testing.T) {
	// Burnable rarities only; everything above legendary yields zero.
	burnable := StandardRarities()[:6]
	var prevHi int64
	for _, r := range burnable {
		lo, hi := r.SilverRange()
		if lo <= 0 || hi < lo {
			t.Errorf("Rarity(%q).SilverRange() = (%d, %d), want 0 < lo <= hi", r, lo, hi)
		}
		if lo <= prevHi {
			t.Errorf("Rarity(%q).SilverRange() lo = %d, want > %d", r, lo, prevHi)
		}
		prevHi = hi
	}
	for _, r := range []Rarity{RarityExotic, RarityNightmare, RarityIcicle} {
		if lo, hi := r.SilverRange(); lo != 0 || hi != 0 {
			t.Errorf("Rarity(%q).SilverRange() = (%d, %d), want (0, 0)", r, lo, hi)
		}
	}
}

func TestCardValue(t *testing.T) {
	tests := []struct {
		name    string
		rarity  Rarity
		cond    Condition
		special SpecialRarity
		want    int64
	}{
		{"common damaged", RarityCommon, ConditionDamaged, SpecialNone, 10500},
		{"common pristine", RarityCommon, ConditionPristine, SpecialNone, 13000},
		{"nightmare pristine", RarityNightmare, ConditionPristine, SpecialNone, 48000},
		{"exclusive beats nightmare", RarityIcicle, ConditionDamaged, SpecialNone, 50500},
		{"shiny bonus", RarityCommon, ConditionDamaged, SpecialShiny, 36500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CardValue(tt.rarity, tt.cond, tt.special); got != tt.want {
				t.Errorf("CardValue(%q, %q, %q) = %d, want %d", tt.rarity, tt.cond, tt.special, got, tt.want)
			}
		})
	}
}
