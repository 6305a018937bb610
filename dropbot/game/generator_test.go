package game

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

func testRoster() *Roster {
	return NewRoster(map[string]Rarity{
		"Troll":        RarityCommon,
		"Pebble":       RarityCommon,
		"Moss":         RarityUncommon,
		"Frost":        RarityRare,
		"Hollow":       RarityEpic,
		"Oracle":       RarityMythic,
		"Thorns":       RarityLegendary,
		"Seraph":       RarityExotic,
		"DreamlessOne": RarityNightmare,
	})
}

var cardIDPattern = regexp.MustCompile(`^[0-9A-Z]{6}$`)

func TestGenerateCount(t *testing.T) {
	g := NewSeededGenerator(testRoster(), nil, 1)
	drafts, err := g.Generate(context.Background(), Options{Table: BasicTable(), Count: 25})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(drafts) != 25 {
		t.Fatalf("Generate() returned %d drafts, want 25", len(drafts))
	}
	for _, d := range drafts {
		if d.Rarity.Level() == 0 {
			t.Errorf("draft %q has exclusive rarity %q from a weighted table", d.ID, d.Rarity)
		}
		if d.Character == TrollName {
			if d.ID != TrollCardID {
				t.Errorf("troll draft has id %q, want %q", d.ID, TrollCardID)
			}
			continue
		}
		if !cardIDPattern.MatchString(d.ID) {
			t.Errorf("draft id %q does not match %v", d.ID, cardIDPattern)
		}
	}
}

func TestGenerateZeroCountDefaultsToOne(t *testing.T) {
	g := NewSeededGenerator(testRoster(), nil, 2)
	drafts, err := g.Generate(context.Background(), Options{Table: BasicTable()})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(drafts) != 1 {
		t.Errorf("Generate() returned %d drafts, want 1", len(drafts))
	}
}

func TestGenerateFixedAxes(t *testing.T) {
	g := NewSeededGenerator(testRoster(), nil, 3)
	rarity := RarityEpic
	cond := ConditionMint
	special := SpecialShiny
	drafts, err := g.Generate(context.Background(), Options{
		Table:          BasicTable(),
		Count:          10,
		FixedRarity:    &rarity,
		FixedCondition: &cond,
		FixedSpecial:   &special,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for _, d := range drafts {
		if d.Rarity != rarity || d.Condition != cond || d.Special != special {
			t.Errorf("draft = %+v, want fixed axes (%q, %q, %q)", d, rarity, cond, special)
		}
		if _, ok := testRoster().RarityOf(d.Character); !ok {
			t.Errorf("draft character %q is not on the roster", d.Character)
		}
	}
}

func TestGeneratePackModeConditions(t *testing.T) {
	g := NewSeededGenerator(testRoster(), nil, 4)
	drafts, err := g.Generate(context.Background(), Options{Table: BasicTable(), Count: 100, PackMode: true})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for _, d := range drafts {
		switch d.Condition {
		case ConditionNearMint, ConditionMint, ConditionPristine:
		default:
			t.Errorf("pack draft condition = %q, want near_mint, mint or pristine", d.Condition)
		}
	}
}

func TestGenerateNewUserTableCapsRarity(t *testing.T) {
	g := NewSeededGenerator(testRoster(), nil, 5)
	drafts, err := g.Generate(context.Background(), Options{Table: NewUserTable(), Count: 200})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for _, d := range drafts {
		if d.Rarity.Level() > RarityEpic.Level() {
			t.Errorf("new-user draft rarity = %q, want at most %q", d.Rarity, RarityEpic)
		}
	}
}

func TestPremiumShinyBoostConservesMass(t *testing.T) {
	for _, table := range []WeightTable{BasicTable(), PremiumTable()} {
		plain := table.specialWeights(ActorModifiers{})
		boosted := table.specialWeights(ActorModifiers{Premium: true})

		var plainTotal, boostedTotal, plainShiny, boostedShiny float64
		for _, w := range plain {
			plainTotal += w.Weight
			if w.Value == SpecialShiny {
				plainShiny = w.Weight
			}
		}
		for _, w := range boosted {
			boostedTotal += w.Weight
			if w.Value == SpecialShiny {
				boostedShiny = w.Weight
			}
		}
		if boostedTotal != plainTotal {
			t.Errorf("%s: boosted total = %v, want %v", table.Name, boostedTotal, plainTotal)
		}
		if boostedShiny != 2*plainShiny {
			t.Errorf("%s: boosted shiny weight = %v, want %v", table.Name, boostedShiny, 2*plainShiny)
		}
	}
}

func TestPremiumTableHasNoCommons(t *testing.T) {
	for _, w := range PremiumTable().Rarity {
		if w.Value == RarityCommon {
			t.Errorf("premium table carries a common weight of %v", w.Weight)
		}
	}
}

type fixedIDChecker struct {
	taken map[string]bool
}

func (c fixedIDChecker) CardIDExists(_ context.Context, id string) (bool, error) {
	return c.taken[id], nil
}

func TestNewCardIDAvoidsCollisions(t *testing.T) {
	g := NewSeededGenerator(testRoster(), fixedIDChecker{}, 6)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := g.NewCardID(context.Background())
		if err != nil {
			t.Fatalf("NewCardID() error = %v", err)
		}
		if id == TrollCardID {
			t.Fatalf("NewCardID() returned the reserved troll id")
		}
		if seen[id] {
			t.Fatalf("NewCardID() repeated %q within 50 rolls", id)
		}
		seen[id] = true
	}
}

func TestRosterPickEmptyRarity(t *testing.T) {
	g := NewSeededGenerator(NewRoster(map[string]Rarity{"Pebble": RarityCommon}), nil, 7)
	_, err := g.Generate(context.Background(), Options{Table: PremiumTable(), Count: 1})
	if err == nil {
		t.Fatal("Generate() with an unrosterable table returned nil error")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Generate() error = %v, want *ConfigError", err)
	}
}
