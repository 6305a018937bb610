package game

import "context"

// PackTier identifies one of the five purchasable card packs.
type PackTier string

const (
	PackRare      PackTier = "rare"
	PackEpic      PackTier = "epic"
	PackMythic    PackTier = "mythic"
	PackLegendary PackTier = "legendary"
	PackExotic    PackTier = "exotic"
)

func PackTiers() []PackTier {
	return []PackTier{PackRare, PackEpic, PackMythic, PackLegendary, PackExotic}
}

func (p PackTier) Valid() bool {
	switch p {
	case PackRare, PackEpic, PackMythic, PackLegendary, PackExotic:
		return true
	}
	return false
}

// Budget is the fixed total card count of a pack.
func (p PackTier) Budget() int {
	switch p {
	case PackRare, PackEpic:
		return 7
	default:
		return 5
	}
}

// band is a (rarity, count) slice of a pack before generation.
type band struct {
	rarity Rarity
	count  int
}

// OpenPack rolls the tier's band split, applies the leak chance and generates
// every card in pack mode. The total card count always equals the tier
// budget, leak or not.
func (g *Generator) OpenPack(ctx context.Context, tier PackTier, actor ActorModifiers) ([]Draft, error) {
	g.mu.Lock()
	var bands []band
	var leakChance float64
	var leakTo Rarity

	budget := tier.Budget()
	switch tier {
	case PackRare:
		rare := 2 + g.rng.Intn(3)
		bands = []band{
			{RarityRare, rare},
			{RarityUncommon, budget - rare},
		}
		leakChance, leakTo = 0.20, RarityEpic
	case PackEpic:
		epic := 1 + g.rng.Intn(2)
		rare := g.rng.Intn(budget - epic + 1)
		bands = []band{
			{RarityEpic, epic},
			{RarityRare, rare},
			{RarityUncommon, budget - epic - rare},
		}
		leakChance, leakTo = 0.10, RarityMythic
	case PackMythic:
		epic := 1 + g.rng.Intn(2)
		bands = []band{
			{RarityMythic, 1},
			{RarityEpic, epic},
			{RarityRare, budget - 1 - epic},
		}
		leakChance, leakTo = 0.01, RarityLegendary
	case PackLegendary:
		mythic := g.rng.Intn(2)
		epic := 1 - mythic
		bands = []band{
			{RarityLegendary, 1},
			{RarityMythic, mythic},
			{RarityEpic, epic},
			{RarityRare, budget - 1 - mythic - epic},
		}
		leakChance, leakTo = 0.001, RarityExotic
	case PackExotic:
		exotic := g.rng.Intn(2)
		legendary := g.rng.Intn(3)
		mythic := g.rng.Intn(2)
		bands = []band{
			{RarityExotic, exotic},
			{RarityLegendary, legendary},
			{RarityMythic, mythic},
			{RarityEpic, budget - exotic - legendary - mythic},
		}
	default:
		g.mu.Unlock()
		return nil, ConfigErrorf("unknown pack tier %q", tier)
	}

	// The leak swaps one card of the pack's top band for one card a tier
	// above it.
	if leakChance > 0 && g.rng.Float64() < leakChance && bands[0].count > 0 {
		bands[0].count--
		bands = append([]band{{leakTo, 1}}, bands...)
	}
	g.mu.Unlock()

	var drafts []Draft
	for _, b := range bands {
		if b.count <= 0 {
			continue
		}
		rarity := b.rarity
		got, err := g.Generate(ctx, Options{
			Table:       BasicTable(),
			Count:       b.count,
			FixedRarity: &rarity,
			PackMode:    true,
			Actor:       actor,
		})
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, got...)
	}
	return drafts, nil
}
