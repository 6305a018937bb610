package game

import "math/rand"

// WeightTable names a weighted-probability configuration for the three card
// axes. Weights are relative; they need not sum to anything in particular.
// Entries keep declaration order so sampling is deterministic for a seeded
// source.
type WeightTable struct {
	Name      string
	Rarity    []RarityWeight
	Condition []ConditionWeight
	Special   []SpecialWeight
}

type RarityWeight struct {
	Value  Rarity
	Weight float64
}

type ConditionWeight struct {
	Value  Condition
	Weight float64
}

type SpecialWeight struct {
	Value  SpecialRarity
	Weight float64
}

// NewUserTable omits high rarities entirely. Applied to drops for accounts
// below level 5.
func NewUserTable() WeightTable {
	return WeightTable{
		Name: "new_user",
		Rarity: []RarityWeight{
			{RarityCommon, 65},
			{RarityUncommon, 20},
			{RarityRare, 10},
			{RarityEpic, 5},
		},
		Condition: []ConditionWeight{
			{ConditionDamaged, 16},
			{ConditionPoor, 45},
			{ConditionGood, 25},
			{ConditionNearMint, 10},
			{ConditionMint, 3},
			{ConditionPristine, 1},
		},
		Special: []SpecialWeight{
			{SpecialNone, 100},
		},
	}
}

// BasicTable is the standard drop distribution.
func BasicTable() WeightTable {
	return WeightTable{
		Name: "basic",
		Rarity: []RarityWeight{
			{RarityCommon, 46.5},
			{RarityUncommon, 30},
			{RarityRare, 16.1},
			{RarityEpic, 6},
			{RarityMythic, 1.25},
			{RarityLegendary, 0.15},
		},
		Condition: []ConditionWeight{
			{ConditionDamaged, 10},
			{ConditionPoor, 20},
			{ConditionGood, 45},
			{ConditionNearMint, 19},
			{ConditionMint, 5},
			{ConditionPristine, 1},
		},
		Special: []SpecialWeight{
			{SpecialNone, 99.95},
			{SpecialShiny, 0.05},
		},
	}
}

// PremiumTable backs premium drops. Commons are absent.
func PremiumTable() WeightTable {
	return WeightTable{
		Name: "premium",
		Rarity: []RarityWeight{
			{RarityUncommon, 50},
			{RarityRare, 30},
			{RarityEpic, 16.5},
			{RarityMythic, 2.75},
			{RarityLegendary, 0.75},
		},
		Condition: []ConditionWeight{
			{ConditionDamaged, 10},
			{ConditionPoor, 20},
			{ConditionGood, 45},
			{ConditionNearMint, 18.5},
			{ConditionMint, 5},
			{ConditionPristine, 1.5},
		},
		Special: []SpecialWeight{
			{SpecialNone, 99.8},
			{SpecialShiny, 0.2},
		},
	}
}

// ActorModifiers carries per-actor adjustments supplied by the command
// boundary. Premium actors get the shiny weight doubled, with the increase
// taken out of the plain weight so total mass is unchanged.
type ActorModifiers struct {
	Premium bool
}

// specialWeights applies actor modifiers to a table's special-rarity weights.
func (t WeightTable) specialWeights(actor ActorModifiers) []SpecialWeight {
	if !actor.Premium {
		return t.Special
	}
	out := make([]SpecialWeight, len(t.Special))
	copy(out, t.Special)
	var boost float64
	for i := range out {
		if out[i].Value == SpecialShiny {
			boost = out[i].Weight
			out[i].Weight += boost
		}
	}
	for i := range out {
		if out[i].Value == SpecialNone {
			out[i].Weight -= boost
		}
	}
	return out
}

func sampleRarity(rng *rand.Rand, weights []RarityWeight) (Rarity, error) {
	var total float64
	for _, w := range weights {
		total += w.Weight
	}
	if total <= 0 {
		return "", ConfigErrorf("rarity weights have no mass")
	}
	roll := rng.Float64() * total
	for _, w := range weights {
		roll -= w.Weight
		if roll < 0 {
			return w.Value, nil
		}
	}
	return weights[len(weights)-1].Value, nil
}

func sampleCondition(rng *rand.Rand, weights []ConditionWeight) (Condition, error) {
	var total float64
	for _, w := range weights {
		total += w.Weight
	}
	if total <= 0 {
		return "", ConfigErrorf("condition weights have no mass")
	}
	roll := rng.Float64() * total
	for _, w := range weights {
		roll -= w.Weight
		if roll < 0 {
			return w.Value, nil
		}
	}
	return weights[len(weights)-1].Value, nil
}

func sampleSpecial(rng *rand.Rand, weights []SpecialWeight) (SpecialRarity, error) {
	var total float64
	for _, w := range weights {
		total += w.Weight
	}
	if total <= 0 {
		return "", ConfigErrorf("special rarity weights have no mass")
	}
	roll := rng.Float64() * total
	for _, w := range weights {
		roll -= w.Weight
		if roll < 0 {
			return w.Value, nil
		}
	}
	return weights[len(weights)-1].Value, nil
}
