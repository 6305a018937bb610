package game

// Rarity is the primary axis of a card. Levels totally order the standard
// rarities; exclusive rarities sit outside weighted generation and level
// range filters.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityMythic    Rarity = "mythic"
	RarityLegendary Rarity = "legendary"
	RarityExotic    Rarity = "exotic"
	RarityNightmare Rarity = "nightmare"

	// Exclusive tier, only obtainable through events.
	RarityIcicle Rarity = "icicle"
)

// StandardRarities lists every non-exclusive rarity in ascending level order.
func StandardRarities() []Rarity {
	return []Rarity{
		RarityCommon,
		RarityUncommon,
		RarityRare,
		RarityEpic,
		RarityMythic,
		RarityLegendary,
		RarityExotic,
		RarityNightmare,
	}
}

func (r Rarity) Level() int {
	switch r {
	case RarityCommon:
		return 1
	case RarityUncommon:
		return 2
	case RarityRare:
		return 3
	case RarityEpic:
		return 4
	case RarityMythic:
		return 5
	case RarityLegendary:
		return 6
	case RarityExotic:
		return 7
	case RarityNightmare:
		return 8
	default:
		return 0
	}
}

func (r Rarity) Exclusive() bool {
	return r.Level() == 0
}

// Valuable rarities cannot be burned or consumed by fusion.
func (r Rarity) Valuable() bool {
	return r == RarityExotic || r == RarityNightmare || r.Exclusive()
}

// SilverRange returns the inclusive silver yield range for burning a card of
// this rarity. Rarities above legendary have no silver yield because they
// cannot be burned.
func (r Rarity) SilverRange() (int64, int64) {
	switch r {
	case RarityCommon:
		return 10, 40
	case RarityUncommon:
		return 50, 75
	case RarityRare:
		return 100, 350
	case RarityEpic:
		return 500, 750
	case RarityMythic:
		return 1000, 4750
	case RarityLegendary:
		return 5000, 9750
	default:
		return 0, 0
	}
}

func (r Rarity) StarYield() int64 {
	switch r {
	case RarityCommon:
		return 3
	case RarityUncommon:
		return 12
	case RarityRare:
		return 33
	case RarityEpic:
		return 72
	case RarityMythic:
		return 138
	case RarityLegendary:
		return 228
	case RarityExotic:
		return 486
	case RarityNightmare:
		return 972
	default:
		return 0
	}
}

// NextUp returns the rarity one level above r, saturating at nightmare.
func (r Rarity) NextUp() Rarity {
	all := StandardRarities()
	for i, v := range all {
		if v == r && i < len(all)-1 {
			return all[i+1]
		}
	}
	return r
}

// Condition is the wear axis of a card, a six step linear chain.
type Condition string

const (
	ConditionDamaged  Condition = "damaged"
	ConditionPoor     Condition = "poor"
	ConditionGood     Condition = "good"
	ConditionNearMint Condition = "near_mint"
	ConditionMint     Condition = "mint"
	ConditionPristine Condition = "pristine"
)

// Conditions lists every condition in ascending level order.
func Conditions() []Condition {
	return []Condition{
		ConditionDamaged,
		ConditionPoor,
		ConditionGood,
		ConditionNearMint,
		ConditionMint,
		ConditionPristine,
	}
}

func (c Condition) Level() int {
	switch c {
	case ConditionDamaged:
		return 1
	case ConditionPoor:
		return 2
	case ConditionGood:
		return 3
	case ConditionNearMint:
		return 4
	case ConditionMint:
		return 5
	case ConditionPristine:
		return 6
	default:
		return 0
	}
}

func (c Condition) StarYield() int64 {
	switch c {
	case ConditionDamaged:
		return 3
	case ConditionPoor:
		return 12
	case ConditionGood:
		return 33
	case ConditionNearMint:
		return 72
	case ConditionMint:
		return 138
	case ConditionPristine:
		return 228
	default:
		return 0
	}
}

// Upgrade moves one step up the chain, saturating at pristine.
func (c Condition) Upgrade() Condition {
	all := Conditions()
	for i, v := range all {
		if v == c && i < len(all)-1 {
			return all[i+1]
		}
	}
	return c
}

// Downgrade moves one step down the chain, saturating at damaged.
func (c Condition) Downgrade() Condition {
	all := Conditions()
	for i, v := range all {
		if v == c && i > 0 {
			return all[i-1]
		}
	}
	return c
}

// ConditionFromLevel maps a numeric level back onto the chain. Levels outside
// 1..6 clamp to the nearest end.
func ConditionFromLevel(level int) Condition {
	all := Conditions()
	if level < 1 {
		return all[0]
	}
	if level > len(all) {
		return all[len(all)-1]
	}
	return all[level-1]
}

// SpecialRarity is an axis orthogonal to Rarity.
type SpecialRarity string

const (
	SpecialNone  SpecialRarity = "unknown"
	SpecialShiny SpecialRarity = "shiny"
)
