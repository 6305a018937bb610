package game

const (
	valueBase               = 10000
	valueRarityStep         = 5000
	valueConditionStep      = 500
	valueShinyBonus         = 26000
	exclusiveValuationLevel = 9
)

// CardValue orders a collection for display. It is not a currency amount.
func CardValue(r Rarity, c Condition, s SpecialRarity) int64 {
	level := r.Level()
	if r.Exclusive() {
		level = exclusiveValuationLevel
	}
	value := int64(valueBase + valueRarityStep*(level-1) + valueConditionStep*c.Level())
	if s == SpecialShiny {
		value += valueShinyBonus
	}
	return value
}
