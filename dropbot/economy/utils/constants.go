package utils

import "time"

const (
	DefaultTxTimeout = 30 * time.Second
)

// Rule constants shared across the economy managers.
const (
	// Burn
	BurnAgeBonusDivisor = 4
	BurnAgeCapDays      = 60

	// Fusion and crafting star costs
	FusionStarMultiplier      = 2.5
	ShinyFusionStarMultiplier = 20.0
	CraftStarMultiplier       = 2.5

	// Upgrade catalyst costs
	UpgradeGemCost      = 1
	UpgradeShinyGemCost = 4

	// Shop
	PremiumDiscount = 0.20

	// Trading
	TradeDowngradeChance = 0.5
	TradeRequiredLevel   = 5
	ShopRequiredLevel    = 5
)
