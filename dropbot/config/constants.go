package config

import "time"

// UI and Display Constants
const (
	// Pagination
	CardsPerPage    = 10
	DefaultPageSize = 10
	MaxPageSize     = 25

	// Colors
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00

	// Discord UI Colors
	BackgroundColor   = 0x2B2D31
	EmbedDefaultColor = 0x2B2D31

	// Rarity Colors
	RarityCommonColor    = 0x808080
	RarityUncommonColor  = 0x00FF00
	RarityRareColor      = 0x0000FF
	RarityEpicColor      = 0x800080
	RarityMythicColor    = 0xFF4500
	RarityLegendaryColor = 0xFFD700
	RarityExoticColor    = 0x00FFFF
	RarityNightmareColor = 0x1A0033
)

// Interaction Constants
const (
	DropViewTimeout     = 10 * time.Second
	ConfirmationTimeout = 30 * time.Second
	TradeTimeout        = 30 * time.Second

	DropCooldown   = 15 * time.Second
	GrabCooldown   = 6 * time.Second
	BurnCooldown   = 60 * time.Second
	CraftCooldown  = 60 * time.Second
)
