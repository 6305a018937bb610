package models

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/dropcards/dropbot/dropbot/game"
)

// Card is one owned card instance, keyed by its short generated code.
type Card struct {
	bun.BaseModel `bun:"table:cards,alias:c"`

	CardID    string             `bun:"card_id,pk"`
	OwnerID   string             `bun:"owner_id,notnull"`
	Rarity    game.Rarity        `bun:"rarity,notnull"`
	Condition game.Condition     `bun:"condition,notnull"`
	Special   game.SpecialRarity `bun:"special_rarity,notnull,default:'unknown'"`
	Character string             `bun:"character_name,notnull"`
	Locked    bool               `bun:"locked,notnull,default:false"`
	HasSleeve bool               `bun:"has_sleeve,notnull,default:false"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Value is the display sort key for collections.
func (c *Card) Value() int64 {
	return game.CardValue(c.Rarity, c.Condition, c.Special)
}

// AgeDays is the full days since creation, used by burn bonuses.
func (c *Card) AgeDays(now time.Time) int {
	days := int(now.Sub(c.CreatedAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
