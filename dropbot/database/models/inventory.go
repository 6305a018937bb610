package models

import (
	"time"

	"github.com/uptrace/bun"
)

// InventoryItem counts one item type in a user's inventory. Rows never go
// below one; removals that hit zero delete the row.
type InventoryItem struct {
	bun.BaseModel `bun:"table:inventory_items,alias:inv"`

	UserID   string `bun:"user_id,pk"`
	ItemID   string `bun:"item_id,pk"`
	Quantity int    `bun:"quantity,notnull,default:0"`

	ObtainedAt time.Time `bun:"obtained_at,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
