package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	MaxBackpackLevel      = 5
	CardsPerBackpackLevel = 500
)

// User is the account row. Balances are kept non-negative at the
// application layer; the schema does not enforce it.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID            int64     `bun:"id,pk,autoincrement"`
	DiscordID     string    `bun:"discord_id,notnull,unique"`
	Username      string    `bun:"username,notnull"`
	Silver        int64     `bun:"silver,notnull,default:0"`
	Star          int64     `bun:"star,notnull,default:0"`
	Gem           int64     `bun:"gem,notnull,default:0"`
	Voucher       int64     `bun:"voucher,notnull,default:0"`
	BackpackLevel int       `bun:"backpack_level,notnull,default:1"`
	RegisteredAt  time.Time `bun:"registered_at,notnull,default:current_timestamp"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// BackpackCapacity is the card cap at the user's backpack level. Level 5 is
// unlimited.
func (u *User) BackpackCapacity() int {
	if u.BackpackLevel >= MaxBackpackLevel {
		return -1
	}
	return u.BackpackLevel * CardsPerBackpackLevel
}
