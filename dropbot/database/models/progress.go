package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Level is the 1:1 leveling sub-record, created at registration.
type Level struct {
	bun.BaseModel `bun:"table:levels,alias:lv"`

	UserID       string `bun:"user_id,pk"`
	CurrentExp   int64  `bun:"current_exp,notnull,default:0"`
	CurrentLevel int    `bun:"current_level,notnull,default:1"`
	MaxExp       int64  `bun:"max_exp,notnull,default:43"`

	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// MaxExpForLevel is the exp required to clear the given level. Piecewise
// quadratic so early levels come fast.
func MaxExpForLevel(level int) int64 {
	n := int64(level)
	switch {
	case level < 10:
		return 4*n*n + 3*n + 36
	case level < 25:
		return 6*n*n + 10*n + 60
	default:
		return 8*n*n + 20*n + 120
	}
}

// Daily is the 1:1 daily-streak sub-record.
type Daily struct {
	bun.BaseModel `bun:"table:dailies,alias:d"`

	UserID    string     `bun:"user_id,pk"`
	ClaimedAt *time.Time `bun:"claimed_at"`
	ResetAt   time.Time  `bun:"reset_at,notnull,default:current_timestamp"`
	Streak    int        `bun:"streak,notnull,default:0"`
}

// Vote is the 1:1 vote-streak sub-record.
type Vote struct {
	bun.BaseModel `bun:"table:votes,alias:v"`

	UserID  string     `bun:"user_id,pk"`
	VotedAt *time.Time `bun:"voted_at"`
	Streak  int        `bun:"streak,notnull,default:0"`
}
