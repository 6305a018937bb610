package game

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	cardIDLength     = 6
	cardIDAlphabet   = "0123456789abcdefghijklmnopqrstuvwxyz"
	maxIDAttempts    = 8
	packPristinePct  = 10
	packMintPct      = 80
	packNearMintPct  = 10
)

// IDChecker answers whether a freshly rolled card identifier is already
// taken. Generation retries on collision up to maxIDAttempts times.
type IDChecker interface {
	CardIDExists(ctx context.Context, id string) (bool, error)
}

// Draft is a generated but not yet committed card. The caller persists it
// through a mutating action; generation itself touches nothing.
type Draft struct {
	ID        string
	Rarity    Rarity
	Condition Condition
	Special   SpecialRarity
	Character string
}

// Dud reports whether the draft is a Troll card, which bypasses reward
// mechanics downstream.
func (d Draft) Dud() bool {
	return d.Character == TrollName
}

// Options controls a single Generate call. Fixed values bypass sampling for
// that axis. PackMode replaces the table's condition weights with the fixed
// pack distribution.
type Options struct {
	Table          WeightTable
	Count          int
	FixedRarity    *Rarity
	FixedCondition *Condition
	FixedSpecial   *SpecialRarity
	PackMode       bool
	Actor          ActorModifiers
}

type Generator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	roster *Roster
	ids    IDChecker
}

func NewGenerator(roster *Roster, ids IDChecker) *Generator {
	return &Generator{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		roster: roster,
		ids:    ids,
	}
}

// NewSeededGenerator pins the random source, for tests.
func NewSeededGenerator(roster *Roster, ids IDChecker, seed int64) *Generator {
	return &Generator{
		rng:    rand.New(rand.NewSource(seed)),
		roster: roster,
		ids:    ids,
	}
}

func packConditionWeights() []ConditionWeight {
	return []ConditionWeight{
		{ConditionPristine, packPristinePct},
		{ConditionMint, packMintPct},
		{ConditionNearMint, packNearMintPct},
	}
}

// Generate produces opts.Count drafts by sampling the table.
func (g *Generator) Generate(ctx context.Context, opts Options) ([]Draft, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if opts.Count <= 0 {
		opts.Count = 1
	}

	conditionWeights := opts.Table.Condition
	if opts.PackMode {
		conditionWeights = packConditionWeights()
	}
	specialWeights := opts.Table.specialWeights(opts.Actor)

	drafts := make([]Draft, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		var d Draft
		var err error

		if opts.FixedRarity != nil {
			d.Rarity = *opts.FixedRarity
		} else if d.Rarity, err = sampleRarity(g.rng, opts.Table.Rarity); err != nil {
			return nil, err
		}

		if opts.FixedCondition != nil {
			d.Condition = *opts.FixedCondition
		} else if d.Condition, err = sampleCondition(g.rng, conditionWeights); err != nil {
			return nil, err
		}

		if opts.FixedSpecial != nil {
			d.Special = *opts.FixedSpecial
		} else if d.Special, err = sampleSpecial(g.rng, specialWeights); err != nil {
			return nil, err
		}

		if d.Character, err = g.roster.Pick(g.rng, d.Rarity); err != nil {
			return nil, err
		}

		if d.Character == TrollName {
			d.ID = TrollCardID
		} else if d.ID, err = g.newCardID(ctx); err != nil {
			return nil, err
		}

		drafts = append(drafts, d)
	}
	return drafts, nil
}

// RollSpecial samples the special axis alone with actor modifiers applied,
// used by crafting results.
func (g *Generator) RollSpecial(table WeightTable, actor ActorModifiers) (SpecialRarity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return sampleSpecial(g.rng, table.specialWeights(actor))
}

// RerollCharacter picks a fresh character at the given rarity, used by fusion
// results.
func (g *Generator) RerollCharacter(rarity Rarity) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.roster.Pick(g.rng, rarity)
}

// NewCardID rolls an identifier and verifies it against storage, retrying a
// bounded number of times on collision.
func (g *Generator) NewCardID(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.newCardID(ctx)
}

func (g *Generator) newCardID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		var sb strings.Builder
		for i := 0; i < cardIDLength; i++ {
			sb.WriteByte(cardIDAlphabet[g.rng.Intn(len(cardIDAlphabet))])
		}
		id := strings.ToUpper(sb.String())
		if id == TrollCardID {
			continue
		}
		if g.ids == nil {
			return id, nil
		}
		exists, err := g.ids.CardIDExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", ConfigErrorf("card id space exhausted after %d attempts", maxIDAttempts)
}
