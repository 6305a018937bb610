package craft

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/uptrace/bun"

	"github.com/dropcards/dropbot/dropbot/content"
	"github.com/dropcards/dropbot/dropbot/database/models"
	"github.com/dropcards/dropbot/dropbot/database/repositories"
	"github.com/dropcards/dropbot/dropbot/economy/utils"
	"github.com/dropcards/dropbot/dropbot/game"
)

// Manager builds specific characters from pooled character cards and items.
type Manager struct {
	txm    *utils.EconomicTransactionManager
	gen    *game.Generator
	tables *content.Tables
	cards  repositories.CardRepository
	inv    repositories.InventoryRepository
}

func NewManager(db *bun.DB, gen *game.Generator, tables *content.Tables, cards repositories.CardRepository, inv repositories.InventoryRepository) *Manager {
	return &Manager{
		txm:    utils.NewEconomicTransactionManager(db),
		gen:    gen,
		tables: tables,
		cards:  cards,
		inv:    inv,
	}
}

// Proposal fixes the full craft outcome: which cards and items get consumed
// and what comes out. Rechecked, but never re-randomized, at commit.
type Proposal struct {
	Character    string
	Rarity       game.Rarity
	StarCost     int64
	ConsumeCards []string
	ConsumeItems map[string]int
	Result       game.Draft
}

// StarCost is the result rarity's star value times the craft multiplier.
func StarCost(rarity game.Rarity) int64 {
	return int64(math.Round(float64(rarity.StarYield()) * utils.CraftStarMultiplier))
}

// resultCondition is the floor of the mean input condition level.
func resultCondition(consumed []game.Condition) game.Condition {
	if len(consumed) == 0 {
		return game.ConditionGood
	}
	total := 0
	for _, c := range consumed {
		total += c.Level()
	}
	return game.ConditionFromLevel(total / len(consumed))
}

// Propose checks every requirement and fixes the outcome. Locked cards
// never count toward requirements.
func (m *Manager) Propose(ctx context.Context, actorID, character string, actor game.ActorModifiers) (*Proposal, error) {
	def, ok := m.tables.Craftable(character)
	if !ok {
		return nil, game.Rejectf("**%s** cannot be crafted.", character)
	}
	rarity, ok := m.tables.Roster().RarityOf(character)
	if !ok {
		return nil, game.ConfigErrorf("craftable %q missing from roster", character)
	}

	var consumeIDs []string
	var consumed []game.Condition
	for name, required := range def.RequiredCharacters {
		owned, err := m.cards.ListUnlockedByCharacter(ctx, actorID, name)
		if err != nil {
			return nil, err
		}
		if len(owned) < required {
			return nil, game.Rejectf("You need %d **%s** card(s), but only have %d unlocked.", required, name, len(owned))
		}
		for _, card := range owned[:required] {
			consumeIDs = append(consumeIDs, card.CardID)
			consumed = append(consumed, card.Condition)
		}
	}

	for itemID, required := range def.RequiredItems {
		have, err := m.inv.Quantity(ctx, actorID, itemID)
		if err != nil {
			return nil, err
		}
		if have < required {
			itemDef, _ := m.tables.Item(itemID)
			return nil, game.Rejectf("You need %d **%s**, but only have %d.", required, itemDef.Name, have)
		}
	}

	special, err := m.gen.RollSpecial(game.BasicTable(), actor)
	if err != nil {
		return nil, err
	}
	id, err := m.gen.NewCardID(ctx)
	if err != nil {
		return nil, err
	}

	return &Proposal{
		Character:    character,
		Rarity:       rarity,
		StarCost:     StarCost(rarity),
		ConsumeCards: consumeIDs,
		ConsumeItems: def.RequiredItems,
		Result: game.Draft{
			ID:        id,
			Rarity:    rarity,
			Condition: resultCondition(consumed),
			Special:   special,
			Character: character,
		},
	}, nil
}

// Commit re-validates every requirement inside the transaction; inventory
// may have changed between the prompts. Nothing is consumed if any check
// fails, and a failed recheck hands the cooldown back.
func (m *Manager) Commit(ctx context.Context, actorID string, p *Proposal) (*models.Card, error) {
	result := &models.Card{
		CardID:    p.Result.ID,
		OwnerID:   actorID,
		Rarity:    p.Result.Rarity,
		Condition: p.Result.Condition,
		Special:   p.Result.Special,
		Character: p.Result.Character,
		CreatedAt: time.Now(),
	}

	err := m.txm.WithTransaction(ctx, utils.StandardTransactionOptions(), func(ctx context.Context, tx bun.Tx) error {
		for _, cardID := range p.ConsumeCards {
			res, err := tx.NewDelete().
				Model((*models.Card)(nil)).
				Where("card_id = ? AND owner_id = ? AND locked = false", cardID, actorID).
				Exec(ctx)
			if err != nil {
				return err
			}
			if affected, _ := res.RowsAffected(); affected == 0 {
				return game.WithCooldownReset(
					game.RejectConcurrentf("A required card (`%s`) is no longer available.", cardID))
			}
		}
		for itemID, quantity := range p.ConsumeItems {
			if err := m.txm.RemoveItem(ctx, tx, actorID, itemID, quantity); err != nil {
				return game.WithCooldownReset(err)
			}
		}
		if err := m.txm.AdjustBalance(ctx, tx, actorID, content.CurrencyStar, -p.StarCost); err != nil {
			return game.WithCooldownReset(err)
		}
		return m.txm.InsertCard(ctx, tx, result)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Card crafted",
		slog.String("type", "cmd"),
		slog.String("user_id", actorID),
		slog.String("character", p.Character),
		slog.String("card_id", result.CardID),
		slog.Int64("star_cost", p.StarCost))
	return result, nil
}
