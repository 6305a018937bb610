package forge

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

// Manager implements fusion of two cards and catalyst-driven condition
// upgrades.
type Manager struct {
	txm *utils.EconomicTransactionManager
	gen *game.Generator
	inv repositories.InventoryRepository
}

func NewManager(db *bun.DB, gen *game.Generator, inv repositories.InventoryRepository) *Manager {
	return &Manager{
		txm: utils.NewEconomicTransactionManager(db),
		gen: gen,
		inv: inv,
	}
}

// FusionProposal is the fixed outcome shown to the actor. Confirming
// commits exactly this result.
type FusionProposal struct {
	ConsumeIDs [2]string
	Result     game.Draft
	StarCost   int64
}

// FusionStarCost is the rarity's star value times the fusion multiplier,
// rounded, with the steeper shiny multiplier applied to shiny pairs.
func FusionStarCost(rarity game.Rarity, shiny bool) int64 {
	mult := utils.FusionStarMultiplier
	if shiny {
		mult = utils.ShinyFusionStarMultiplier
	}
	return int64(math.Round(float64(rarity.StarYield()) * mult))
}

// FusionResultCondition is the shared condition when both inputs match,
// otherwise one step below the better input.
func FusionResultCondition(a, b game.Condition) game.Condition {
	if a == b {
		return a
	}
	best := a
	if b.Level() > a.Level() {
		best = b
	}
	return best.Downgrade()
}

// ProposeFusion validates the pair and computes the result draft.
func (m *Manager) ProposeFusion(ctx context.Context, actorID string, card1, card2 *models.Card) (*FusionProposal, error) {
	if card1.CardID == card2.CardID {
		return nil, game.Rejectf("You must fuse two different cards.")
	}
	if card1.Rarity != card2.Rarity {
		return nil, game.Rejectf("Fused cards must share the same rarity.")
	}
	if card1.Rarity.Valuable() {
		return nil, game.Rejectf("Cards of this rarity are too valuable to fuse.")
	}
	if card1.Locked || card2.Locked {
		return nil, game.Rejectf("Locked cards cannot be fused.")
	}
	shiny := card1.Special == game.SpecialShiny || card2.Special == game.SpecialShiny
	if shiny && card1.Special != card2.Special {
		return nil, game.Rejectf("A shiny card can only be fused with another shiny card.")
	}

	crystals, err := m.inv.Quantity(ctx, actorID, content.ItemFusionCrystal)
	if err != nil {
		return nil, err
	}
	if crystals < 1 {
		return nil, game.Rejectf("You need a fusion crystal to fuse cards.")
	}

	character, err := m.gen.RerollCharacter(card1.Rarity)
	if err != nil {
		return nil, err
	}
	id, err := m.gen.NewCardID(ctx)
	if err != nil {
		return nil, err
	}

	special := game.SpecialNone
	if shiny {
		special = game.SpecialShiny
	}
	return &FusionProposal{
		ConsumeIDs: [2]string{card1.CardID, card2.CardID},
		Result: game.Draft{
			ID:        id,
			Rarity:    card1.Rarity,
			Condition: FusionResultCondition(card1.Condition, card2.Condition),
			Special:   special,
			Character: character,
		},
		StarCost: FusionStarCost(card1.Rarity, shiny),
	}, nil
}

// CommitFusion re-checks the crystal, the star balance and both cards'
// existence inside one transaction, then swaps them for the result.
func (m *Manager) CommitFusion(ctx context.Context, actorID string, p *FusionProposal) (*models.Card, error) {
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
		if err := m.txm.RemoveItem(ctx, tx, actorID, content.ItemFusionCrystal, 1); err != nil {
			return err
		}
		if err := m.txm.AdjustBalance(ctx, tx, actorID, content.CurrencyStar, -p.StarCost); err != nil {
			return err
		}
		for _, cardID := range p.ConsumeIDs {
			if err := m.txm.DeleteOwnedCard(ctx, tx, actorID, cardID); err != nil {
				return err
			}
		}
		return m.txm.InsertCard(ctx, tx, result)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Cards fused",
		slog.String("type", "cmd"),
		slog.String("user_id", actorID),
		slog.String("result_id", result.CardID),
		slog.String("rarity", string(result.Rarity)),
		slog.Int64("star_cost", p.StarCost))
	return result, nil
}

// UpgradeProposal fixes the catalyst cost and target condition.
type UpgradeProposal struct {
	CardID       string
	GemCost      int
	NewCondition game.Condition
}

// ProposeUpgrade computes the catalyst cost for raising the card one
// condition step.
func (m *Manager) ProposeUpgrade(ctx context.Context, actorID string, card *models.Card) (*UpgradeProposal, error) {
	if card.Condition == game.ConditionPristine {
		return nil, game.Rejectf("Card `%s` is already in pristine condition.", card.CardID)
	}

	cost := utils.UpgradeGemCost
	if card.Special == game.SpecialShiny {
		cost = utils.UpgradeShinyGemCost
	}
	gems, err := m.inv.Quantity(ctx, actorID, content.ItemGlisteningGem)
	if err != nil {
		return nil, err
	}
	if gems < cost {
		return nil, game.Rejectf("You need %d glistening gem(s) to upgrade this card.", cost)
	}

	return &UpgradeProposal{
		CardID:       card.CardID,
		GemCost:      cost,
		NewCondition: card.Condition.Upgrade(),
	}, nil
}

// CommitUpgrade re-checks the catalyst and applies the condition change.
func (m *Manager) CommitUpgrade(ctx context.Context, actorID string, p *UpgradeProposal) error {
	err := m.txm.WithTransaction(ctx, utils.StandardTransactionOptions(), func(ctx context.Context, tx bun.Tx) error {
		if err := m.txm.RemoveItem(ctx, tx, actorID, content.ItemGlisteningGem, p.GemCost); err != nil {
			return err
		}
		res, err := tx.NewUpdate().
			Model((*models.Card)(nil)).
			Set("condition = ?", p.NewCondition).
			Set("updated_at = ?", time.Now()).
			Where("card_id = ? AND owner_id = ?", p.CardID, actorID).
			Exec(ctx)
		if err != nil {
			return err
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return game.RejectConcurrentf("Card `%s` no longer exists in your collection.", p.CardID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Card upgraded",
		slog.String("type", "cmd"),
		slog.String("user_id", actorID),
		slog.String("card_id", p.CardID),
		slog.String("condition", string(p.NewCondition)))
	return nil
}
