package shop

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

// Manager sells, recycles and uses items, including card packs and the
// backpack upgrade ladder.
type Manager struct {
	txm    *utils.EconomicTransactionManager
	gen    *game.Generator
	tables *content.Tables
	users  repositories.UserRepository
	cards  repositories.CardRepository
	inv    repositories.InventoryRepository
}

func NewManager(db *bun.DB, gen *game.Generator, tables *content.Tables, users repositories.UserRepository, cards repositories.CardRepository, inv repositories.InventoryRepository) *Manager {
	return &Manager{
		txm:    utils.NewEconomicTransactionManager(db),
		gen:    gen,
		tables: tables,
		users:  users,
		cards:  cards,
		inv:    inv,
	}
}

// ItemPrice applies the flat premium discount, rounded.
func ItemPrice(def content.ItemDef, premium bool) int64 {
	if def.Price == nil {
		return 0
	}
	price := *def.Price
	if premium {
		price = int64(math.Round(float64(price) * (1 - utils.PremiumDiscount)))
	}
	return price
}

// BackpackUpgradePrice follows the bespoke per-level formula.
func BackpackUpgradePrice(level int) int64 {
	l := float64(level)
	return int64(math.Round((50*l)*(l/2) + (50*l)*2 - 50))
}

// Buy purchases amount of an item, deducting its currency atomically with
// the inventory grant. Backpack upgrades mutate the account level instead
// of granting an item.
func (m *Manager) Buy(ctx context.Context, actorID, itemID string, amount int, premium bool) (int64, error) {
	def, ok := m.tables.Item(itemID)
	if !ok || !def.Purchasable() || !def.Visible {
		return 0, game.Rejectf("That item is not for sale.")
	}
	if amount < 1 {
		return 0, game.Rejectf("You must buy at least one.")
	}

	level, err := m.users.GetLevel(ctx, actorID)
	if err != nil {
		return 0, err
	}
	if level == nil {
		return 0, game.Rejectf("You are currently not registered.")
	}
	if level.CurrentLevel < utils.ShopRequiredLevel {
		return 0, game.Rejectf("You must be at least **level %d** to buy from the shop.", utils.ShopRequiredLevel)
	}

	if itemID == content.ItemBackpackUpgrade {
		return m.buyBackpackUpgrade(ctx, actorID, def, premium)
	}

	total := ItemPrice(def, premium) * int64(amount)
	err = m.txm.WithTransaction(ctx, utils.StandardTransactionOptions(), func(ctx context.Context, tx bun.Tx) error {
		if err := m.txm.AdjustBalance(ctx, tx, actorID, def.Currency, -total); err != nil {
			return err
		}
		return m.txm.AddItem(ctx, tx, actorID, itemID, amount)
	})
	if err != nil {
		return 0, err
	}

	slog.Info("Item purchased",
		slog.String("type", "cmd"),
		slog.String("user_id", actorID),
		slog.String("item_id", itemID),
		slog.Int("amount", amount),
		slog.Int64("price", total))
	return total, nil
}

func (m *Manager) buyBackpackUpgrade(ctx context.Context, actorID string, def content.ItemDef, premium bool) (int64, error) {
	user, err := m.users.GetByDiscordID(ctx, actorID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, game.Rejectf("You are currently not registered.")
	}
	if user.BackpackLevel >= models.MaxBackpackLevel {
		return 0, game.Rejectf("Your backpack is already at the maximum level.")
	}

	price := BackpackUpgradePrice(user.BackpackLevel)
	if premium {
		price = int64(math.Round(float64(price) * (1 - utils.PremiumDiscount)))
	}

	currentLevel := user.BackpackLevel
	err = m.txm.WithTransaction(ctx, utils.StandardTransactionOptions(), func(ctx context.Context, tx bun.Tx) error {
		if err := m.txm.AdjustBalance(ctx, tx, actorID, def.Currency, -price); err != nil {
			return err
		}
		res, err := tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("backpack_level = backpack_level + 1").
			Set("updated_at = ?", time.Now()).
			Where("discord_id = ? AND backpack_level = ?", actorID, currentLevel).
			Exec(ctx)
		if err != nil {
			return err
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return game.RejectConcurrentf("Your backpack level changed, try again.")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return price, nil
}

// Recycle trades items back for half their base price each.
func (m *Manager) Recycle(ctx context.Context, actorID, itemID string, amount int) (int64, error) {
	def, ok := m.tables.Item(itemID)
	if !ok || !def.Purchasable() {
		return 0, game.Rejectf("That item cannot be recycled.")
	}
	if amount < 1 {
		return 0, game.Rejectf("You must recycle at least one.")
	}

	refund := (*def.Price / 2) * int64(amount)
	err := m.txm.WithTransaction(ctx, utils.StandardTransactionOptions(), func(ctx context.Context, tx bun.Tx) error {
		if err := m.txm.RemoveItem(ctx, tx, actorID, itemID, amount); err != nil {
			return err
		}
		return m.txm.AdjustBalance(ctx, tx, actorID, def.Currency, refund)
	})
	if err != nil {
		return 0, err
	}
	return refund, nil
}

// OpenPack consumes a pack item and deals its cards into the actor's
// collection, respecting the backpack cap.
func (m *Manager) OpenPack(ctx context.Context, actorID string, tier game.PackTier, actor game.ActorModifiers) ([]*models.Card, error) {
	if !tier.Valid() {
		return nil, game.Rejectf("Unknown pack tier.")
	}
	user, err := m.users.GetByDiscordID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, game.Rejectf("You are currently not registered.")
	}
	if cap := user.BackpackCapacity(); cap >= 0 {
		count, err := m.cards.CountByOwner(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if count+tier.Budget() > cap {
			return nil, game.Rejectf("Your backpack doesn't have room for %d more cards.", tier.Budget())
		}
	}

	drafts, err := m.gen.OpenPack(ctx, tier, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cards := make([]*models.Card, 0, len(drafts))
	for _, d := range drafts {
		cards = append(cards, &models.Card{
			CardID:    d.ID,
			OwnerID:   actorID,
			Rarity:    d.Rarity,
			Condition: d.Condition,
			Special:   d.Special,
			Character: d.Character,
			CreatedAt: now,
		})
	}

	err = m.txm.WithTransaction(ctx, utils.StandardTransactionOptions(), func(ctx context.Context, tx bun.Tx) error {
		if err := m.txm.RemoveItem(ctx, tx, actorID, content.PackItemID(tier), 1); err != nil {
			return err
		}
		for _, card := range cards {
			// Troll drafts are skipped at claim time, not persisted.
			if card.Character == game.TrollName {
				continue
			}
			if err := m.txm.InsertCard(ctx, tx, card); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Pack opened",
		slog.String("type", "cmd"),
		slog.String("user_id", actorID),
		slog.String("tier", string(tier)),
		slog.Int("cards", len(cards)))
	return cards, nil
}

// AddSleeve spends one card sleeve to protect a card from its next
// downgrade.
func (m *Manager) AddSleeve(ctx context.Context, actorID, cardID string) error {
	card, err := m.cards.GetOwned(ctx, actorID, cardID)
	if err != nil {
		return err
	}
	if card == nil {
		return game.Rejectf("I couldn't find any card with the ID `%s` in your collection.", cardID)
	}
	if card.HasSleeve {
		return game.Rejectf("Card `%s` already has a sleeve.", cardID)
	}

	return m.txm.WithTransaction(ctx, utils.StandardTransactionOptions(), func(ctx context.Context, tx bun.Tx) error {
		if err := m.txm.RemoveItem(ctx, tx, actorID, content.ItemCardSleeve, 1); err != nil {
			return err
		}
		res, err := tx.NewUpdate().
			Model((*models.Card)(nil)).
			Set("has_sleeve = true").
			Set("updated_at = ?", time.Now()).
			Where("card_id = ? AND owner_id = ? AND has_sleeve = false", cardID, actorID).
			Exec(ctx)
		if err != nil {
			return err
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return game.RejectConcurrentf("Card `%s` is no longer available.", cardID)
		}
		return nil
	})
}

// RemoveSleeve takes the sleeve off and refunds the item.
func (m *Manager) RemoveSleeve(ctx context.Context, actorID, cardID string) error {
	return m.txm.WithTransaction(ctx, utils.StandardTransactionOptions(), func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.Card)(nil)).
			Set("has_sleeve = false").
			Set("updated_at = ?", time.Now()).
			Where("card_id = ? AND owner_id = ? AND has_sleeve = true", cardID, actorID).
			Exec(ctx)
		if err != nil {
			return err
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return game.Rejectf("Card `%s` doesn't have a sleeve.", cardID)
		}
		return m.txm.AddItem(ctx, tx, actorID, content.ItemCardSleeve, 1)
	})
}
