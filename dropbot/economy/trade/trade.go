package trade

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/uptrace/bun"

	"github.com/dropcards/dropbot/dropbot/database/models"
	"github.com/dropcards/dropbot/dropbot/database/repositories"
	"github.com/dropcards/dropbot/dropbot/economy/utils"
	"github.com/dropcards/dropbot/dropbot/game"
)

// Offer is one side of a trade: the cards a party puts up.
type Offer struct {
	UserID  string
	CardIDs []string
}

// Proposal is a validated two-party trade awaiting both confirmations.
type Proposal struct {
	Initiator Offer
	Partner   Offer
}

// Manager validates and commits card trades. Every traded card risks a
// condition downgrade on transfer; a sleeve absorbs the downgrade and is
// destroyed instead.
type Manager struct {
	mu    sync.Mutex
	rng   *rand.Rand
	txm   *utils.EconomicTransactionManager
	users repositories.UserRepository
	cards repositories.CardRepository
}

func NewManager(db *bun.DB, users repositories.UserRepository, cards repositories.CardRepository) *Manager {
	return &Manager{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		txm:   utils.NewEconomicTransactionManager(db),
		users: users,
		cards: cards,
	}
}

// Propose checks both parties and both offers up front. Ownership is
// re-checked again at commit time.
func (m *Manager) Propose(ctx context.Context, initiatorID, partnerID string, initiatorCards, partnerCards []string) (*Proposal, error) {
	if initiatorID == partnerID {
		return nil, game.Rejectf("You can't trade with yourself.")
	}
	if len(initiatorCards) == 0 && len(partnerCards) == 0 {
		return nil, game.Rejectf("A trade needs at least one card on the table.")
	}

	for _, id := range []string{initiatorID, partnerID} {
		level, err := m.users.GetLevel(ctx, id)
		if err != nil {
			return nil, err
		}
		if level == nil {
			return nil, game.Rejectf("<@%s> is currently not registered.", id)
		}
		if level.CurrentLevel < utils.TradeRequiredLevel {
			return nil, game.Rejectf("<@%s> must be at least **level %d** to trade.", id, utils.TradeRequiredLevel)
		}
	}

	if err := m.checkOffer(ctx, initiatorID, initiatorCards); err != nil {
		return nil, err
	}
	if err := m.checkOffer(ctx, partnerID, partnerCards); err != nil {
		return nil, err
	}

	return &Proposal{
		Initiator: Offer{UserID: initiatorID, CardIDs: initiatorCards},
		Partner:   Offer{UserID: partnerID, CardIDs: partnerCards},
	}, nil
}

func (m *Manager) checkOffer(ctx context.Context, userID string, cardIDs []string) error {
	seen := make(map[string]bool, len(cardIDs))
	for _, cardID := range cardIDs {
		if seen[cardID] {
			return game.Rejectf("Card `%s` is listed twice.", cardID)
		}
		seen[cardID] = true

		card, err := m.cards.GetOwned(ctx, userID, cardID)
		if err != nil {
			return err
		}
		if card == nil {
			return game.Rejectf("<@%s> doesn't own a card with the ID `%s`.", userID, cardID)
		}
		if card.Locked {
			return game.Rejectf("Card `%s` is locked.", cardID)
		}
	}
	return nil
}

// Commit swaps ownership of every offered card in one transaction,
// applying the transfer downgrade roll to each card first.
func (m *Manager) Commit(ctx context.Context, p *Proposal) error {
	err := m.txm.WithTransaction(ctx, utils.StandardTransactionOptions(), func(ctx context.Context, tx bun.Tx) error {
		if err := m.transferSide(ctx, tx, p.Initiator, p.Partner.UserID); err != nil {
			return err
		}
		return m.transferSide(ctx, tx, p.Partner, p.Initiator.UserID)
	})
	if err != nil {
		return err
	}

	slog.Info("Trade completed",
		slog.String("type", "cmd"),
		slog.String("initiator_id", p.Initiator.UserID),
		slog.String("partner_id", p.Partner.UserID),
		slog.Int("cards", len(p.Initiator.CardIDs)+len(p.Partner.CardIDs)))
	return nil
}

func (m *Manager) transferSide(ctx context.Context, tx bun.Tx, offer Offer, newOwnerID string) error {
	for _, cardID := range offer.CardIDs {
		var card models.Card
		err := tx.NewSelect().
			Model(&card).
			Where("card_id = ? AND owner_id = ?", cardID, offer.UserID).
			Scan(ctx)
		if err != nil {
			return game.RejectConcurrentf("Card `%s` is no longer available.", cardID)
		}
		if card.Locked {
			return game.RejectConcurrentf("Card `%s` got locked mid-trade.", cardID)
		}

		if m.rollDowngrade() {
			if card.HasSleeve {
				res, err := tx.NewUpdate().
					Model((*models.Card)(nil)).
					Set("has_sleeve = false").
					Set("updated_at = ?", time.Now()).
					Where("card_id = ? AND owner_id = ?", cardID, offer.UserID).
					Exec(ctx)
				if err != nil {
					return err
				}
				if affected, _ := res.RowsAffected(); affected == 0 {
					return game.RejectConcurrentf("Card `%s` is no longer available.", cardID)
				}
			} else if card.Condition != game.ConditionDamaged {
				if err := m.txm.SetCardCondition(ctx, tx, cardID, card.Condition.Downgrade()); err != nil {
					return err
				}
			}
		}

		if err := m.txm.TransferCard(ctx, tx, cardID, offer.UserID, newOwnerID); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) rollDowngrade() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rng.Float64() < utils.TradeDowngradeChance
}
