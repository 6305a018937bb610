package burn

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/uptrace/bun"

	"github.com/dropcards/dropbot/dropbot/content"
	"github.com/dropcards/dropbot/dropbot/database/models"
	"github.com/dropcards/dropbot/dropbot/economy/utils"
	"github.com/dropcards/dropbot/dropbot/game"
)

// Reward is the computed yield of burning one card. It is fixed at proposal
// time; confirming pays out exactly this.
type Reward struct {
	CardID  string
	Silver  int64
	Star    int64
	Items   map[string]int
	AgeDays int
}

// CalculateRewardWithBase derives the full reward from an already sampled
// base silver value. Each full day of card age, capped, adds a quarter of
// the base silver and a quarter of the condition star yield.
func CalculateRewardWithBase(card *models.Card, baseSilver int64, now time.Time) Reward {
	days := card.AgeDays(now)
	if days > utils.BurnAgeCapDays {
		days = utils.BurnAgeCapDays
	}

	star := card.Condition.StarYield()
	r := Reward{
		CardID:  card.CardID,
		Silver:  baseSilver + int64(days)*(baseSilver/utils.BurnAgeBonusDivisor),
		Star:    star + int64(days)*(star/utils.BurnAgeBonusDivisor),
		AgeDays: days,
	}
	if card.Special == game.SpecialShiny {
		r.Items = map[string]int{content.ItemGlisteningGem: 1}
	}
	return r
}

type Manager struct {
	mu  sync.Mutex
	rng *rand.Rand
	txm *utils.EconomicTransactionManager
}

func NewManager(db *bun.DB) *Manager {
	return &Manager{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		txm: utils.NewEconomicTransactionManager(db),
	}
}

// Validate rejects burns of locked or too-valuable cards. Both rejections
// hand the cooldown back: the actor learned the card is unburnable, they
// did not spend the action.
func Validate(card *models.Card) error {
	if card.Locked {
		return game.RejectResetf("Card `%s` is locked and cannot be burned.", card.CardID)
	}
	if card.Rarity.Valuable() {
		return game.RejectResetf("Card `%s` is too valuable to burn.", card.CardID)
	}
	return nil
}

// Propose validates the card and fixes the reward.
func (m *Manager) Propose(card *models.Card) (Reward, error) {
	if err := Validate(card); err != nil {
		return Reward{}, err
	}
	lo, hi := card.Rarity.SilverRange()
	m.mu.Lock()
	base := lo
	if hi > lo {
		base = lo + m.rng.Int63n(hi-lo+1)
	}
	m.mu.Unlock()
	return CalculateRewardWithBase(card, base, time.Now()), nil
}

// Commit destroys the cards and pays out the proposed rewards, all or
// nothing. A card that vanished since the proposal aborts the whole batch.
func (m *Manager) Commit(ctx context.Context, actorID string, rewards []Reward) error {
	return m.txm.WithTransaction(ctx, utils.StandardTransactionOptions(), func(ctx context.Context, tx bun.Tx) error {
		var silver, star int64
		items := make(map[string]int)

		for _, r := range rewards {
			if err := m.txm.DeleteOwnedCard(ctx, tx, actorID, r.CardID); err != nil {
				return game.WithCooldownReset(err)
			}
			silver += r.Silver
			star += r.Star
			for id, n := range r.Items {
				items[id] += n
			}
		}

		if silver > 0 {
			if err := m.txm.AdjustBalance(ctx, tx, actorID, content.CurrencySilver, silver); err != nil {
				return err
			}
		}
		if star > 0 {
			if err := m.txm.AdjustBalance(ctx, tx, actorID, content.CurrencyStar, star); err != nil {
				return err
			}
		}
		for id, n := range items {
			if err := m.txm.AddItem(ctx, tx, actorID, id, n); err != nil {
				return err
			}
		}

		slog.Info("Cards burned",
			slog.String("type", "cmd"),
			slog.String("user_id", actorID),
			slog.Int("cards", len(rewards)),
			slog.Int64("silver", silver),
			slog.Int64("star", star))
		return nil
	})
}
