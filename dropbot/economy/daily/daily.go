package daily

import (
	"context"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/dropcards/dropbot/dropbot/content"
	"github.com/dropcards/dropbot/dropbot/database/repositories"
	"github.com/dropcards/dropbot/dropbot/economy/utils"
	"github.com/dropcards/dropbot/dropbot/game"
)

const streakDays = 7

// Reward is one day's payout on the streak ladder.
type Reward struct {
	Silver int64
	Gem    int64
	Items  map[string]int
}

// streakLadder maps streak day (0-based) to its payout. Day 7 wraps back
// to day 0.
func streakLadder() []Reward {
	return []Reward{
		{Silver: 200},
		{Silver: 300},
		{Silver: 500},
		{Items: map[string]int{content.PackItemID(game.PackRare): 1}},
		{Silver: 1200},
		{Silver: 2000},
		{Gem: 5},
	}
}

// Claim is the outcome of a successful daily.
type Claim struct {
	Reward Reward
	Streak int
}

// Manager settles daily rewards. A claim is available once per UTC day;
// missing a day resets the streak.
type Manager struct {
	txm   *utils.EconomicTransactionManager
	users repositories.UserRepository
}

func NewManager(db *bun.DB, users repositories.UserRepository) *Manager {
	return &Manager{
		txm:   utils.NewEconomicTransactionManager(db),
		users: users,
	}
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func utcMidnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Claim pays out the actor's next streak day. Premium actors get double
// rewards.
func (m *Manager) Claim(ctx context.Context, actorID string, premium bool) (*Claim, error) {
	daily, err := m.users.GetDaily(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if daily == nil {
		return nil, game.Rejectf("You are currently not registered.")
	}

	now := time.Now()
	streak := daily.Streak
	if daily.ClaimedAt != nil {
		if sameUTCDay(*daily.ClaimedAt, now) {
			return nil, game.Rejectf("You already claimed your daily today. Come back after midnight UTC.")
		}
		// A gap of more than one day breaks the streak.
		if utcMidnight(now).Sub(utcMidnight(*daily.ClaimedAt)) > 24*time.Hour {
			streak = 0
		}
	}

	reward := streakLadder()[streak%streakDays]
	if premium {
		reward.Silver *= 2
		reward.Gem *= 2
		if len(reward.Items) > 0 {
			doubled := make(map[string]int, len(reward.Items))
			for id, qty := range reward.Items {
				doubled[id] = qty * 2
			}
			reward.Items = doubled
		}
	}

	newStreak := (streak + 1) % streakDays

	err = m.txm.WithTransaction(ctx, utils.StandardTransactionOptions(), func(ctx context.Context, tx bun.Tx) error {
		if reward.Silver > 0 {
			if err := m.txm.AdjustBalance(ctx, tx, actorID, content.CurrencySilver, reward.Silver); err != nil {
				return err
			}
		}
		if reward.Gem > 0 {
			if err := m.txm.AdjustBalance(ctx, tx, actorID, content.CurrencyGem, reward.Gem); err != nil {
				return err
			}
		}
		for itemID, qty := range reward.Items {
			if err := m.txm.AddItem(ctx, tx, actorID, itemID, qty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := m.users.SetDailyClaim(ctx, actorID, now, newStreak); err != nil {
		return nil, err
	}

	slog.Info("Daily claimed",
		slog.String("type", "cmd"),
		slog.String("user_id", actorID),
		slog.Int("streak", newStreak),
		slog.Bool("premium", premium))
	return &Claim{Reward: reward, Streak: newStreak}, nil
}

// StartResetRoutine stamps the next reset boundary once per UTC midnight so
// profile views can show the countdown.
func (m *Manager) StartResetRoutine(ctx context.Context) {
	go func() {
		for {
			next := utcMidnight(time.Now()).Add(24 * time.Hour)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Until(next)):
			}
			if err := m.users.SetDailyResetAt(ctx, next.Add(24*time.Hour)); err != nil {
				slog.Error("Failed to stamp daily reset",
					slog.String("type", "sys"),
					slog.Any("error", err))
			}
		}
	}()
}
