package drop

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/uptrace/bun"

	"github.com/dropcards/dropbot/dropbot/content"
	"github.com/dropcards/dropbot/dropbot/database/models"
	"github.com/dropcards/dropbot/dropbot/database/repositories"
	"github.com/dropcards/dropbot/dropbot/economy/utils"
	"github.com/dropcards/dropbot/dropbot/game"
)

const (
	// CardsPerDrop is how many cards a single drop puts on the table.
	CardsPerDrop = 3
	// ViewTimeout is how long a drop stays grabbable.
	ViewTimeout = 10 * time.Second

	sessionCacheSize = 1024
	grabExpMin       = 1
	grabExpMax       = 3
	grabSilverDiv    = 3
)

// Session is one live drop: the dealt drafts plus who grabbed what.
// Sessions are keyed by the message that displays them.
type Session struct {
	mu        sync.Mutex
	DropperID string
	Drafts    []game.Draft
	ExpiresAt time.Time
	grabbed   map[int]string
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// GrabbedBy returns who grabbed the slot, if anyone.
func (s *Session) GrabbedBy(index int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.grabbed[index]
	return id, ok
}

// claim marks the slot taken. It fails if someone got there first.
func (s *Session) claim(index, total int, grabberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= total {
		return game.Rejectf("That card doesn't exist in this drop.")
	}
	if _, taken := s.grabbed[index]; taken {
		return game.RejectResetf("Someone already grabbed that card.")
	}
	s.grabbed[index] = grabberID
	return nil
}

func (s *Session) release(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grabbed, index)
}

// GrabResult is what one successful grab paid out.
type GrabResult struct {
	Draft  game.Draft
	Card   *models.Card
	Silver int64
	Exp    int64
	Dud    bool
}

// Manager deals drops and settles grabs. Dealing touches nothing in the
// database except an optional premium item; persistence happens per grab.
type Manager struct {
	mu       sync.Mutex
	rng      *rand.Rand
	txm      *utils.EconomicTransactionManager
	gen      *game.Generator
	users    repositories.UserRepository
	cards    repositories.CardRepository
	inv      repositories.InventoryRepository
	sessions *lru.Cache
}

func NewManager(db *bun.DB, gen *game.Generator, users repositories.UserRepository, cards repositories.CardRepository, inv repositories.InventoryRepository) (*Manager, error) {
	sessions, err := lru.New(sessionCacheSize)
	if err != nil {
		return nil, err
	}
	return &Manager{
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		txm:      utils.NewEconomicTransactionManager(db),
		gen:      gen,
		users:    users,
		cards:    cards,
		inv:      inv,
		sessions: sessions,
	}, nil
}

// Drop deals a fresh set of drafts for the actor. New accounts draw from a
// softer table; burning a premium drop item switches to the premium table
// and reports that the drop cooldown should be handed back.
func (m *Manager) Drop(ctx context.Context, actorID string, usePremium bool) (*Session, bool, error) {
	level, err := m.users.GetLevel(ctx, actorID)
	if err != nil {
		return nil, false, err
	}
	if level == nil {
		return nil, false, game.Rejectf("You are currently not registered.")
	}

	table := game.BasicTable()
	actor := game.ActorModifiers{}
	resetCooldown := false

	if usePremium {
		removed, err := m.inv.RemoveItem(ctx, actorID, content.ItemPremiumDrop, 1)
		if err != nil {
			return nil, false, err
		}
		if !removed {
			return nil, false, game.Rejectf("You don't have a premium drop.")
		}
		table = game.PremiumTable()
		actor.Premium = true
		resetCooldown = true
	} else if level.CurrentLevel < utils.ShopRequiredLevel {
		table = game.NewUserTable()
	}

	drafts, err := m.gen.Generate(ctx, game.Options{
		Table: table,
		Count: CardsPerDrop,
		Actor: actor,
	})
	if err != nil {
		return nil, false, err
	}

	session := &Session{
		DropperID: actorID,
		Drafts:    drafts,
		ExpiresAt: time.Now().Add(ViewTimeout),
		grabbed:   make(map[int]string, CardsPerDrop),
	}

	slog.Info("Cards dropped",
		slog.String("type", "cmd"),
		slog.String("user_id", actorID),
		slog.Bool("premium", usePremium))
	return session, resetCooldown, nil
}

// Register files the session under its display message so grab components
// can find it.
func (m *Manager) Register(messageID string, session *Session) {
	m.sessions.Add(messageID, session)
}

func (m *Manager) SessionFor(messageID string) (*Session, bool) {
	v, ok := m.sessions.Get(messageID)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Grab claims slot index of the session for grabberID and persists the
// card with its reward. Troll cards are duds: the slot is spent and
// nothing is paid out.
func (m *Manager) Grab(ctx context.Context, messageID, grabberID string, index int) (*GrabResult, error) {
	session, ok := m.SessionFor(messageID)
	if !ok || session.Expired(time.Now()) {
		return nil, game.RejectResetf("This drop has expired.")
	}

	user, err := m.users.GetByDiscordID(ctx, grabberID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, game.Rejectf("You are currently not registered.")
	}

	if err := session.claim(index, len(session.Drafts), grabberID); err != nil {
		return nil, err
	}

	draft := session.Drafts[index]
	if draft.Dud() {
		slog.Info("Dud grabbed",
			slog.String("type", "cmd"),
			slog.String("user_id", grabberID),
			slog.String("card_id", draft.ID))
		return &GrabResult{Draft: draft, Dud: true}, nil
	}

	if cap := user.BackpackCapacity(); cap >= 0 {
		count, err := m.cards.CountByOwner(ctx, grabberID)
		if err != nil {
			session.release(index)
			return nil, err
		}
		if count >= cap {
			session.release(index)
			return nil, game.Rejectf("Your backpack is full. Upgrade it in the shop.")
		}
	}

	lo, hi := draft.Rarity.SilverRange()
	silver := m.randInt64(lo/grabSilverDiv, hi/grabSilverDiv)
	exp := m.randInt64(grabExpMin, grabExpMax)

	card := &models.Card{
		CardID:    draft.ID,
		OwnerID:   grabberID,
		Rarity:    draft.Rarity,
		Condition: draft.Condition,
		Special:   draft.Special,
		Character: draft.Character,
		CreatedAt: time.Now(),
	}

	err = m.txm.WithTransaction(ctx, utils.StandardTransactionOptions(), func(ctx context.Context, tx bun.Tx) error {
		if err := m.txm.InsertCard(ctx, tx, card); err != nil {
			return err
		}
		return m.txm.AdjustBalance(ctx, tx, grabberID, content.CurrencySilver, silver)
	})
	if err != nil {
		session.release(index)
		return nil, err
	}

	if _, err := m.users.AddExp(ctx, grabberID, exp); err != nil {
		slog.Error("Failed to grant grab exp",
			slog.String("type", "db"),
			slog.String("user_id", grabberID),
			slog.Any("error", err))
	}

	slog.Info("Card grabbed",
		slog.String("type", "cmd"),
		slog.String("user_id", grabberID),
		slog.String("card_id", card.CardID),
		slog.Int64("silver", silver))
	return &GrabResult{Draft: draft, Card: card, Silver: silver, Exp: exp}, nil
}

func (m *Manager) randInt64(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo + m.rng.Int63n(hi-lo+1)
}
