package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/uptrace/bun"

	"github.com/dropcards/dropbot/dropbot/database/models"
	"github.com/dropcards/dropbot/dropbot/game"
)

type CardRepository interface {
	// CardIDExists satisfies game.IDChecker for collision retries.
	CardIDExists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, cardID string) (*models.Card, error)
	// GetOwned returns nil when the card does not exist or belongs to
	// someone else.
	GetOwned(ctx context.Context, ownerID, cardID string) (*models.Card, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	// ListByOwner returns the owner's cards ordered by display value,
	// highest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Card, error)
	ListUnlockedByCharacter(ctx context.Context, ownerID, character string) ([]*models.Card, error)

	SetLocked(ctx context.Context, ownerID, cardID string, locked bool) (bool, error)
	SetSleeve(ctx context.Context, ownerID, cardID string, hasSleeve bool) (bool, error)
	SetCondition(ctx context.Context, cardID string, condition game.Condition) (bool, error)
	// TransferOwner moves a card between users only if fromOwner still
	// holds it, reporting whether the swap happened.
	TransferOwner(ctx context.Context, cardID, fromOwner, toOwner string) (bool, error)
	// DeleteOwned removes a card only if the owner still holds it.
	DeleteOwned(ctx context.Context, ownerID, cardID string) (bool, error)
}

type cardRepository struct {
	db *bun.DB
}

func NewCardRepository(db *bun.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) CardIDExists(ctx context.Context, id string) (bool, error) {
	return r.db.NewSelect().
		Model((*models.Card)(nil)).
		Where("card_id = ?", id).
		Exists(ctx)
}

func (r *cardRepository) Create(ctx context.Context, card *models.Card) error {
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now()
	}
	card.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(card).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert card %s: %w", card.CardID, err)
	}
	return nil
}

func (r *cardRepository) GetByID(ctx context.Context, cardID string) (*models.Card, error) {
	var card models.Card
	err := r.db.NewSelect().
		Model(&card).
		Where("card_id = ?", cardID).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) GetOwned(ctx context.Context, ownerID, cardID string) (*models.Card, error) {
	var card models.Card
	err := r.db.NewSelect().
		Model(&card).
		Where("card_id = ? AND owner_id = ?", cardID, ownerID).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	return r.db.NewSelect().
		Model((*models.Card)(nil)).
		Where("owner_id = ?", ownerID).
		Count(ctx)
}

func (r *cardRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Card, error) {
	var cards []*models.Card
	err := r.db.NewSelect().
		Model(&cards).
		Where("owner_id = ?", ownerID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	sortCardsByValue(cards)
	return cards, nil
}

func (r *cardRepository) ListUnlockedByCharacter(ctx context.Context, ownerID, character string) ([]*models.Card, error) {
	var cards []*models.Card
	err := r.db.NewSelect().
		Model(&cards).
		Where("owner_id = ? AND character_name = ? AND locked = false", ownerID, character).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *cardRepository) SetLocked(ctx context.Context, ownerID, cardID string, locked bool) (bool, error) {
	res, err := r.db.NewUpdate().
		Model((*models.Card)(nil)).
		Set("locked = ?", locked).
		Set("updated_at = ?", time.Now()).
		Where("card_id = ? AND owner_id = ?", cardID, ownerID).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (r *cardRepository) SetSleeve(ctx context.Context, ownerID, cardID string, hasSleeve bool) (bool, error) {
	res, err := r.db.NewUpdate().
		Model((*models.Card)(nil)).
		Set("has_sleeve = ?", hasSleeve).
		Set("updated_at = ?", time.Now()).
		Where("card_id = ? AND owner_id = ? AND has_sleeve = ?", cardID, ownerID, !hasSleeve).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (r *cardRepository) SetCondition(ctx context.Context, cardID string, condition game.Condition) (bool, error) {
	res, err := r.db.NewUpdate().
		Model((*models.Card)(nil)).
		Set("condition = ?", condition).
		Set("updated_at = ?", time.Now()).
		Where("card_id = ?", cardID).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (r *cardRepository) TransferOwner(ctx context.Context, cardID, fromOwner, toOwner string) (bool, error) {
	res, err := r.db.NewUpdate().
		Model((*models.Card)(nil)).
		Set("owner_id = ?", toOwner).
		Set("updated_at = ?", time.Now()).
		Where("card_id = ? AND owner_id = ?", cardID, fromOwner).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (r *cardRepository) DeleteOwned(ctx context.Context, ownerID, cardID string) (bool, error) {
	res, err := r.db.NewDelete().
		Model((*models.Card)(nil)).
		Where("card_id = ? AND owner_id = ?", cardID, ownerID).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func sortCardsByValue(cards []*models.Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Value() > cards[j].Value()
	})
}
