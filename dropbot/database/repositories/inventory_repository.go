package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/dropcards/dropbot/dropbot/database/models"
)

type InventoryRepository interface {
	// AddItem upsert-increments the item count.
	AddItem(ctx context.Context, userID, itemID string, quantity int) error
	// RemoveItem decrements and reaps the row when it reaches zero. It
	// reports false without mutating anything when the user holds fewer
	// than quantity.
	RemoveItem(ctx context.Context, userID, itemID string, quantity int) (bool, error)
	Quantity(ctx context.Context, userID, itemID string) (int, error)
	List(ctx context.Context, userID string) ([]*models.InventoryItem, error)
	HasAll(ctx context.Context, userID string, requirements map[string]int) (bool, error)
}

type inventoryRepository struct {
	db *bun.DB
}

func NewInventoryRepository(db *bun.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) AddItem(ctx context.Context, userID, itemID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	now := time.Now()
	item := &models.InventoryItem{
		UserID:     userID,
		ItemID:     itemID,
		Quantity:   quantity,
		ObtainedAt: now,
		UpdatedAt:  now,
	}
	_, err := r.db.NewInsert().
		Model(item).
		On("CONFLICT (user_id, item_id) DO UPDATE").
		Set("quantity = inv.quantity + EXCLUDED.quantity").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (r *inventoryRepository) RemoveItem(ctx context.Context, userID, itemID string, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	res, err := r.db.NewUpdate().
		Model((*models.InventoryItem)(nil)).
		Set("quantity = quantity - ?", quantity).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ? AND item_id = ? AND quantity >= ?", userID, itemID, quantity).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return false, nil
	}

	_, err = r.db.NewDelete().
		Model((*models.InventoryItem)(nil)).
		Where("user_id = ? AND item_id = ? AND quantity < 1", userID, itemID).
		Exec(ctx)
	return true, err
}

func (r *inventoryRepository) Quantity(ctx context.Context, userID, itemID string) (int, error) {
	var item models.InventoryItem
	err := r.db.NewSelect().
		Model(&item).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return item.Quantity, nil
}

func (r *inventoryRepository) List(ctx context.Context, userID string) ([]*models.InventoryItem, error) {
	var items []*models.InventoryItem
	err := r.db.NewSelect().
		Model(&items).
		Where("user_id = ?", userID).
		Where("quantity > 0").
		Order("item_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) HasAll(ctx context.Context, userID string, requirements map[string]int) (bool, error) {
	for itemID, required := range requirements {
		have, err := r.Quantity(ctx, userID, itemID)
		if err != nil {
			return false, err
		}
		if have < required {
			return false, nil
		}
	}
	return true, nil
}
