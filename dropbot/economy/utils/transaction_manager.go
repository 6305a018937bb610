package utils

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/dropcards/dropbot/dropbot/content"
	"github.com/dropcards/dropbot/dropbot/database/models"
	"github.com/dropcards/dropbot/dropbot/game"
)

// TransactionOptions configures transaction behavior
type TransactionOptions struct {
	IsolationLevel sql.IsolationLevel
	Timeout        time.Duration
}

// EconomicTransactionManager provides standardized transaction utilities for
// economic operations. Every mutating rule commits through here so that no
// partial balance or inventory state can land.
type EconomicTransactionManager struct {
	db *bun.DB
}

func NewEconomicTransactionManager(db *bun.DB) *EconomicTransactionManager {
	return &EconomicTransactionManager{db: db}
}

func StandardTransactionOptions() *TransactionOptions {
	return &TransactionOptions{
		IsolationLevel: sql.LevelReadCommitted,
		Timeout:        DefaultTxTimeout,
	}
}

func SerializableTransactionOptions() *TransactionOptions {
	return &TransactionOptions{
		IsolationLevel: sql.LevelSerializable,
		Timeout:        DefaultTxTimeout,
	}
}

// WithTransaction executes a function within a database transaction
func (etm *EconomicTransactionManager) WithTransaction(ctx context.Context, opts *TransactionOptions, fn func(context.Context, bun.Tx) error) error {
	if opts == nil {
		opts = StandardTransactionOptions()
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	tx, err := etm.db.BeginTx(timeoutCtx, &sql.TxOptions{
		Isolation: opts.IsolationLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(timeoutCtx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func balanceColumn(currency content.Currency) (string, error) {
	switch currency {
	case content.CurrencySilver:
		return "silver", nil
	case content.CurrencyStar:
		return "star", nil
	case content.CurrencyGem:
		return "gem", nil
	case content.CurrencyVoucher:
		return "voucher", nil
	default:
		return "", game.ConfigErrorf("undefined currency %q", currency)
	}
}

// AdjustBalance applies a signed delta to one currency. Deductions are
// conditional on sufficient funds; hitting the floor yields a rejection and
// no change.
func (etm *EconomicTransactionManager) AdjustBalance(ctx context.Context, tx bun.Tx, userID string, currency content.Currency, delta int64) error {
	col, err := balanceColumn(currency)
	if err != nil {
		return err
	}

	q := tx.NewUpdate().
		Model((*models.User)(nil)).
		Set(col+" = "+col+" + ?", delta).
		Set("updated_at = ?", time.Now()).
		Where("discord_id = ?", userID)
	if delta < 0 {
		q = q.Where(col+" >= ?", -delta)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update %s balance: %w", col, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		if delta < 0 {
			return game.Rejectf("You don't have enough %s.", currency)
		}
		return game.RejectConcurrentf("User record no longer exists.")
	}
	return nil
}

// AddItem upsert-increments an inventory row inside the transaction.
func (etm *EconomicTransactionManager) AddItem(ctx context.Context, tx bun.Tx, userID, itemID string, quantity int) error {
	now := time.Now()
	item := &models.InventoryItem{
		UserID:     userID,
		ItemID:     itemID,
		Quantity:   quantity,
		ObtainedAt: now,
		UpdatedAt:  now,
	}
	_, err := tx.NewInsert().
		Model(item).
		On("CONFLICT (user_id, item_id) DO UPDATE").
		Set("quantity = inv.quantity + EXCLUDED.quantity").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to add item %s: %w", itemID, err)
	}
	return nil
}

// RemoveItem decrements an inventory row, rejecting when the user holds
// fewer than quantity.
func (etm *EconomicTransactionManager) RemoveItem(ctx context.Context, tx bun.Tx, userID, itemID string, quantity int) error {
	res, err := tx.NewUpdate().
		Model((*models.InventoryItem)(nil)).
		Set("quantity = quantity - ?", quantity).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ? AND item_id = ? AND quantity >= ?", userID, itemID, quantity).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove item %s: %w", itemID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return game.Rejectf("You don't have enough of that item.")
	}

	_, err = tx.NewDelete().
		Model((*models.InventoryItem)(nil)).
		Where("user_id = ? AND item_id = ? AND quantity < 1", userID, itemID).
		Exec(ctx)
	return err
}

// InsertCard persists a generated draft as an owned card.
func (etm *EconomicTransactionManager) InsertCard(ctx context.Context, tx bun.Tx, card *models.Card) error {
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now()
	}
	card.UpdatedAt = time.Now()
	_, err := tx.NewInsert().Model(card).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert card %s: %w", card.CardID, err)
	}
	return nil
}

// DeleteOwnedCard removes a card conditionally on current ownership. The
// rejection is a concurrency one: the proposal saw the card, the commit
// didn't.
func (etm *EconomicTransactionManager) DeleteOwnedCard(ctx context.Context, tx bun.Tx, ownerID, cardID string) error {
	res, err := tx.NewDelete().
		Model((*models.Card)(nil)).
		Where("card_id = ? AND owner_id = ?", cardID, ownerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete card %s: %w", cardID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return game.RejectConcurrentf("Card `%s` no longer exists in your collection.", cardID)
	}
	return nil
}

// SetCardCondition updates a card's condition in place.
func (etm *EconomicTransactionManager) SetCardCondition(ctx context.Context, tx bun.Tx, cardID string, condition game.Condition) error {
	res, err := tx.NewUpdate().
		Model((*models.Card)(nil)).
		Set("condition = ?", condition).
		Set("updated_at = ?", time.Now()).
		Where("card_id = ?", cardID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update card condition: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return game.RejectConcurrentf("Card `%s` no longer exists.", cardID)
	}
	return nil
}

// TransferCard swaps ownership conditionally on the source still holding the
// card.
func (etm *EconomicTransactionManager) TransferCard(ctx context.Context, tx bun.Tx, cardID, fromOwner, toOwner string) error {
	res, err := tx.NewUpdate().
		Model((*models.Card)(nil)).
		Set("owner_id = ?", toOwner).
		Set("updated_at = ?", time.Now()).
		Where("card_id = ? AND owner_id = ?", cardID, fromOwner).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to transfer card %s: %w", cardID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return game.RejectConcurrentf("Card `%s` changed hands before the trade completed.", cardID)
	}
	return nil
}

// GetDB returns the underlying database connection
func (etm *EconomicTransactionManager) GetDB() *bun.DB {
	return etm.db
}
