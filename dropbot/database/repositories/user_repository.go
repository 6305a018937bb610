package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/dropcards/dropbot/dropbot/database/models"
)

type UserRepository interface {
	// Register creates the user row plus its level, daily and vote
	// sub-records in one transaction. Calling it for an existing user
	// returns the existing row without side effects.
	Register(ctx context.Context, discordID, username string) (*models.User, error)
	GetByDiscordID(ctx context.Context, discordID string) (*models.User, error)

	GetLevel(ctx context.Context, discordID string) (*models.Level, error)
	// AddExp applies exp and rolls the level over as many times as needed.
	AddExp(ctx context.Context, discordID string, exp int64) (*models.Level, error)

	GetDaily(ctx context.Context, discordID string) (*models.Daily, error)
	SetDailyClaim(ctx context.Context, discordID string, claimedAt time.Time, streak int) error
	// SetDailyResetAt stamps the reset boundary on every daily row.
	SetDailyResetAt(ctx context.Context, resetAt time.Time) error
}

type userRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Register(ctx context.Context, discordID, username string) (*models.User, error) {
	existing, err := r.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now()
	user := &models.User{
		DiscordID:     discordID,
		Username:      username,
		BackpackLevel: 1,
		RegisteredAt:  now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewInsert().
			Model(user).
			On("CONFLICT (discord_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}
		// A concurrent registration won the race; keep its records.
		if affected, _ := res.RowsAffected(); affected == 0 {
			return nil
		}

		level := &models.Level{UserID: discordID, CurrentLevel: 1, MaxExp: models.MaxExpForLevel(1), UpdatedAt: now}
		if _, err := tx.NewInsert().Model(level).On("CONFLICT (user_id) DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert level record: %w", err)
		}
		daily := &models.Daily{UserID: discordID, ResetAt: now}
		if _, err := tx.NewInsert().Model(daily).On("CONFLICT (user_id) DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert daily record: %w", err)
		}
		vote := &models.Vote{UserID: discordID}
		if _, err := tx.NewInsert().Model(vote).On("CONFLICT (user_id) DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert vote record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("User registered",
		slog.String("type", "db"),
		slog.String("user_id", discordID),
		slog.String("user_name", username))
	return r.GetByDiscordID(ctx, discordID)
}

func (r *userRepository) GetByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	var user models.User
	err := r.db.NewSelect().
		Model(&user).
		Where("discord_id = ?", discordID).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetLevel(ctx context.Context, discordID string) (*models.Level, error) {
	var level models.Level
	err := r.db.NewSelect().
		Model(&level).
		Where("user_id = ?", discordID).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func (r *userRepository) AddExp(ctx context.Context, discordID string, exp int64) (*models.Level, error) {
	level, err := r.GetLevel(ctx, discordID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, fmt.Errorf("no level record for user %s", discordID)
	}

	level.CurrentExp += exp
	for level.CurrentExp >= level.MaxExp {
		level.CurrentExp -= level.MaxExp
		level.CurrentLevel++
		level.MaxExp = models.MaxExpForLevel(level.CurrentLevel)
	}
	level.UpdatedAt = time.Now()

	_, err = r.db.NewUpdate().
		Model(level).
		Column("current_exp", "current_level", "max_exp", "updated_at").
		Where("user_id = ?", discordID).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update level: %w", err)
	}
	return level, nil
}

func (r *userRepository) GetDaily(ctx context.Context, discordID string) (*models.Daily, error) {
	var daily models.Daily
	err := r.db.NewSelect().
		Model(&daily).
		Where("user_id = ?", discordID).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &daily, nil
}

func (r *userRepository) SetDailyClaim(ctx context.Context, discordID string, claimedAt time.Time, streak int) error {
	_, err := r.db.NewUpdate().
		Model((*models.Daily)(nil)).
		Set("claimed_at = ?", claimedAt).
		Set("streak = ?", streak).
		Where("user_id = ?", discordID).
		Exec(ctx)
	return err
}

func (r *userRepository) SetDailyResetAt(ctx context.Context, resetAt time.Time) error {
	_, err := r.db.NewUpdate().
		Model((*models.Daily)(nil)).
		Set("reset_at = ?", resetAt).
		Where("1 = 1").
		Exec(ctx)
	return err
}
