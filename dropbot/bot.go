package dropbot

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"

	"github.com/dropcards/dropbot/dropbot/content"
	"github.com/dropcards/dropbot/dropbot/database"
	"github.com/dropcards/dropbot/dropbot/database/repositories"
	"github.com/dropcards/dropbot/dropbot/economy/burn"
	"github.com/dropcards/dropbot/dropbot/economy/craft"
	"github.com/dropcards/dropbot/dropbot/economy/daily"
	"github.com/dropcards/dropbot/dropbot/economy/drop"
	"github.com/dropcards/dropbot/dropbot/economy/forge"
	"github.com/dropcards/dropbot/dropbot/economy/shop"
	"github.com/dropcards/dropbot/dropbot/economy/trade"
	"github.com/dropcards/dropbot/dropbot/game"
	"github.com/dropcards/dropbot/dropbot/workflow"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
	}
}

// Bot aggregates every long-lived service. Commands reach their managers
// through here.
type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string
	Commit    string

	DB            *database.DB
	UserRepo      repositories.UserRepository
	CardRepo      repositories.CardRepository
	InventoryRepo repositories.InventoryRepository

	ContentStore *content.Store
	Tables       *content.Tables
	Generator    *game.Generator

	Cooldowns *workflow.CooldownManager
	Sessions  *workflow.SessionManager

	DropManager  *drop.Manager
	BurnManager  *burn.Manager
	ForgeManager *forge.Manager
	CraftManager *craft.Manager
	ShopManager  *shop.Manager
	TradeManager *trade.Manager
	DailyManager *daily.Manager
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds, gateway.IntentGuildMessages)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("DropBot is now ready",
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithWatchingActivity("cards hit the floor"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}
}
