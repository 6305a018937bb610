package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"

	"github.com/dropcards/dropbot/dropbot"
	"github.com/dropcards/dropbot/dropbot/commands"
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
	"github.com/dropcards/dropbot/dropbot/handlers"
	"github.com/dropcards/dropbot/dropbot/logger"
	"github.com/dropcards/dropbot/dropbot/workflow"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := dropbot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))
	slog.Info("Starting DropBot",
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbStartTime := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.Any("error", err),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()
	slog.Info("Database connected",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema", slog.Any("error", err))
		os.Exit(-1)
	}

	b := dropbot.New(*cfg, version, commit)
	b.DB = db

	b.UserRepo = repositories.NewUserRepository(db.BunDB())
	b.CardRepo = repositories.NewCardRepository(db.BunDB())
	b.InventoryRepo = repositories.NewInventoryRepository(db.BunDB())

	store, err := content.NewStore(content.StoreConfig{
		Key:      cfg.Spaces.Key,
		Secret:   cfg.Spaces.Secret,
		Region:   cfg.Spaces.Region,
		Bucket:   cfg.Spaces.Bucket,
		Root:     cfg.Spaces.Root,
		LocalDir: cfg.Spaces.LocalDir,
	})
	if err != nil {
		slog.Error("Failed to set up content store", slog.Any("error", err))
		os.Exit(-1)
	}
	b.ContentStore = store

	tables, err := store.LoadTables(ctx)
	if err != nil {
		slog.Error("Failed to load content tables", slog.Any("error", err))
		os.Exit(-1)
	}
	b.Tables = tables

	b.Generator = game.NewGenerator(tables.Roster(), b.CardRepo)

	lifeCtx, lifeCancel := context.WithCancel(context.Background())
	defer lifeCancel()

	b.Cooldowns = workflow.NewCooldownManager()
	b.Cooldowns.StartCleanupRoutine(lifeCtx)
	b.Sessions = workflow.NewSessionManager()
	b.Sessions.StartCleanupRoutine(lifeCtx)

	dropManager, err := drop.NewManager(db.BunDB(), b.Generator, b.UserRepo, b.CardRepo, b.InventoryRepo)
	if err != nil {
		slog.Error("Failed to set up drop manager", slog.Any("error", err))
		os.Exit(-1)
	}
	b.DropManager = dropManager
	b.BurnManager = burn.NewManager(db.BunDB())
	b.ForgeManager = forge.NewManager(db.BunDB(), b.Generator, b.InventoryRepo)
	b.CraftManager = craft.NewManager(db.BunDB(), b.Generator, tables, b.CardRepo, b.InventoryRepo)
	b.ShopManager = shop.NewManager(db.BunDB(), b.Generator, tables, b.UserRepo, b.CardRepo, b.InventoryRepo)
	b.TradeManager = trade.NewManager(db.BunDB(), b.UserRepo, b.CardRepo)
	b.DailyManager = daily.NewManager(db.BunDB(), b.UserRepo)
	b.DailyManager.StartResetRoutine(lifeCtx)

	h := handler.New()

	h.Command("/register", handlers.WrapWithLogging("register", commands.RegisterHandler(b)))
	h.Command("/balance", handlers.WrapWithLogging("balance", commands.BalanceHandler(b)))
	h.Command("/profile", handlers.WrapWithLogging("profile", commands.ProfileHandler(b)))
	h.Command("/collection", handlers.WrapWithLogging("collection", commands.CollectionHandler(b)))
	h.Command("/daily", handlers.WrapWithLogging("daily", commands.DailyHandler(b)))
	h.Command("/lock", handlers.WrapWithLogging("lock", commands.LockHandler(b)))
	h.Command("/sleeve", handlers.WrapWithLogging("sleeve", commands.SleeveHandler(b)))

	dropHandler := commands.NewDropHandler(b)
	h.Command("/drop", handlers.WrapWithLogging("drop", dropHandler.HandleDrop))
	h.Component("/drop/", handlers.WrapComponentWithLogging("drop", dropHandler.HandleComponent))

	burnHandler := commands.NewBurnHandler(b)
	h.Command("/burn", handlers.WrapWithLogging("burn", burnHandler.HandleBurn))
	h.Component("/burn/", handlers.WrapComponentWithLogging("burn", burnHandler.HandleComponent))

	fuseHandler := commands.NewFuseHandler(b)
	h.Command("/fuse", handlers.WrapWithLogging("fuse", fuseHandler.HandleFuse))
	h.Component("/fuse/", handlers.WrapComponentWithLogging("fuse", fuseHandler.HandleComponent))

	upgradeHandler := commands.NewUpgradeHandler(b)
	h.Command("/upgrade", handlers.WrapWithLogging("upgrade", upgradeHandler.HandleUpgrade))
	h.Component("/upgrade/", handlers.WrapComponentWithLogging("upgrade", upgradeHandler.HandleComponent))

	craftHandler := commands.NewCraftHandler(b)
	h.Command("/craft", handlers.WrapWithLogging("craft", craftHandler.HandleCraft))
	h.Autocomplete("/craft", craftHandler.HandleAutocomplete)
	h.Component("/craft/", handlers.WrapComponentWithLogging("craft", craftHandler.HandleComponent))

	shopHandler := commands.NewShopHandler(b)
	h.Command("/shop", handlers.WrapWithLogging("shop", shopHandler.HandleShop))

	tradeHandler := commands.NewTradeHandler(b)
	h.Command("/trade", handlers.WrapWithLogging("trade", tradeHandler.HandleTrade))
	h.Component("/trade/", handlers.WrapComponentWithLogging("trade", tradeHandler.HandleComponent))

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err))
		}
	}

	gwCtx, gwCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gwCancel()
	if err = b.Client.OpenGateway(gwCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}
