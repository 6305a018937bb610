package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/dropcards/dropbot/dropbot"
	"github.com/dropcards/dropbot/dropbot/config"
	"github.com/dropcards/dropbot/dropbot/game"
	"github.com/dropcards/dropbot/dropbot/economy/shop"
	"github.com/dropcards/dropbot/dropbot/utils"
)

var Shop = discord.SlashCommandCreate{
	Name:        "shop",
	Description: "🏪 Browse, buy, recycle and use items",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "view",
			Description: "See what's for sale",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "buy",
			Description: "Buy an item",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "item",
					Description: "Item ID",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "amount",
					Description: "How many (default 1)",
					Required:    false,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "recycle",
			Description: "Trade items back for half price",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "item",
					Description: "Item ID",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "amount",
					Description: "How many (default 1)",
					Required:    false,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "use",
			Description: "Open a card pack from your inventory",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "item",
					Description: "Pack item ID, e.g. rare_card_pack",
					Required:    true,
				},
			},
		},
	},
}

type ShopHandler struct {
	bot *dropbot.Bot
}

func NewShopHandler(b *dropbot.Bot) *ShopHandler {
	return &ShopHandler{bot: b}
}

func (h *ShopHandler) HandleShop(e *handler.CommandEvent) error {
	ctx := context.Background()
	userID := e.User().ID.String()
	data := e.SlashCommandInteractionData()
	premium := isPremium(ctx, h.bot, userID)

	switch *data.SubCommandName {
	case "view":
		return h.handleView(e, premium)
	case "buy":
		return h.handleBuy(ctx, e, userID, data.String("item"), intOption(data, "amount"), premium)
	case "recycle":
		return h.handleRecycle(ctx, e, userID, data.String("item"), intOption(data, "amount"))
	case "use":
		return h.handleUse(ctx, e, userID, data.String("item"), premium)
	default:
		return utils.EH.CreateErrorEmbed(e, "Unknown subcommand.")
	}
}

func intOption(data discord.SlashCommandInteractionData, name string) int {
	if v, ok := data.OptInt(name); ok {
		return v
	}
	return 1
}

func (h *ShopHandler) handleView(e *handler.CommandEvent, premium bool) error {
	var sb strings.Builder
	for _, def := range h.bot.Tables.Items() {
		if !def.Purchasable() || !def.Visible {
			continue
		}
		fmt.Fprintf(&sb, "`%s` **%s** — %s %s\n",
			def.ID, def.Name, utils.FormatNumber(shop.ItemPrice(def, premium)), def.Currency)
	}
	if premium {
		sb.WriteString("\n👑 Crown discount applied.")
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("🏪 Item Shop").
		SetDescription(sb.String()).
		SetColor(config.EmbedDefaultColor).
		SetTimestamp(time.Now()).
		Build()
	return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed}})
}

func (h *ShopHandler) handleBuy(ctx context.Context, e *handler.CommandEvent, userID, itemID string, amount int, premium bool) error {
	total, err := h.bot.ShopManager.Buy(ctx, userID, strings.TrimSpace(itemID), amount, premium)
	if err != nil {
		return respondError(e, err)
	}
	return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf(
		"Bought %d× `%s` for **%s**.", amount, itemID, utils.FormatNumber(total)))
}

func (h *ShopHandler) handleRecycle(ctx context.Context, e *handler.CommandEvent, userID, itemID string, amount int) error {
	refund, err := h.bot.ShopManager.Recycle(ctx, userID, strings.TrimSpace(itemID), amount)
	if err != nil {
		return respondError(e, err)
	}
	return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf(
		"Recycled %d× `%s` for **%s** back.", amount, itemID, utils.FormatNumber(refund)))
}

func (h *ShopHandler) handleUse(ctx context.Context, e *handler.CommandEvent, userID, itemID string, premium bool) error {
	itemID = strings.TrimSpace(itemID)
	tier := game.PackTier(strings.TrimSuffix(itemID, "_card_pack"))
	if !tier.Valid() || !strings.HasSuffix(itemID, "_card_pack") {
		return utils.EH.CreateErrorEmbed(e, "Only card packs can be used here.")
	}

	cards, err := h.bot.ShopManager.OpenPack(ctx, userID, tier, game.ActorModifiers{Premium: premium})
	if err != nil {
		return respondError(e, err)
	}

	var sb strings.Builder
	for _, card := range cards {
		sb.WriteString(utils.FormatCardLine(card.CardID, card.Rarity, card.Condition, card.Special, card.Character))
		sb.WriteString("\n")
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("📦 %s pack opened", utils.Title(string(tier)))).
		SetDescription(sb.String()).
		SetColor(config.SuccessColor).
		SetTimestamp(time.Now()).
		Build()
	return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed}})
}
