package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/dropcards/dropbot/dropbot"
	"github.com/dropcards/dropbot/dropbot/config"
	"github.com/dropcards/dropbot/dropbot/utils"
)

var Balance = discord.SlashCommandCreate{
	Name:        "balance",
	Description: "💰 Check your currency balances",
}

func BalanceHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx := context.Background()
		userID := e.User().ID.String()

		user, err := b.UserRepo.GetByDiscordID(ctx, userID)
		if err != nil {
			return respondError(e, err)
		}
		if user == nil {
			return utils.EH.CreateErrorEmbed(e, "You are currently not registered. Use `/register` first.")
		}

		embed := discord.NewEmbedBuilder().
			SetTitle(fmt.Sprintf("💰 %s's Balance", user.Username)).
			SetDescription(fmt.Sprintf(
				"🪙 Silver: **%s**\n⭐ Star: **%s**\n💎 Gem: **%s**\n🎟️ Voucher: **%s**",
				utils.FormatNumber(user.Silver),
				utils.FormatNumber(user.Star),
				utils.FormatNumber(user.Gem),
				utils.FormatNumber(user.Voucher))).
			SetColor(config.EmbedDefaultColor).
			SetTimestamp(time.Now()).
			Build()
		return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed}})
	}
}
