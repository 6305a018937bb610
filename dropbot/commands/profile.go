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

var Profile = discord.SlashCommandCreate{
	Name:        "profile",
	Description: "👤 View a collector's profile",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Whose profile (default: you)",
			Required:    false,
		},
	},
}

func ProfileHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx := context.Background()
		data := e.SlashCommandInteractionData()

		targetID := e.User().ID.String()
		if id, ok := data.OptSnowflake("user"); ok {
			targetID = id.String()
		}

		user, err := b.UserRepo.GetByDiscordID(ctx, targetID)
		if err != nil {
			return respondError(e, err)
		}
		if user == nil {
			return utils.EH.CreateErrorEmbed(e, "That user is not registered.")
		}

		level, err := b.UserRepo.GetLevel(ctx, targetID)
		if err != nil {
			return respondError(e, err)
		}
		cardCount, err := b.CardRepo.CountByOwner(ctx, targetID)
		if err != nil {
			return respondError(e, err)
		}
		daily, err := b.UserRepo.GetDaily(ctx, targetID)
		if err != nil {
			return respondError(e, err)
		}

		capacity := "unlimited"
		if cap := user.BackpackCapacity(); cap >= 0 {
			capacity = utils.FormatNumber(int64(cap))
		}

		desc := fmt.Sprintf(
			"**Level %d** (%s / %s exp)\n\n🎴 Cards: **%d** / %s\n🎒 Backpack level: **%d**",
			level.CurrentLevel,
			utils.FormatNumber(level.CurrentExp),
			utils.FormatNumber(level.MaxExp),
			cardCount, capacity,
			user.BackpackLevel)
		if daily != nil {
			desc += fmt.Sprintf("\n📅 Daily streak: **%d**", daily.Streak)
		}
		if isPremium(ctx, b, targetID) {
			desc += "\n👑 Crown holder"
		}

		embed := discord.NewEmbedBuilder().
			SetTitle(fmt.Sprintf("👤 %s", user.Username)).
			SetDescription(desc).
			SetColor(config.EmbedDefaultColor).
			SetFooterText(fmt.Sprintf("Collector since %s", user.RegisteredAt.Format("Jan 2, 2006"))).
			SetTimestamp(time.Now()).
			Build()
		return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed}})
	}
}
