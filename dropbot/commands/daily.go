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
	"github.com/dropcards/dropbot/dropbot/utils"
)

var Daily = discord.SlashCommandCreate{
	Name:        "daily",
	Description: "📅 Claim your daily reward and build your streak",
}

func DailyHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx := context.Background()
		userID := e.User().ID.String()
		premium := isPremium(ctx, b, userID)

		claim, err := b.DailyManager.Claim(ctx, userID, premium)
		if err != nil {
			return respondError(e, err)
		}

		var parts []string
		if claim.Reward.Silver > 0 {
			parts = append(parts, fmt.Sprintf("**%s** silver", utils.FormatNumber(claim.Reward.Silver)))
		}
		if claim.Reward.Gem > 0 {
			parts = append(parts, fmt.Sprintf("**%d** gem", claim.Reward.Gem))
		}
		for itemID, qty := range claim.Reward.Items {
			def, ok := b.Tables.Item(itemID)
			name := itemID
			if ok {
				name = def.Name
			}
			parts = append(parts, fmt.Sprintf("**%d× %s**", qty, name))
		}

		day := claim.Streak
		if day == 0 {
			day = 7
		}
		desc := fmt.Sprintf("You received %s.\nStreak: **day %d of 7**",
			strings.Join(parts, ", "), day)
		if premium {
			desc += "\n👑 Crown bonus: rewards doubled."
		}

		embed := discord.NewEmbedBuilder().
			SetTitle("📅 Daily Claimed").
			SetDescription(desc).
			SetColor(config.SuccessColor).
			SetTimestamp(time.Now()).
			Build()
		return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed}})
	}
}
