package commands

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/dropcards/dropbot/dropbot"
	"github.com/dropcards/dropbot/dropbot/utils"
)

var Register = discord.SlashCommandCreate{
	Name:        "register",
	Description: "📝 Create your card collector account",
}

func RegisterHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx := context.Background()
		userID := e.User().ID.String()

		existing, err := b.UserRepo.GetByDiscordID(ctx, userID)
		if err != nil {
			return respondError(e, err)
		}
		if existing != nil {
			return utils.EH.CreateInfoEmbed(e, "You're already registered. Go drop some cards!")
		}

		user, err := b.UserRepo.Register(ctx, userID, e.User().Username)
		if err != nil {
			return respondError(e, err)
		}

		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf(
			"Welcome, **%s**! Your account is ready.\nUse `/drop` to get your first cards.",
			user.Username))
	}
}
