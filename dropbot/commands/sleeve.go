package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/dropcards/dropbot/dropbot"
	"github.com/dropcards/dropbot/dropbot/utils"
)

var Sleeve = discord.SlashCommandCreate{
	Name:        "sleeve",
	Description: "🛡️ Manage protective card sleeves",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "add",
			Description: "Put a sleeve on a card",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "card",
					Description: "Card ID",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "remove",
			Description: "Take the sleeve off a card",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "card",
					Description: "Card ID",
					Required:    true,
				},
			},
		},
	},
}

func SleeveHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx := context.Background()
		userID := e.User().ID.String()
		data := e.SlashCommandInteractionData()
		cardID := strings.ToUpper(strings.TrimSpace(data.String("card")))

		switch *data.SubCommandName {
		case "add":
			if err := b.ShopManager.AddSleeve(ctx, userID, cardID); err != nil {
				return respondError(e, err)
			}
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf(
				"Card `%s` is now sleeved. The sleeve absorbs its next trade downgrade.", cardID))

		case "remove":
			if err := b.ShopManager.RemoveSleeve(ctx, userID, cardID); err != nil {
				return respondError(e, err)
			}
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf(
				"Sleeve removed from `%s` and returned to your inventory.", cardID))

		default:
			return utils.EH.CreateErrorEmbed(e, "Unknown subcommand.")
		}
	}
}
