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

var Lock = discord.SlashCommandCreate{
	Name:        "lock",
	Description: "🔒 Lock or unlock a card against burning, fusing and trading",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "card",
			Description: "Card ID",
			Required:    true,
		},
	},
}

func LockHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx := context.Background()
		userID := e.User().ID.String()
		cardID := strings.ToUpper(strings.TrimSpace(e.SlashCommandInteractionData().String("card")))

		card, err := b.CardRepo.GetOwned(ctx, userID, cardID)
		if err != nil {
			return respondError(e, err)
		}
		if card == nil {
			return utils.EH.CreateErrorEmbed(e, fmt.Sprintf(
				"I couldn't find any card with the ID `%s` in your collection.", cardID))
		}

		locked := !card.Locked
		changed, err := b.CardRepo.SetLocked(ctx, userID, cardID, locked)
		if err != nil {
			return respondError(e, err)
		}
		if !changed {
			return utils.EH.CreateErrorEmbed(e, fmt.Sprintf(
				"Card `%s` is no longer available.", cardID))
		}

		if locked {
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf(
				"🔒 Card `%s` is locked. It can't be burned, fused, crafted away or traded.", cardID))
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("🔓 Card `%s` is unlocked.", cardID))
	}
}
