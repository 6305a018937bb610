package commands

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/dropcards/dropbot/dropbot"
	"github.com/dropcards/dropbot/dropbot/content"
	"github.com/dropcards/dropbot/dropbot/game"
	"github.com/dropcards/dropbot/dropbot/utils"
)

var Commands = []discord.ApplicationCommandCreate{
	Register,
	Drop,
	Burn,
	Fuse,
	Upgrade,
	Craft,
	Sleeve,
	Lock,
	Shop,
	Trade,
	Daily,
	Balance,
	Profile,
	Collection,
}

// respondError renders domain rejections as user-facing messages and
// everything else as a generic failure, so internals never leak into chat.
func respondError(e *handler.CommandEvent, err error) error {
	if rej, ok := game.AsRejection(err); ok {
		return utils.EH.CreateErrorEmbed(e, rej.Message)
	}
	return utils.EH.CreateErrorEmbed(e, "Something went wrong, try again later.")
}

func respondComponentError(e *handler.ComponentEvent, err error) error {
	if rej, ok := game.AsRejection(err); ok {
		return utils.EH.CreateEphemeralError(e, rej.Message)
	}
	return utils.EH.CreateEphemeralError(e, "Something went wrong, try again later.")
}

// resetOnRejection hands the action's cooldown back when the rejection was
// not the actor's fault.
func resetOnRejection(b *dropbot.Bot, actorID, action string, err error) {
	if rej, ok := game.AsRejection(err); ok && rej.ResetCooldown {
		b.Cooldowns.Reset(actorID, action)
	}
}

// isPremium reports whether the user holds a crown, the membership marker
// granted out of band.
func isPremium(ctx context.Context, b *dropbot.Bot, userID string) bool {
	qty, err := b.InventoryRepo.Quantity(ctx, userID, content.ItemCrown)
	return err == nil && qty > 0
}
