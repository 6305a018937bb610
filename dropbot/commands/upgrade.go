package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/dropcards/dropbot/dropbot"
	"github.com/dropcards/dropbot/dropbot/config"
	"github.com/dropcards/dropbot/dropbot/game"
	"github.com/dropcards/dropbot/dropbot/utils"
	"github.com/dropcards/dropbot/dropbot/workflow"
)

var Upgrade = discord.SlashCommandCreate{
	Name:        "upgrade",
	Description: "💎 Spend glistening gems to raise a card's condition",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "card",
			Description: "Card ID to upgrade",
			Required:    true,
		},
	},
}

type UpgradeHandler struct {
	bot *dropbot.Bot
}

func NewUpgradeHandler(b *dropbot.Bot) *UpgradeHandler {
	return &UpgradeHandler{bot: b}
}

func (h *UpgradeHandler) HandleUpgrade(e *handler.CommandEvent) error {
	ctx := context.Background()
	userID := e.User().ID.String()
	cardID := strings.ToUpper(strings.TrimSpace(e.SlashCommandInteractionData().String("card")))

	card, err := h.bot.CardRepo.GetOwned(ctx, userID, cardID)
	if err != nil {
		return respondError(e, err)
	}
	if card == nil {
		return utils.EH.CreateErrorEmbed(e, fmt.Sprintf(
			"I couldn't find any card with the ID `%s` in your collection.", cardID))
	}

	proposal, err := h.bot.ForgeManager.ProposeUpgrade(ctx, userID, card)
	if err != nil {
		return respondError(e, err)
	}

	sessionID := e.ID().String()
	session := workflow.NewSession(workflow.SessionConfig{
		ActorID: userID,
		Timeout: config.ConfirmationTimeout,
		Commit: func(ctx context.Context) error {
			return h.bot.ForgeManager.CommitUpgrade(ctx, userID, proposal)
		},
		OnExpire: func() {
			h.bot.Sessions.Remove(sessionID)
		},
	})
	h.bot.Sessions.Put(sessionID, session)

	embed := discord.NewEmbedBuilder().
		SetTitle("💎 Confirm Upgrade").
		SetDescription(fmt.Sprintf(
			"%s\n\n**%s** → **%s**\n**Cost:** %d glistening gem(s)",
			utils.FormatCardLine(card.CardID, card.Rarity, card.Condition, card.Special, card.Character),
			card.Condition, proposal.NewCondition, proposal.GemCost)).
		SetColor(config.EmbedDefaultColor).
		SetTimestamp(time.Now()).
		Build()

	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{embed},
		Components: []discord.ContainerComponent{discord.NewActionRow(
			discord.NewSuccessButton("Upgrade", fmt.Sprintf("/upgrade/confirm/%s", sessionID)),
			discord.NewDangerButton("Cancel", fmt.Sprintf("/upgrade/decline/%s", sessionID)),
		)},
	})
}

func (h *UpgradeHandler) HandleComponent(e *handler.ComponentEvent) error {
	ctx := context.Background()
	userID := e.User().ID.String()

	parts := strings.Split(e.Data.CustomID(), "/")
	if len(parts) != 4 {
		return utils.EH.CreateEphemeralError(e, "Invalid interaction.")
	}
	action, sessionID := parts[2], parts[3]

	session, ok := h.bot.Sessions.Get(sessionID)
	if !ok {
		return utils.EH.CreateEphemeralError(e, "This upgrade is no longer active.")
	}

	switch action {
	case "confirm":
		err := session.Accept(ctx, userID)
		if errors.Is(err, workflow.ErrUnauthorizedActor) {
			return utils.EH.CreateEphemeralError(e, "These controls belong to someone else.")
		}
		if errors.Is(err, workflow.ErrSessionDone) {
			return utils.EH.CreateEphemeralError(e, "This upgrade is no longer active.")
		}
		h.bot.Sessions.Remove(sessionID)
		if err != nil {
			if rej, ok := game.AsRejection(err); ok {
				return finishSessionMessage(e, "Upgrade Failed", rej.Message, config.ErrorColor)
			}
			return finishSessionMessage(e, "Upgrade Failed", "Something went wrong, try again later.", config.ErrorColor)
		}
		return finishSessionMessage(e, "💎 Upgraded", "The card gleams with its improved condition.", config.SuccessColor)

	case "decline":
		err := session.Decline(userID)
		if errors.Is(err, workflow.ErrUnauthorizedActor) {
			return utils.EH.CreateEphemeralError(e, "These controls belong to someone else.")
		}
		h.bot.Sessions.Remove(sessionID)
		return finishSessionMessage(e, "Upgrade Cancelled", "No gems were spent.", config.ErrorColor)

	default:
		return utils.EH.CreateEphemeralError(e, "Invalid interaction.")
	}
}
