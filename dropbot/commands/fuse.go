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
	"github.com/dropcards/dropbot/dropbot/database/models"
	"github.com/dropcards/dropbot/dropbot/game"
	"github.com/dropcards/dropbot/dropbot/utils"
	"github.com/dropcards/dropbot/dropbot/workflow"
)

var Fuse = discord.SlashCommandCreate{
	Name:        "fuse",
	Description: "⚗️ Fuse two cards of the same rarity into a fresh one",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "card_1",
			Description: "First card ID",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "card_2",
			Description: "Second card ID",
			Required:    true,
		},
	},
}

type FuseHandler struct {
	bot *dropbot.Bot
}

func NewFuseHandler(b *dropbot.Bot) *FuseHandler {
	return &FuseHandler{bot: b}
}

func (h *FuseHandler) findOwned(ctx context.Context, userID, raw string) (*models.Card, error) {
	cardID := strings.ToUpper(strings.TrimSpace(raw))
	card, err := h.bot.CardRepo.GetOwned(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, game.Rejectf("I couldn't find any card with the ID `%s` in your collection.", cardID)
	}
	return card, nil
}

func (h *FuseHandler) HandleFuse(e *handler.CommandEvent) error {
	ctx := context.Background()
	userID := e.User().ID.String()
	data := e.SlashCommandInteractionData()

	card1, err := h.findOwned(ctx, userID, data.String("card_1"))
	if err != nil {
		return respondError(e, err)
	}
	card2, err := h.findOwned(ctx, userID, data.String("card_2"))
	if err != nil {
		return respondError(e, err)
	}

	proposal, err := h.bot.ForgeManager.ProposeFusion(ctx, userID, card1, card2)
	if err != nil {
		return respondError(e, err)
	}

	sessionID := e.ID().String()
	session := workflow.NewSession(workflow.SessionConfig{
		ActorID: userID,
		Timeout: config.ConfirmationTimeout,
		Commit: func(ctx context.Context) error {
			_, err := h.bot.ForgeManager.CommitFusion(ctx, userID, proposal)
			return err
		},
		OnExpire: func() {
			h.bot.Sessions.Remove(sessionID)
		},
	})
	h.bot.Sessions.Put(sessionID, session)

	embed := discord.NewEmbedBuilder().
		SetTitle("⚗️ Confirm Fusion").
		SetDescription(fmt.Sprintf(
			"**Consuming**\n%s\n%s\n\n**Result**\n%s\n\n**Cost:** 1 fusion crystal + %s star\n\n⚠️ Both cards will be destroyed.",
			utils.FormatCardLine(card1.CardID, card1.Rarity, card1.Condition, card1.Special, card1.Character),
			utils.FormatCardLine(card2.CardID, card2.Rarity, card2.Condition, card2.Special, card2.Character),
			utils.FormatCardLine(proposal.Result.ID, proposal.Result.Rarity, proposal.Result.Condition, proposal.Result.Special, proposal.Result.Character),
			utils.FormatNumber(proposal.StarCost))).
		SetColor(config.EmbedDefaultColor).
		SetTimestamp(time.Now()).
		Build()

	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{embed},
		Components: []discord.ContainerComponent{discord.NewActionRow(
			discord.NewSuccessButton("Fuse", fmt.Sprintf("/fuse/confirm/%s", sessionID)),
			discord.NewDangerButton("Cancel", fmt.Sprintf("/fuse/decline/%s", sessionID)),
		)},
	})
}

func (h *FuseHandler) HandleComponent(e *handler.ComponentEvent) error {
	ctx := context.Background()
	userID := e.User().ID.String()

	parts := strings.Split(e.Data.CustomID(), "/")
	if len(parts) != 4 {
		return utils.EH.CreateEphemeralError(e, "Invalid interaction.")
	}
	action, sessionID := parts[2], parts[3]

	session, ok := h.bot.Sessions.Get(sessionID)
	if !ok {
		return utils.EH.CreateEphemeralError(e, "This fusion is no longer active.")
	}

	switch action {
	case "confirm":
		err := session.Accept(ctx, userID)
		if errors.Is(err, workflow.ErrUnauthorizedActor) {
			return utils.EH.CreateEphemeralError(e, "These controls belong to someone else.")
		}
		if errors.Is(err, workflow.ErrSessionDone) {
			return utils.EH.CreateEphemeralError(e, "This fusion is no longer active.")
		}
		h.bot.Sessions.Remove(sessionID)
		if err != nil {
			if rej, ok := game.AsRejection(err); ok {
				return finishSessionMessage(e, "Fusion Failed", rej.Message, config.ErrorColor)
			}
			return finishSessionMessage(e, "Fusion Failed", "Something went wrong, try again later.", config.ErrorColor)
		}
		return finishSessionMessage(e, "⚗️ Fusion Complete", "The crystal flashes. A new card lands in your collection.", config.SuccessColor)

	case "decline":
		err := session.Decline(userID)
		if errors.Is(err, workflow.ErrUnauthorizedActor) {
			return utils.EH.CreateEphemeralError(e, "These controls belong to someone else.")
		}
		h.bot.Sessions.Remove(sessionID)
		return finishSessionMessage(e, "Fusion Cancelled", "Your cards are untouched.", config.ErrorColor)

	default:
		return utils.EH.CreateEphemeralError(e, "Invalid interaction.")
	}
}
