package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/dropcards/dropbot/dropbot"
	"github.com/dropcards/dropbot/dropbot/config"
	"github.com/dropcards/dropbot/dropbot/game"
	"github.com/dropcards/dropbot/dropbot/utils"
	"github.com/dropcards/dropbot/dropbot/workflow"
)

var Trade = discord.SlashCommandCreate{
	Name:        "trade",
	Description: "🤝 Trade cards with another collector",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "partner",
			Description: "Who you're trading with",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "offer",
			Description: "Your card IDs, separated by spaces or commas",
			Required:    false,
		},
		discord.ApplicationCommandOptionString{
			Name:        "request",
			Description: "Their card IDs, separated by spaces or commas",
			Required:    false,
		},
	},
}

type TradeHandler struct {
	bot      *dropbot.Bot
	sessions sync.Map
}

func NewTradeHandler(b *dropbot.Bot) *TradeHandler {
	return &TradeHandler{bot: b}
}

func (h *TradeHandler) HandleTrade(e *handler.CommandEvent) error {
	ctx := context.Background()
	userID := e.User().ID.String()
	data := e.SlashCommandInteractionData()
	partnerID := data.Snowflake("partner").String()

	offer := splitCardIDs(data.String("offer"))
	request := splitCardIDs(data.String("request"))

	proposal, err := h.bot.TradeManager.Propose(ctx, userID, partnerID, offer, request)
	if err != nil {
		return respondError(e, err)
	}

	sessionID := e.ID().String()
	session := workflow.NewPairSession(workflow.PairSessionConfig{
		ActorIDs: [2]string{userID, partnerID},
		Timeout:  config.TradeTimeout,
		Commit: func(ctx context.Context) error {
			return h.bot.TradeManager.Commit(ctx, proposal)
		},
		OnExpire: func() {
			h.sessions.Delete(sessionID)
		},
	})
	h.sessions.Store(sessionID, session)

	var sb strings.Builder
	fmt.Fprintf(&sb, "<@%s> offers:\n", userID)
	writeOfferLines(&sb, offer)
	fmt.Fprintf(&sb, "\n<@%s> gives in return:\n", partnerID)
	writeOfferLines(&sb, request)
	sb.WriteString("\nBoth sides must accept. Every traded card has a 50% chance of dropping one condition level; a sleeve is destroyed instead.")

	embed := discord.NewEmbedBuilder().
		SetTitle("🤝 Trade Proposal").
		SetDescription(sb.String()).
		SetColor(config.EmbedDefaultColor).
		SetFooterText(fmt.Sprintf("Expires in %.0fs", config.TradeTimeout.Seconds())).
		SetTimestamp(time.Now()).
		Build()

	return e.CreateMessage(discord.MessageCreate{
		Content: fmt.Sprintf("<@%s>", partnerID),
		Embeds:  []discord.Embed{embed},
		Components: []discord.ContainerComponent{discord.NewActionRow(
			discord.NewSuccessButton("Accept", fmt.Sprintf("/trade/accept/%s", sessionID)),
			discord.NewDangerButton("Decline", fmt.Sprintf("/trade/decline/%s", sessionID)),
		)},
	})
}

func writeOfferLines(sb *strings.Builder, cardIDs []string) {
	if len(cardIDs) == 0 {
		sb.WriteString("• nothing\n")
		return
	}
	for _, id := range cardIDs {
		fmt.Fprintf(sb, "• `%s`\n", id)
	}
}

func (h *TradeHandler) HandleComponent(e *handler.ComponentEvent) error {
	ctx := context.Background()
	userID := e.User().ID.String()

	parts := strings.Split(e.Data.CustomID(), "/")
	if len(parts) != 4 {
		return utils.EH.CreateEphemeralError(e, "Invalid interaction.")
	}
	action, sessionID := parts[2], parts[3]

	v, ok := h.sessions.Load(sessionID)
	if !ok {
		return utils.EH.CreateEphemeralError(e, "This trade is no longer active.")
	}
	session := v.(*workflow.PairSession)

	switch action {
	case "accept":
		complete, err := session.Accept(ctx, userID)
		if errors.Is(err, workflow.ErrUnauthorizedActor) {
			return utils.EH.CreateEphemeralError(e, "You're not part of this trade.")
		}
		if errors.Is(err, workflow.ErrSessionDone) {
			return utils.EH.CreateEphemeralError(e, "This trade is no longer active.")
		}
		if err != nil {
			h.sessions.Delete(sessionID)
			if rej, ok := game.AsRejection(err); ok {
				return finishSessionMessage(e, "Trade Failed", rej.Message, config.ErrorColor)
			}
			return finishSessionMessage(e, "Trade Failed", "Something went wrong, try again later.", config.ErrorColor)
		}
		if !complete {
			return utils.EH.CreateEphemeralSuccess(e, "Accepted. Waiting on the other side.")
		}
		h.sessions.Delete(sessionID)
		return finishSessionMessage(e, "🤝 Trade Complete", "Cards have changed hands.", config.SuccessColor)

	case "decline":
		err := session.Decline(userID)
		if errors.Is(err, workflow.ErrUnauthorizedActor) {
			return utils.EH.CreateEphemeralError(e, "You're not part of this trade.")
		}
		h.sessions.Delete(sessionID)
		return finishSessionMessage(e, "Trade Declined", "Nothing changed hands.", config.ErrorColor)

	default:
		return utils.EH.CreateEphemeralError(e, "Invalid interaction.")
	}
}
