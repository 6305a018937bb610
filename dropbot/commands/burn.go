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
	"github.com/dropcards/dropbot/dropbot/content"
	"github.com/dropcards/dropbot/dropbot/economy/burn"
	"github.com/dropcards/dropbot/dropbot/game"
	"github.com/dropcards/dropbot/dropbot/utils"
	"github.com/dropcards/dropbot/dropbot/workflow"
)

const maxBurnBatch = 10

var Burn = discord.SlashCommandCreate{
	Name:        "burn",
	Description: "🔥 Burn cards for silver and stars",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "cards",
			Description: "Card IDs to burn, separated by spaces or commas",
			Required:    true,
		},
	},
}

var burnPolicy = workflow.Policy{Rate: 1, Window: config.BurnCooldown}

type BurnHandler struct {
	bot *dropbot.Bot
}

func NewBurnHandler(b *dropbot.Bot) *BurnHandler {
	return &BurnHandler{bot: b}
}

func splitCardIDs(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == ','
	})
	ids := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		id := strings.ToUpper(strings.TrimSpace(f))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func (h *BurnHandler) HandleBurn(e *handler.CommandEvent) error {
	ctx := context.Background()
	userID := e.User().ID.String()

	cardIDs := splitCardIDs(e.SlashCommandInteractionData().String("cards"))
	if len(cardIDs) == 0 {
		return utils.EH.CreateErrorEmbed(e, "Give me at least one card ID to burn.")
	}
	if len(cardIDs) > maxBurnBatch {
		return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("You can burn at most %d cards at once.", maxBurnBatch))
	}

	if ok, wait := h.bot.Cooldowns.Try(userID, "burn", burnPolicy); !ok {
		return utils.EH.CreateErrorEmbed(e, fmt.Sprintf(
			"You can burn again in **%s**.", utils.FormatDuration(wait)))
	}

	rewards := make([]burn.Reward, 0, len(cardIDs))
	var lines []string
	var totalSilver, totalStar int64
	items := make(map[string]int)

	for _, cardID := range cardIDs {
		card, err := h.bot.CardRepo.GetOwned(ctx, userID, cardID)
		if err != nil {
			h.bot.Cooldowns.Reset(userID, "burn")
			return respondError(e, err)
		}
		if card == nil {
			h.bot.Cooldowns.Reset(userID, "burn")
			return utils.EH.CreateErrorEmbed(e, fmt.Sprintf(
				"I couldn't find any card with the ID `%s` in your collection.", cardID))
		}
		if err := burn.Validate(card); err != nil {
			resetOnRejection(h.bot, userID, "burn", err)
			return respondError(e, err)
		}

		reward, err := h.bot.BurnManager.Propose(card)
		if err != nil {
			h.bot.Cooldowns.Reset(userID, "burn")
			return respondError(e, err)
		}
		rewards = append(rewards, reward)
		totalSilver += reward.Silver
		totalStar += reward.Star
		for id, qty := range reward.Items {
			items[id] += qty
		}
		lines = append(lines, fmt.Sprintf("%s → **%s** silver, **%s** star",
			utils.FormatCardLine(card.CardID, card.Rarity, card.Condition, card.Special, card.Character),
			utils.FormatNumber(reward.Silver), utils.FormatNumber(reward.Star)))
	}

	sessionID := e.ID().String()
	session := workflow.NewSession(workflow.SessionConfig{
		ActorID: userID,
		Timeout: config.ConfirmationTimeout,
		Commit: func(ctx context.Context) error {
			return h.bot.BurnManager.Commit(ctx, userID, rewards)
		},
		OnExpire: func() {
			h.bot.Cooldowns.Reset(userID, "burn")
			h.bot.Sessions.Remove(sessionID)
		},
	})
	h.bot.Sessions.Put(sessionID, session)

	desc := strings.Join(lines, "\n")
	desc += fmt.Sprintf("\n\n**Total:** %s silver, %s star",
		utils.FormatNumber(totalSilver), utils.FormatNumber(totalStar))
	if qty := items[content.ItemGlisteningGem]; qty > 0 {
		desc += fmt.Sprintf(", %d glistening gem", qty)
	}
	desc += "\n\n⚠️ Burned cards are gone for good."

	embed := discord.NewEmbedBuilder().
		SetTitle("🔥 Confirm Burn").
		SetDescription(desc).
		SetColor(config.WarningColor).
		SetTimestamp(time.Now()).
		Build()

	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{embed},
		Components: []discord.ContainerComponent{discord.NewActionRow(
			discord.NewSuccessButton("Burn", fmt.Sprintf("/burn/confirm/%s", sessionID)),
			discord.NewDangerButton("Cancel", fmt.Sprintf("/burn/decline/%s", sessionID)),
		)},
	})
}

func (h *BurnHandler) HandleComponent(e *handler.ComponentEvent) error {
	ctx := context.Background()
	userID := e.User().ID.String()

	parts := strings.Split(e.Data.CustomID(), "/")
	if len(parts) != 4 {
		return utils.EH.CreateEphemeralError(e, "Invalid interaction.")
	}
	action, sessionID := parts[2], parts[3]

	session, ok := h.bot.Sessions.Get(sessionID)
	if !ok {
		return utils.EH.CreateEphemeralError(e, "This burn is no longer active.")
	}

	switch action {
	case "confirm":
		err := session.Accept(ctx, userID)
		if errors.Is(err, workflow.ErrUnauthorizedActor) {
			return utils.EH.CreateEphemeralError(e, "These controls belong to someone else.")
		}
		if errors.Is(err, workflow.ErrSessionDone) {
			return utils.EH.CreateEphemeralError(e, "This burn is no longer active.")
		}
		h.bot.Sessions.Remove(sessionID)
		if err != nil {
			resetOnRejection(h.bot, userID, "burn", err)
			if rej, ok := game.AsRejection(err); ok {
				return finishSessionMessage(e, "Burn Failed", rej.Message, config.ErrorColor)
			}
			return finishSessionMessage(e, "Burn Failed", "Something went wrong, try again later.", config.ErrorColor)
		}
		return finishSessionMessage(e, "🔥 Burned", "The cards went up in flames. Rewards credited.", config.SuccessColor)

	case "decline":
		err := session.Decline(userID)
		if errors.Is(err, workflow.ErrUnauthorizedActor) {
			return utils.EH.CreateEphemeralError(e, "These controls belong to someone else.")
		}
		h.bot.Sessions.Remove(sessionID)
		return finishSessionMessage(e, "Burn Cancelled", "Your cards are safe.", config.ErrorColor)

	default:
		return utils.EH.CreateEphemeralError(e, "Invalid interaction.")
	}
}

// finishSessionMessage replaces a confirmation message with its outcome and
// strips the buttons.
func finishSessionMessage(e *handler.ComponentEvent, title, description string, color int) error {
	embed := discord.NewEmbedBuilder().
		SetTitle(title).
		SetDescription(description).
		SetColor(color).
		SetTimestamp(time.Now()).
		Build()
	return e.UpdateMessage(discord.MessageUpdate{
		Embeds:     &[]discord.Embed{embed},
		Components: &[]discord.ContainerComponent{},
	})
}
