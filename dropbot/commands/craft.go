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

var Craft = discord.SlashCommandCreate{
	Name:        "craft",
	Description: "🛠️ Craft a special character card from cards and materials",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:         "character",
			Description:  "Character to craft",
			Required:     true,
			Autocomplete: true,
		},
	},
}

var craftPolicy = workflow.Policy{Rate: 1, Window: config.CraftCooldown}

type CraftHandler struct {
	bot *dropbot.Bot
}

func NewCraftHandler(b *dropbot.Bot) *CraftHandler {
	return &CraftHandler{bot: b}
}

func (h *CraftHandler) HandleAutocomplete(e *handler.AutocompleteEvent) error {
	query := e.Data.String("character")

	var choices []discord.AutocompleteChoice
	for _, def := range h.bot.Tables.Craftables() {
		if query == "" || strings.Contains(strings.ToLower(def.Character), strings.ToLower(query)) {
			choices = append(choices, discord.AutocompleteChoiceString{
				Name:  def.Character,
				Value: def.Character,
			})
		}
		if len(choices) >= 25 {
			break
		}
	}
	return e.AutocompleteResult(choices)
}

func (h *CraftHandler) HandleCraft(e *handler.CommandEvent) error {
	ctx := context.Background()
	userID := e.User().ID.String()
	character := strings.TrimSpace(e.SlashCommandInteractionData().String("character"))

	if ok, wait := h.bot.Cooldowns.Try(userID, "craft", craftPolicy); !ok {
		return utils.EH.CreateErrorEmbed(e, fmt.Sprintf(
			"You can craft again in **%s**.", utils.FormatDuration(wait)))
	}

	actor := game.ActorModifiers{Premium: isPremium(ctx, h.bot, userID)}
	proposal, err := h.bot.CraftManager.Propose(ctx, userID, character, actor)
	if err != nil {
		// A failed proposal costs nothing, so the slot is handed back.
		h.bot.Cooldowns.Reset(userID, "craft")
		return respondError(e, err)
	}

	sessionID := e.ID().String()
	session := workflow.NewSession(workflow.SessionConfig{
		ActorID: userID,
		Timeout: config.ConfirmationTimeout,
		Commit: func(ctx context.Context) error {
			_, err := h.bot.CraftManager.Commit(ctx, userID, proposal)
			return err
		},
		OnExpire: func() {
			h.bot.Cooldowns.Reset(userID, "craft")
			h.bot.Sessions.Remove(sessionID)
		},
	})
	h.bot.Sessions.Put(sessionID, session)

	var sb strings.Builder
	fmt.Fprintf(&sb, "**Crafting:** %s\n\n**Consuming cards**\n", character)
	for _, id := range proposal.ConsumeCards {
		fmt.Fprintf(&sb, "• `%s`\n", id)
	}
	if len(proposal.ConsumeItems) > 0 {
		sb.WriteString("\n**Consuming items**\n")
		for itemID, qty := range proposal.ConsumeItems {
			def, _ := h.bot.Tables.Item(itemID)
			fmt.Fprintf(&sb, "• %d× %s\n", qty, def.Name)
		}
	}
	fmt.Fprintf(&sb, "\n**Cost:** %s star\n**Result:** %s",
		utils.FormatNumber(proposal.StarCost),
		utils.FormatCardLine(proposal.Result.ID, proposal.Result.Rarity, proposal.Result.Condition, proposal.Result.Special, proposal.Result.Character))

	embed := discord.NewEmbedBuilder().
		SetTitle("🛠️ Confirm Craft").
		SetDescription(sb.String()).
		SetColor(config.EmbedDefaultColor).
		SetTimestamp(time.Now()).
		Build()

	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{embed},
		Components: []discord.ContainerComponent{discord.NewActionRow(
			discord.NewSuccessButton("Craft", fmt.Sprintf("/craft/confirm/%s", sessionID)),
			discord.NewDangerButton("Cancel", fmt.Sprintf("/craft/decline/%s", sessionID)),
		)},
	})
}

func (h *CraftHandler) HandleComponent(e *handler.ComponentEvent) error {
	ctx := context.Background()
	userID := e.User().ID.String()

	parts := strings.Split(e.Data.CustomID(), "/")
	if len(parts) != 4 {
		return utils.EH.CreateEphemeralError(e, "Invalid interaction.")
	}
	action, sessionID := parts[2], parts[3]

	session, ok := h.bot.Sessions.Get(sessionID)
	if !ok {
		return utils.EH.CreateEphemeralError(e, "This craft is no longer active.")
	}

	switch action {
	case "confirm":
		err := session.Accept(ctx, userID)
		if errors.Is(err, workflow.ErrUnauthorizedActor) {
			return utils.EH.CreateEphemeralError(e, "These controls belong to someone else.")
		}
		if errors.Is(err, workflow.ErrSessionDone) {
			return utils.EH.CreateEphemeralError(e, "This craft is no longer active.")
		}
		h.bot.Sessions.Remove(sessionID)
		if err != nil {
			resetOnRejection(h.bot, userID, "craft", err)
			if rej, ok := game.AsRejection(err); ok {
				return finishSessionMessage(e, "Craft Failed", rej.Message, config.ErrorColor)
			}
			return finishSessionMessage(e, "Craft Failed", "Something went wrong, try again later.", config.ErrorColor)
		}
		return finishSessionMessage(e, "🛠️ Craft Complete", "Materials consumed. The new card is yours.", config.SuccessColor)

	case "decline":
		err := session.Decline(userID)
		if errors.Is(err, workflow.ErrUnauthorizedActor) {
			return utils.EH.CreateEphemeralError(e, "These controls belong to someone else.")
		}
		h.bot.Sessions.Remove(sessionID)
		return finishSessionMessage(e, "Craft Cancelled", "Nothing was consumed.", config.ErrorColor)

	default:
		return utils.EH.CreateEphemeralError(e, "Invalid interaction.")
	}
}
