package commands

import (
	"context"
	"fmt"
	"strconv"
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

var Drop = discord.SlashCommandCreate{
	Name:        "drop",
	Description: "🎴 Drop cards for anyone in the channel to grab",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionBool{
			Name:        "premium",
			Description: "Spend a premium drop for better odds",
			Required:    false,
		},
	},
}

var (
	dropPolicy = workflow.Policy{Rate: 1, Window: config.DropCooldown}
	grabPolicy = workflow.Policy{Rate: 1, Window: config.GrabCooldown}
)

type DropHandler struct {
	bot *dropbot.Bot
}

func NewDropHandler(b *dropbot.Bot) *DropHandler {
	return &DropHandler{bot: b}
}

func (h *DropHandler) HandleDrop(e *handler.CommandEvent) error {
	ctx := context.Background()
	userID := e.User().ID.String()
	usePremium := e.SlashCommandInteractionData().Bool("premium")

	if ok, wait := h.bot.Cooldowns.Try(userID, "drop", dropPolicy); !ok {
		return utils.EH.CreateErrorEmbed(e, fmt.Sprintf(
			"You can drop again in **%s**.", utils.FormatDuration(wait)))
	}

	if err := e.DeferCreateMessage(false); err != nil {
		h.bot.Cooldowns.Reset(userID, "drop")
		return fmt.Errorf("failed to defer message: %w", err)
	}

	session, resetCooldown, err := h.bot.DropManager.Drop(ctx, userID, usePremium)
	if err != nil {
		h.bot.Cooldowns.Reset(userID, "drop")
		if rej, ok := game.AsRejection(err); ok {
			return utils.EH.UpdateInteractionError(e, rej.Message)
		}
		return utils.EH.UpdateInteractionError(e, "Something went wrong, try again later.")
	}
	if resetCooldown {
		h.bot.Cooldowns.Reset(userID, "drop")
	}

	var sb strings.Builder
	sb.WriteString("First come, first served. Grab fast!\n\n")
	for i, d := range session.Drafts {
		fmt.Fprintf(&sb, "%d. %s\n", i+1,
			utils.FormatCardLine(d.ID, d.Rarity, d.Condition, d.Special, d.Character))
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("🎴 Cards on the floor").
		SetDescription(sb.String()).
		SetColor(config.EmbedDefaultColor).
		SetFooterText(fmt.Sprintf("Expires in %.0fs", config.DropViewTimeout.Seconds())).
		SetTimestamp(time.Now()).
		Build()

	buttons := make([]discord.InteractiveComponent, 0, len(session.Drafts))
	for i := range session.Drafts {
		buttons = append(buttons, discord.NewPrimaryButton(
			fmt.Sprintf("Grab %d", i+1),
			fmt.Sprintf("/drop/grab/%d", i)))
	}

	resp, err := e.UpdateInteractionResponse(discord.MessageUpdate{
		Embeds:     &[]discord.Embed{embed},
		Components: &[]discord.ContainerComponent{discord.NewActionRow(buttons...)},
	})
	if err != nil {
		return err
	}

	h.bot.DropManager.Register(resp.ID.String(), session)
	return nil
}

func (h *DropHandler) HandleComponent(e *handler.ComponentEvent) error {
	ctx := context.Background()
	userID := e.User().ID.String()
	messageID := e.Message.ID.String()

	parts := strings.Split(e.Data.CustomID(), "/")
	if len(parts) != 4 || parts[2] != "grab" {
		return utils.EH.CreateEphemeralError(e, "Invalid interaction.")
	}
	index, err := strconv.Atoi(parts[3])
	if err != nil {
		return utils.EH.CreateEphemeralError(e, "Invalid interaction.")
	}

	if ok, wait := h.bot.Cooldowns.Try(userID, "grab", grabPolicy); !ok {
		return utils.EH.CreateEphemeralError(e, fmt.Sprintf(
			"You can grab again in **%s**.", utils.FormatDuration(wait)))
	}

	result, err := h.bot.DropManager.Grab(ctx, messageID, userID, index)
	if err != nil {
		resetOnRejection(h.bot, userID, "grab", err)
		return respondComponentError(e, err)
	}

	if result.Dud {
		return e.CreateMessage(discord.MessageCreate{
			Content: fmt.Sprintf("<@%s> grabbed **%s**... it crumbles to dust. Nothing gained.",
				userID, result.Draft.Character),
		})
	}

	return e.CreateMessage(discord.MessageCreate{
		Content: fmt.Sprintf("<@%s> grabbed %s and pocketed **%s** silver!",
			userID,
			utils.FormatCardLine(result.Draft.ID, result.Draft.Rarity, result.Draft.Condition, result.Draft.Special, result.Draft.Character),
			utils.FormatNumber(result.Silver)),
	})
}
