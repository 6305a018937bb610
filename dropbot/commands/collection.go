package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/sahilm/fuzzy"

	"github.com/dropcards/dropbot/dropbot"
	"github.com/dropcards/dropbot/dropbot/config"
	"github.com/dropcards/dropbot/dropbot/database/models"
	"github.com/dropcards/dropbot/dropbot/utils"
)

var Collection = discord.SlashCommandCreate{
	Name:        "collection",
	Description: "🎴 Browse your card collection",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "query",
			Description: "Filter by character name",
			Required:    false,
		},
	},
}

func CollectionHandler(b *dropbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx := context.Background()
		userID := e.User().ID.String()

		cards, err := b.CardRepo.ListByOwner(ctx, userID)
		if err != nil {
			return respondError(e, err)
		}
		if len(cards) == 0 {
			return utils.EH.CreateErrorEmbed(e, "Your collection is empty. Go `/drop` something!")
		}

		query := strings.TrimSpace(e.SlashCommandInteractionData().String("query"))
		if query != "" {
			cards = filterByCharacter(cards, query)
			if len(cards) == 0 {
				return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("No cards match `%s`.", query))
			}
		}

		totalValue := int64(0)
		for _, card := range cards {
			totalValue += card.Value()
		}

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				start := page * config.CardsPerPage
				end := min(start+config.CardsPerPage, len(cards))

				var sb strings.Builder
				if query != "" {
					fmt.Fprintf(&sb, "🔍 `%s`\n\n", query)
				}
				for _, card := range cards[start:end] {
					sb.WriteString(utils.FormatCardLine(card.CardID, card.Rarity, card.Condition, card.Special, card.Character))
					if card.Locked {
						sb.WriteString(" 🔒")
					}
					if card.HasSleeve {
						sb.WriteString(" 🛡️")
					}
					sb.WriteString("\n")
				}
				fmt.Fprintf(&sb, "\n**%d** cards worth **%s** silver",
					len(cards), utils.FormatNumber(totalValue))

				embed.SetTitle("🎴 My Collection").
					SetDescription(sb.String()).
					SetColor(config.EmbedDefaultColor)
			},
			Pages:      (len(cards) + config.CardsPerPage - 1) / config.CardsPerPage,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

// filterByCharacter keeps cards whose character fuzzy-matches the query,
// in match-quality order.
func filterByCharacter(cards []*models.Card, query string) []*models.Card {
	names := make([]string, len(cards))
	for i, card := range cards {
		names[i] = card.Character
	}
	matches := fuzzy.Find(query, names)
	filtered := make([]*models.Card, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, cards[m.Index])
	}
	return filtered
}
