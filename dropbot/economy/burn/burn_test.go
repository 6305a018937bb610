package burn

import (
	"testing"
	"time"

	"github.com/dropcards/dropbot/dropbot/content"
	"github.com/dropcards/dropbot/dropbot/database/models"
	"github.com/dropcards/dropbot/dropbot/game"
)

func testCard(rarity game.Rarity, cond game.Condition, age time.Duration) *models.Card {
	return &models.Card{
		CardID:    "AB12CD",
		OwnerID:   "1",
		Rarity:    rarity,
		Condition: cond,
		Special:   game.SpecialNone,
		Character: "Frost Hare",
		CreatedAt: time.Now().Add(-age),
	}
}

func TestCalculateRewardWithBase(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name       string
		card       *models.Card
		base       int64
		wantSilver int64
		wantStar   int64
		wantDays   int
	}{
		{
			name:       "fresh card pays the base alone",
			card:       testCard(game.RarityCommon, game.ConditionGood, 0),
			base:       25,
			wantSilver: 25,
			wantStar:   33,
			wantDays:   0,
		},
		{
			name:       "ten days adds a quarter of the base per day",
			card:       testCard(game.RarityCommon, game.ConditionGood, 10*24*time.Hour+time.Minute),
			base:       100,
			wantSilver: 100 + 10*25,
			wantStar:   33 + 10*8,
			wantDays:   10,
		},
		{
			name:       "age caps at sixty days",
			card:       testCard(game.RarityRare, game.ConditionMint, 400*24*time.Hour),
			base:       200,
			wantSilver: 200 + 60*50,
			wantStar:   138 + 60*34,
			wantDays:   60,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateRewardWithBase(tt.card, tt.base, now)
			if got.Silver != tt.wantSilver {
				t.Errorf("Silver = %d, want %d", got.Silver, tt.wantSilver)
			}
			if got.Star != tt.wantStar {
				t.Errorf("Star = %d, want %d", got.Star, tt.wantStar)
			}
			if got.AgeDays != tt.wantDays {
				t.Errorf("AgeDays = %d, want %d", got.AgeDays, tt.wantDays)
			}
			if len(got.Items) != 0 {
				t.Errorf("Items = %v, want none for a plain card", got.Items)
			}
		})
	}
}

func TestCalculateRewardShinyDropsGem(t *testing.T) {
	card := testCard(game.RarityUncommon, game.ConditionPoor, 0)
	card.Special = game.SpecialShiny
	got := CalculateRewardWithBase(card, 60, time.Now())
	if got.Items[content.ItemGlisteningGem] != 1 {
		t.Errorf("Items = %v, want one %s", got.Items, content.ItemGlisteningGem)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		card      *models.Card
		wantErr   bool
		wantReset bool
	}{
		{
			name:    "plain card burns",
			card:    testCard(game.RarityRare, game.ConditionGood, 0),
			wantErr: false,
		},
		{
			name: "locked card refused",
			card: func() *models.Card {
				c := testCard(game.RarityRare, game.ConditionGood, 0)
				c.Locked = true
				return c
			}(),
			wantErr:   true,
			wantReset: true,
		},
		{
			name:      "exotic refused",
			card:      testCard(game.RarityExotic, game.ConditionGood, 0),
			wantErr:   true,
			wantReset: true,
		},
		{
			name:      "exclusive refused",
			card:      testCard(game.RarityIcicle, game.ConditionGood, 0),
			wantErr:   true,
			wantReset: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.card)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			rej, ok := game.AsRejection(err)
			if !ok {
				t.Fatalf("Validate() error = %v, want *game.Rejection", err)
			}
			if rej.ResetCooldown != tt.wantReset {
				t.Errorf("ResetCooldown = %v, want %v", rej.ResetCooldown, tt.wantReset)
			}
		})
	}
}
