package daily

import (
	"testing"
	"time"

	"github.com/dropcards/dropbot/dropbot/content"
	"github.com/dropcards/dropbot/dropbot/game"
)

func TestStreakLadder(t *testing.T) {
	ladder := streakLadder()
	if len(ladder) != streakDays {
		t.Fatalf("streakLadder() has %d days, want %d", len(ladder), streakDays)
	}
	wantSilver := []int64{200, 300, 500, 0, 1200, 2000, 0}
	for day, want := range wantSilver {
		if got := ladder[day].Silver; got != want {
			t.Errorf("day %d silver = %d, want %d", day, got, want)
		}
	}
	if got := ladder[3].Items[content.PackItemID(game.PackRare)]; got != 1 {
		t.Errorf("day 3 items = %v, want one rare pack", ladder[3].Items)
	}
	if got := ladder[6].Gem; got != 5 {
		t.Errorf("day 6 gem = %d, want 5", got)
	}
}

func TestSameUTCDay(t *testing.T) {
	base := time.Date(2026, 3, 14, 23, 50, 0, 0, time.UTC)
	tests := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{"same evening", base, base.Add(5 * time.Minute), true},
		{"across midnight", base, base.Add(20 * time.Minute), false},
		{"zone-shifted same instant", base, base.In(time.FixedZone("plus5", 5*3600)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sameUTCDay(tt.a, tt.b); got != tt.want {
				t.Errorf("sameUTCDay(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestUTCMidnightGap(t *testing.T) {
	// The streak survives any claim on the following UTC day, however late.
	lastClaim := time.Date(2026, 3, 14, 0, 5, 0, 0, time.UTC)
	nextDayLate := time.Date(2026, 3, 15, 23, 55, 0, 0, time.UTC)
	if gap := utcMidnight(nextDayLate).Sub(utcMidnight(lastClaim)); gap > 24*time.Hour {
		t.Errorf("next-day gap = %v, want <= 24h", gap)
	}

	skippedDay := time.Date(2026, 3, 16, 0, 5, 0, 0, time.UTC)
	if gap := utcMidnight(skippedDay).Sub(utcMidnight(lastClaim)); gap <= 24*time.Hour {
		t.Errorf("skipped-day gap = %v, want > 24h", gap)
	}
}
