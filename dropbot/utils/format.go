package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dropcards/dropbot/dropbot/game"
)

func FormatNumber(n int64) string {
	str := strconv.FormatInt(n, 10)
	if n < 0 {
		str = str[1:]
	}

	var result []byte
	for i := len(str) - 1; i >= 0; i-- {
		if (len(str)-i-1)%3 == 0 && i != len(str)-1 {
			result = append([]byte{','}, result...)
		}
		result = append([]byte{str[i]}, result...)
	}

	if n < 0 {
		return "-" + string(result)
	}
	return string(result)
}

// FormatDuration renders a remaining cooldown compactly, e.g. "1m 5s".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d <= 0 {
		return "0s"
	}
	var parts []string
	if h := int(d.Hours()); h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m := int(d.Minutes()) % 60; m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	if s := int(d.Seconds()) % 60; s > 0 {
		parts = append(parts, fmt.Sprintf("%ds", s))
	}
	return strings.Join(parts, " ")
}

// FormatCardLine is the one-line card rendering used across drop, collection
// and confirmation embeds.
func FormatCardLine(id string, rarity game.Rarity, condition game.Condition, special game.SpecialRarity, character string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "`%s`", id)
	if special == game.SpecialShiny {
		b.WriteString(" ✨")
	}
	fmt.Fprintf(&b, " **%s** [%s, %s]", character, rarity, condition)
	return b.String()
}

func Title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
