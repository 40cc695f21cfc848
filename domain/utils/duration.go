package utils

import (
	"strconv"
	"strings"
	"time"

	"giveaway-bot/domain/entities"
)

// ParseGiveawayDuration parses the compact organizer duration syntax
// "<integer><unit>" where unit is s, m, h or d. "j" is accepted as an alias
// for days, matching the syntax organizers already use. Unit matching is
// case-insensitive; no whitespace is tolerated.
func ParseGiveawayDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, entities.ErrInvalidDuration
	}

	unit := strings.ToLower(s[len(s)-1:])
	value, err := strconv.ParseInt(s[:len(s)-1], 10, 64)
	if err != nil || value < 0 {
		return 0, entities.ErrInvalidDuration
	}

	switch unit {
	case "s":
		return time.Duration(value) * time.Second, nil
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d", "j":
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return 0, entities.ErrInvalidDuration
	}
}
