package giveaways

import (
	"fmt"
	"strconv"
	"strings"

	"giveaway-bot/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// ParseRenderedGiveaway reconstructs giveaway parameters from a previously
// posted announcement message. Used by the degraded reroll path when the
// giveaway is no longer in the registry (typically after a restart).
func ParseRenderedGiveaway(msg *discordgo.Message) (*entities.RenderedGiveaway, error) {
	if msg == nil || len(msg.Embeds) == 0 {
		return nil, fmt.Errorf("message carries no giveaway embed")
	}
	embed := msg.Embeds[0]

	if embed.Title == "" {
		return nil, fmt.Errorf("giveaway embed has no prize title")
	}

	rendered := &entities.RenderedGiveaway{
		Prize: embed.Title,
	}

	var err error
	if rendered.ChannelID, err = strconv.ParseInt(msg.ChannelID, 10, 64); err != nil {
		return nil, fmt.Errorf("failed to parse channel ID %q: %w", msg.ChannelID, err)
	}
	if rendered.MessageID, err = strconv.ParseInt(msg.ID, 10, 64); err != nil {
		return nil, fmt.Errorf("failed to parse message ID %q: %w", msg.ID, err)
	}
	if msg.GuildID != "" {
		if rendered.GuildID, err = strconv.ParseInt(msg.GuildID, 10, 64); err != nil {
			return nil, fmt.Errorf("failed to parse guild ID %q: %w", msg.GuildID, err)
		}
	}

	rendered.WinnerCount, err = parseWinnersField(embed)
	if err != nil {
		return nil, err
	}

	rendered.EntryEmoji, err = parseEntryEmoji(embed)
	if err != nil {
		return nil, err
	}

	return rendered, nil
}

// parseWinnersField reads the winner count back from the embed fields
func parseWinnersField(embed *discordgo.MessageEmbed) (int, error) {
	for _, field := range embed.Fields {
		if field.Name != fieldWinners {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(field.Value))
		if err != nil || count < 1 {
			return 0, fmt.Errorf("unreadable winner count %q in giveaway embed", field.Value)
		}
		return count, nil
	}
	return 0, fmt.Errorf("giveaway embed has no %s field", fieldWinners)
}

// parseEntryEmoji recovers the entry emoji from the embed description, which
// always opens with "Click the <emoji> button below to enter!"
func parseEntryEmoji(embed *discordgo.MessageEmbed) (string, error) {
	const prefix = "Click the "
	const suffix = " button"

	line := embed.Description
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	if !strings.HasPrefix(line, prefix) {
		return "", fmt.Errorf("giveaway embed description has unexpected format")
	}
	rest := strings.TrimPrefix(line, prefix)
	end := strings.Index(rest, suffix)
	if end <= 0 {
		return "", fmt.Errorf("entry emoji not found in giveaway embed")
	}
	return rest[:end], nil
}
