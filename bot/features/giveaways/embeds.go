package giveaways

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"giveaway-bot/bot/common"
	"giveaway-bot/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// Embed field names. The fallback parser reads these back, so renames must
// stay in sync with parser.go.
const (
	fieldHostedBy   = "Hosted By"
	fieldWinners    = "Winners"
	fieldEntries    = "Entries"
	fieldConditions = "Conditions"
)

// CreateGiveawayEmbed creates the announcement embed for an open giveaway
func CreateGiveawayEmbed(g *entities.Giveaway, entryCount int, displayLocation *time.Location) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: g.Prize,
		Color: common.ColorPrimary,
		Description: fmt.Sprintf("Click the %s button below to enter!\nEnds %s (%s)",
			g.EntryEmoji,
			common.FormatDiscordTimestamp(g.EndsAt, "R"),
			common.FormatDiscordTimestamp(g.EndsAt, "F")),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   fieldHostedBy,
				Value:  common.FormatUserMention(g.HostID),
				Inline: true,
			},
			{
				Name:   fieldWinners,
				Value:  strconv.Itoa(g.WinnerCount),
				Inline: true,
			},
			{
				Name:   fieldEntries,
				Value:  strconv.Itoa(entryCount),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Ends %s", g.EndsAt.In(displayLocation).Format("Mon, 02 Jan 2006 15:04 MST")),
		},
	}

	if g.HasConditions() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fieldConditions,
			Value:  formatConditions(g.Conditions),
			Inline: false,
		})
	}

	return embed
}

// formatConditions renders the eligibility requirements shown to entrants.
// The wording promises duration-long compliance; enforcement is a snapshot
// at closure time.
func formatConditions(profile *entities.ConditionsProfile) string {
	lines := []string{
		fmt.Sprintf("%s tier %d", profile.Kind, profile.Tier),
		"Keep the event tag in your custom status and stay in a voice channel.",
	}
	if profile.RequiresUnmuted() {
		lines = append(lines, "Stay unmuted.")
	}
	if profile.RequiresCompany() {
		lines = append(lines, "Don't sit in voice alone.")
	}
	return strings.Join(lines, "\n")
}

// FormatOutcomeMessage renders the closure result as plain content so winner
// mentions actually ping
func FormatOutcomeMessage(outcome *entities.ClosureOutcome) string {
	if outcome.Insufficient {
		return fmt.Sprintf("Not enough participants for **%s** (%d entered, %d winners requested). No winners drawn.",
			outcome.Prize, outcome.Entrants, outcome.WinnerCount)
	}

	var b strings.Builder
	if len(outcome.Winners) > 0 {
		fmt.Fprintf(&b, "🎉 Congratulations %s! You won **%s**!",
			common.FormatMentionList(outcome.Winners), outcome.Prize)
	}

	if len(outcome.Ineligible) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Drawn but ineligible:")
		for _, loser := range outcome.Ineligible {
			fmt.Fprintf(&b, "\n- %s (%s)", common.FormatUserMention(loser.UserID), loser.Reason)
		}
	}

	if outcome.AllIneligible() {
		b.WriteString("\nNo eligible winner this time.")
	}

	return b.String()
}
