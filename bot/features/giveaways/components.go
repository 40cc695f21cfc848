package giveaways

import (
	"fmt"

	"giveaway-bot/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// EntryButtonPrefix is the customID prefix routing entry clicks to this
// feature.
const EntryButtonPrefix = "giveaway_enter_"

// CreateEntryComponents creates the entry button for an open giveaway
func CreateEntryComponents(g *entities.Giveaway) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Enter",
					Style:    discordgo.PrimaryButton,
					CustomID: EntryButtonPrefix + g.ID,
					Emoji: &discordgo.ComponentEmoji{
						Name: g.EntryEmoji,
					},
				},
			},
		},
	}
}

// CreateEndedComponents creates disabled components for a closed giveaway
func CreateEndedComponents(g *entities.Giveaway) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Giveaway Ended",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("giveaway_ended_%s", g.ID),
					Disabled: true,
				},
			},
		},
	}
}
