package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	minTier := float64(1)
	maxTier := float64(15)
	minWinners := float64(1)
	maxWinners := float64(b.config.MaxWinnerCount)

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "giveaway",
			Description: "Launch a giveaway",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "prize",
					Description: "What is being given away",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "duration",
					Description: "How long entries stay open (e.g. 30m, 2h, 3d)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Channel to announce the giveaway in",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "winners",
					Description: "Number of winners (default 1)",
					MinValue:    &minWinners,
					MaxValue:    maxWinners,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "emoji",
					Description: "Entry button emoji (default 🎉)",
				},
			},
		},
		{
			Name:        "giveaway-conditions",
			Description: "Launch a giveaway with eligibility conditions on winners",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "category",
					Description: "Prize category",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Nitro", Value: "nitro"},
						{Name: "Decoration", Value: "decoration"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "tier",
					Description: "Prize tier, higher tiers add stricter conditions",
					Required:    true,
					MinValue:    &minTier,
					MaxValue:    maxTier,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "prize",
					Description: "What is being given away",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "duration",
					Description: "How long entries stay open (e.g. 30m, 2h, 3d)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Channel to announce the giveaway in",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "winners",
					Description: "Number of winners (default 1)",
					MinValue:    &minWinners,
					MaxValue:    maxWinners,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "emoji",
					Description: "Entry button emoji (default 🎉)",
				},
			},
		},
		{
			Name:        "reroll",
			Description: "Redraw winners for a giveaway",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "Message ID of the giveaway announcement",
					Required:    true,
				},
			},
		},
		{
			Name:        "stop",
			Description: "End a giveaway without drawing winners",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "Message ID of the giveaway announcement",
					Required:    true,
				},
			},
		},
		{
			Name:        "authorize",
			Description: "Allow a user to manage giveaways (administrators only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to authorize",
					Required:    true,
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}
