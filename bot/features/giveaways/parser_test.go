package giveaways

import (
	"testing"
	"time"

	"giveaway-bot/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderedMessage(embed *discordgo.MessageEmbed) *discordgo.Message {
	return &discordgo.Message{
		ID:        "555",
		ChannelID: "200",
		GuildID:   "100",
		Embeds:    []*discordgo.MessageEmbed{embed},
	}
}

func TestParseRenderedGiveawayRoundTrip(t *testing.T) {
	t.Parallel()

	g := &entities.Giveaway{
		ID:          "g-test",
		GuildID:     100,
		ChannelID:   200,
		HostID:      300,
		Prize:       "Nitro Classic",
		EntryEmoji:  "🎉",
		WinnerCount: 3,
		EndsAt:      time.Now().UTC().Add(time.Hour),
	}

	embed := CreateGiveawayEmbed(g, 7, time.UTC)
	rendered, err := ParseRenderedGiveaway(renderedMessage(embed))
	require.NoError(t, err)

	assert.Equal(t, "Nitro Classic", rendered.Prize)
	assert.Equal(t, 3, rendered.WinnerCount)
	assert.Equal(t, "🎉", rendered.EntryEmoji)
	assert.Equal(t, int64(100), rendered.GuildID)
	assert.Equal(t, int64(200), rendered.ChannelID)
	assert.Equal(t, int64(555), rendered.MessageID)
}

func TestParseRenderedGiveawayCustomEmoji(t *testing.T) {
	t.Parallel()

	g := &entities.Giveaway{
		Prize:       "Decoration Pack",
		EntryEmoji:  "🎁",
		WinnerCount: 1,
		EndsAt:      time.Now().UTC().Add(time.Hour),
	}

	rendered, err := ParseRenderedGiveaway(renderedMessage(CreateGiveawayEmbed(g, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, "🎁", rendered.EntryEmoji)
}

func TestParseRenderedGiveawayFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  *discordgo.Message
	}{
		{
			name: "no embeds",
			msg:  &discordgo.Message{ID: "555", ChannelID: "200"},
		},
		{
			name: "missing title",
			msg: renderedMessage(&discordgo.MessageEmbed{
				Description: "Click the 🎉 button below to enter!",
			}),
		},
		{
			name: "missing winners field",
			msg: renderedMessage(&discordgo.MessageEmbed{
				Title:       "Nitro Classic",
				Description: "Click the 🎉 button below to enter!",
			}),
		},
		{
			name: "garbled winner count",
			msg: renderedMessage(&discordgo.MessageEmbed{
				Title:       "Nitro Classic",
				Description: "Click the 🎉 button below to enter!",
				Fields: []*discordgo.MessageEmbedField{
					{Name: fieldWinners, Value: "several"},
				},
			}),
		},
		{
			name: "foreign embed",
			msg: renderedMessage(&discordgo.MessageEmbed{
				Title:       "Weekly leaderboard",
				Description: "Top players this week",
				Fields: []*discordgo.MessageEmbedField{
					{Name: fieldWinners, Value: "2"},
				},
			}),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseRenderedGiveaway(tt.msg)
			assert.Error(t, err)
		})
	}
}
