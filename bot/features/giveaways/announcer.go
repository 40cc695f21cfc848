package giveaways

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"giveaway-bot/domain/entities"
	"giveaway-bot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Announcer posts and maintains giveaway announcements (implements
// interfaces.Announcer)
type Announcer struct {
	session         *discordgo.Session
	displayLocation *time.Location
}

// NewAnnouncer creates the Discord-backed announcer
func NewAnnouncer(session *discordgo.Session, displayLocation *time.Location) *Announcer {
	return &Announcer{
		session:         session,
		displayLocation: displayLocation,
	}
}

var _ interfaces.Announcer = (*Announcer)(nil)

// PostAnnouncement posts the giveaway announcement with its entry button
func (a *Announcer) PostAnnouncement(ctx context.Context, g *entities.Giveaway) (int64, error) {
	channelIDStr := strconv.FormatInt(g.ChannelID, 10)

	embed := CreateGiveawayEmbed(g, 0, a.displayLocation)
	components := CreateEntryComponents(g)

	msg, err := a.session.ChannelMessageSendComplex(channelIDStr, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to post giveaway announcement: %w", err)
	}

	messageID, err := strconv.ParseInt(msg.ID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse message ID: %w", err)
	}

	log.WithFields(log.Fields{
		"giveaway_id": g.ID,
		"channel_id":  g.ChannelID,
		"message_id":  messageID,
	}).Info("Posted giveaway announcement to Discord")

	return messageID, nil
}

// UpdateEntryCount refreshes the entry counter on the announcement embed
func (a *Announcer) UpdateEntryCount(ctx context.Context, g *entities.Giveaway, count int) error {
	if !g.HasMessage() {
		return nil
	}

	embed := CreateGiveawayEmbed(g, count, a.displayLocation)
	components := CreateEntryComponents(g)

	_, err := a.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    strconv.FormatInt(g.ChannelID, 10),
		ID:         strconv.FormatInt(g.MessageID, 10),
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	})
	if err != nil {
		return fmt.Errorf("failed to update entry count: %w", err)
	}
	return nil
}

// AnnounceOutcome replies to the announcement with the closure result
func (a *Announcer) AnnounceOutcome(ctx context.Context, channelID, messageID int64, outcome *entities.ClosureOutcome) error {
	channelIDStr := strconv.FormatInt(channelID, 10)
	messageIDStr := strconv.FormatInt(messageID, 10)

	_, err := a.session.ChannelMessageSendComplex(channelIDStr, &discordgo.MessageSend{
		Content: FormatOutcomeMessage(outcome),
		Reference: &discordgo.MessageReference{
			ChannelID: channelIDStr,
			MessageID: messageIDStr,
		},
	})
	if err != nil {
		if isMessageGone(err) {
			return entities.ErrAnnouncementUnreachable
		}
		return fmt.Errorf("failed to announce giveaway outcome: %w", err)
	}
	return nil
}

// DisableEntry swaps the entry button for a disabled "ended" control
func (a *Announcer) DisableEntry(ctx context.Context, g *entities.Giveaway) error {
	if !g.HasMessage() {
		return nil
	}

	components := CreateEndedComponents(g)
	_, err := a.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    strconv.FormatInt(g.ChannelID, 10),
		ID:         strconv.FormatInt(g.MessageID, 10),
		Components: &components,
	})
	if err != nil {
		if isMessageGone(err) {
			return entities.ErrAnnouncementUnreachable
		}
		return fmt.Errorf("failed to disable entry button: %w", err)
	}
	return nil
}

// isMessageGone reports whether a Discord API error means the target message
// or channel no longer exists
func isMessageGone(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return true
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
			return true
		}
	}
	return false
}
