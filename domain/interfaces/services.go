package interfaces

import (
	"context"

	"giveaway-bot/domain/entities"
	"giveaway-bot/events"
)

// Announcer is the platform surface the lifecycle service talks to. The bot
// layer implements it with discordgo; tests use a mock.
type Announcer interface {
	// PostAnnouncement renders and posts the giveaway announcement and
	// returns the new message id.
	PostAnnouncement(ctx context.Context, g *entities.Giveaway) (messageID int64, err error)

	// UpdateEntryCount refreshes the entry counter on the announcement.
	UpdateEntryCount(ctx context.Context, g *entities.Giveaway, count int) error

	// AnnounceOutcome replies to the announcement with the closure result.
	// Returns entities.ErrAnnouncementUnreachable when the announcement
	// message no longer exists.
	AnnounceOutcome(ctx context.Context, channelID, messageID int64, outcome *entities.ClosureOutcome) error

	// DisableEntry swaps the entry button for a disabled "ended" control.
	DisableEntry(ctx context.Context, g *entities.Giveaway) error
}

// MemberResolver resolves a participant identity to a live membership
// snapshot (voice state, presence, mute flags) for eligibility checking.
type MemberResolver interface {
	Snapshot(ctx context.Context, guildID, userID int64) (*entities.MemberSnapshot, error)
}

// EventPublisher publishes domain events to the in-process bus.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}
