package entities

import "errors"

// Domain errors shared by the registry, the lifecycle service and the bot
// layer. Handlers translate these into user-facing responses.
var (
	// ErrInvalidDuration indicates a duration string that could not be parsed.
	ErrInvalidDuration = errors.New("invalid duration format")

	// ErrInvalidWinnerCount indicates a winner count outside [1, max].
	ErrInvalidWinnerCount = errors.New("invalid winner count")

	// ErrGiveawayNotFound indicates the giveaway id is not in the registry.
	ErrGiveawayNotFound = errors.New("giveaway not found")

	// ErrGiveawayExists indicates an insert with an id already registered.
	ErrGiveawayExists = errors.New("giveaway already exists")

	// ErrIneligibleParticipant indicates a bot or system identity tried to enter.
	ErrIneligibleParticipant = errors.New("participant is not eligible to enter")

	// ErrAnnouncementUnreachable indicates the announcement message was
	// deleted or is otherwise inaccessible at closure time.
	ErrAnnouncementUnreachable = errors.New("announcement message unreachable")
)
