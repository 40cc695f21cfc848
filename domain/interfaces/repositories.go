package interfaces

import (
	"giveaway-bot/domain/entities"
)

// GiveawayRegistry defines the authoritative table of open giveaways.
// Implementations must make every mutating operation atomic per entry: a
// toggle is one indivisible read-modify-write on that entry's participant
// set, and TakeForClosure is one indivisible lookup-then-delete so a race
// between natural expiry and an organizer stop can only produce one winner.
type GiveawayRegistry interface {
	// Insert registers a new open giveaway. Returns
	// entities.ErrGiveawayExists when the id is already present.
	Insert(g *entities.Giveaway) error

	// Get retrieves a giveaway by id. Returns entities.ErrGiveawayNotFound
	// when absent.
	Get(id string) (*entities.Giveaway, error)

	// GetByMessage retrieves the giveaway bound to an announcement message.
	GetByMessage(channelID, messageID int64) (*entities.Giveaway, error)

	// Remove deletes a giveaway. Removing an absent id is a no-op.
	Remove(id string)

	// Snapshot returns a copy of the current entries, safe to iterate while
	// closures remove entries concurrently.
	Snapshot() []*entities.Giveaway

	// ToggleParticipant atomically flips userID's membership in the
	// giveaway's participant set. Returns whether the user is now entered
	// and the updated participant count.
	ToggleParticipant(id string, userID int64) (joined bool, count int, err error)

	// SetMessage binds the giveaway to its posted announcement.
	SetMessage(id string, channelID, messageID int64) error

	// TakeForClosure atomically removes and returns the giveaway. Exactly
	// one of several concurrent callers succeeds; the rest get
	// entities.ErrGiveawayNotFound.
	TakeForClosure(id string) (*entities.Giveaway, error)
}
