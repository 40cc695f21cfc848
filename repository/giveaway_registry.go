package repository

import (
	"sync"

	"giveaway-bot/domain/entities"
	"giveaway-bot/domain/interfaces"
)

// GiveawayRegistry is the in-memory table of open giveaways. All state is
// volatile: a process restart loses every active giveaway.
//
// One mutex guards the whole table. Entry counts are small (one per running
// giveaway) and operations are cheap, so per-entry locking buys nothing; the
// single lock is what makes toggle and take-for-closure indivisible.
type GiveawayRegistry struct {
	mu        sync.Mutex
	entries   map[string]*entities.Giveaway
	byMessage map[int64]string // announcement message id -> giveaway id
}

// NewGiveawayRegistry creates an empty registry.
func NewGiveawayRegistry() *GiveawayRegistry {
	return &GiveawayRegistry{
		entries:   make(map[string]*entities.Giveaway),
		byMessage: make(map[int64]string),
	}
}

var _ interfaces.GiveawayRegistry = (*GiveawayRegistry)(nil)

// Insert registers a new open giveaway.
func (r *GiveawayRegistry) Insert(g *entities.Giveaway) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[g.ID]; exists {
		return entities.ErrGiveawayExists
	}
	if g.Participants == nil {
		g.Participants = make(map[int64]struct{})
	}
	r.entries[g.ID] = g
	if g.MessageID != 0 {
		r.byMessage[g.MessageID] = g.ID
	}
	return nil
}

// Get retrieves a giveaway by id.
func (r *GiveawayRegistry) Get(id string) (*entities.Giveaway, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.entries[id]
	if !ok {
		return nil, entities.ErrGiveawayNotFound
	}
	return g, nil
}

// GetByMessage retrieves the giveaway bound to an announcement message.
func (r *GiveawayRegistry) GetByMessage(channelID, messageID int64) (*entities.Giveaway, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byMessage[messageID]
	if !ok {
		return nil, entities.ErrGiveawayNotFound
	}
	g := r.entries[id]
	if channelID != 0 && g.ChannelID != channelID {
		return nil, entities.ErrGiveawayNotFound
	}
	return g, nil
}

// Remove deletes a giveaway. Removing an absent id is a no-op.
func (r *GiveawayRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(id)
}

// remove deletes the entry and its message index. Caller must hold the lock.
func (r *GiveawayRegistry) remove(id string) {
	if g, ok := r.entries[id]; ok {
		delete(r.byMessage, g.MessageID)
		delete(r.entries, id)
	}
}

// Snapshot returns a copy of the current entries.
func (r *GiveawayRegistry) Snapshot() []*entities.Giveaway {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make([]*entities.Giveaway, 0, len(r.entries))
	for _, g := range r.entries {
		snapshot = append(snapshot, g)
	}
	return snapshot
}

// ToggleParticipant atomically flips userID's membership in the giveaway's
// participant set.
func (r *GiveawayRegistry) ToggleParticipant(id string, userID int64) (bool, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.entries[id]
	if !ok {
		return false, 0, entities.ErrGiveawayNotFound
	}

	if _, entered := g.Participants[userID]; entered {
		delete(g.Participants, userID)
		return false, len(g.Participants), nil
	}
	g.Participants[userID] = struct{}{}
	return true, len(g.Participants), nil
}

// SetMessage binds the giveaway to its posted announcement.
func (r *GiveawayRegistry) SetMessage(id string, channelID, messageID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.entries[id]
	if !ok {
		return entities.ErrGiveawayNotFound
	}
	g.ChannelID = channelID
	g.MessageID = messageID
	r.byMessage[messageID] = id
	return nil
}

// TakeForClosure atomically removes and returns the giveaway.
func (r *GiveawayRegistry) TakeForClosure(id string) (*entities.Giveaway, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.entries[id]
	if !ok {
		return nil, entities.ErrGiveawayNotFound
	}
	r.remove(id)
	return g, nil
}
