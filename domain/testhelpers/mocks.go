package testhelpers

import (
	"context"
	"sync"

	"giveaway-bot/domain/entities"
	"giveaway-bot/events"

	"github.com/stretchr/testify/mock"
)

// MockGiveawayRegistry is a mock implementation of interfaces.GiveawayRegistry
type MockGiveawayRegistry struct {
	mock.Mock
}

func (m *MockGiveawayRegistry) Insert(g *entities.Giveaway) error {
	args := m.Called(g)
	return args.Error(0)
}

func (m *MockGiveawayRegistry) Get(id string) (*entities.Giveaway, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Giveaway), args.Error(1)
}

func (m *MockGiveawayRegistry) GetByMessage(channelID, messageID int64) (*entities.Giveaway, error) {
	args := m.Called(channelID, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Giveaway), args.Error(1)
}

func (m *MockGiveawayRegistry) Remove(id string) {
	m.Called(id)
}

func (m *MockGiveawayRegistry) Snapshot() []*entities.Giveaway {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*entities.Giveaway)
}

func (m *MockGiveawayRegistry) ToggleParticipant(id string, userID int64) (bool, int, error) {
	args := m.Called(id, userID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockGiveawayRegistry) SetMessage(id string, channelID, messageID int64) error {
	args := m.Called(id, channelID, messageID)
	return args.Error(0)
}

func (m *MockGiveawayRegistry) TakeForClosure(id string) (*entities.Giveaway, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Giveaway), args.Error(1)
}

// MockAnnouncer is a mock implementation of interfaces.Announcer
type MockAnnouncer struct {
	mock.Mock
}

func (m *MockAnnouncer) PostAnnouncement(ctx context.Context, g *entities.Giveaway) (int64, error) {
	args := m.Called(ctx, g)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnnouncer) UpdateEntryCount(ctx context.Context, g *entities.Giveaway, count int) error {
	args := m.Called(ctx, g, count)
	return args.Error(0)
}

func (m *MockAnnouncer) AnnounceOutcome(ctx context.Context, channelID, messageID int64, outcome *entities.ClosureOutcome) error {
	args := m.Called(ctx, channelID, messageID, outcome)
	return args.Error(0)
}

func (m *MockAnnouncer) DisableEntry(ctx context.Context, g *entities.Giveaway) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

// MockMemberResolver is a mock implementation of interfaces.MemberResolver
type MockMemberResolver struct {
	mock.Mock
}

func (m *MockMemberResolver) Snapshot(ctx context.Context, guildID, userID int64) (*entities.MemberSnapshot, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MemberSnapshot), args.Error(1)
}

// MockEventPublisher is a mock implementation of interfaces.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.Event) {
	m.Called(ctx, event)
}

// RecordingPublisher captures published events for assertions without
// expectation bookkeeping. Safe for concurrent publishers.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *RecordingPublisher) Publish(ctx context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Events returns a copy of everything published so far.
func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Event, len(p.events))
	copy(out, p.events)
	return out
}
