package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"giveaway-bot/domain/entities"
	"giveaway-bot/domain/testhelpers"
	"giveaway-bot/events"
	"giveaway-bot/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	service   *GiveawayService
	registry  *repository.GiveawayRegistry
	announcer *testhelpers.MockAnnouncer
	resolver  *testhelpers.MockMemberResolver
	publisher *testhelpers.RecordingPublisher
}

func newServiceFixture() *serviceFixture {
	registry := repository.NewGiveawayRegistry()
	announcer := new(testhelpers.MockAnnouncer)
	resolver := new(testhelpers.MockMemberResolver)
	publisher := new(testhelpers.RecordingPublisher)

	service := NewGiveawayService(
		registry,
		announcer,
		resolver,
		publisher,
		NewEligibilityChecker(".gift/event"),
		25,
		"🎉",
	)

	return &serviceFixture{
		service:   service,
		registry:  registry,
		announcer: announcer,
		resolver:  resolver,
		publisher: publisher,
	}
}

func validLaunchInput() LaunchInput {
	return LaunchInput{
		GuildID:     100,
		ChannelID:   200,
		HostID:      300,
		Prize:       "Nitro Classic",
		Duration:    "2h",
		WinnerCount: 1,
	}
}

// openGiveaway inserts a pre-built giveaway with the given participants,
// skipping Launch so closure paths can be tested in isolation.
func (f *serviceFixture) openGiveaway(t *testing.T, winnerCount int, participants ...int64) *entities.Giveaway {
	t.Helper()

	g := &entities.Giveaway{
		ID:           "g-test",
		GuildID:      100,
		ChannelID:    200,
		MessageID:    555,
		HostID:       300,
		Prize:        "Nitro Classic",
		EntryEmoji:   "🎉",
		WinnerCount:  winnerCount,
		EndsAt:       time.Now().UTC().Add(-time.Minute),
		CreatedAt:    time.Now().UTC().Add(-time.Hour),
		Participants: make(map[int64]struct{}),
	}
	for _, id := range participants {
		g.Participants[id] = struct{}{}
	}
	require.NoError(t, f.registry.Insert(g))
	require.NoError(t, f.registry.SetMessage(g.ID, g.ChannelID, g.MessageID))
	return g
}

func TestLaunchValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*LaunchInput)
		wantErr error
	}{
		{
			name:    "zero winners",
			mutate:  func(in *LaunchInput) { in.WinnerCount = 0 },
			wantErr: entities.ErrInvalidWinnerCount,
		},
		{
			name:    "too many winners",
			mutate:  func(in *LaunchInput) { in.WinnerCount = 26 },
			wantErr: entities.ErrInvalidWinnerCount,
		},
		{
			name:    "bad duration",
			mutate:  func(in *LaunchInput) { in.Duration = "tomorrow" },
			wantErr: entities.ErrInvalidDuration,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newServiceFixture()
			input := validLaunchInput()
			tt.mutate(&input)

			_, err := f.service.Launch(context.Background(), input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.registry.Snapshot(), "failed launch must not register anything")
		})
	}
}

func TestLaunchRegistersAndAnnounces(t *testing.T) {
	t.Parallel()

	f := newServiceFixture()
	f.announcer.On("PostAnnouncement", mock.Anything, mock.Anything).Return(int64(555), nil)

	before := time.Now().UTC()
	g, err := f.service.Launch(context.Background(), validLaunchInput())
	require.NoError(t, err)

	assert.NotEmpty(t, g.ID)
	assert.Equal(t, int64(555), g.MessageID)
	assert.Equal(t, "🎉", g.EntryEmoji, "default emoji applied")
	assert.True(t, g.EndsAt.After(before.Add(time.Hour)), "expiry honors the parsed duration")

	stored, err := f.registry.GetByMessage(200, 555)
	require.NoError(t, err)
	assert.Equal(t, g.ID, stored.ID)

	published := f.publisher.Events()
	require.Len(t, published, 1)
	launched, ok := published[0].(events.GiveawayLaunchedEvent)
	require.True(t, ok)
	assert.Equal(t, g.ID, launched.GiveawayID)
	f.announcer.AssertExpectations(t)
}

func TestLaunchAnnouncementFailureAborts(t *testing.T) {
	t.Parallel()

	f := newServiceFixture()
	f.announcer.On("PostAnnouncement", mock.Anything, mock.Anything).
		Return(int64(0), errors.New("channel gone"))

	_, err := f.service.Launch(context.Background(), validLaunchInput())
	require.Error(t, err)
	assert.Empty(t, f.registry.Snapshot())
	assert.Empty(t, f.publisher.Events())
}

func TestToggleParticipation(t *testing.T) {
	t.Parallel()

	f := newServiceFixture()
	g := f.openGiveaway(t, 1)

	joined, count, err := f.service.ToggleParticipation(context.Background(), g.ID, 42, false)
	require.NoError(t, err)
	assert.True(t, joined)
	assert.Equal(t, 1, count)

	joined, count, err = f.service.ToggleParticipation(context.Background(), g.ID, 42, false)
	require.NoError(t, err)
	assert.False(t, joined)
	assert.Equal(t, 0, count)

	published := f.publisher.Events()
	require.Len(t, published, 2)
	toggled, ok := published[0].(events.ParticipationToggledEvent)
	require.True(t, ok)
	assert.True(t, toggled.Joined)
}

func TestToggleParticipationRejectsBots(t *testing.T) {
	t.Parallel()

	f := newServiceFixture()
	g := f.openGiveaway(t, 1)

	_, _, err := f.service.ToggleParticipation(context.Background(), g.ID, 42, true)
	assert.ErrorIs(t, err, entities.ErrIneligibleParticipant)

	stored, err := f.registry.Get(g.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Participants)
}

func TestToggleParticipationUnknownGiveaway(t *testing.T) {
	t.Parallel()

	f := newServiceFixture()

	_, _, err := f.service.ToggleParticipation(context.Background(), "missing", 42, false)
	assert.ErrorIs(t, err, entities.ErrGiveawayNotFound)
}

func TestCloseExpiredInsufficientParticipants(t *testing.T) {
	t.Parallel()

	f := newServiceFixture()
	g := f.openGiveaway(t, 2, 11)
	f.announcer.On("DisableEntry", mock.Anything, mock.Anything).Return(nil)
	f.announcer.On("AnnounceOutcome", mock.Anything, g.ChannelID, g.MessageID, mock.Anything).Return(nil)

	outcome, err := f.service.CloseExpired(context.Background(), g.ID)
	require.NoError(t, err)

	assert.True(t, outcome.Insufficient)
	assert.Equal(t, 1, outcome.Entrants)
	assert.Empty(t, outcome.Winners)

	// Insufficient participants still end the giveaway.
	_, err = f.registry.Get(g.ID)
	assert.ErrorIs(t, err, entities.ErrGiveawayNotFound)
	f.announcer.AssertExpectations(t)
}

func TestCloseExpiredDrawsWinners(t *testing.T) {
	t.Parallel()

	f := newServiceFixture()
	g := f.openGiveaway(t, 1, 11, 22, 33)
	f.announcer.On("DisableEntry", mock.Anything, mock.Anything).Return(nil)
	f.announcer.On("AnnounceOutcome", mock.Anything, g.ChannelID, g.MessageID, mock.Anything).Return(nil)

	outcome, err := f.service.CloseExpired(context.Background(), g.ID)
	require.NoError(t, err)

	require.Len(t, outcome.Winners, 1)
	assert.Contains(t, []int64{11, 22, 33}, outcome.Winners[0])
	assert.Equal(t, entities.SourceRegistry, outcome.Source)
	assert.Empty(t, outcome.Ineligible)

	published := f.publisher.Events()
	require.Len(t, published, 1)
	closed, ok := published[0].(events.GiveawayClosedEvent)
	require.True(t, ok)
	assert.False(t, closed.Stopped)
	require.NotNil(t, closed.Outcome)
}

func TestCloseExpiredPartitionsByConditions(t *testing.T) {
	t.Parallel()

	f := newServiceFixture()
	g := f.openGiveaway(t, 2, 11, 22)
	g.Conditions = &entities.ConditionsProfile{Kind: entities.ConditionKindNitro, Tier: 5}
	f.announcer.On("DisableEntry", mock.Anything, mock.Anything).Return(nil)
	f.announcer.On("AnnounceOutcome", mock.Anything, g.ChannelID, g.MessageID, mock.Anything).Return(nil)

	f.resolver.On("Snapshot", mock.Anything, g.GuildID, int64(11)).Return(&entities.MemberSnapshot{
		UserID:          11,
		CustomStatus:    "playing .gift/event",
		InVoice:         true,
		VoiceCompanions: 2,
	}, nil)
	f.resolver.On("Snapshot", mock.Anything, g.GuildID, int64(22)).Return(&entities.MemberSnapshot{
		UserID:          22,
		CustomStatus:    "playing .gift/event",
		InVoice:         true,
		SelfMuted:       true,
		VoiceCompanions: 2,
	}, nil)

	outcome, err := f.service.CloseExpired(context.Background(), g.ID)
	require.NoError(t, err)

	assert.Equal(t, []int64{11}, outcome.Winners)
	require.Len(t, outcome.Ineligible, 1)
	assert.Equal(t, int64(22), outcome.Ineligible[0].UserID)
	assert.Equal(t, ReasonMuted, outcome.Ineligible[0].Reason)
}

func TestCloseExpiredResolverFailureMarksWinnerUnavailable(t *testing.T) {
	t.Parallel()

	f := newServiceFixture()
	g := f.openGiveaway(t, 1, 11)
	g.Conditions = &entities.ConditionsProfile{Kind: entities.ConditionKindDecoration, Tier: 1}
	f.announcer.On("DisableEntry", mock.Anything, mock.Anything).Return(nil)
	f.announcer.On("AnnounceOutcome", mock.Anything, g.ChannelID, g.MessageID, mock.Anything).Return(nil)
	f.resolver.On("Snapshot", mock.Anything, g.GuildID, int64(11)).
		Return(nil, errors.New("member left the guild"))

	outcome, err := f.service.CloseExpired(context.Background(), g.ID)
	require.NoError(t, err)

	assert.Empty(t, outcome.Winners)
	require.Len(t, outcome.Ineligible, 1)
	assert.Equal(t, ReasonMemberUnavailable, outcome.Ineligible[0].Reason)
	assert.True(t, outcome.AllIneligible())
}

func TestCloseExpiredUnreachableAnnouncementIsFinal(t *testing.T) {
	t.Parallel()

	f := newServiceFixture()
	g := f.openGiveaway(t, 1, 11)
	f.announcer.On("DisableEntry", mock.Anything, mock.Anything).Return(nil)
	f.announcer.On("AnnounceOutcome", mock.Anything, g.ChannelID, g.MessageID, mock.Anything).
		Return(entities.ErrAnnouncementUnreachable)

	outcome, err := f.service.CloseExpired(context.Background(), g.ID)
	require.NoError(t, err, "deleted announcement must not fail the closure")
	require.Len(t, outcome.Winners, 1)

	_, err = f.registry.Get(g.ID)
	assert.ErrorIs(t, err, entities.ErrGiveawayNotFound)
}

func TestStopSkipsSelection(t *testing.T) {
	t.Parallel()

	f := newServiceFixture()
	g := f.openGiveaway(t, 1, 11, 22)

	stopped, err := f.service.Stop(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, stopped.ID)

	_, err = f.registry.Get(g.ID)
	assert.ErrorIs(t, err, entities.ErrGiveawayNotFound)

	published := f.publisher.Events()
	require.Len(t, published, 1)
	closed, ok := published[0].(events.GiveawayClosedEvent)
	require.True(t, ok)
	assert.True(t, closed.Stopped)
	assert.Nil(t, closed.Outcome)
	f.announcer.AssertNotCalled(t, "AnnounceOutcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConcurrentCloseAndStopYieldOneClosure(t *testing.T) {
	t.Parallel()

	f := newServiceFixture()
	g := f.openGiveaway(t, 1, 11)
	f.announcer.On("DisableEntry", mock.Anything, mock.Anything).Return(nil)
	f.announcer.On("AnnounceOutcome", mock.Anything, g.ChannelID, g.MessageID, mock.Anything).Return(nil)

	var wg sync.WaitGroup
	var closeErr, stopErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, closeErr = f.service.CloseExpired(context.Background(), g.ID)
	}()
	go func() {
		defer wg.Done()
		_, stopErr = f.service.Stop(context.Background(), g.ID)
	}()
	wg.Wait()

	// Exactly one path wins the removal race.
	if closeErr == nil {
		assert.ErrorIs(t, stopErr, entities.ErrGiveawayNotFound)
	} else {
		assert.ErrorIs(t, closeErr, entities.ErrGiveawayNotFound)
		assert.NoError(t, stopErr)
	}
	assert.Len(t, f.publisher.Events(), 1)
}

func TestRerollConsumesLiveGiveaway(t *testing.T) {
	t.Parallel()

	f := newServiceFixture()
	g := f.openGiveaway(t, 1, 11, 22)
	g.EndsAt = time.Now().UTC().Add(time.Hour) // not expired; reroll ends it anyway
	f.announcer.On("DisableEntry", mock.Anything, mock.Anything).Return(nil)
	f.announcer.On("AnnounceOutcome", mock.Anything, g.ChannelID, g.MessageID, mock.Anything).Return(nil)

	outcome, err := f.service.Reroll(context.Background(), g.ID)
	require.NoError(t, err)
	require.Len(t, outcome.Winners, 1)

	_, err = f.registry.Get(g.ID)
	assert.ErrorIs(t, err, entities.ErrGiveawayNotFound)
}

func TestLifecycleEndToEnd(t *testing.T) {
	t.Parallel()

	f := newServiceFixture()
	f.announcer.On("PostAnnouncement", mock.Anything, mock.Anything).Return(int64(555), nil)
	f.announcer.On("DisableEntry", mock.Anything, mock.Anything).Return(nil)
	f.announcer.On("AnnounceOutcome", mock.Anything, int64(200), int64(555), mock.Anything).Return(nil)

	ctx := context.Background()
	input := validLaunchInput()
	input.Prize = "Gift Card"
	input.Duration = "0s"

	g, err := f.service.Launch(ctx, input)
	require.NoError(t, err)

	_, _, err = f.service.ToggleParticipation(ctx, g.ID, 11, false)
	require.NoError(t, err)
	_, _, err = f.service.ToggleParticipation(ctx, g.ID, 22, false)
	require.NoError(t, err)

	require.True(t, g.IsExpired(time.Now().UTC()))

	outcome, err := f.service.CloseExpired(ctx, g.ID)
	require.NoError(t, err)

	// Exactly one of the two entrants wins and no trace remains.
	require.Len(t, outcome.Winners, 1)
	assert.Contains(t, []int64{11, 22}, outcome.Winners[0])
	assert.Empty(t, f.registry.Snapshot())
}

func TestRerollFromMessage(t *testing.T) {
	t.Parallel()

	rendered := &entities.RenderedGiveaway{
		GuildID:     100,
		ChannelID:   200,
		MessageID:   555,
		Prize:       "Nitro Classic",
		EntryEmoji:  "🎉",
		WinnerCount: 1,
	}

	t.Run("draws from reactors", func(t *testing.T) {
		t.Parallel()

		f := newServiceFixture()
		f.announcer.On("AnnounceOutcome", mock.Anything, rendered.ChannelID, rendered.MessageID, mock.Anything).Return(nil)

		outcome, err := f.service.RerollFromMessage(context.Background(), rendered, []int64{11, 22, 33})
		require.NoError(t, err)
		assert.Equal(t, entities.SourceRenderedMessage, outcome.Source)
		require.Len(t, outcome.Winners, 1)
		assert.Contains(t, []int64{11, 22, 33}, outcome.Winners[0])
	})

	t.Run("insufficient reactors", func(t *testing.T) {
		t.Parallel()

		f := newServiceFixture()
		f.announcer.On("AnnounceOutcome", mock.Anything, rendered.ChannelID, rendered.MessageID, mock.Anything).Return(nil)

		outcome, err := f.service.RerollFromMessage(context.Background(), rendered, nil)
		require.NoError(t, err)
		assert.True(t, outcome.Insufficient)
		assert.Empty(t, outcome.Winners)
	})
}
