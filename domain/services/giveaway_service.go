package services

import (
	"context"
	"fmt"
	"time"

	"giveaway-bot/domain/entities"
	"giveaway-bot/domain/interfaces"
	"giveaway-bot/domain/utils"
	"giveaway-bot/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ReasonMemberUnavailable marks a drawn winner whose membership snapshot
// could not be resolved at closure time.
const ReasonMemberUnavailable = "member unavailable"

// LaunchInput carries the organizer's parameters for a new giveaway.
type LaunchInput struct {
	GuildID     int64
	ChannelID   int64
	HostID      int64
	Prize       string
	Duration    string
	WinnerCount int
	EntryEmoji  string
	Conditions  *entities.ConditionsProfile
}

// GiveawayService drives the giveaway lifecycle: launch, entry toggling,
// expiry closure, organizer stop and reroll. All state lives in the registry;
// closing a giveaway is removing it.
type GiveawayService struct {
	registry       interfaces.GiveawayRegistry
	announcer      interfaces.Announcer
	resolver       interfaces.MemberResolver
	publisher      interfaces.EventPublisher
	eligibility    *EligibilityChecker
	maxWinnerCount int
	defaultEmoji   string
}

// NewGiveawayService creates the lifecycle service with its collaborators.
func NewGiveawayService(
	registry interfaces.GiveawayRegistry,
	announcer interfaces.Announcer,
	resolver interfaces.MemberResolver,
	publisher interfaces.EventPublisher,
	eligibility *EligibilityChecker,
	maxWinnerCount int,
	defaultEmoji string,
) *GiveawayService {
	return &GiveawayService{
		registry:       registry,
		announcer:      announcer,
		resolver:       resolver,
		publisher:      publisher,
		eligibility:    eligibility,
		maxWinnerCount: maxWinnerCount,
		defaultEmoji:   defaultEmoji,
	}
}

// Launch validates the organizer input, posts the announcement and registers
// the giveaway as open for entry.
func (s *GiveawayService) Launch(ctx context.Context, input LaunchInput) (*entities.Giveaway, error) {
	if input.WinnerCount < 1 || input.WinnerCount > s.maxWinnerCount {
		return nil, fmt.Errorf("winner count %d outside [1, %d]: %w",
			input.WinnerCount, s.maxWinnerCount, entities.ErrInvalidWinnerCount)
	}

	duration, err := utils.ParseGiveawayDuration(input.Duration)
	if err != nil {
		return nil, err
	}

	emoji := input.EntryEmoji
	if emoji == "" {
		emoji = s.defaultEmoji
	}

	now := time.Now().UTC()
	giveaway := &entities.Giveaway{
		ID:           uuid.New().String(),
		GuildID:      input.GuildID,
		ChannelID:    input.ChannelID,
		HostID:       input.HostID,
		Prize:        input.Prize,
		EntryEmoji:   emoji,
		WinnerCount:  input.WinnerCount,
		EndsAt:       now.Add(duration),
		Conditions:   input.Conditions,
		CreatedAt:    now,
		Participants: make(map[int64]struct{}),
	}

	messageID, err := s.announcer.PostAnnouncement(ctx, giveaway)
	if err != nil {
		return nil, fmt.Errorf("failed to post giveaway announcement: %w", err)
	}
	giveaway.MessageID = messageID

	if err := s.registry.Insert(giveaway); err != nil {
		return nil, err
	}
	if err := s.registry.SetMessage(giveaway.ID, giveaway.ChannelID, messageID); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"giveawayID":  giveaway.ID,
		"guildID":     giveaway.GuildID,
		"prize":       giveaway.Prize,
		"winnerCount": giveaway.WinnerCount,
		"endsAt":      giveaway.EndsAt,
	}).Info("Giveaway launched")

	s.publisher.Publish(ctx, events.GiveawayLaunchedEvent{
		GiveawayID: giveaway.ID,
		GuildID:    giveaway.GuildID,
		ChannelID:  giveaway.ChannelID,
		HostID:     giveaway.HostID,
		Prize:      giveaway.Prize,
	})

	return giveaway, nil
}

// ToggleParticipation flips a user's entry in an open giveaway. Bot
// identities are rejected.
func (s *GiveawayService) ToggleParticipation(ctx context.Context, id string, userID int64, isBot bool) (bool, int, error) {
	if isBot {
		return false, 0, entities.ErrIneligibleParticipant
	}

	joined, count, err := s.registry.ToggleParticipant(id, userID)
	if err != nil {
		return false, 0, err
	}

	s.publisher.Publish(ctx, events.ParticipationToggledEvent{
		GiveawayID: id,
		UserID:     userID,
		Joined:     joined,
		Count:      count,
	})

	return joined, count, nil
}

// CloseExpired consumes an expired giveaway, draws winners and announces the
// result. Called by the expiration scanner; losing the removal race to a
// concurrent stop or reroll returns ErrGiveawayNotFound and is benign.
func (s *GiveawayService) CloseExpired(ctx context.Context, id string) (*entities.ClosureOutcome, error) {
	giveaway, err := s.registry.TakeForClosure(id)
	if err != nil {
		return nil, err
	}
	return s.concludeAndAnnounce(ctx, giveaway, false)
}

// Stop force-removes a giveaway without selecting winners.
func (s *GiveawayService) Stop(ctx context.Context, id string) (*entities.Giveaway, error) {
	giveaway, err := s.registry.TakeForClosure(id)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"giveawayID": giveaway.ID,
		"prize":      giveaway.Prize,
	}).Info("Giveaway stopped by organizer")

	s.publisher.Publish(ctx, events.GiveawayClosedEvent{
		GiveawayID: giveaway.ID,
		GuildID:    giveaway.GuildID,
		Stopped:    true,
	})

	return giveaway, nil
}

// Reroll consumes a live giveaway and draws winners immediately, regardless
// of expiry. The giveaway ends; there is no redraw-in-place.
func (s *GiveawayService) Reroll(ctx context.Context, id string) (*entities.ClosureOutcome, error) {
	giveaway, err := s.registry.TakeForClosure(id)
	if err != nil {
		return nil, err
	}
	return s.concludeAndAnnounce(ctx, giveaway, true)
}

// RerollFromMessage is the degraded reroll path for giveaways no longer in
// the registry, rebuilt from the rendered announcement plus the users who
// reacted with the entry emoji. Best-effort: no participant-set continuity.
func (s *GiveawayService) RerollFromMessage(ctx context.Context, rendered *entities.RenderedGiveaway, reactors []int64) (*entities.ClosureOutcome, error) {
	outcome := &entities.ClosureOutcome{
		Prize:       rendered.Prize,
		WinnerCount: rendered.WinnerCount,
		Source:      entities.SourceRenderedMessage,
		Entrants:    len(reactors),
	}

	if len(reactors) < rendered.WinnerCount {
		outcome.Insufficient = true
	} else {
		winners, err := SelectWinners(reactors, rendered.WinnerCount)
		if err != nil {
			return nil, err
		}
		outcome.Winners = winners
	}

	log.WithFields(log.Fields{
		"channelID": rendered.ChannelID,
		"messageID": rendered.MessageID,
		"entrants":  outcome.Entrants,
		"winners":   len(outcome.Winners),
	}).Info("Giveaway rerolled from rendered announcement")

	if err := s.announcer.AnnounceOutcome(ctx, rendered.ChannelID, rendered.MessageID, outcome); err != nil {
		return nil, fmt.Errorf("failed to announce reroll result: %w", err)
	}

	return outcome, nil
}

// concludeAndAnnounce builds the closure outcome for a registry-backed
// giveaway and posts the result. The entry is already removed; an
// unreachable announcement is logged, never propagated, so closure is final
// either way.
func (s *GiveawayService) concludeAndAnnounce(ctx context.Context, giveaway *entities.Giveaway, reroll bool) (*entities.ClosureOutcome, error) {
	outcome := s.buildOutcome(ctx, giveaway)

	log.WithFields(log.Fields{
		"giveawayID":   giveaway.ID,
		"prize":        giveaway.Prize,
		"entrants":     outcome.Entrants,
		"winners":      len(outcome.Winners),
		"ineligible":   len(outcome.Ineligible),
		"insufficient": outcome.Insufficient,
		"reroll":       reroll,
	}).Info("Giveaway closed")

	if giveaway.HasMessage() {
		if err := s.announcer.DisableEntry(ctx, giveaway); err != nil {
			log.WithFields(log.Fields{
				"giveawayID": giveaway.ID,
				"error":      err,
			}).Warn("Failed to disable entry button")
		}
		if err := s.announcer.AnnounceOutcome(ctx, giveaway.ChannelID, giveaway.MessageID, outcome); err != nil {
			log.WithFields(log.Fields{
				"giveawayID": giveaway.ID,
				"channelID":  giveaway.ChannelID,
				"messageID":  giveaway.MessageID,
				"error":      err,
			}).Error("Failed to announce giveaway result")
		}
	}

	s.publisher.Publish(ctx, events.GiveawayClosedEvent{
		GiveawayID: giveaway.ID,
		GuildID:    giveaway.GuildID,
		Outcome:    outcome,
	})

	return outcome, nil
}

// buildOutcome draws winners and, when a conditions profile is present,
// partitions them into eligible and ineligible with a per-loser reason.
func (s *GiveawayService) buildOutcome(ctx context.Context, giveaway *entities.Giveaway) *entities.ClosureOutcome {
	outcome := &entities.ClosureOutcome{
		GiveawayID:  giveaway.ID,
		Prize:       giveaway.Prize,
		WinnerCount: giveaway.WinnerCount,
		Source:      entities.SourceRegistry,
		Entrants:    len(giveaway.Participants),
	}

	if outcome.Entrants < giveaway.WinnerCount {
		outcome.Insufficient = true
		return outcome
	}

	drawn, err := SelectWinners(giveaway.ParticipantIDs(), giveaway.WinnerCount)
	if err != nil {
		// crypto/rand failure; treat as a draw that produced nobody.
		log.WithFields(log.Fields{
			"giveawayID": giveaway.ID,
			"error":      err,
		}).Error("Winner selection failed")
		outcome.Insufficient = true
		return outcome
	}

	if !giveaway.HasConditions() {
		outcome.Winners = drawn
		return outcome
	}

	for _, userID := range drawn {
		snapshot, err := s.resolver.Snapshot(ctx, giveaway.GuildID, userID)
		if err != nil {
			outcome.Ineligible = append(outcome.Ineligible, entities.IneligibleWinner{
				UserID: userID,
				Reason: ReasonMemberUnavailable,
			})
			continue
		}
		if ok, reason := s.eligibility.Check(snapshot, giveaway.Conditions); !ok {
			outcome.Ineligible = append(outcome.Ineligible, entities.IneligibleWinner{
				UserID: userID,
				Reason: reason,
			})
			continue
		}
		outcome.Winners = append(outcome.Winners, userID)
	}

	return outcome
}
