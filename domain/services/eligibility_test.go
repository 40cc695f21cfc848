package services

import (
	"testing"

	"giveaway-bot/domain/entities"

	"github.com/stretchr/testify/assert"
)

func eligibleSnapshot(opts ...func(*entities.MemberSnapshot)) *entities.MemberSnapshot {
	s := &entities.MemberSnapshot{
		UserID:          42,
		CustomStatus:    "gg .gift/event",
		InVoice:         true,
		VoiceChannelID:  700,
		VoiceCompanions: 3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func TestEligibilityCheckerNilProfilePasses(t *testing.T) {
	t.Parallel()

	checker := NewEligibilityChecker(".gift/event")

	ok, reason := checker.Check(&entities.MemberSnapshot{}, nil)
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestEligibilityCheckerRuleOrder(t *testing.T) {
	t.Parallel()

	checker := NewEligibilityChecker(".gift/event")
	profile := &entities.ConditionsProfile{Kind: entities.ConditionKindNitro, Tier: 15}

	tests := []struct {
		name       string
		snapshot   *entities.MemberSnapshot
		wantOK     bool
		wantReason string
	}{
		{
			name:     "all conditions met",
			wantOK:   true,
			snapshot: eligibleSnapshot(),
		},
		{
			name:       "missing status checked first",
			wantReason: ReasonMissingStatus,
			snapshot: eligibleSnapshot(func(s *entities.MemberSnapshot) {
				// Also offline from voice: status failure must win.
				s.CustomStatus = "something else"
				s.InVoice = false
			}),
		},
		{
			name:       "not in voice",
			wantReason: ReasonNotInVoice,
			snapshot: eligibleSnapshot(func(s *entities.MemberSnapshot) {
				s.InVoice = false
				s.SelfMuted = true
			}),
		},
		{
			name:       "self muted",
			wantReason: ReasonMuted,
			snapshot: eligibleSnapshot(func(s *entities.MemberSnapshot) {
				s.SelfMuted = true
			}),
		},
		{
			name:       "server muted",
			wantReason: ReasonMuted,
			snapshot: eligibleSnapshot(func(s *entities.MemberSnapshot) {
				s.ServerMuted = true
			}),
		},
		{
			name:       "alone in voice",
			wantReason: ReasonAloneInVoice,
			snapshot: eligibleSnapshot(func(s *entities.MemberSnapshot) {
				s.VoiceCompanions = 0
			}),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ok, reason := checker.Check(tt.snapshot, profile)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestEligibilityCheckerTierBoundaries(t *testing.T) {
	t.Parallel()

	checker := NewEligibilityChecker(".gift/event")

	// Tier 2: mute rule not active yet, a muted member still passes.
	muted := eligibleSnapshot(func(s *entities.MemberSnapshot) { s.SelfMuted = true })
	ok, reason := checker.Check(muted, &entities.ConditionsProfile{Tier: 2})
	assert.True(t, ok)
	assert.Empty(t, reason)

	// Tier 3: mute rule active.
	ok, reason = checker.Check(muted, &entities.ConditionsProfile{Tier: 3})
	assert.False(t, ok)
	assert.Equal(t, ReasonMuted, reason)

	// Tier 10: company rule not active, alone is fine.
	alone := eligibleSnapshot(func(s *entities.MemberSnapshot) { s.VoiceCompanions = 0 })
	ok, _ = checker.Check(alone, &entities.ConditionsProfile{Tier: 10})
	assert.True(t, ok)

	// Tier 11: alone fails even unmuted and properly statused.
	ok, reason = checker.Check(alone, &entities.ConditionsProfile{Tier: 11})
	assert.False(t, ok)
	assert.Equal(t, ReasonAloneInVoice, reason)
}
