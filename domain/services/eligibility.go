package services

import (
	"strings"

	"giveaway-bot/domain/entities"
)

// Eligibility failure reasons, surfaced next to ineligible winners in the
// closure announcement.
const (
	ReasonMissingStatus = "missing required status"
	ReasonNotInVoice    = "not in voice"
	ReasonMuted         = "muted"
	ReasonAloneInVoice  = "alone in voice channel"
)

// EligibilityChecker evaluates a conditions profile against a member
// snapshot taken at closure time. The check is point-in-time only: it says
// nothing about whether the conditions held for the giveaway's duration,
// even though organizer-facing copy implies so.
type EligibilityChecker struct {
	statusMarker string
}

// NewEligibilityChecker creates a checker requiring the given marker token
// inside a member's custom status.
func NewEligibilityChecker(statusMarker string) *EligibilityChecker {
	return &EligibilityChecker{statusMarker: statusMarker}
}

// Check evaluates the profile's rules in order; the first failure wins.
// A nil profile always passes.
func (c *EligibilityChecker) Check(snapshot *entities.MemberSnapshot, profile *entities.ConditionsProfile) (bool, string) {
	if profile == nil {
		return true, ""
	}

	if !strings.Contains(snapshot.CustomStatus, c.statusMarker) {
		return false, ReasonMissingStatus
	}
	if !snapshot.InVoice {
		return false, ReasonNotInVoice
	}
	if profile.RequiresUnmuted() && snapshot.Muted() {
		return false, ReasonMuted
	}
	if profile.RequiresCompany() && snapshot.VoiceCompanions == 0 {
		return false, ReasonAloneInVoice
	}
	return true, ""
}
