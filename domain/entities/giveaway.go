package entities

import (
	"time"
)

// ConditionKind identifies the category of prize a conditions profile guards.
type ConditionKind string

const (
	ConditionKindNitro      ConditionKind = "nitro"
	ConditionKindDecoration ConditionKind = "decoration"
)

// ConditionsProfile is the optional eligibility ruleset applied to drawn
// winners at closure time. Tier tightens the voice requirements: tier 3 and
// up forbids muted winners, tier 11 and up forbids being alone in voice.
type ConditionsProfile struct {
	Kind ConditionKind
	Tier int
}

// RequiresUnmuted returns true if the profile forbids muted winners.
func (p *ConditionsProfile) RequiresUnmuted() bool {
	return p.Tier >= 3
}

// RequiresCompany returns true if the profile forbids winners who are alone
// in their voice channel.
func (p *ConditionsProfile) RequiresCompany() bool {
	return p.Tier >= 11
}

// Giveaway represents a single timed prize-draw event. A giveaway exists in
// the registry only while it is open for entry; closure removes it.
type Giveaway struct {
	ID          string
	GuildID     int64
	ChannelID   int64
	MessageID   int64 // announcement message, 0 until posted
	HostID      int64
	Prize       string
	EntryEmoji  string
	WinnerCount int
	EndsAt      time.Time // set once at launch, never mutated
	Conditions  *ConditionsProfile
	CreatedAt   time.Time

	// Participants is the set of entered user IDs. Mutated only through the
	// registry's toggle operation, which guarantees uniqueness.
	Participants map[int64]struct{}
}

// IsExpired returns true once the entry window has passed.
func (g *Giveaway) IsExpired(now time.Time) bool {
	return !now.Before(g.EndsAt)
}

// HasConditions returns true if drawn winners must pass an eligibility check.
func (g *Giveaway) HasConditions() bool {
	return g.Conditions != nil
}

// HasMessage returns true if the giveaway is bound to a posted announcement.
func (g *Giveaway) HasMessage() bool {
	return g.MessageID != 0 && g.ChannelID != 0
}

// ParticipantIDs returns the current participant set as a slice.
func (g *Giveaway) ParticipantIDs() []int64 {
	ids := make([]int64, 0, len(g.Participants))
	for id := range g.Participants {
		ids = append(ids, id)
	}
	return ids
}
