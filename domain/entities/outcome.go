package entities

// ClosureSource records which data backed a winner selection. Selections from
// the registry use the structured participant set; selections rebuilt from a
// rendered announcement are best-effort and carry no continuity guarantee.
type ClosureSource string

const (
	SourceRegistry        ClosureSource = "registry"
	SourceRenderedMessage ClosureSource = "rendered_message"
)

// IneligibleWinner is a drawn winner that failed the conditions profile.
type IneligibleWinner struct {
	UserID int64
	Reason string
}

// ClosureOutcome is the result of closing or rerolling a giveaway.
type ClosureOutcome struct {
	GiveawayID  string
	Prize       string
	WinnerCount int
	Source      ClosureSource

	// Insufficient is set when fewer participants entered than winners
	// requested. Not an error; it still ends the giveaway.
	Insufficient bool
	Entrants     int

	Winners    []int64
	Ineligible []IneligibleWinner
}

// AllIneligible returns true if winners were drawn but none passed the
// conditions profile.
func (o *ClosureOutcome) AllIneligible() bool {
	return !o.Insufficient && len(o.Winners) == 0 && len(o.Ineligible) > 0
}

// RenderedGiveaway holds the fields recovered by parsing a previously posted
// announcement. Used by the degraded reroll path when the giveaway is no
// longer in the registry.
type RenderedGiveaway struct {
	GuildID     int64
	ChannelID   int64
	MessageID   int64
	Prize       string
	EntryEmoji  string
	WinnerCount int
}
