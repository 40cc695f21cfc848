package entities

// MemberSnapshot is a point-in-time view of a guild member's voice and
// presence state, captured when eligibility is evaluated. It deliberately
// says nothing about history: conditions are checked at the instant of
// closure only.
type MemberSnapshot struct {
	UserID       int64
	CustomStatus string

	InVoice        bool
	VoiceChannelID int64
	SelfMuted      bool
	ServerMuted    bool

	// VoiceCompanions is the number of other members in the same voice
	// channel. Zero means alone.
	VoiceCompanions int
}

// Muted returns true if the member is muted by themselves or the server.
func (m *MemberSnapshot) Muted() bool {
	return m.SelfMuted || m.ServerMuted
}
