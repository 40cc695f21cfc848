package bot

import (
	"context"
	"fmt"
	"strconv"

	"giveaway-bot/domain/entities"
	"giveaway-bot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// MemberResolverImpl builds membership snapshots from the gateway state
// cache. Voice states and presences are only available through the state, so
// a member outside the cache resolves with empty voice and status fields.
type MemberResolverImpl struct {
	session *discordgo.Session
}

// NewMemberResolver creates a resolver backed by the session's state cache
func NewMemberResolver(session *discordgo.Session) interfaces.MemberResolver {
	return &MemberResolverImpl{session: session}
}

// Snapshot resolves a user's live membership state in a guild
func (r *MemberResolverImpl) Snapshot(ctx context.Context, guildID, userID int64) (*entities.MemberSnapshot, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	guildIDStr := strconv.FormatInt(guildID, 10)
	userIDStr := strconv.FormatInt(userID, 10)

	guild, err := r.session.State.Guild(guildIDStr)
	if err != nil {
		return nil, fmt.Errorf("guild %d not in state cache: %w", guildID, err)
	}

	// Confirm the member still exists; winners can leave between entry and
	// closure.
	if _, err := r.session.State.Member(guildIDStr, userIDStr); err != nil {
		if _, apiErr := r.session.GuildMember(guildIDStr, userIDStr); apiErr != nil {
			return nil, fmt.Errorf("member %d not found in guild %d: %w", userID, guildID, apiErr)
		}
	}

	snapshot := &entities.MemberSnapshot{
		UserID:       userID,
		CustomStatus: r.customStatus(guild, userIDStr),
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID != userIDStr || vs.ChannelID == "" {
			continue
		}
		channelID, err := strconv.ParseInt(vs.ChannelID, 10, 64)
		if err != nil {
			log.Warnf("Failed to parse voice channel ID %s: %v", vs.ChannelID, err)
			break
		}
		snapshot.InVoice = true
		snapshot.VoiceChannelID = channelID
		snapshot.SelfMuted = vs.SelfMute
		snapshot.ServerMuted = vs.Mute
		snapshot.VoiceCompanions = countChannelOccupants(guild, vs.ChannelID) - 1
		break
	}

	return snapshot, nil
}

// customStatus extracts the custom status text from a member's presence
func (r *MemberResolverImpl) customStatus(guild *discordgo.Guild, userID string) string {
	for _, presence := range guild.Presences {
		if presence.User == nil || presence.User.ID != userID {
			continue
		}
		for _, activity := range presence.Activities {
			if activity != nil && activity.Type == discordgo.ActivityTypeCustom {
				return activity.State
			}
		}
	}
	return ""
}

// countChannelOccupants counts users currently connected to a voice channel
func countChannelOccupants(guild *discordgo.Guild, channelID string) int {
	count := 0
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == channelID {
			count++
		}
	}
	return count
}
