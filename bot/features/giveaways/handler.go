package giveaways

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"giveaway-bot/bot/common"
	"giveaway-bot/domain/entities"
	"giveaway-bot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleLaunch processes /giveaway and /giveaway-conditions
func (f *Feature) handleLaunch(s *discordgo.Session, i *discordgo.InteractionCreate, conditioned bool) {
	if !f.requireOrganizer(s, i) {
		return
	}

	options := buildOptionMap(i)
	ctx := context.Background()

	channelOpt, ok := options["channel"]
	if !ok {
		common.RespondWithError(s, i, "A channel is required")
		return
	}
	channelID, err := strconv.ParseInt(channelOpt.ChannelValue(s).ID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Invalid channel")
		return
	}

	guildID, hostID, err := interactionIDs(i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse interaction IDs"), false)
		return
	}

	input := services.LaunchInput{
		GuildID:     guildID,
		ChannelID:   channelID,
		HostID:      hostID,
		Prize:       options["prize"].StringValue(),
		Duration:    options["duration"].StringValue(),
		WinnerCount: 1,
	}
	if opt, ok := options["winners"]; ok {
		input.WinnerCount = int(opt.IntValue())
	}
	if opt, ok := options["emoji"]; ok {
		input.EntryEmoji = opt.StringValue()
	}
	if conditioned {
		input.Conditions = &entities.ConditionsProfile{
			Kind: entities.ConditionKind(options["category"].StringValue()),
			Tier: int(options["tier"].IntValue()),
		}
	}

	giveaway, err := f.service.Launch(ctx, input)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrInvalidDuration):
			common.RespondWithError(s, i, "Invalid duration. Use a number followed by s, m, h or d (for example `2h` or `3d`).")
		case errors.Is(err, entities.ErrInvalidWinnerCount):
			common.RespondWithError(s, i, "Winner count must be between 1 and 25.")
		default:
			common.HandleError(s, i, common.NewSystemError(err, "failed to launch giveaway"), false)
		}
		return
	}

	respondEphemeral(s, i, fmt.Sprintf("Giveaway for **%s** launched in <#%d>! Ends %s.\n%s",
		giveaway.Prize,
		giveaway.ChannelID,
		common.FormatDiscordTimestamp(giveaway.EndsAt, "R"),
		common.FormatDiscordMessageLink(giveaway.GuildID, giveaway.ChannelID, giveaway.MessageID)))
}

// handleEntryButton toggles a user's participation
func (f *Feature) handleEntryButton(s *discordgo.Session, i *discordgo.InteractionCreate, giveawayID string) {
	if i.Member == nil || i.Member.User == nil {
		common.RespondWithError(s, i, "Giveaways can only be entered from a server")
		return
	}

	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse user ID"), false)
		return
	}

	joined, count, err := f.service.ToggleParticipation(context.Background(), giveawayID, userID, i.Member.User.Bot)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrGiveawayNotFound):
			common.RespondWithError(s, i, "This giveaway has already ended.")
		case errors.Is(err, entities.ErrIneligibleParticipant):
			common.RespondWithError(s, i, "Bots can't enter giveaways.")
		default:
			common.HandleError(s, i, common.NewSystemError(err, "failed to toggle participation"), false)
		}
		return
	}

	if joined {
		respondEphemeral(s, i, fmt.Sprintf("You're in! %d entries so far.", count))
	} else {
		respondEphemeral(s, i, fmt.Sprintf("Entry withdrawn. %d entries remain.", count))
	}
}

// handleReroll redraws winners for a giveaway addressed by its announcement
// message. Falls back to parsing the rendered announcement when the giveaway
// is no longer tracked, typically after a restart.
func (f *Feature) handleReroll(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !f.requireOrganizer(s, i) {
		return
	}

	ctx := context.Background()
	channelID, messageID, err := messageTarget(i)
	if err != nil {
		common.RespondWithError(s, i, "Invalid message ID")
		return
	}

	if giveaway, err := f.registry.GetByMessage(channelID, messageID); err == nil {
		outcome, err := f.service.Reroll(ctx, giveaway.ID)
		if err != nil {
			common.HandleError(s, i, common.NewSystemError(err, "failed to reroll giveaway"), false)
			return
		}
		respondEphemeral(s, i, rerollSummary(outcome))
		return
	}

	f.rerollFromMessage(s, i, channelID, messageID)
}

// rerollFromMessage is the degraded path: rebuild the giveaway from the
// posted announcement and the entry emoji reactions
func (f *Feature) rerollFromMessage(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, messageID int64) {
	ctx := context.Background()
	channelIDStr := strconv.FormatInt(channelID, 10)
	messageIDStr := strconv.FormatInt(messageID, 10)

	msg, err := s.ChannelMessage(channelIDStr, messageIDStr)
	if err != nil {
		common.RespondWithError(s, i, "No message with that ID in this channel.")
		return
	}
	if i.GuildID != "" {
		msg.GuildID = i.GuildID
	}

	rendered, err := ParseRenderedGiveaway(msg)
	if err != nil {
		log.WithFields(log.Fields{
			"channel_id": channelID,
			"message_id": messageID,
			"error":      err,
		}).Warn("Reroll target is not a readable giveaway announcement")
		common.RespondWithError(s, i, "That message is not a giveaway announcement I can read.")
		return
	}

	reactors, err := f.collectReactors(channelIDStr, messageIDStr, rendered.EntryEmoji)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to fetch giveaway reactions"), false)
		return
	}

	outcome, err := f.service.RerollFromMessage(ctx, rendered, reactors)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to reroll from rendered announcement"), false)
		return
	}
	respondEphemeral(s, i, rerollSummary(outcome))
}

// collectReactors pages through the entry emoji reactions, skipping bots
func (f *Feature) collectReactors(channelID, messageID, emoji string) ([]int64, error) {
	var reactors []int64
	after := ""

	for {
		users, err := f.session.MessageReactions(channelID, messageID, emoji, 100, "", after)
		if err != nil {
			return nil, fmt.Errorf("failed to list reactions: %w", err)
		}
		for _, user := range users {
			if user.Bot {
				continue
			}
			id, err := strconv.ParseInt(user.ID, 10, 64)
			if err != nil {
				log.Warnf("Failed to parse reactor ID %s: %v", user.ID, err)
				continue
			}
			reactors = append(reactors, id)
		}
		if len(users) < 100 {
			return reactors, nil
		}
		after = users[len(users)-1].ID
	}
}

// handleStop force-ends a giveaway without drawing winners
func (f *Feature) handleStop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !f.requireOrganizer(s, i) {
		return
	}

	ctx := context.Background()
	channelID, messageID, err := messageTarget(i)
	if err != nil {
		common.RespondWithError(s, i, "Invalid message ID")
		return
	}

	giveaway, err := f.registry.GetByMessage(channelID, messageID)
	if err != nil {
		common.RespondWithError(s, i, "No open giveaway on that message.")
		return
	}

	stopped, err := f.service.Stop(ctx, giveaway.ID)
	if err != nil {
		if errors.Is(err, entities.ErrGiveawayNotFound) {
			common.RespondWithError(s, i, "That giveaway already ended.")
			return
		}
		common.HandleError(s, i, common.NewSystemError(err, "failed to stop giveaway"), false)
		return
	}

	if err := f.announcer.DisableEntry(ctx, stopped); err != nil {
		log.WithFields(log.Fields{
			"giveaway_id": stopped.ID,
			"error":       err,
		}).Warn("Failed to disable entry button on stop")
	}

	respondEphemeral(s, i, fmt.Sprintf("Giveaway for **%s** stopped. No winners drawn.", stopped.Prize))
}

// handleAuthorize grants organizer access; administrators only
func (f *Feature) handleAuthorize(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil || i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		common.RespondWithError(s, i, "Only administrators can authorize organizers.")
		return
	}

	options := buildOptionMap(i)
	user := options["user"].UserValue(s)
	userID, err := strconv.ParseInt(user.ID, 10, 64)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse user ID"), false)
		return
	}

	if f.policy.Authorize(userID) {
		log.WithFields(log.Fields{
			"user_id":  userID,
			"guild_id": i.GuildID,
		}).Info("Organizer access granted")
		respondEphemeral(s, i, fmt.Sprintf("%s can now run giveaways.", common.FormatUserMention(userID)))
	} else {
		respondEphemeral(s, i, fmt.Sprintf("%s is already authorized.", common.FormatUserMention(userID)))
	}
}

// requireOrganizer gates organizer commands behind the access policy
func (f *Feature) requireOrganizer(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Member == nil || i.Member.User == nil {
		common.RespondWithError(s, i, "Giveaway commands only work in a server")
		return false
	}

	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse user ID"), false)
		return false
	}

	isAdmin := i.Member.Permissions&discordgo.PermissionAdministrator != 0
	if !f.policy.IsAllowed(userID, isAdmin) {
		common.RespondWithError(s, i, "You are not allowed to manage giveaways.")
		return false
	}
	return true
}

// rerollSummary renders the ephemeral confirmation after a reroll
func rerollSummary(outcome *entities.ClosureOutcome) string {
	if outcome.Insufficient {
		return fmt.Sprintf("Not enough participants to draw %d winner(s).", outcome.WinnerCount)
	}
	return fmt.Sprintf("Rerolled: %d winner(s) announced.", len(outcome.Winners))
}

// messageTarget parses the message option against the command's channel
func messageTarget(i *discordgo.InteractionCreate) (channelID, messageID int64, err error) {
	options := buildOptionMap(i)
	opt, ok := options["message"]
	if !ok {
		return 0, 0, fmt.Errorf("message option missing")
	}
	messageID, err = strconv.ParseInt(opt.StringValue(), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid message ID: %w", err)
	}
	channelID, err = strconv.ParseInt(i.ChannelID, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid channel ID: %w", err)
	}
	return channelID, messageID, nil
}

// interactionIDs parses the guild and invoking user IDs from an interaction
func interactionIDs(i *discordgo.InteractionCreate) (guildID, userID int64, err error) {
	guildID, err = strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid guild ID: %w", err)
	}
	userID, err = strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid user ID: %w", err)
	}
	return guildID, userID, nil
}

// buildOptionMap indexes the command options by name
func buildOptionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// respondEphemeral sends an ephemeral confirmation response
func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending interaction response: %v", err)
	}
}
