package giveaways

import (
	"strings"
	"time"

	"giveaway-bot/bot/common"
	"giveaway-bot/domain/interfaces"
	"giveaway-bot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature represents the giveaway feature
type Feature struct {
	session         *discordgo.Session
	service         *services.GiveawayService
	registry        interfaces.GiveawayRegistry
	policy          *services.AccessPolicy
	announcer       *Announcer
	displayLocation *time.Location
}

// NewFeature creates a new giveaway feature instance
func NewFeature(
	session *discordgo.Session,
	service *services.GiveawayService,
	registry interfaces.GiveawayRegistry,
	policy *services.AccessPolicy,
	announcer *Announcer,
	displayLocation *time.Location,
) *Feature {
	return &Feature{
		session:         session,
		service:         service,
		registry:        registry,
		policy:          policy,
		announcer:       announcer,
		displayLocation: displayLocation,
	}
}

// HandleCommand routes giveaway slash commands to their handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "giveaway":
		f.handleLaunch(s, i, false)
	case "giveaway-conditions":
		f.handleLaunch(s, i, true)
	case "reroll":
		f.handleReroll(s, i)
	case "stop":
		f.handleStop(s, i)
	case "authorize":
		f.handleAuthorize(s, i)
	default:
		common.RespondWithError(s, i, "Unknown giveaway command")
	}
}

// HandleInteraction handles giveaway button interactions
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		log.Warnf("Unknown interaction type in giveaways: %v", i.Type)
		return
	}

	customID := i.MessageComponentData().CustomID
	if strings.HasPrefix(customID, EntryButtonPrefix) {
		f.handleEntryButton(s, i, strings.TrimPrefix(customID, EntryButtonPrefix))
		return
	}

	common.RespondWithError(s, i, "Unknown giveaway interaction")
}
