package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"giveaway-bot/bot/features/giveaways"
	"giveaway-bot/domain/interfaces"
	"giveaway-bot/domain/services"
	"giveaway-bot/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token                string
	GuildID              string
	MaxWinnerCount       int
	DefaultEntryEmoji    string
	RequiredStatusMarker string
	ScanInterval         time.Duration
	DisplayLocation      *time.Location
}

// Bot manages the Discord bot and the giveaway feature
type Bot struct {
	config   Config
	session  *discordgo.Session
	registry interfaces.GiveawayRegistry
	service  *services.GiveawayService
	policy   *services.AccessPolicy

	// Feature modules
	giveaways *giveaways.Feature

	// Worker cleanup functions
	stopExpirationWorker func()
}

// New creates a new bot instance, opens the gateway connection and starts
// the expiration worker
func New(config Config, registry interfaces.GiveawayRegistry, policy *services.AccessPolicy, bus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	// Voice states and presences feed the eligibility checks, so the wide
	// intent set is required.
	dg.Identify.Intents = discordgo.IntentsAll
	dg.StateEnabled = true

	announcer := giveaways.NewAnnouncer(dg, config.DisplayLocation)
	resolver := NewMemberResolver(dg)
	eligibility := services.NewEligibilityChecker(config.RequiredStatusMarker)

	service := services.NewGiveawayService(
		registry,
		announcer,
		resolver,
		busPublisher{bus},
		eligibility,
		config.MaxWinnerCount,
		config.DefaultEntryEmoji,
	)

	bot := &Bot{
		config:   config,
		session:  dg,
		registry: registry,
		service:  service,
		policy:   policy,
	}
	bot.giveaways = giveaways.NewFeature(dg, service, registry, policy, announcer, config.DisplayLocation)

	// Register handlers
	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleInteractions)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Keep the announcement entry counters in sync with toggles
	RegisterBotSubscriptions(bus, bot, announcer)

	// Start background workers
	bot.stopExpirationWorker = bot.StartGiveawayExpirationWorker(context.Background())
	log.Info("Background workers started")

	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	if b.stopExpirationWorker != nil {
		b.stopExpirationWorker()
	}
	log.Info("Background workers stopped")

	return b.session.Close()
}

// GetSession returns the Discord session
func (b *Bot) GetSession() *discordgo.Session {
	return b.session
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "giveaway", "giveaway-conditions", "reroll", "stop", "authorize":
		b.giveaways.HandleCommand(s, i)
	}
}

// handleInteractions routes component interactions to appropriate features
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	if strings.HasPrefix(customID, "giveaway_") {
		b.giveaways.HandleInteraction(s, i)
	}
}

// busPublisher adapts the event bus to the domain's publisher interface
type busPublisher struct {
	bus *events.Bus
}

func (p busPublisher) Publish(ctx context.Context, event events.Event) {
	p.bus.Publish(ctx, event)
}
