package cmd

import (
	"context"
	"fmt"

	"giveaway-bot/bot"
	"giveaway-bot/config"
	"giveaway-bot/domain/services"
	"giveaway-bot/events"
	"giveaway-bot/repository"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	// Local development convenience; production relies on real env vars.
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment variables")
	}

	log.Info("Starting giveaway bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize the in-memory giveaway registry. All state is volatile: a
	// restart forgets every open giveaway.
	registry := repository.NewGiveawayRegistry()

	// Seed the access policy with pre-authorized organizers
	policy := services.NewAccessPolicy()
	for _, userID := range cfg.AuthorizedUserIDs {
		policy.Authorize(userID)
	}

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:                cfg.DiscordToken,
		GuildID:              cfg.GuildID,
		MaxWinnerCount:       cfg.MaxWinnerCount,
		DefaultEntryEmoji:    cfg.DefaultEntryEmoji,
		RequiredStatusMarker: cfg.RequiredStatusMarker,
		ScanInterval:         cfg.ScanInterval,
		DisplayLocation:      cfg.Location(),
	}
	discordBot, err := bot.New(botConfig, registry, policy, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")
	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}
	log.Info("Shutdown completed")

	return nil
}
