package bot

import (
	"context"

	"giveaway-bot/bot/features/giveaways"
	"giveaway-bot/events"

	log "github.com/sirupsen/logrus"
)

// RegisterBotSubscriptions registers all bot-level event subscriptions.
// The entry counter on the announcement embed is refreshed here instead of
// inline in the button handler, so toggle responses stay fast.
func RegisterBotSubscriptions(bus *events.Bus, bot *Bot, announcer *giveaways.Announcer) {
	bus.Subscribe(events.EventTypeParticipationToggled, func(ctx context.Context, event events.Event) {
		toggled, ok := event.(events.ParticipationToggledEvent)
		if !ok {
			log.Error("Received non-ParticipationToggledEvent in toggle handler")
			return
		}

		giveaway, err := bot.registry.Get(toggled.GiveawayID)
		if err != nil {
			// Closed between the toggle and this refresh; nothing to update.
			return
		}

		if err := announcer.UpdateEntryCount(ctx, giveaway, toggled.Count); err != nil {
			log.WithFields(log.Fields{
				"giveawayID": toggled.GiveawayID,
				"error":      err,
			}).Warn("Failed to refresh entry counter")
		}
	})

	bus.Subscribe(events.EventTypeGiveawayClosed, func(ctx context.Context, event events.Event) {
		closed, ok := event.(events.GiveawayClosedEvent)
		if !ok {
			log.Error("Received non-GiveawayClosedEvent in close handler")
			return
		}

		fields := log.Fields{
			"giveawayID": closed.GiveawayID,
			"guildID":    closed.GuildID,
			"stopped":    closed.Stopped,
		}
		if closed.Outcome != nil {
			fields["winners"] = len(closed.Outcome.Winners)
			fields["entrants"] = closed.Outcome.Entrants
		}
		log.WithFields(fields).Info("Giveaway lifecycle completed")
	})

	log.Info("Bot event subscriptions registered successfully")
}
