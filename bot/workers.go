package bot

import (
	"context"
	"errors"
	"time"

	"giveaway-bot/domain/entities"

	log "github.com/sirupsen/logrus"
)

// StartGiveawayExpirationWorker starts a background worker that closes
// expired giveaways. Returns a cleanup function to stop the worker
// gracefully.
func (b *Bot) StartGiveawayExpirationWorker(ctx context.Context) func() {
	ticker := time.NewTicker(b.config.ScanInterval)
	stopChan := make(chan struct{})

	closeExpired := func() {
		now := time.Now().UTC()

		// Snapshot first; closures remove entries while we iterate.
		for _, giveaway := range b.registry.Snapshot() {
			if !giveaway.IsExpired(now) {
				continue
			}

			_, err := b.service.CloseExpired(context.Background(), giveaway.ID)
			if err != nil {
				// Lost the race to a concurrent stop or reroll.
				if errors.Is(err, entities.ErrGiveawayNotFound) {
					continue
				}
				log.Errorf("Error closing expired giveaway %s: %v", giveaway.ID, err)
			}
		}
	}

	go func() {
		log.Info("Giveaway expiration worker started")

		// Run immediately on startup
		closeExpired()

		for {
			select {
			case <-ctx.Done():
				log.Info("Giveaway expiration worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Giveaway expiration worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				closeExpired()
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}
