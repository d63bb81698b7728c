// Package notifier runs the daily birthday announcement loop.
//
// The loop is deliberately boring: wait for the ticker, ask storage
// which birthdays fall on today's date, send one announcement per
// match to the configured channel. Nothing in here is allowed to take
// the process down — a bad tick is logged and the next tick proceeds
// as if nothing happened.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/aanand-mishra/birthday-bot/internal/storage"
	"github.com/aanand-mishra/birthday-bot/internal/utils/embed"
)

// Sender delivers one announcement message to a channel.
//
// Kept deliberately narrow — the notifier does not need the whole chat
// session, and tests stub this with a recorder.
type Sender interface {
	SendAnnouncement(channelID string, content string, e *discordgo.MessageEmbed) error
}

// Notifier owns the announcement loop.
type Notifier struct {
	store     storage.Storage
	sender    Sender
	channelID string
	interval  time.Duration
	log       *slog.Logger
}

// New wires a Notifier. interval is the loop period (24h in production;
// shorter values are useful in development).
func New(store storage.Storage, sender Sender, channelID string, interval time.Duration, log *slog.Logger) *Notifier {
	return &Notifier{
		store:     store,
		sender:    sender,
		channelID: channelID,
		interval:  interval,
		log:       log,
	}
}

// Run blocks, announcing due birthdays once per interval until ctx is
// cancelled. Start it in its own goroutine:
//
//	go notif.Run(ctx)
//
// Tick failures are logged and skipped — the loop itself only ever
// stops on cancellation, so a flaky database or chat outage costs at
// most one day's announcements, never the process.
func (n *Notifier) Run(ctx context.Context) {
	n.log.Info("notifier started",
		slog.String("channel_id", n.channelID),
		slog.Duration("interval", n.interval))

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			n.log.Info("notifier stopped")
			return
		case <-ticker.C:
			if err := n.runTick(time.Now()); err != nil {
				n.log.Error("announcement tick failed, skipping until next tick",
					slog.String("error", err.Error()))
			}
		}
	}
}

// runTick performs one iteration of the loop: query the records due on
// the reference date and send one announcement per match.
//
// An individual failed send does not abort the batch — the remaining
// due users still get announced, and the tick reports how many sends
// failed. Zero due records means zero messages.
func (n *Notifier) runTick(now time.Time) error {
	due, err := n.store.GetBirthdaysDueOn(now)
	if err != nil {
		return fmt.Errorf("runTick: %w", err)
	}

	n.log.Info("announcement tick",
		slog.Time("date", now),
		slog.Int("due", len(due)))

	failed := 0
	for _, b := range due {
		err := n.sender.SendAnnouncement(n.channelID, "@everyone", embed.Announcement(b))
		if err != nil {
			failed++
			n.log.Error("failed to send announcement",
				slog.Uint64("user_id", b.UserID),
				slog.String("error", err.Error()))
			continue
		}

		n.log.Info("announcement sent", slog.Uint64("user_id", b.UserID))
	}

	if failed > 0 {
		return fmt.Errorf("runTick: %d of %d announcements failed", failed, len(due))
	}

	return nil
}
