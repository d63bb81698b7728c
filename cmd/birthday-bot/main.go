// main is the entry point of the birthday bot.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file (+ DISCORD_TOKEN from env)
//  2. Initialise the logger
//  3. Connect to (and set up) the SQLite database
//  4. Open the Discord gateway session and register slash commands
//  5. Start the daily announcement loop in a separate goroutine
//  6. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: stop the notifier, close the session, exit
//
// RUNNING THE BOT:
//
//	DISCORD_TOKEN=... go run ./cmd/birthday-bot --config=config/local.yaml
//
// or (with the environment variable):
//
//	DISCORD_TOKEN=... CONFIG_PATH=config/local.yaml go run ./cmd/birthday-bot
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"github.com/aanand-mishra/birthday-bot/internal/bot/handlers/birthday"
	"github.com/aanand-mishra/birthday-bot/internal/bot/notifier"
	"github.com/aanand-mishra/birthday-bot/internal/config"
	"github.com/aanand-mishra/birthday-bot/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad reads the YAML config and panics if anything is wrong.
	// The name "Must" signals: if this returns, config is guaranteed valid
	// — including the DISCORD_TOKEN env variable, which is required.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// slog is Go's structured logger (stdlib since Go 1.21).
	// Structured logging writes key=value pairs rather than plain strings,
	// making logs easy to filter/search in tools like Loki or Datadog.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log) // handlers log through the default logger

	log.Info("starting birthday-bot",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage (Database) ──────────────────────────────────
	// sqlite.New opens the SQLite file and creates the birthdays table.
	// We keep using it through the storage.Storage INTERFACE, so swapping
	// to PostgreSQL later only requires changing this one line.
	storage, err := sqlite.New(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1) // non-zero exit code signals failure to the OS / CI system
	}

	log.Info("storage initialised",
		slog.String("path", cfg.StoragePath))

	// ── 4. Open the Discord Session ───────────────────────────────────────
	// discordgo.New only builds the client; the websocket connection to
	// the gateway happens in session.Open below.
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Error("failed to create discord session",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	// Slash commands need no privileged intents.
	session.Identify.Intents = discordgo.IntentsAllWithoutPrivileged

	// Dispatch table: interaction name → handler.
	//
	// The handler functions (birthday.Get, birthday.Set, etc.) are
	// FACTORIES — they receive `storage` and return the actual handler.
	// This is the dependency injection / closure pattern.
	//
	// Command table:
	//   /birthday get     → look up one user's birthday
	//   /birthday set     → add a new birthday
	//   /birthday edit    → change an existing birthday's date
	//   /birthday delete  → remove a birthday
	//   /birthday list    → all birthdays grouped by month
	//   /age              → age from the stored birthday
	router := map[string]birthday.Handler{
		"birthday/get":    birthday.Get(storage),
		"birthday/set":    birthday.Set(storage),
		"birthday/edit":   birthday.Edit(storage),
		"birthday/delete": birthday.Delete(storage),
		"birthday/list":   birthday.List(storage),
		"age":             birthday.Age(storage),
	}

	session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		if handler, ok := router[commandKey(i)]; ok {
			handler(s, i)
		}
	})

	session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		log.Info("connected to gateway",
			slog.String("bot_user", r.User.Username))
	})

	if err := session.Open(); err != nil {
		log.Error("failed to open discord session",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer session.Close()

	// Bulk overwrite replaces whatever command set a previous run left
	// behind, so stale commands disappear on deploy. Guild ID "" means
	// global registration.
	_, err = session.ApplicationCommandBulkOverwrite(
		session.State.User.ID, "", birthday.Commands())
	if err != nil {
		log.Error("failed to register commands",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("commands registered")

	// ── 5. Start the Notifier in a Goroutine ──────────────────────────────
	// Run blocks for process lifetime (it loops on a ticker). If we
	// called it here in main(), the shutdown code below would never run,
	// so it gets its own goroutine, cancelled via ctx on shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notif := notifier.New(
		storage,
		&notifier.SessionSender{Session: session},
		cfg.Discord.AnnouncementsChannelID,
		cfg.Discord.NotifyInterval,
		log,
	)
	go notif.Run(ctx)

	// ── 6. Wait for Shutdown Signal ───────────────────────────────────────
	// make(chan os.Signal, 1) creates a buffered channel of size 1.
	// Buffered so we don't miss the signal if main is briefly busy.
	done := make(chan os.Signal, 1)

	// signal.Notify registers our channel to receive specific OS signals:
	//   os.Interrupt = Ctrl+C (SIGINT)
	//   syscall.SIGTERM = sent by `kill <pid>` or container orchestrators
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	// <-done blocks (pauses) the main goroutine here.
	// The program stays alive because this goroutine is running.
	// When a signal arrives, done receives it and we unblock.
	<-done

	log.Info("shutdown signal received, stopping bot...")

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	// cancel() stops the notifier loop; the deferred session.Close()
	// tears down the gateway connection.
	cancel()

	log.Info("bot stopped gracefully")
}

// commandKey flattens an interaction into a router key:
// "age" for a plain command, "birthday/get" for a subcommand.
func commandKey(i *discordgo.InteractionCreate) string {
	data := i.ApplicationCommandData()

	parts := []string{data.Name}
	if len(data.Options) == 1 &&
		data.Options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		parts = append(parts, data.Options[0].Name)
	}

	return strings.Join(parts, "/")
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
//
//	JSON logs are easy to ingest by log aggregators (Loki, CloudWatch, etc.)
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo, // INFO and above in production
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug, // more verbose in staging
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug, // all levels in development
			}),
		)
	}
}
