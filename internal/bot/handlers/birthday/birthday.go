// Package birthday contains all slash-command handlers for the
// birthday resource: /birthday get|set|edit|delete|list and /age.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// discordgo dispatches interactions to functions with the signature:
//
//	func(s *discordgo.Session, i *discordgo.InteractionCreate)
//
// That signature has no room for extra parameters like a database.
// To inject dependencies we use a factory function that:
//  1. Accepts dependencies (storage)
//  2. Returns a function with the exact signature the dispatcher needs
//
// Because the inner function "closes over" the outer parameters, it can
// access `storage` even after the factory call has returned. Example:
//
//	router["birthday/get"] = birthday.Get(storage)
//	//                       ^^^^^^^^^^^^^^^^^^^^
//	//            Get(storage) is called ONCE at startup.
//	//            It returns a handler func which is called on
//	//            EVERY matching interaction.
//
// Every path responds to the interaction — success embed or error
// embed — so a failure is never silent from the user's point of view.
package birthday

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/birthday-bot/internal/storage"
	"github.com/aanand-mishra/birthday-bot/internal/types"
	"github.com/aanand-mishra/birthday-bot/internal/utils/embed"
)

// Handler is the discordgo interaction handler signature.
type Handler func(s *discordgo.Session, i *discordgo.InteractionCreate)

// ─────────────────────────────────────────────────────────────────────────────
// Get handles /birthday get <user>
// Answers with the stored birthday, or a not-found error embed.
// ─────────────────────────────────────────────────────────────────────────────
func Get(store storage.Storage) Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		user := optionUser(s, i)
		if user == nil {
			respond(s, i, embed.Error(errors.New("a user is required")))
			return
		}
		slog.Info("getting a birthday", slog.String("user", user.ID))

		userID, err := parseUserID(user.ID)
		if err != nil {
			respond(s, i, embed.Error(err))
			return
		}

		respond(s, i, getEmbed(store, userID, user.AvatarURL("256")))
	}
}

// getEmbed does the storage lookup and builds the response embed.
// Split out from the closure so tests can drive it without a session.
func getEmbed(store storage.Storage, userID uint64, avatarURL string) *discordgo.MessageEmbed {
	b, err := store.GetBirthdayByUserID(userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return embed.Error(fmt.Errorf(
				"%s has no birthday set — use /birthday set to add one", embed.Mention(userID)))
		}
		slog.Error("error getting birthday",
			slog.Uint64("user_id", userID),
			slog.String("error", err.Error()))
		return embed.Error(err)
	}

	return embed.Get(b, avatarURL)
}

// ─────────────────────────────────────────────────────────────────────────────
// Set handles /birthday set <user> [name] <date>
// Creates a new record. The name defaults to the target's display name;
// the date is DD-MM-YYYY with "/" accepted as separator.
//
// Error responses:
//
//	invalid date   — validation error embed
//	already set    — conflict error embed (use /birthday edit instead)
//
// ─────────────────────────────────────────────────────────────────────────────
func Set(store storage.Storage) Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		user := optionUser(s, i)
		if user == nil {
			respond(s, i, embed.Error(errors.New("a user is required")))
			return
		}
		slog.Info("setting a birthday", slog.String("user", user.ID))

		userID, err := parseUserID(user.ID)
		if err != nil {
			respond(s, i, embed.Error(err))
			return
		}

		// The name option is optional; fall back to how the platform
		// displays the user.
		name := optionString(i, "name")
		if name == "" {
			name = displayName(user)
		}

		respond(s, i, setEmbed(store, userID, name, optionString(i, "date"), user.AvatarURL("256")))
	}
}

func setEmbed(store storage.Storage, userID uint64, name, dateStr, avatarURL string) *discordgo.MessageEmbed {
	date, err := types.ParseDate(dateStr)
	if err != nil {
		return embed.Error(err)
	}

	b := types.Birthday{UserID: userID, Name: name, Birthday: date}

	// validator.New().Struct(v) checks all validate:"..." tags on v.
	// It returns nil if everything is valid, or a ValidationErrors
	// (which implements the error interface) if any rule fails —
	// this is what rejects an empty name.
	if err := validator.New().Struct(b); err != nil {
		validateErrs := err.(validator.ValidationErrors)
		return embed.ValidationError(validateErrs)
	}

	if err := store.CreateBirthday(b); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return embed.Error(fmt.Errorf(
				"%s already has a birthday set — use /birthday edit to change it",
				embed.Mention(userID)))
		}
		slog.Error("error creating birthday",
			slog.Uint64("user_id", userID),
			slog.String("error", err.Error()))
		return embed.Error(err)
	}

	slog.Info("birthday created", slog.Uint64("user_id", userID))
	return embed.Added(b, avatarURL)
}

// ─────────────────────────────────────────────────────────────────────────────
// Edit handles /birthday edit <user> <date>
// Replaces only the stored date; the stored name is untouched.
// ─────────────────────────────────────────────────────────────────────────────
func Edit(store storage.Storage) Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		user := optionUser(s, i)
		if user == nil {
			respond(s, i, embed.Error(errors.New("a user is required")))
			return
		}
		slog.Info("editing a birthday", slog.String("user", user.ID))

		userID, err := parseUserID(user.ID)
		if err != nil {
			respond(s, i, embed.Error(err))
			return
		}

		respond(s, i, editEmbed(store, userID, displayName(user),
			optionString(i, "date"), user.AvatarURL("256")))
	}
}

func editEmbed(store storage.Storage, userID uint64, displayName, dateStr, avatarURL string) *discordgo.MessageEmbed {
	date, err := types.ParseDate(dateStr)
	if err != nil {
		return embed.Error(err)
	}

	if err := store.UpdateBirthday(userID, date); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return embed.Error(fmt.Errorf(
				"%s has no birthday set — use /birthday set to add one", embed.Mention(userID)))
		}
		slog.Error("error updating birthday",
			slog.Uint64("user_id", userID),
			slog.String("error", err.Error()))
		return embed.Error(err)
	}

	slog.Info("birthday updated", slog.Uint64("user_id", userID))
	return embed.Edited(displayName, date, avatarURL)
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles /birthday delete <user>
// Always confirms: deleting an unset birthday is a no-op, not an error.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(store storage.Storage) Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		user := optionUser(s, i)
		if user == nil {
			respond(s, i, embed.Error(errors.New("a user is required")))
			return
		}
		slog.Info("deleting a birthday", slog.String("user", user.ID))

		userID, err := parseUserID(user.ID)
		if err != nil {
			respond(s, i, embed.Error(err))
			return
		}

		respond(s, i, deleteEmbed(store, userID, displayName(user), user.AvatarURL("256")))
	}
}

func deleteEmbed(store storage.Storage, userID uint64, displayName, avatarURL string) *discordgo.MessageEmbed {
	if err := store.DeleteBirthday(userID); err != nil {
		slog.Error("error deleting birthday",
			slog.Uint64("user_id", userID),
			slog.String("error", err.Error()))
		return embed.Error(err)
	}

	slog.Info("birthday deleted", slog.Uint64("user_id", userID))
	return embed.Deleted(displayName, avatarURL)
}

// ─────────────────────────────────────────────────────────────────────────────
// List handles /birthday list
// Answers with every stored record grouped by month, January first.
// ─────────────────────────────────────────────────────────────────────────────
func List(store storage.Storage) Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		slog.Info("listing birthdays")
		respond(s, i, listEmbed(store))
	}
}

func listEmbed(store storage.Storage) *discordgo.MessageEmbed {
	birthdays, err := store.GetBirthdays()
	if err != nil {
		slog.Error("error listing birthdays", slog.String("error", err.Error()))
		return embed.Error(err)
	}

	return embed.List(birthdays)
}

// ─────────────────────────────────────────────────────────────────────────────
// Age handles /age [user]
// Computes the user's age from the stored birthday; with no user option
// it reports on whoever invoked the command.
// ─────────────────────────────────────────────────────────────────────────────
func Age(store storage.Storage) Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		user := optionUser(s, i)
		if user == nil {
			user = invoker(i)
		}
		if user == nil {
			respond(s, i, embed.Error(errors.New("could not resolve a user")))
			return
		}
		slog.Info("computing an age", slog.String("user", user.ID))

		userID, err := parseUserID(user.ID)
		if err != nil {
			respond(s, i, embed.Error(err))
			return
		}

		respond(s, i, ageEmbed(store, userID, time.Now(), user.AvatarURL("256")))
	}
}

func ageEmbed(store storage.Storage, userID uint64, now time.Time, avatarURL string) *discordgo.MessageEmbed {
	b, err := store.GetBirthdayByUserID(userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return embed.Error(fmt.Errorf(
				"%s has no birthday set — use /birthday set to add one", embed.Mention(userID)))
		}
		slog.Error("error getting birthday for age",
			slog.Uint64("user_id", userID),
			slog.String("error", err.Error()))
		return embed.Error(err)
	}

	return embed.Age(b, b.AgeOn(now), avatarURL)
}

// ─────────────────────────────────────────────────────────────────────────────
// Shared option plumbing
// ─────────────────────────────────────────────────────────────────────────────

// respond answers the interaction with a single embed. Failing to
// deliver the response is logged — there is nothing else to do at
// that point, the interaction token is single-use.
func respond(s *discordgo.Session, i *discordgo.InteractionCreate, e *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{e},
		},
	})
	if err != nil {
		slog.Error("error responding to interaction", slog.String("error", err.Error()))
	}
}

// commandOptions returns the leaf option list for the interaction:
// the subcommand's options for /birthday <sub>, or the top-level
// options for a plain command like /age.
func commandOptions(i *discordgo.InteractionCreate) []*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		return opts[0].Options
	}
	return opts
}

// optionUser extracts the "user" option, or nil if absent.
func optionUser(s *discordgo.Session, i *discordgo.InteractionCreate) *discordgo.User {
	for _, opt := range commandOptions(i) {
		if opt.Name == "user" && opt.Type == discordgo.ApplicationCommandOptionUser {
			return opt.UserValue(s)
		}
	}
	return nil
}

// optionString extracts a string option by name, or "" if absent.
func optionString(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range commandOptions(i) {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}

// invoker returns whoever triggered the interaction. Discord populates
// Member inside guilds and User in direct messages — never both.
func invoker(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// displayName prefers the user's global display name over the account
// username, matching how the client shows them.
func displayName(u *discordgo.User) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// parseUserID converts the platform's string snowflake into the uint64
// the storage layer is keyed on.
func parseUserID(id string) (uint64, error) {
	userID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q", id)
	}
	return userID, nil
}
