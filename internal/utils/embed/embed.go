// Package embed provides helpers for building consistent Discord embeds.
//
// Every command in this application answers with an embed.
// Rather than repeating the same builder calls (title, description,
// colour, thumbnail) in every handler, we centralise them here.
//
// Consistent embed shapes also make life easier for server members —
// they always know what an error from the bot looks like.
package embed

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/birthday-bot/internal/types"
)

// Colour constants — use these instead of raw hex literals so every
// command of the same kind stays the same colour.
const (
	ColourTeal      = 0x1ABC9C // lookups: get, age
	ColourDarkGreen = 0x1F8B4C // set confirmation
	ColourOrange    = 0xE67E22 // edit confirmation
	ColourRed       = 0xE74C3C // delete confirmation and errors
	ColourGold      = 0xF1C40F // list and announcements
)

// Mention renders the platform's inline user mention for a user ID.
// The client resolves "<@123>" to a clickable @name.
func Mention(userID uint64) string {
	return fmt.Sprintf("<@%d>", userID)
}

// ─────────────────────────────────────────────────────────────────────────────
// Get builds the response for /birthday get — the stored record.
// ─────────────────────────────────────────────────────────────────────────────
func Get(b types.Birthday, avatarURL string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s's Birthday", b.Name),
		Description: fmt.Sprintf("Birthday is %s", b.FormatDate()),
		Color:       ColourTeal,
		Thumbnail:   thumbnail(avatarURL),
	}
}

// Added builds the confirmation for /birthday set.
func Added(b types.Birthday, avatarURL string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Added new Birthday for %s", b.Name),
		Description: fmt.Sprintf("Added %s as %s's birthday", b.FormatDate(), b.Name),
		Color:       ColourDarkGreen,
		Thumbnail:   thumbnail(avatarURL),
	}
}

// Edited builds the confirmation for /birthday edit.
func Edited(name string, newDate time.Time, avatarURL string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Edited Birthday for %s", name),
		Description: fmt.Sprintf("Edited %s as %s's birthday",
			newDate.UTC().Format(types.DateLayout), name),
		Color:     ColourOrange,
		Thumbnail: thumbnail(avatarURL),
	}
}

// Deleted builds the confirmation for /birthday delete.
func Deleted(name string, avatarURL string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Deleted Birthday for %s", name),
		Description: fmt.Sprintf("Deleted %s's birthday", name),
		Color:       ColourRed,
		Thumbnail:   thumbnail(avatarURL),
	}
}

// Age builds the response for /age.
func Age(b types.Birthday, age int64, avatarURL string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s's Age", b.Name),
		Description: fmt.Sprintf("%s is %d years old", Mention(b.UserID), age),
		Color:       ColourTeal,
		Thumbnail:   thumbnail(avatarURL),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// List builds the response for /birthday list: one field per month that
// has at least one birthday, months sorted ascending (January first),
// each field listing "<@id> | DD-MM-YYYY" rows.
//
// The store hands records back unordered, so all grouping and sorting
// happens here in the command layer.
// ─────────────────────────────────────────────────────────────────────────────
func List(birthdays []types.Birthday) *discordgo.MessageEmbed {
	// Group the raw records by month number (1–12).
	byMonth := make(map[time.Month][]string)
	for _, b := range birthdays {
		month := b.Birthday.UTC().Month()
		row := fmt.Sprintf("%s | %s", Mention(b.UserID), b.FormatDate())
		byMonth[month] = append(byMonth[month], row)
	}

	// Map iteration order is random in Go, so collect the keys and
	// sort them to get January-before-March output.
	months := make([]time.Month, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	fields := make([]*discordgo.MessageEmbedField, 0, len(months))
	for _, month := range months {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  month.String(), // time.Month(3).String() == "March"
			Value: strings.Join(byMonth[month], "\n"),
		})
	}

	return &discordgo.MessageEmbed{
		Title:       "Birthdays",
		Description: "Use `/birthday set` to add your birthday!",
		Color:       ColourGold,
		Fields:      fields,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Announcement builds the daily birthday announcement for one record.
// The footer carries the raw stored birthday value.
// ─────────────────────────────────────────────────────────────────────────────
func Announcement(b types.Birthday) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s's Birthday", b.Name),
		Description: fmt.Sprintf(
			"@everyone, It's %s's birthday! Don't forget the chocolates and the birthday bumps!",
			Mention(b.UserID)),
		Color:  ColourGold,
		Footer: &discordgo.MessageEmbedFooter{Text: b.Birthday.UTC().String()},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Error wraps any Go error into the standard error embed.
// Use this for unexpected failures (DB errors, send errors) as well as
// the expected not-found/conflict cases — the message carries the detail.
// ─────────────────────────────────────────────────────────────────────────────
func Error(err error) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Something went wrong",
		Description: err.Error(),
		Color:       ColourRed,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts a slice of validator.FieldError values into
// a single human-readable error embed.
//
// The go-playground/validator package returns one FieldError per failing
// struct field. We convert each to a plain English sentence and join
// them with ", " so the user sees a single descriptive message.
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) *discordgo.MessageEmbed {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		// "required" tag — field was missing or zero-valued
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		// Catch-all for any other validation tag (min, max, len, etc.)
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return &discordgo.MessageEmbed{
		Title:       "Invalid input",
		Description: strings.Join(errMessages, ", "),
		Color:       ColourRed,
	}
}

// thumbnail wraps an avatar URL, or nil when the user has none —
// discordgo omits a nil thumbnail from the payload entirely.
func thumbnail(avatarURL string) *discordgo.MessageEmbedThumbnail {
	if avatarURL == "" {
		return nil
	}
	return &discordgo.MessageEmbedThumbnail{URL: avatarURL}
}
