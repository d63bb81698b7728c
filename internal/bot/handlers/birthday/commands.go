package birthday

import "github.com/bwmarrin/discordgo"

// Commands returns the application-command definitions registered with
// the platform at startup. The structure here must agree with what the
// handlers read back out of the interaction options.
func Commands() []*discordgo.ApplicationCommand {
	userOption := func(required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "The user whose birthday to act on",
			Required:    required,
		}
	}
	dateOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "date",
		Description: "Birthday (DD-MM-YYYY)",
		Required:    true,
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "birthday",
			Description: "Birthday-related actions",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "get",
					Description: "Gets a specific user's birthday",
					Options:     []*discordgo.ApplicationCommandOption{userOption(true)},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "Adds a new birthday for a user. Use /birthday edit to edit an existing one.",
					// Required options must precede optional ones, so the
					// optional name comes last.
					Options: []*discordgo.ApplicationCommandOption{
						userOption(true),
						dateOption,
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Name (defaults to the user's display name)",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "edit",
					Description: "Edits an existing birthday for a user",
					Options:     []*discordgo.ApplicationCommandOption{userOption(true), dateOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Deletes an existing birthday for a user",
					Options:     []*discordgo.ApplicationCommandOption{userOption(true)},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "Lists all stored birthdays grouped by month",
				},
			},
		},
		{
			Name:        "age",
			Description: "Computes a user's age from their stored birthday",
			Options:     []*discordgo.ApplicationCommandOption{userOption(false)},
		},
	}
}
