package commands

import (
	"github.com/bwmarrin/discordgo"
	"github.com/skylounge/panelbot/configstore"
)

// ApplicationCommands returns the slash command definitions to register with Discord.
// Setting choices are generated from the catalog.
func (h *Handler) ApplicationCommands() []*discordgo.ApplicationCommand {
	guildOnly := false

	commands := []*discordgo.ApplicationCommand{
		{
			Name:         "config",
			Description:  "Configuration management commands",
			DMPermission: &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "roles",
					Description: "Configure role settings",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "role",
							Description: "Select the role to configure",
							Type:        discordgo.ApplicationCommandOptionRole,
							Required:    true,
						},
						h.settingOption(configstore.CategoryRoles),
					},
				},
				{
					Name:        "categories",
					Description: "Configure category settings",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:         "category",
							Description:  "Select the category to configure",
							Type:         discordgo.ApplicationCommandOptionChannel,
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
							Required:     true,
						},
						h.settingOption(configstore.CategoryCategories),
					},
				},
				{
					Name:        "channels",
					Description: "Configure channel settings",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:         "channel",
							Description:  "Select the channel to configure",
							Type:         discordgo.ApplicationCommandOptionChannel,
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
							Required:     true,
						},
						h.settingOption(configstore.CategoryChannels),
					},
				},
				{
					Name:        "values",
					Description: "Configure string-based settings",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "value",
							Description: "Enter the configuration value",
							Type:        discordgo.ApplicationCommandOptionString,
							Required:    true,
						},
						h.settingOption(configstore.CategoryValues),
					},
				},
				{
					Name:        "view",
					Description: "View current configuration settings",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
			},
		},
		{
			Name:         "panel",
			Description:  "Send a panel with interactive buttons",
			DMPermission: &guildOnly,
		},
		{
			Name:        "embed",
			Description: "Embed template management commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "list",
					Description: "List saved embed templates",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
				{
					Name:        "preview",
					Description: "Render an embed template",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						templateNameOption(),
						{
							Name:        "params",
							Description: `Placeholder values as a JSON object, e.g. {"author": "Sky"}`,
							Type:        discordgo.ApplicationCommandOptionString,
						},
					},
				},
				{
					Name:        "set",
					Description: "Create or replace an embed template",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						templateNameOption(),
						{
							Name:        "data",
							Description: "The template as a JSON object",
							Type:        discordgo.ApplicationCommandOptionString,
							Required:    true,
						},
					},
				},
				{
					Name:        "delete",
					Description: "Delete an embed template",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						templateNameOption(),
					},
				},
			},
		},
	}

	if h.helpCommand != "" {
		commands = append(commands, &discordgo.ApplicationCommand{
			Name:        h.helpCommand,
			Description: "Show available commands",
		})
	}

	return commands
}

// settingOption is the "setting" option of a /config subcommand.
// Cataloged keys become its choices; with no cataloged key any value is accepted.
func (h *Handler) settingOption(category configstore.Category) *discordgo.ApplicationCommandOption {
	option := &discordgo.ApplicationCommandOption{
		Name:        "setting",
		Description: "Configuration type",
		Type:        discordgo.ApplicationCommandOptionString,
		Required:    true,
	}

	for _, entry := range h.catalog.In(category) {
		option.Choices = append(option.Choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  entry.Display,
			Value: entry.Key,
		})
	}

	return option
}

func templateNameOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        "name",
		Description: "Template name",
		Type:        discordgo.ApplicationCommandOptionString,
		Required:    true,
	}
}
