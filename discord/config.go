package discord

import "github.com/bwmarrin/discordgo"

// Config contains configuration variables for the Discord Adapter.
type Config struct {
	// Token is the Discord bot token used for authentication.
	Token string `json:"token" toml:"token"`

	// HelpCommand is the name of the slash command that triggers help.
	// When a user invokes this command, the input is converted to sarah.HelpInput.
	HelpCommand string `json:"help_command" toml:"help_command"`

	// Intents declares the Gateway Intents the bot requires.
	Intents discordgo.Intent `json:"intents" toml:"intents"`

	// CommandGuildID limits application command registration to a single guild.
	// Commands are registered globally when this is empty.
	CommandGuildID string `json:"command_guild_id" toml:"command_guild_id"`
}

// NewConfig creates and returns a new Config instance with default settings.
// Token is empty and must be set before use.
func NewConfig() *Config {
	return &Config{
		Token:          "",
		HelpCommand:    "help",
		Intents:        discordgo.IntentsGuilds,
		CommandGuildID: "",
	}
}
