// Package settings reads the bot's configuration from a TOML file and the environment.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/oklahomer/go-kasumi/logger"
	"github.com/skylounge/panelbot/configstore"
	"github.com/skylounge/panelbot/discord"
	"github.com/skylounge/panelbot/presence"
)

// TokenEnv is the environment variable that overrides Config.Token.
const TokenEnv = "DISCORD_TOKEN"

// DefaultPath is the settings file read when no path is given.
const DefaultPath = "panelbot.toml"

// Config contains the settings read at start up.
type Config struct {
	// Token is the Discord bot token. DISCORD_TOKEN takes precedence when set.
	Token string `toml:"token"`

	// OwnerIDs lists the user IDs allowed to run the owner-only commands.
	OwnerIDs []string `toml:"owner_ids"`

	// CommandGuildID registers the slash commands to a single guild instead of globally.
	CommandGuildID string `toml:"command_guild_id"`

	// DatabasePath is the SQLite file backing the per-guild configuration.
	DatabasePath string `toml:"database_path"`

	// EmbedsPath is the JSON document holding the embed templates.
	EmbedsPath string `toml:"embeds_path"`

	Presence *presence.Config `toml:"presence"`

	// Catalog lists the configurable keys. Load falls back to DefaultCatalog when none is given.
	Catalog configstore.Catalog `toml:"catalog"`
}

// NewConfig creates and returns a new Config instance with default settings.
func NewConfig() *Config {
	return &Config{
		Token:          "",
		OwnerIDs:       []string{},
		CommandGuildID: "",
		DatabasePath:   "./database/configuration.db",
		EmbedsPath:     "embeds.json",
		Presence:       presence.NewConfig(),
	}
}

// Load reads .env into the process environment, decodes the TOML file at path
// over the defaults and applies DISCORD_TOKEN.
// Both files are optional.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := NewConfig()
	if path != "" {
		_, err := toml.DecodeFile(path, config)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Infof("Settings file %s does not exist. Using defaults.", path)
		} else if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	}

	if token := os.Getenv(TokenEnv); token != "" {
		config.Token = token
	}

	if config.Presence == nil {
		config.Presence = presence.NewConfig()
	}
	if len(config.Catalog) == 0 {
		config.Catalog = configstore.DefaultCatalog()
	}

	return config, nil
}

// Discord returns the adapter configuration derived from c.
func (c *Config) Discord() *discord.Config {
	config := discord.NewConfig()
	config.Token = c.Token
	config.CommandGuildID = c.CommandGuildID
	return config
}
