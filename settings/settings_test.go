package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/skylounge/panelbot/configstore"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "panelbot.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write settings: %+v", err)
	}
	return path
}

func TestNewConfig(t *testing.T) {
	config := NewConfig()

	if config.DatabasePath != "./database/configuration.db" {
		t.Errorf("Unexpected database path %q", config.DatabasePath)
	}
	if config.EmbedsPath != "embeds.json" {
		t.Errorf("Unexpected embeds path %q", config.EmbedsPath)
	}
	if config.Presence == nil || config.Presence.Status != "online" || config.Presence.Kind != "game" {
		t.Errorf("Unexpected presence %+v", config.Presence)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv(TokenEnv, "")

	path := writeFile(t, `
token = "file-token"
owner_ids = ["100000000000000001", "100000000000000009"]
command_guild_id = "200000000000000002"
embeds_path = "/var/lib/panelbot/embeds.json"

[presence]
status = "dnd"
text = "the market"

[[catalog]]
display = "Staff Role"
key = "staff_role"
category = "roles"
`)

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %+v", err)
	}

	if config.Token != "file-token" {
		t.Errorf("Expected token from file, got %q", config.Token)
	}
	if len(config.OwnerIDs) != 2 || config.OwnerIDs[1] != "100000000000000009" {
		t.Errorf("Unexpected owners %+v", config.OwnerIDs)
	}
	if config.CommandGuildID != "200000000000000002" {
		t.Errorf("Unexpected command guild %q", config.CommandGuildID)
	}
	if config.DatabasePath != "./database/configuration.db" {
		t.Errorf("Expected default database path, got %q", config.DatabasePath)
	}
	if config.EmbedsPath != "/var/lib/panelbot/embeds.json" {
		t.Errorf("Unexpected embeds path %q", config.EmbedsPath)
	}
	if config.Presence.Status != "dnd" || config.Presence.Kind != "game" || config.Presence.Text != "the market" {
		t.Errorf("Unexpected presence %+v", config.Presence)
	}
	if len(config.Catalog) != 1 {
		t.Fatalf("Expected 1 catalog entry, got %d", len(config.Catalog))
	}
	if config.Catalog[0].Category != configstore.CategoryRoles || config.Catalog[0].Key != "staff_role" {
		t.Errorf("Unexpected catalog entry %+v", config.Catalog[0])
	}
}

func TestLoad_TokenFromEnvironment(t *testing.T) {
	t.Setenv(TokenEnv, "env-token")

	config, err := Load(writeFile(t, `token = "file-token"`))
	if err != nil {
		t.Fatalf("Unexpected error: %+v", err)
	}

	if config.Token != "env-token" {
		t.Errorf("Expected %s to take precedence, got %q", TokenEnv, config.Token)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv(TokenEnv, "")

	config, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Unexpected error: %+v", err)
	}

	if config.Token != "" {
		t.Errorf("Expected empty token, got %q", config.Token)
	}
	if len(config.Catalog) != len(configstore.DefaultCatalog()) {
		t.Errorf("Expected the default catalog, got %+v", config.Catalog)
	}
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(writeFile(t, `token = `))
	if err == nil {
		t.Error("Expected an error")
	}
}

func TestConfig_Discord(t *testing.T) {
	config := NewConfig()
	config.Token = "token"
	config.CommandGuildID = "200000000000000002"

	d := config.Discord()

	if d.Token != "token" {
		t.Errorf("Unexpected token %q", d.Token)
	}
	if d.CommandGuildID != "200000000000000002" {
		t.Errorf("Unexpected command guild %q", d.CommandGuildID)
	}
	if d.HelpCommand != "help" {
		t.Errorf("Expected default help command, got %q", d.HelpCommand)
	}
	if d.Intents != discordgo.IntentsGuilds {
		t.Errorf("Expected default intents, got %d", d.Intents)
	}
}
