// Package presence maps the configured presence settings to Discord status and activity values.
package presence

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// StreamingURL is the stream link shown with a streaming activity.
const StreamingURL = "https://twitch.tv/discord"

// Config contains the presence settings read at start up.
type Config struct {
	// Status is one of "online", "idle", "dnd" or "offline". Matching is case-insensitive.
	Status string `json:"status" toml:"status"`

	// Kind is one of "game", "streaming", "listening" or "watching". Matching is case-insensitive.
	Kind string `json:"kind" toml:"kind"`

	// Text is the activity name.
	Text string `json:"text" toml:"text"`
}

// NewConfig returns a Config with the default online status and an empty game activity.
func NewConfig() *Config {
	return &Config{
		Status: "online",
		Kind:   "game",
		Text:   "",
	}
}

// ResolveStatus returns the status named by config.Status.
// Any unrecognized value resolves to online.
func ResolveStatus(config Config) discordgo.Status {
	switch strings.ToLower(config.Status) {
	case "idle":
		return discordgo.StatusIdle
	case "dnd":
		return discordgo.StatusDoNotDisturb
	case "offline":
		return discordgo.StatusOffline
	default:
		return discordgo.StatusOnline
	}
}

// ResolveActivity returns the activity described by config.Kind and config.Text.
// Any unrecognized kind resolves to a game.
func ResolveActivity(config Config) *discordgo.Activity {
	switch strings.ToLower(config.Kind) {
	case "streaming":
		return &discordgo.Activity{
			Name: config.Text,
			Type: discordgo.ActivityTypeStreaming,
			URL:  StreamingURL,
		}
	case "listening":
		return &discordgo.Activity{
			Name: config.Text,
			Type: discordgo.ActivityTypeListening,
		}
	case "watching":
		return &discordgo.Activity{
			Name: config.Text,
			Type: discordgo.ActivityTypeWatching,
		}
	default:
		return &discordgo.Activity{
			Name: config.Text,
			Type: discordgo.ActivityTypeGame,
		}
	}
}

// StatusData packages the resolved status and activity for Session.UpdateStatusComplex.
func StatusData(config Config) discordgo.UpdateStatusData {
	return discordgo.UpdateStatusData{
		Status:     string(ResolveStatus(config)),
		Activities: []*discordgo.Activity{ResolveActivity(config)},
	}
}
