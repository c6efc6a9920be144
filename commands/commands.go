// Package commands implements the bot's slash commands and button handlers as go-sarah commands.
//
// Every command matches on the *discord.InteractionInput produced by the
// discord adapter: slash commands by their top level name, buttons by custom ID.
// Handlers never return an error to go-sarah. Failures are turned into an
// ephemeral error embed so the invoking user always receives an answer.
package commands

import (
	"context"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-sarah/v4"
	"github.com/skylounge/panelbot/configstore"
	"github.com/skylounge/panelbot/discord"
	"github.com/skylounge/panelbot/embeds"
)

const (
	// ColorNeutral is the embed color of regular replies.
	ColorNeutral = 0x2F3136

	// ColorDenied is the embed color of the access denied reply.
	ColorDenied = 0xE74C3C
)

// ConfigStore is the guild configuration storage used by the handlers.
// *configstore.Store satisfies this interface.
type ConfigStore interface {
	Set(ctx context.Context, guildID int64, key, value string, category configstore.Category) error
	Load(ctx context.Context, guildID int64) (*configstore.GuildConfig, error)
}

var _ ConfigStore = (*configstore.Store)(nil)

// TemplateStore is the embed template storage used by the handlers.
// *embeds.Store satisfies this interface.
type TemplateStore interface {
	List() ([]string, error)
	Get(name string) (*embeds.Template, bool, error)
	Insert(name string, t *embeds.Template) bool
	Delete(name string) bool
	Render(name string, params map[string]string) (*discordgo.MessageEmbed, error)
}

var _ TemplateStore = (*embeds.Store)(nil)

// GuildState resolves roles and channels from the gateway cache.
// *discordgo.State satisfies this interface.
type GuildState interface {
	Role(guildID, roleID string) (*discordgo.Role, error)
	Channel(channelID string) (*discordgo.Channel, error)
}

var _ GuildState = (*discordgo.State)(nil)

// CommandFunc is the function signature of a go-sarah command.
type CommandFunc func(ctx context.Context, input sarah.Input) (*sarah.CommandResponse, error)

// HandlerOption defines a function signature for Handler's functional options.
type HandlerOption func(handler *Handler)

// WithGuildState sets the cache used to display configured roles and channels.
// Without it, every configured role and channel is shown as not found.
func WithGuildState(state GuildState) HandlerOption {
	return func(handler *Handler) {
		handler.state = state
	}
}

// WithCatalog replaces the default catalog of configurable keys.
func WithCatalog(catalog configstore.Catalog) HandlerOption {
	return func(handler *Handler) {
		handler.catalog = catalog
	}
}

// WithGate sets the gate that restricts owner-only commands.
// Without it, nobody passes the gate.
func WithGate(gate *Gate) HandlerOption {
	return func(handler *Handler) {
		handler.gate = gate
	}
}

// WithHelpCommand sets the name of the slash command registered for help.
// An empty name registers no help command.
func WithHelpCommand(name string) HandlerOption {
	return func(handler *Handler) {
		handler.helpCommand = name
	}
}

// Handler holds the dependencies shared by every command.
type Handler struct {
	configs     ConfigStore
	templates   TemplateStore
	state       GuildState
	catalog     configstore.Catalog
	gate        *Gate
	helpCommand string
}

// NewHandler creates a Handler with the given stores and options.
func NewHandler(configs ConfigStore, templates TemplateStore, options ...HandlerOption) *Handler {
	handler := &Handler{
		configs:     configs,
		templates:   templates,
		catalog:     configstore.DefaultCatalog(),
		gate:        NewGate(),
		helpCommand: "help",
	}

	for _, opt := range options {
		opt(handler)
	}

	return handler
}

// Props returns the go-sarah command definitions of every command and button.
func (h *Handler) Props() []*sarah.CommandProps {
	return []*sarah.CommandProps{
		sarah.NewCommandPropsBuilder().
			BotType(discord.DISCORD).
			Identifier("config").
			MatchFunc(matchCommand("config")).
			Func(h.gate.Guard(h.Config)).
			Instruction("Use /config roles, /config categories, /config channels or /config values to change a setting, and /config view to list them.").
			MustBuild(),

		sarah.NewCommandPropsBuilder().
			BotType(discord.DISCORD).
			Identifier("panel").
			MatchFunc(matchCommand("panel")).
			Func(h.gate.Guard(h.Panel)).
			Instruction("Use /panel to send the panel with its buttons to the current channel.").
			MustBuild(),

		sarah.NewCommandPropsBuilder().
			BotType(discord.DISCORD).
			Identifier(HelloWorldID).
			MatchFunc(matchComponent(HelloWorldID)).
			Func(h.HelloWorld).
			Instruction("Click \"Hello World!\" on a panel to get started.").
			MustBuild(),

		sarah.NewCommandPropsBuilder().
			BotType(discord.DISCORD).
			Identifier("embed").
			MatchFunc(matchCommand("embed")).
			Func(h.gate.Guard(h.Embed)).
			Instruction("Use /embed list, /embed preview, /embed set or /embed delete to manage embed templates.").
			MustBuild(),
	}
}

// RegisterProps registers every command with go-sarah.
func (h *Handler) RegisterProps() {
	for _, props := range h.Props() {
		sarah.RegisterCommandProps(props)
	}
}

func matchCommand(name string) func(sarah.Input) bool {
	return func(input sarah.Input) bool {
		in, ok := input.(*discord.InteractionInput)
		return ok && in.IsCommand() && in.CommandName() == name
	}
}

func matchComponent(customID string) func(sarah.Input) bool {
	return func(input sarah.Input) bool {
		in, ok := input.(*discord.InteractionInput)
		return ok && in.IsComponent() && in.CustomID() == customID
	}
}

// guildID returns the numeric ID of the guild the input came from.
func guildID(in *discord.InteractionInput) (int64, bool) {
	id, err := strconv.ParseInt(in.GuildID(), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func stringOption(in *discord.InteractionInput, name string) string {
	opt := in.Option(name)
	if opt == nil {
		return ""
	}
	s, _ := opt.Value.(string)
	return s
}

func reply(input sarah.Input, embed *discordgo.MessageEmbed) (*sarah.CommandResponse, error) {
	return discord.NewResponse(input, "", discord.RespEphemeral(), discord.RespWithEmbeds(embed))
}

func errorReply(input sarah.Input, title, description string) (*sarah.CommandResponse, error) {
	return reply(input, &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       ColorNeutral,
	})
}
