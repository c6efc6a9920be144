package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"
	"github.com/oklahomer/go-sarah/v4"
	"github.com/skylounge/panelbot/presence"
)

const (
	// DISCORD is a designated sarah.BotType for Discord integration.
	DISCORD sarah.BotType = "discord"
)

// session is an internal interface that abstracts the discordgo.Session methods
// used by the Adapter. This allows mocking the session in tests.
// *discordgo.Session satisfies this interface.
type session interface {
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UpdateStatusComplex(usd discordgo.UpdateStatusData) error
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// ChannelID represents a Discord channel as sarah.OutputDestination.
type ChannelID string

var _ sarah.OutputDestination = ChannelID("")

// InteractionDestination represents the interaction to answer as sarah.OutputDestination.
type InteractionDestination struct {
	Interaction *discordgo.Interaction
}

var _ sarah.OutputDestination = (*InteractionDestination)(nil)

// AdapterOption defines a function signature for Adapter's functional options.
type AdapterOption func(adapter *Adapter)

// WithSession creates an AdapterOption with the given *discordgo.Session.
// Use this to inject a pre-configured session.
// If this option is not given, NewAdapter creates a new session from Config.Token.
func WithSession(session *discordgo.Session) AdapterOption {
	return func(adapter *Adapter) {
		adapter.session = session
	}
}

// WithPresence creates an AdapterOption that applies the given presence on every READY event.
func WithPresence(config presence.Config) AdapterOption {
	return func(adapter *Adapter) {
		adapter.presence = &config
	}
}

// WithApplicationCommands creates an AdapterOption that overwrites the bot's
// application commands with the given ones on every READY event.
func WithApplicationCommands(commands ...*discordgo.ApplicationCommand) AdapterOption {
	return func(adapter *Adapter) {
		adapter.commands = append(adapter.commands, commands...)
	}
}

// Adapter is a sarah.Adapter implementation for Discord.
type Adapter struct {
	config   *Config
	session  session
	presence *presence.Config
	commands []*discordgo.ApplicationCommand
}

var _ sarah.Adapter = (*Adapter)(nil)

// NewSession creates a *discordgo.Session from Config.Token and Config.Intents.
func NewSession(config *Config) (*discordgo.Session, error) {
	if config.Token == "" {
		return nil, ErrEmptyToken
	}

	s, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	s.Identify.Intents = config.Intents
	return s, nil
}

// NewAdapter creates a new Adapter with the given Config and options.
func NewAdapter(config *Config, options ...AdapterOption) (*Adapter, error) {
	adapter := &Adapter{
		config: config,
	}

	for _, opt := range options {
		opt(adapter)
	}

	if adapter.session == nil {
		s, err := NewSession(config)
		if err != nil {
			return nil, err
		}
		adapter.session = s
	}

	return adapter, nil
}

// BotType returns a designated BotType for Discord integration.
func (a *Adapter) BotType() sarah.BotType {
	return DISCORD
}

// Run establishes a connection with Discord and blocks until the context is canceled.
func (a *Adapter) Run(ctx context.Context, enqueueInput func(sarah.Input) error, notifyErr func(error)) {
	a.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		a.handleReady(r)
	})
	a.session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		a.handleInteraction(i, enqueueInput)
	})

	err := a.session.Open()
	if err != nil {
		notifyErr(sarah.NewBotNonContinuableError(fmt.Sprintf("failed to open Discord session: %s", err.Error())))
		return
	}

	// Block until the context is canceled.
	<-ctx.Done()

	if closeErr := a.session.Close(); closeErr != nil {
		logger.Errorf("Failed to close Discord session: %+v", closeErr)
	}
}

// handleReady applies the presence and registers application commands.
// READY is received again after every reconnect; both steps are idempotent.
func (a *Adapter) handleReady(r *discordgo.Ready) {
	if r.User != nil {
		logger.Infof("Logged in as %s (%s)", r.User.Username, r.User.ID)
	}

	if a.presence != nil {
		if err := a.session.UpdateStatusComplex(presence.StatusData(*a.presence)); err != nil {
			logger.Errorf("Failed to update presence: %+v", err)
		}
	}

	if len(a.commands) == 0 {
		return
	}
	if r.User == nil {
		logger.Warnf("READY carries no user. Skipping application command registration.")
		return
	}

	created, err := a.session.ApplicationCommandBulkOverwrite(r.User.ID, a.config.CommandGuildID, a.commands)
	if err != nil {
		logger.Errorf("Failed to register application commands: %+v", err)
		return
	}
	logger.Infof("Synced %d application command(s)", len(created))
}

// handleInteraction processes an incoming interaction and routes it to enqueueInput.
func (a *Adapter) handleInteraction(i *discordgo.InteractionCreate, enqueueInput func(sarah.Input) error) {
	input, err := InteractionToInput(i)
	if err != nil {
		logger.Debugf("Skipping interaction: %+v", err)
		return
	}

	var enqueueErr error
	if a.config.HelpCommand != "" && input.IsCommand() && input.CommandName() == a.config.HelpCommand {
		enqueueErr = enqueueInput(sarah.NewHelpInput(input))
	} else {
		enqueueErr = enqueueInput(input)
	}
	if enqueueErr != nil {
		logger.Errorf("Failed to enqueue input: %+v", enqueueErr)
	}
}

// SendMessage sends the given message to Discord.
// A ChannelID destination receives a channel message; an *InteractionDestination
// receives an interaction response.
func (a *Adapter) SendMessage(_ context.Context, output sarah.Output) {
	switch destination := output.Destination().(type) {
	case ChannelID:
		a.sendChannelMessage(string(destination), output)

	case *InteractionDestination:
		a.respond(destination.Interaction, output)

	default:
		logger.Errorf("Destination is not instance of ChannelID or *InteractionDestination. %#v.", output.Destination())
	}
}

func (a *Adapter) sendChannelMessage(channelID string, output sarah.Output) {
	switch content := output.Content().(type) {
	case string:
		_, err := a.session.ChannelMessageSend(channelID, content)
		if err != nil {
			logger.Errorf("Failed to send message to %s: %+v", channelID, err)
		}

	case *discordgo.MessageSend:
		_, err := a.session.ChannelMessageSendComplex(channelID, content)
		if err != nil {
			logger.Errorf("Failed to send complex message to %s: %+v", channelID, err)
		}

	case *sarah.CommandHelps:
		_, err := a.session.ChannelMessageSend(channelID, formatHelps(content))
		if err != nil {
			logger.Errorf("Failed to send help message to %s: %+v", channelID, err)
		}

	default:
		logger.Warnf("Unexpected output %#v", output)
	}
}

func (a *Adapter) respond(interaction *discordgo.Interaction, output sarah.Output) {
	var reply *Reply
	switch content := output.Content().(type) {
	case *Reply:
		reply = content

	case string:
		reply = &Reply{Content: content}

	case *discordgo.MessageSend:
		reply = &Reply{Content: content.Content, Embeds: content.Embeds, Components: content.Components}

	case *sarah.CommandHelps:
		reply = &Reply{Content: formatHelps(content), Ephemeral: true}

	default:
		logger.Warnf("Unexpected output %#v", output)
		return
	}

	if reply.ChannelMessage != nil {
		a.respondDeferred(interaction, reply)
		return
	}

	if err := a.session.InteractionRespond(interaction, reply.response()); err != nil {
		logger.Errorf("Failed to respond to interaction %s: %+v", interaction.ID, err)
	}
}

// respondDeferred acknowledges the interaction first, posts reply.ChannelMessage
// and then fills in the acknowledged response.
func (a *Adapter) respondDeferred(interaction *discordgo.Interaction, reply *Reply) {
	if err := a.session.InteractionRespond(interaction, reply.deferred()); err != nil {
		logger.Errorf("Failed to defer interaction %s: %+v", interaction.ID, err)
		return
	}

	_, err := a.session.ChannelMessageSendComplex(interaction.ChannelID, reply.ChannelMessage)
	if err != nil {
		logger.Errorf("Failed to send complex message to %s: %+v", interaction.ChannelID, err)
		reply = &Reply{Content: "Failed to send the message to this channel.", Ephemeral: true}
	}

	if _, err := a.session.InteractionResponseEdit(interaction, reply.edit()); err != nil {
		logger.Errorf("Failed to edit response of interaction %s: %+v", interaction.ID, err)
	}
}

func formatHelps(helps *sarah.CommandHelps) string {
	lines := make([]string, 0, len(*helps))
	for _, h := range *helps {
		lines = append(lines, fmt.Sprintf("**%s**: %s", h.Identifier, h.Instruction))
	}
	return strings.Join(lines, "\n")
}
