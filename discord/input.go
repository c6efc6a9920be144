package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-sarah/v4"
)

// InteractionInput is a sarah.Input implementation that represents a received
// slash command invocation or message component click.
type InteractionInput struct {
	Event       *discordgo.InteractionCreate
	senderKey   string
	text        string
	sentAt      time.Time
	destination *InteractionDestination
}

var _ sarah.Input = (*InteractionInput)(nil)

// SenderKey returns a unique key representing the sender in the channel.
func (i *InteractionInput) SenderKey() string {
	return i.senderKey
}

// Message returns the command path, such as "config roles", or the component's custom ID.
func (i *InteractionInput) Message() string {
	return i.text
}

// SentAt returns when the interaction was created.
func (i *InteractionInput) SentAt() time.Time {
	return i.sentAt
}

// ReplyTo returns the interaction to respond to.
func (i *InteractionInput) ReplyTo() sarah.OutputDestination {
	return i.destination
}

// IsCommand tells whether the input is a slash command invocation.
func (i *InteractionInput) IsCommand() bool {
	return i.Event.Type == discordgo.InteractionApplicationCommand
}

// IsComponent tells whether the input is a message component click.
func (i *InteractionInput) IsComponent() bool {
	return i.Event.Type == discordgo.InteractionMessageComponent
}

// CommandName returns the top level slash command name, or an empty string for component clicks.
func (i *InteractionInput) CommandName() string {
	if !i.IsCommand() {
		return ""
	}
	return i.Event.ApplicationCommandData().Name
}

// CustomID returns the clicked component's custom ID, or an empty string for slash commands.
func (i *InteractionInput) CustomID() string {
	if !i.IsComponent() {
		return ""
	}
	return i.Event.MessageComponentData().CustomID
}

// GuildID returns the guild the interaction happened in. It is empty in direct messages.
func (i *InteractionInput) GuildID() string {
	return i.Event.GuildID
}

// ChannelID returns the channel the interaction happened in.
func (i *InteractionInput) ChannelID() string {
	return i.Event.ChannelID
}

// User returns the invoking user.
func (i *InteractionInput) User() *discordgo.User {
	return interactionUser(i.Event.Interaction)
}

// DisplayName returns the invoker's guild nickname, global display name or username,
// whichever is set first.
func (i *InteractionInput) DisplayName() string {
	if m := i.Event.Member; m != nil && m.Nick != "" {
		return m.Nick
	}
	u := i.User()
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// Options returns the options of the invoked (sub)command.
func (i *InteractionInput) Options() []*discordgo.ApplicationCommandInteractionDataOption {
	if !i.IsCommand() {
		return nil
	}
	_, options := walkSubcommands(i.Event.ApplicationCommandData())
	return options
}

// Option returns the named option of the invoked (sub)command, or nil when it was not given.
func (i *InteractionInput) Option(name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range i.Options() {
		if opt.Name == name {
			return opt
		}
	}
	return nil
}

// Resolved returns the users, members, roles and channels referenced by the command options.
func (i *InteractionInput) Resolved() *discordgo.ApplicationCommandInteractionDataResolved {
	if !i.IsCommand() {
		return nil
	}
	return i.Event.ApplicationCommandData().Resolved
}

// InteractionToInput converts a *discordgo.InteractionCreate event to *InteractionInput.
// Only slash command invocations and message component clicks are supported.
func InteractionToInput(i *discordgo.InteractionCreate) (*InteractionInput, error) {
	if i == nil || i.Interaction == nil {
		return nil, ErrUnsupportedInteraction
	}

	var text string
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		path, _ := walkSubcommands(i.ApplicationCommandData())
		text = strings.Join(path, " ")

	case discordgo.InteractionMessageComponent:
		text = i.MessageComponentData().CustomID

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedInteraction, i.Type)
	}

	user := interactionUser(i.Interaction)
	if user == nil {
		return nil, ErrNoAuthor
	}

	sentAt, err := discordgo.SnowflakeTimestamp(i.ID)
	if err != nil {
		sentAt = time.Now()
	}

	return &InteractionInput{
		Event:       i,
		senderKey:   fmt.Sprintf("%s_%s", i.ChannelID, user.ID),
		text:        text,
		sentAt:      sentAt,
		destination: &InteractionDestination{Interaction: i.Interaction},
	}, nil
}

// walkSubcommands descends through subcommand groups and subcommands.
// It returns the command path and the options of the innermost subcommand.
func walkSubcommands(data discordgo.ApplicationCommandInteractionData) ([]string, []*discordgo.ApplicationCommandInteractionDataOption) {
	path := []string{data.Name}
	options := data.Options
	for len(options) == 1 {
		opt := options[0]
		if opt.Type != discordgo.ApplicationCommandOptionSubCommandGroup && opt.Type != discordgo.ApplicationCommandOptionSubCommand {
			break
		}
		path = append(path, opt.Name)
		options = opt.Options
	}
	return path, options
}

func interactionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
