package commands

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"
	"github.com/oklahomer/go-sarah/v4"
	"github.com/skylounge/panelbot/discord"
)

const (
	// HelloWorldID is the custom ID of the panel's button.
	// Clicks are routed by this ID, so buttons posted before a restart keep working.
	HelloWorldID = "hello_world"

	// PanelTemplate is rendered by /panel with the invoker's display name as "author".
	PanelTemplate = "panel"

	// StartExchangeTemplate is rendered when the panel's button is clicked.
	StartExchangeTemplate = "start_exchange"
)

// PanelComponents returns the components posted along with the panel.
func PanelComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Hello World!",
					Style:    discordgo.SecondaryButton,
					Emoji:    &discordgo.ComponentEmoji{Name: "👋"},
					CustomID: HelloWorldID,
				},
			},
		},
	}
}

// Panel handles /panel. It posts the panel to the invoking channel and
// acknowledges the invoker privately.
func (h *Handler) Panel(_ context.Context, input sarah.Input) (*sarah.CommandResponse, error) {
	in, ok := input.(*discord.InteractionInput)
	if !ok {
		return nil, fmt.Errorf("%T is not a *discord.InteractionInput", input)
	}

	embed, resp, err := h.renderOrReply(in, PanelTemplate, map[string]string{"author": in.DisplayName()})
	if embed == nil {
		return resp, err
	}

	message := &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: PanelComponents(),
	}
	return discord.NewResponse(input, "Sent the panel!", discord.RespEphemeral(), discord.RespWithChannelMessage(message))
}

// HelloWorld handles clicks on the panel's button.
func (h *Handler) HelloWorld(_ context.Context, input sarah.Input) (*sarah.CommandResponse, error) {
	in, ok := input.(*discord.InteractionInput)
	if !ok {
		return nil, fmt.Errorf("%T is not a *discord.InteractionInput", input)
	}

	embed, resp, err := h.renderOrReply(in, StartExchangeTemplate, nil)
	if embed == nil {
		return resp, err
	}
	return reply(input, embed)
}

// renderOrReply renders the named template. When that fails, the embed is nil
// and the returned response carries the error embed for the invoker.
func (h *Handler) renderOrReply(in *discord.InteractionInput, name string, params map[string]string) (*discordgo.MessageEmbed, *sarah.CommandResponse, error) {
	embed, err := h.templates.Render(name, params)
	if err != nil {
		logger.Errorf("Failed to render embed %q: %+v", name, err)
		resp, err := errorReply(in, "Embed Error", fmt.Sprintf("Failed to render embed `%s`: %s", name, err.Error()))
		return nil, resp, err
	}
	if embed == nil {
		logger.Warnf("Embed %q is not defined", name)
		resp, err := errorReply(in, "Embed Error", fmt.Sprintf("Embed `%s` does not exist.", name))
		return nil, resp, err
	}
	return embed, nil, nil
}
