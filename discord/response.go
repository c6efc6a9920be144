package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-sarah/v4"
)

// Reply is the content of an interaction response.
type Reply struct {
	Content    string
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent

	// Ephemeral makes the response visible to the invoking user only.
	Ephemeral bool

	// ChannelMessage, when set, is posted to the interaction's channel.
	// The interaction is acknowledged before the post and answered with the reply after it.
	// Ephemeral then applies to both the acknowledgement and the answer.
	ChannelMessage *discordgo.MessageSend
}

func (r *Reply) response() *discordgo.InteractionResponse {
	data := &discordgo.InteractionResponseData{
		Content:    r.Content,
		Embeds:     r.Embeds,
		Components: r.Components,
	}
	if r.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
}

func (r *Reply) deferred() *discordgo.InteractionResponse {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if r.Ephemeral {
		resp.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}
	return resp
}

func (r *Reply) edit() *discordgo.WebhookEdit {
	content := r.Content
	edit := &discordgo.WebhookEdit{Content: &content}
	if len(r.Embeds) > 0 {
		edit.Embeds = &r.Embeds
	}
	if len(r.Components) > 0 {
		edit.Components = &r.Components
	}
	return edit
}

// NewResponse creates a *sarah.CommandResponse that answers the interaction with the given message.
// Pass RespOption values to customize the response.
func NewResponse(input sarah.Input, message string, options ...RespOption) (*sarah.CommandResponse, error) {
	if _, ok := input.(*InteractionInput); !ok {
		return nil, fmt.Errorf("%T is not a *discord.InteractionInput", input)
	}

	reply := &Reply{Content: message}
	for _, opt := range options {
		opt(reply)
	}

	return &sarah.CommandResponse{
		Content: reply,
	}, nil
}

// RespOption defines a function signature that NewResponse's functional options must satisfy.
type RespOption func(*Reply)

// RespEphemeral makes the response visible to the invoking user only.
func RespEphemeral() RespOption {
	return func(reply *Reply) {
		reply.Ephemeral = true
	}
}

// RespWithEmbeds attaches the given embeds to the response.
func RespWithEmbeds(embeds ...*discordgo.MessageEmbed) RespOption {
	return func(reply *Reply) {
		reply.Embeds = append(reply.Embeds, embeds...)
	}
}

// RespWithComponents attaches the given components to the response.
func RespWithComponents(components ...discordgo.MessageComponent) RespOption {
	return func(reply *Reply) {
		reply.Components = append(reply.Components, components...)
	}
}

// RespWithChannelMessage posts the given message to the interaction's channel.
// The interaction is acknowledged first and answered once the message is posted.
func RespWithChannelMessage(message *discordgo.MessageSend) RespOption {
	return func(reply *Reply) {
		reply.ChannelMessage = message
	}
}
