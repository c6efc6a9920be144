package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"
	"github.com/oklahomer/go-sarah/v4"
	"github.com/skylounge/panelbot/discord"
	"github.com/skylounge/panelbot/embeds"
)

// Embed handles /embed and its subcommands.
func (h *Handler) Embed(_ context.Context, input sarah.Input) (*sarah.CommandResponse, error) {
	in, ok := input.(*discord.InteractionInput)
	if !ok {
		return nil, fmt.Errorf("%T is not a *discord.InteractionInput", input)
	}

	switch in.Message() {
	case "embed list":
		return h.listEmbeds(in)

	case "embed preview":
		return h.previewEmbed(in)

	case "embed set":
		return h.setEmbed(in)

	case "embed delete":
		return h.deleteEmbed(in)

	default:
		return errorReply(input, "Embed Error", fmt.Sprintf("Unknown command: /%s", in.Message()))
	}
}

func (h *Handler) listEmbeds(in *discord.InteractionInput) (*sarah.CommandResponse, error) {
	names, err := h.templates.List()
	if err != nil {
		logger.Errorf("Failed to list embeds: %+v", err)
		return errorReply(in, "Embed Error", fmt.Sprintf("Failed to list embeds: %s", err.Error()))
	}

	embed := &discordgo.MessageEmbed{
		Title: "Embed Templates",
		Color: ColorNeutral,
	}
	if len(names) == 0 {
		embed.Description = "No embed templates have been saved yet."
		return reply(in, embed)
	}

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("`%s`", name))
	}
	embed.Description = strings.Join(lines, "\n")
	return reply(in, embed)
}

func (h *Handler) previewEmbed(in *discord.InteractionInput) (*sarah.CommandResponse, error) {
	name := stringOption(in, "name")

	params := map[string]string{}
	if raw := stringOption(in, "params"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			return errorReply(in, "Embed Error", fmt.Sprintf("Parameters must be a JSON object of strings: %s", err.Error()))
		}
	}

	embed, resp, err := h.renderOrReply(in, name, params)
	if embed == nil {
		return resp, err
	}
	return reply(in, embed)
}

func (h *Handler) setEmbed(in *discord.InteractionInput) (*sarah.CommandResponse, error) {
	name := stringOption(in, "name")
	raw := stringOption(in, "data")

	t := &embeds.Template{}
	if err := json.Unmarshal([]byte(raw), t); err != nil {
		return errorReply(in, "Embed Error", fmt.Sprintf("Embed data must be a JSON object: %s", err.Error()))
	}
	if len(t.Color) > 0 {
		if _, err := t.Color.Value(); err != nil {
			return errorReply(in, "Embed Error", err.Error())
		}
	}

	if !h.templates.Insert(name, t) {
		return errorReply(in, "Embed Error", fmt.Sprintf("Failed to save embed `%s`.", name))
	}

	placeholders := embeds.Placeholders(t)
	description := fmt.Sprintf("Embed `%s` has been saved.", name)
	if len(placeholders) > 0 {
		description += fmt.Sprintf("\nPlaceholders: `%s`", strings.Join(placeholders, "`, `"))
	}
	return reply(in, &discordgo.MessageEmbed{
		Title:       "Embed Saved",
		Description: description,
		Color:       ColorNeutral,
	})
}

func (h *Handler) deleteEmbed(in *discord.InteractionInput) (*sarah.CommandResponse, error) {
	name := stringOption(in, "name")

	if !h.templates.Delete(name) {
		return errorReply(in, "Embed Error", fmt.Sprintf("Embed `%s` does not exist or could not be deleted.", name))
	}

	return reply(in, &discordgo.MessageEmbed{
		Title:       "Embed Deleted",
		Description: fmt.Sprintf("Embed `%s` has been deleted.", name),
		Color:       ColorNeutral,
	})
}
