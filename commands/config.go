package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"
	"github.com/oklahomer/go-sarah/v4"
	"github.com/skylounge/panelbot/configstore"
	"github.com/skylounge/panelbot/discord"
)

// Config handles /config and its subcommands.
func (h *Handler) Config(ctx context.Context, input sarah.Input) (*sarah.CommandResponse, error) {
	in, ok := input.(*discord.InteractionInput)
	if !ok {
		return nil, fmt.Errorf("%T is not a *discord.InteractionInput", input)
	}

	guild, ok := guildID(in)
	if !ok {
		return errorReply(input, "Configuration Error", "This command can only be used in a server.")
	}

	switch in.Message() {
	case "config roles":
		return h.setRole(ctx, in, guild)

	case "config categories":
		return h.setCategory(ctx, in, guild)

	case "config channels":
		return h.setChannel(ctx, in, guild)

	case "config values":
		return h.setValue(ctx, in, guild)

	case "config view":
		return h.viewConfig(ctx, in, guild)

	default:
		return errorReply(input, "Configuration Error", fmt.Sprintf("Unknown command: /%s", in.Message()))
	}
}

func (h *Handler) setRole(ctx context.Context, in *discord.InteractionInput, guild int64) (*sarah.CommandResponse, error) {
	key := stringOption(in, "setting")
	roleID := stringOption(in, "role")

	if err := h.configs.Set(ctx, guild, key, roleID, configstore.CategoryRoles); err != nil {
		logger.Errorf("Failed to set %s of guild %d: %+v", key, guild, err)
		return errorReply(in, "Configuration Error", fmt.Sprintf("Failed to update role configuration: %s", err.Error()))
	}

	name := roleID
	if resolved := in.Resolved(); resolved != nil {
		if role, ok := resolved.Roles[roleID]; ok {
			name = role.Name
		}
	}

	display := h.catalog.DisplayName(key)
	return reply(in, &discordgo.MessageEmbed{
		Title:       "Role Configuration Updated",
		Description: fmt.Sprintf("**%s** has been set to <@&%s>", display, roleID),
		Color:       ColorNeutral,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Role", Value: fmt.Sprintf("%s (%s)", name, roleID), Inline: true},
			{Name: "Configuration", Value: display, Inline: true},
		},
	})
}

func (h *Handler) setCategory(ctx context.Context, in *discord.InteractionInput, guild int64) (*sarah.CommandResponse, error) {
	key := stringOption(in, "setting")
	categoryID := stringOption(in, "category")

	if err := h.configs.Set(ctx, guild, key, categoryID, configstore.CategoryCategories); err != nil {
		logger.Errorf("Failed to set %s of guild %d: %+v", key, guild, err)
		return errorReply(in, "Configuration Error", fmt.Sprintf("Failed to update category configuration: %s", err.Error()))
	}

	name := resolvedChannelName(in, categoryID)
	display := h.catalog.DisplayName(key)
	return reply(in, &discordgo.MessageEmbed{
		Title:       "Category Configuration Updated",
		Description: fmt.Sprintf("**%s** has been set to %s", display, name),
		Color:       ColorNeutral,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Category", Value: fmt.Sprintf("%s (%s)", name, categoryID), Inline: true},
			{Name: "Configuration", Value: display, Inline: true},
		},
	})
}

func (h *Handler) setChannel(ctx context.Context, in *discord.InteractionInput, guild int64) (*sarah.CommandResponse, error) {
	key := stringOption(in, "setting")
	channelID := stringOption(in, "channel")

	if err := h.configs.Set(ctx, guild, key, channelID, configstore.CategoryChannels); err != nil {
		logger.Errorf("Failed to set %s of guild %d: %+v", key, guild, err)
		return errorReply(in, "Configuration Error", fmt.Sprintf("Failed to update channel configuration: %s", err.Error()))
	}

	display := h.catalog.DisplayName(key)
	return reply(in, &discordgo.MessageEmbed{
		Title:       "Channel Configuration Updated",
		Description: fmt.Sprintf("**%s** has been set to <#%s>", display, channelID),
		Color:       ColorNeutral,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Channel", Value: fmt.Sprintf("%s (%s)", resolvedChannelName(in, channelID), channelID), Inline: true},
			{Name: "Configuration", Value: display, Inline: true},
		},
	})
}

func (h *Handler) setValue(ctx context.Context, in *discord.InteractionInput, guild int64) (*sarah.CommandResponse, error) {
	key := stringOption(in, "setting")
	value := stringOption(in, "value")

	if err := h.configs.Set(ctx, guild, key, value, configstore.CategoryValues); err != nil {
		logger.Errorf("Failed to set %s of guild %d: %+v", key, guild, err)
		return errorReply(in, "Configuration Error", fmt.Sprintf("Failed to update value configuration: %s", err.Error()))
	}

	return reply(in, &discordgo.MessageEmbed{
		Title:       "Value Configuration Updated",
		Description: fmt.Sprintf("**%s** has been set to: `%s`", key, value),
		Color:       ColorNeutral,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Value", Value: value, Inline: true},
			{Name: "Configuration", Value: key, Inline: true},
		},
	})
}

func (h *Handler) viewConfig(ctx context.Context, in *discord.InteractionInput, guild int64) (*sarah.CommandResponse, error) {
	config, err := h.configs.Load(ctx, guild)
	if err != nil {
		logger.Errorf("Failed to load configuration of guild %d: %+v", guild, err)
		return errorReply(in, "Configuration Error", fmt.Sprintf("Failed to load configuration: %s", err.Error()))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Server Configuration",
		Description: "Current configuration settings for this server",
		Color:       ColorNeutral,
	}

	if config.Empty() {
		embed.Description = "No configuration settings have been set yet."
		return reply(in, embed)
	}

	sections := []struct {
		name     string
		settings configstore.Settings
		describe func(id string) string
	}{
		{name: "Roles", settings: config.Roles, describe: func(id string) string { return h.roleMention(in.GuildID(), id) }},
		{name: "Categories", settings: config.Categories, describe: func(id string) string { return h.categoryName(in.GuildID(), id) }},
		{name: "Channels", settings: config.Channels, describe: func(id string) string { return h.channelMention(in.GuildID(), id) }},
	}
	for _, section := range sections {
		if len(section.settings) == 0 {
			continue
		}
		lines := make([]string, 0, len(section.settings))
		for _, s := range section.settings {
			lines = append(lines, fmt.Sprintf("**%s**: %s", h.catalog.DisplayName(s.Key), section.describe(s.Value)))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: section.name, Value: strings.Join(lines, "\n")})
	}

	if len(config.Values) > 0 {
		lines := make([]string, 0, len(config.Values))
		for _, s := range config.Values {
			lines = append(lines, fmt.Sprintf("**%s**: `%s`", s.Key, s.Value))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Values", Value: strings.Join(lines, "\n")})
	}

	return reply(in, embed)
}

func (h *Handler) roleMention(guildID, roleID string) string {
	if h.state != nil {
		if _, err := h.state.Role(guildID, roleID); err == nil {
			return fmt.Sprintf("<@&%s>", roleID)
		}
	}
	return "Role not found"
}

func (h *Handler) categoryName(guildID, channelID string) string {
	if ch := h.guildChannel(guildID, channelID); ch != nil {
		return ch.Name
	}
	return "Category not found"
}

func (h *Handler) channelMention(guildID, channelID string) string {
	if ch := h.guildChannel(guildID, channelID); ch != nil {
		return fmt.Sprintf("<#%s>", ch.ID)
	}
	return "Channel not found"
}

func (h *Handler) guildChannel(guildID, channelID string) *discordgo.Channel {
	if h.state == nil {
		return nil
	}
	ch, err := h.state.Channel(channelID)
	if err != nil || ch.GuildID != guildID {
		return nil
	}
	return ch
}

func resolvedChannelName(in *discord.InteractionInput, channelID string) string {
	if resolved := in.Resolved(); resolved != nil {
		if ch, ok := resolved.Channels[channelID]; ok {
			return ch.Name
		}
	}
	return channelID
}
