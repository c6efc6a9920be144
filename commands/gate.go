package commands

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"
	"github.com/oklahomer/go-sarah/v4"
	"github.com/skylounge/panelbot/discord"
)

// Gate restricts commands to the configured owners.
type Gate struct {
	owners map[string]struct{}
}

// NewGate creates a Gate that lets the given user IDs through.
func NewGate(ownerIDs ...string) *Gate {
	owners := make(map[string]struct{}, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = struct{}{}
	}
	return &Gate{owners: owners}
}

// Allow tells whether userID is an owner.
func (g *Gate) Allow(userID string) bool {
	_, ok := g.owners[userID]
	return ok
}

// Guard wraps fn so that it only runs for owners.
// Anyone else receives the ephemeral access denied embed.
func (g *Gate) Guard(fn CommandFunc) CommandFunc {
	return func(ctx context.Context, input sarah.Input) (*sarah.CommandResponse, error) {
		in, ok := input.(*discord.InteractionInput)
		if !ok {
			return nil, fmt.Errorf("%T is not a *discord.InteractionInput", input)
		}

		user := in.User()
		if !g.Allow(user.ID) {
			logger.Infof("Denied %s to %s (%s)", in.Message(), user.Username, user.ID)
			return reply(input, &discordgo.MessageEmbed{
				Title:       "Access Denied",
				Description: "This command is restricted to the owners only.",
				Color:       ColorDenied,
			})
		}

		return fn(ctx, input)
	}
}
