package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-sarah/v4"
)

func TestNewResponse(t *testing.T) {
	input, err := InteractionToInput(newCommandInteraction(discordgo.ApplicationCommandInteractionData{Name: "panel"}))
	if err != nil {
		t.Fatalf("Unexpected error: %+v", err)
	}

	t.Run("simple response", func(t *testing.T) {
		resp, err := NewResponse(input, "hello")
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}

		reply, ok := resp.Content.(*Reply)
		if !ok {
			t.Fatalf("Expected *Reply, got %T", resp.Content)
		}

		if reply.Content != "hello" {
			t.Errorf("Expected content %q, got %q", "hello", reply.Content)
		}

		if reply.Ephemeral {
			t.Error("Expected a public reply by default")
		}

		if resp.UserContext != nil {
			t.Error("Expected nil UserContext")
		}
	})

	t.Run("response with options", func(t *testing.T) {
		embed := &discordgo.MessageEmbed{Title: "Panel"}
		row := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Hello World!", CustomID: "hello_world"},
		}}
		message := &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}

		resp, err := NewResponse(
			input,
			"Sent the panel!",
			RespEphemeral(),
			RespWithEmbeds(embed),
			RespWithComponents(row),
			RespWithChannelMessage(message),
		)
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}

		reply := resp.Content.(*Reply)
		if !reply.Ephemeral {
			t.Error("Expected an ephemeral reply")
		}
		if len(reply.Embeds) != 1 || reply.Embeds[0] != embed {
			t.Errorf("Unexpected embeds %+v", reply.Embeds)
		}
		if len(reply.Components) != 1 {
			t.Errorf("Expected 1 component, got %d", len(reply.Components))
		}
		if reply.ChannelMessage != message {
			t.Error("Expected channel message to be set")
		}
	})

	t.Run("non-interaction input returns error", func(t *testing.T) {
		helpInput := sarah.NewHelpInput(input)

		_, err := NewResponse(helpInput, "should fail")
		if err == nil {
			t.Fatal("Expected an error for non-interaction Input")
		}
	})
}

func TestReply_response(t *testing.T) {
	t.Run("public", func(t *testing.T) {
		resp := (&Reply{Content: "hi"}).response()

		if resp.Type != discordgo.InteractionResponseChannelMessageWithSource {
			t.Errorf("Unexpected type %d", resp.Type)
		}
		if resp.Data.Content != "hi" {
			t.Errorf("Expected content %q, got %q", "hi", resp.Data.Content)
		}
		if resp.Data.Flags != 0 {
			t.Errorf("Expected no flags, got %d", resp.Data.Flags)
		}
	})

	t.Run("ephemeral", func(t *testing.T) {
		resp := (&Reply{Content: "hi", Ephemeral: true}).response()

		if resp.Data.Flags != discordgo.MessageFlagsEphemeral {
			t.Errorf("Expected ephemeral flag, got %d", resp.Data.Flags)
		}
	})
}

func TestReply_deferred(t *testing.T) {
	t.Run("ephemeral", func(t *testing.T) {
		resp := (&Reply{Ephemeral: true}).deferred()

		if resp.Type != discordgo.InteractionResponseDeferredChannelMessageWithSource {
			t.Errorf("Unexpected type %d", resp.Type)
		}
		if resp.Data == nil || resp.Data.Flags != discordgo.MessageFlagsEphemeral {
			t.Errorf("Expected ephemeral flags, got %+v", resp.Data)
		}
	})

	t.Run("public", func(t *testing.T) {
		resp := (&Reply{}).deferred()

		if resp.Data != nil {
			t.Errorf("Expected no data, got %+v", resp.Data)
		}
	})
}

func TestReply_edit(t *testing.T) {
	embed := &discordgo.MessageEmbed{Title: "Panel"}
	edit := (&Reply{Content: "done", Embeds: []*discordgo.MessageEmbed{embed}}).edit()

	if edit.Content == nil || *edit.Content != "done" {
		t.Errorf("Unexpected content %+v", edit.Content)
	}
	if edit.Embeds == nil || len(*edit.Embeds) != 1 || (*edit.Embeds)[0] != embed {
		t.Errorf("Unexpected embeds %+v", edit.Embeds)
	}
	if edit.Components != nil {
		t.Errorf("Expected no components, got %+v", edit.Components)
	}
}
