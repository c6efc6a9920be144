package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/oklahomer/go-kasumi/logger"
	"github.com/oklahomer/go-sarah/v4"
	"github.com/skylounge/panelbot/commands"
	"github.com/skylounge/panelbot/configstore"
	"github.com/skylounge/panelbot/discord"
	"github.com/skylounge/panelbot/embeds"
	"github.com/skylounge/panelbot/settings"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and serve the slash commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := settings.Load(configPath)
		if err != nil {
			return err
		}

		configs, err := configstore.Open(config.DatabasePath)
		if err != nil {
			return err
		}
		defer func() {
			if err := configs.Close(); err != nil {
				logger.Errorf("Failed to close the configuration store: %+v", err)
			}
		}()

		templates := embeds.Open(config.EmbedsPath)
		if err := templates.EnsureInitialized(); err != nil {
			return fmt.Errorf("failed to initialize %s: %w", config.EmbedsPath, err)
		}

		discordConfig := config.Discord()
		session, err := discord.NewSession(discordConfig)
		if err != nil {
			return err
		}

		handler := commands.NewHandler(configs, templates,
			commands.WithGuildState(session.State),
			commands.WithCatalog(config.Catalog),
			commands.WithGate(commands.NewGate(config.OwnerIDs...)),
			commands.WithHelpCommand(discordConfig.HelpCommand),
		)

		adapter, err := discord.NewAdapter(discordConfig,
			discord.WithSession(session),
			discord.WithPresence(*config.Presence),
			discord.WithApplicationCommands(handler.ApplicationCommands()...),
		)
		if err != nil {
			return fmt.Errorf("failed to create adapter: %w", err)
		}

		storage := sarah.NewUserContextStorage(sarah.NewCacheConfig())
		sarah.RegisterBot(sarah.NewBot(adapter, sarah.BotWithStorage(storage)))
		handler.RegisterProps()

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if err := sarah.Run(ctx, sarah.NewConfig()); err != nil {
			return fmt.Errorf("failed to run: %w", err)
		}

		logger.Infof("Bot is running. Press Ctrl+C to stop.")
		<-ctx.Done()
		logger.Infof("Shutting down...")

		return nil
	},
}
