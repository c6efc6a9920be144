package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/skylounge/panelbot/configstore"
	"github.com/skylounge/panelbot/settings"
	"github.com/spf13/cobra"
)

var (
	guildID   string
	configKey string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the per-guild configuration",
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Print the configuration of a guild",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(guildID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid guild ID %q: %w", guildID, err)
		}

		config, err := settings.Load(configPath)
		if err != nil {
			return err
		}

		store, err := configstore.Open(config.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()

		guild, err := store.Load(context.Background(), id)
		if err != nil {
			return err
		}
		if guild.Empty() {
			fmt.Fprintln(cmd.OutOrStdout(), "No configuration settings have been set yet.")
			return nil
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Category", "Setting", "Key", "Value"})
		for _, category := range configstore.Categories {
			for _, s := range guild.Section(category) {
				table.Append([]string{string(category), config.Catalog.DisplayName(s.Key), s.Key, s.Value})
			}
		}
		table.Render()
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print a single configuration value of a guild",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(guildID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid guild ID %q: %w", guildID, err)
		}

		config, err := settings.Load(configPath)
		if err != nil {
			return err
		}

		store, err := configstore.Open(config.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()

		value, ok, err := store.Get(context.Background(), id, configKey)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s is not set for guild %d", config.Catalog.DisplayName(configKey), id)
		}

		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

func init() {
	configViewCmd.Flags().StringVar(&guildID, "guild", "", "guild ID")
	_ = configViewCmd.MarkFlagRequired("guild")

	configGetCmd.Flags().StringVar(&guildID, "guild", "", "guild ID")
	configGetCmd.Flags().StringVar(&configKey, "key", "", "storage key, such as account_ping_role")
	_ = configGetCmd.MarkFlagRequired("guild")
	_ = configGetCmd.MarkFlagRequired("key")

	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configGetCmd)
}
