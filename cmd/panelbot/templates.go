package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/olekukonko/tablewriter"
	"github.com/skylounge/panelbot/embeds"
	"github.com/skylounge/panelbot/settings"
	"github.com/spf13/cobra"
)

var templateParams map[string]string

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Inspect the embed templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the templates in document order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTemplates()
		if err != nil {
			return err
		}

		names, err := store.List()
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Name", "Title", "Placeholders"})
		for _, name := range names {
			t, ok, err := store.Get(name)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			table.Append([]string{name, t.Title, strings.Join(embeds.Placeholders(t), ", ")})
		}
		table.Render()
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a template as stored",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTemplates()
		if err != nil {
			return err
		}

		t, ok, err := store.Get(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("template %q does not exist", args[0])
		}

		out, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var templatesRenderCmd = &cobra.Command{
	Use:   "render <name>",
	Short: "Render a template with the given parameters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTemplates()
		if err != nil {
			return err
		}

		embed, err := store.Render(args[0], templateParams)
		if err != nil {
			return err
		}
		if embed == nil {
			return fmt.Errorf("template %q does not exist", args[0])
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Attribute", "Value"})
		table.SetAutoWrapText(false)
		table.AppendBulk(embedRows(embed))
		table.Render()
		return nil
	},
}

var templatesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTemplates()
		if err != nil {
			return err
		}

		if !store.Delete(args[0]) {
			return errors.New("template does not exist or could not be deleted")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	templatesRenderCmd.Flags().StringToStringVar(&templateParams, "param", map[string]string{}, "placeholder value as name=value")

	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	templatesCmd.AddCommand(templatesRenderCmd)
	templatesCmd.AddCommand(templatesDeleteCmd)
}

func openTemplates() (*embeds.Store, error) {
	config, err := settings.Load(configPath)
	if err != nil {
		return nil, err
	}
	return embeds.Open(config.EmbedsPath), nil
}

func embedRows(embed *discordgo.MessageEmbed) [][]string {
	var rows [][]string
	add := func(attribute, value string) {
		if value != "" {
			rows = append(rows, []string{attribute, value})
		}
	}

	add("title", embed.Title)
	add("description", embed.Description)
	if embed.Color != 0 {
		add("color", "#"+strings.ToUpper(strconv.FormatInt(int64(embed.Color), 16)))
	}
	add("url", embed.URL)
	add("timestamp", embed.Timestamp)
	for i, f := range embed.Fields {
		value := f.Value
		if f.Inline {
			value += " (inline)"
		}
		add(fmt.Sprintf("fields[%d].%s", i, f.Name), value)
	}
	if embed.Footer != nil {
		add("footer.text", embed.Footer.Text)
		add("footer.icon_url", embed.Footer.IconURL)
	}
	if embed.Thumbnail != nil {
		add("thumbnail", embed.Thumbnail.URL)
	}
	if embed.Image != nil {
		add("image", embed.Image.URL)
	}
	if embed.Author != nil {
		add("author.name", embed.Author.Name)
		add("author.url", embed.Author.URL)
		add("author.icon_url", embed.Author.IconURL)
	}
	return rows
}
