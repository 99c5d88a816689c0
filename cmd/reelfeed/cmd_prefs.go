package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/glabrego/reelfeed-cli/internal/storage"
)

var (
	viewsLimit int
	resetPrefs bool
)

func init() {
	prefsCmd.Flags().IntVarP(&viewsLimit, "limit", "n", 10, "number of recently played items to list")
	prefsCmd.Flags().BoolVar(&resetPrefs, "reset", false, "restore default preferences")
	rootCmd.AddCommand(prefsCmd)
}

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show saved preferences and recently played items",
	Args:  cobra.NoArgs,
	RunE:  runPrefs,
}

func runPrefs(cmd *cobra.Command, args []string) error {
	e, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	if resetPrefs {
		if err := e.service.SavePreferences(ctx, storage.DefaultPreferences()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Preferences reset to defaults")
	}

	prefs, err := e.service.LoadPreferences(ctx)
	if err != nil {
		return err
	}
	views, err := e.service.RecentViews(ctx, viewsLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderPrefs(prefs))
	if len(views) == 0 {
		fmt.Fprintln(out, "No items played yet.")
		return nil
	}
	fmt.Fprintln(out, renderViews(views))
	return nil
}

func renderPrefs(p storage.Preferences) string {
	category := p.Category
	if category == "" {
		category = "(first configured)"
	}
	filter := p.Filter
	if filter == "" {
		filter = "all"
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("preference", "value").
		Row("mode", p.Mode).
		Row("muted", strconv.FormatBool(p.Muted)).
		Row("category", category).
		Row("filter", filter).
		String()
}

func renderViews(views []storage.View) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("item", "title", "category", "plays", "last played")
	for _, v := range views {
		t.Row(v.ItemID, v.Title, v.Category, strconv.Itoa(v.Count), v.ViewedAt.Local().Format(time.DateTime))
	}
	return t.String()
}
