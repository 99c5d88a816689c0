package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/glabrego/reelfeed-cli/internal/feed"
	"github.com/glabrego/reelfeed-cli/internal/layout"
)

var (
	peekColumns int
	peekFilter  string
)

func init() {
	peekCmd.Flags().IntVar(&peekColumns, "columns", 3, "number of grid columns")
	peekCmd.Flags().StringVar(&peekFilter, "filter", "", `item filter, e.g. "new"`)
	rootCmd.AddCommand(peekCmd)
}

var peekCmd = &cobra.Command{
	Use:   "peek [category]",
	Short: "Load the first page of a category and print its masonry layout",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPeek,
}

func runPeek(cmd *cobra.Command, args []string) error {
	e, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	key := feed.QueryKey{Category: e.cfg.Feed.Categories[0], Filter: peekFilter}
	if len(args) == 1 {
		key.Category = args[0]
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.API.Timeout)
	defer cancel()
	if err := e.service.Prime(ctx, key); err != nil {
		return err
	}

	columns, err := layout.Layout(e.service.Grid().Store().Items(), peekColumns)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderLayout(key, columns))
	return nil
}

func renderLayout(key feed.QueryKey, columns []layout.Column) string {
	headers := make([]string, len(columns))
	rows := 0
	for i, col := range columns {
		headers[i] = fmt.Sprintf("col %d (%.2f)", i+1, col.Height)
		rows = max(rows, len(col.Items))
	}
	t := table.New().Border(lipgloss.NormalBorder()).Headers(headers...)
	for r := 0; r < rows; r++ {
		cells := make([]string, len(columns))
		for c, col := range columns {
			if r < len(col.Items) {
				it := col.Items[r]
				cells[c] = it.ID + " " + strings.ToLower(it.Height.String())
			}
		}
		t.Row(cells...)
	}
	return fmt.Sprintf("%s\n%s\nspread %.2f", key, t.String(), layout.Spread(columns))
}
