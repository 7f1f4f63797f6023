package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/projectcostai/projectcostai/pkg/client"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse stored predictions",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryDeleteCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var opts client.ListOptions
	var userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List predictions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				page *client.Page[client.Prediction]
				err  error
			)
			if userID != "" {
				page, err = apiClient.History().ListForUser(cmd.Context(), userID, &opts)
			} else {
				page, err = apiClient.History().List(cmd.Context(), &opts)
			}
			if err != nil {
				return fmt.Errorf("failed to list predictions: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(page.Data)
			}
			renderPredictions(page.Data)
			fmt.Printf("\nShowing %d of %d (page %d)\n", page.Count, page.Total, page.Page)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 20, "results per page")
	cmd.Flags().StringVar(&userID, "user", "", "list another user's predictions (admin)")

	return cmd
}

func renderPredictions(list []client.Prediction) {
	t := NewTable("ID", "TITLE", "STATUS", "COST", "TIMELINE", "CREATED")
	for _, p := range list {
		cost, days := "-", "-"
		if p.Outputs.Cost != nil {
			cost = formatMoney(p.Outputs.Cost.EstimatedCost)
		}
		if p.Outputs.Timeline != nil {
			days = formatDays(p.Outputs.Timeline.EstimatedDurationDays)
		}
		t.AddRow(p.ID, truncate(p.Title, 40), formatStatus(p.Status), cost, days, p.CreatedAt.Format("2006-01-02 15:04"))
	}
	t.Render()
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a prediction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.History().Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete prediction: %w", err)
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <id> <id> [id...]",
		Short: "Compare your predictions side by side",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := apiClient.History().Compare(cmd.Context(), args...)
			if err != nil {
				return fmt.Errorf("failed to compare predictions: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(list)
			}
			renderPredictions(list)
			if missing := len(args) - len(list); missing > 0 {
				fmt.Printf("\n%d id(s) were not found among your predictions\n", missing)
			}
			return nil
		},
	}
}

func newReportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:       "report <pdf|csv> <id>",
		Short:     "Download a prediction report",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"pdf", "csv"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := apiClient.History().Report(cmd.Context(), args[1], args[0])
			if err != nil {
				return fmt.Errorf("failed to download report: %w", err)
			}

			path := outPath
			if path == "" {
				path = filepath.Base(rep.Filename)
			}
			if err := os.WriteFile(path, rep.Body, 0o644); err != nil {
				return fmt.Errorf("failed to save report: %w", err)
			}
			fmt.Printf("Saved %s (%d bytes)\n", path, len(rep.Body))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "file", "f", "", "output file (default: server-suggested name)")

	return cmd
}
