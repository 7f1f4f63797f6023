package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/projectcostai/projectcostai/pkg/client"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin-only listings and settings",
	}

	cmd.AddCommand(newAdminUsersCmd())
	cmd.AddCommand(newAdminPredictionsCmd())
	cmd.AddCommand(newAdminSettingsCmd())

	return cmd
}

func newAdminUsersCmd() *cobra.Command {
	var opts client.ListOptions

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List every account",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := apiClient.Admin().Users(cmd.Context(), &opts)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(page.Data)
			}

			t := NewTable("ID", "NAME", "EMAIL", "ROLE", "LOGINS", "JOINED")
			for _, u := range page.Data {
				t.AddRow(u.ID, truncate(u.Name, 30), u.Email, u.Role, strconv.Itoa(u.LoginCount), u.CreatedAt.Format("2006-01-02"))
			}
			t.Render()
			fmt.Printf("\nShowing %d of %d users\n", page.Count, page.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 50, "results per page")

	return cmd
}

func newAdminPredictionsCmd() *cobra.Command {
	var opts client.ListOptions

	cmd := &cobra.Command{
		Use:   "predictions",
		Short: "List every prediction with its owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := apiClient.Admin().Predictions(cmd.Context(), &opts)
			if err != nil {
				return fmt.Errorf("failed to list predictions: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(page.Data)
			}

			t := NewTable("ID", "OWNER", "TITLE", "STATUS", "CREATED")
			for _, p := range page.Data {
				owner := "(deleted)"
				if p.User != nil {
					owner = p.User.Email
				}
				t.AddRow(p.ID, owner, truncate(p.Title, 40), formatStatus(p.Status), p.CreatedAt.Format("2006-01-02 15:04"))
			}
			t.Render()
			fmt.Printf("\nShowing %d of %d predictions\n", page.Count, page.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 50, "results per page")

	return cmd
}

func newAdminSettingsCmd() *cobra.Command {
	var unset []string

	cmd := &cobra.Command{
		Use:   "settings [key=value...]",
		Short: "Show or override the server settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				settings map[string]interface{}
				err      error
			)
			if len(args) == 0 && len(unset) == 0 {
				settings, err = apiClient.Settings(cmd.Context())
			} else {
				updates := make(map[string]interface{}, len(args)+len(unset))
				pairs, perr := parseMeta(args)
				if perr != nil {
					return perr
				}
				for k, v := range pairs {
					updates[k] = v
				}
				for _, k := range unset {
					updates[k] = nil
				}
				settings, err = apiClient.Admin().UpdateSettings(cmd.Context(), updates)
			}
			if err != nil {
				return fmt.Errorf("settings request failed: %w", err)
			}
			return printOutput(settings)
		},
	}

	cmd.Flags().StringArrayVar(&unset, "unset", nil, "remove a key (repeatable)")

	return cmd
}
