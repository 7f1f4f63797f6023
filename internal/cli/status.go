package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server health and the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			health, healthErr := apiClient.Health(ctx)

			if getOutputFormat() != "table" {
				summary := map[string]interface{}{
					"server": viper.GetString("server_url"),
					"email":  viper.GetString("auth.email"),
				}
				if healthErr != nil {
					summary["error"] = healthErr.Error()
				} else {
					summary["health"] = health.Data
				}
				return printOutput(summary)
			}

			fmt.Println("ProjectCostAI")
			fmt.Println(strings.Repeat("=", 40))
			fmt.Printf("  Server:   %s\n", viper.GetString("server_url"))
			if healthErr != nil {
				fmt.Printf("  Health:   (error: %v)\n", healthErr)
			} else {
				for k, v := range health.Data {
					fmt.Printf("  %-9s %s\n", k+":", v)
				}
			}

			if email := viper.GetString("auth.email"); email != "" {
				fmt.Printf("  Session:  %s\n", email)
			} else {
				fmt.Println("  Session:  not logged in")
			}
			return nil
		},
	}
}
