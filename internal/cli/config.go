package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// settable lists the keys `config set` accepts, with a check for each value
var settable = map[string]func(string) error{
	"server_url": func(v string) error {
		if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
			return fmt.Errorf("server_url must start with http:// or https://")
		}
		return nil
	},
	"output": func(v string) error {
		switch v {
		case "table", "json", "yaml":
			return nil
		}
		return fmt.Errorf("output must be table, json or yaml")
	},
	"timeout": func(v string) error {
		if d, err := time.ParseDuration(v); err != nil || d <= 0 {
			return fmt.Errorf("timeout must be a positive duration such as 30s")
		}
		return nil
	},
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the local CLI settings",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigListCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a config file interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewScanner(os.Stdin)
			ask := func(prompt, fallback string) string {
				fmt.Printf("%s [%s]: ", prompt, fallback)
				if !in.Scan() {
					return fallback
				}
				if v := strings.TrimSpace(in.Text()); v != "" {
					return v
				}
				return fallback
			}

			answers := map[string]string{
				"server_url": ask("ProjectCostAI server", defaultServerURL),
				"output":     ask("Output format (table/json/yaml)", "table"),
			}
			for key, val := range answers {
				if err := settable[key](val); err != nil {
					return err
				}
				viper.Set(key, val)
			}

			path, err := saveConfig()
			if err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting (server_url, output, timeout)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			check, ok := settable[args[0]]
			if !ok {
				return fmt.Errorf("unknown key %q (known: %s)", args[0], strings.Join(settableKeys(), ", "))
			}
			if err := check(args[1]); err != nil {
				return err
			}
			viper.Set(args[0], args[1])
			if _, err := saveConfig(); err != nil {
				return err
			}
			fmt.Printf("%s = %s\n", args[0], args[1])
			return nil
		},
	}
}

func settableKeys() []string {
	keys := make([]string, 0, len(settable))
	for k := range settable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !viper.IsSet(args[0]) {
				return fmt.Errorf("%s is not set", args[0])
			}
			fmt.Println(displayValue(args[0], viper.Get(args[0])))
			return nil
		},
	}
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every setting",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := viper.AllKeys()
			sort.Strings(keys)
			t := NewTable("KEY", "VALUE")
			for _, k := range keys {
				t.AddRow(k, displayValue(k, viper.Get(k)))
			}
			t.Render()
			return nil
		},
	}
}

// displayValue hides the stored token
func displayValue(key string, val interface{}) string {
	if key == "auth.token" {
		if s, _ := val.(string); s != "" {
			return "(stored)"
		}
	}
	return fmt.Sprint(val)
}

// saveConfig writes the viper state to --config or the default file and
// returns the path
func saveConfig() (string, error) {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return "", err
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	return path, viper.WriteConfigAs(path)
}
