// File: cmd/config.go
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/activebook/fitbot/data"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configExportCmd)
	configCmd.AddCommand(configImportCmd)
}

// configCmd represents the base command when called without any subcommands
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg"},
	Short:   "Manage fitbot configuration",
	Long: `View and manage settings for fitbot.

Every key can also be set from the environment with the FITBOT_ prefix,
e.g. FITBOT_CHAT_ENDPOINT or FITBOT_REPLY_KEY.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowCmd.RunE(cmd, args)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the location of the configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		store := data.NewConfigStore()
		used := store.ConfigFileUsed()
		if used == "" {
			fmt.Printf("No configuration file loaded.\nDefault location is: %s\n", data.GetConfigFilePath())
			return
		}
		fmt.Printf("Configuration file in use: %s\n", used)
		if _, err := os.Stat(used); os.IsNotExist(err) {
			fmt.Println("The file does not exist yet; defaults are in effect.")
		}
	},
}

// maskSecret hides all but the last four characters of API keys.
func maskSecret(key string, value interface{}) string {
	s := fmt.Sprint(value)
	if key != data.KeyReplyKey || s == "" {
		return s
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"ls"},
	Short:   "Show every setting and its effective value",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := data.NewConfigStore()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, key := range store.Keys() {
			fmt.Fprintf(w, "%s\t%s\n", keyColor(key), maskSecret(key, store.Get(key)))
		}
		return w.Flush()
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToLower(args[0])
		value := data.NewConfigStore().Get(key)
		if value == nil {
			return fmt.Errorf("key '%s' is not set", key)
		}
		fmt.Println(maskSecret(key, value))
		return nil
	},
}

// parseConfigValue keeps numbers and booleans typed in the YAML file.
func parseConfigValue(s string) interface{} {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting and save the file",
	Long: `Change one setting and save the configuration file.

  fitbot config set chat.endpoint http://localhost:8723/api/chat
  fitbot config set reply.backend anthropic`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToLower(args[0])
		store := data.NewConfigStore()
		if err := store.Set(key, parseConfigValue(args[1])); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
		if key == data.KeyTheme {
			if err := data.LoadTheme(args[1]); err != nil {
				fmt.Printf("%sWarning: %v%s\n", data.StatusWarnColor, err, data.ResetSeq)
			}
		}
		fmt.Printf("%s = %s\n", key, maskSecret(key, args[1]))
		return nil
	},
}

var configExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export configuration to a file",
	Long: `Export current configuration to a file.

If no file is specified, the configuration will be exported to 'fitbot-config.yaml'
in the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exportFile := "fitbot-config.yaml"
		if len(args) == 1 {
			exportFile = args[0]
		}
		if err := data.NewConfigStore().Export(exportFile); err != nil {
			return fmt.Errorf("error exporting configuration: %w", err)
		}
		fmt.Printf("Configuration exported successfully to: %s\n", exportFile)
		return nil
	},
}

var configImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import configuration from a file",
	Long: `Import configuration from a file.

This will merge the imported configuration with the current configuration,
with the imported values taking precedence.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		importFile := args[0]
		if _, err := os.Stat(importFile); os.IsNotExist(err) {
			return fmt.Errorf("configuration file does not exist: %s", importFile)
		}
		if err := data.NewConfigStore().Import(importFile); err != nil {
			return fmt.Errorf("error importing configuration: %w", err)
		}
		fmt.Printf("Configuration imported successfully from: %s\n", importFile)
		return nil
	},
}
