package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `
Print the effective configuration after merging the config file over the
built-in defaults. The output can be saved and used as a config file.

Examples:
  pktforge config                       # built-in defaults
  pktforge config -c pktforge.yaml      # effective config with overrides
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := cfg.YAML()
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
