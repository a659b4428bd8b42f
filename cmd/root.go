// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"github.com/spf13/cobra"

	"forgelab.xyz/pktforge/internal/config"
	"forgelab.xyz/pktforge/internal/log"
)

var (
	// Global flags
	configFile string
	logLevel   string
)

// cfg is the effective configuration, loaded before any subcommand runs.
var cfg *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pktforge",
	Short: "pktforge - Layered network packet forging toolkit",
	Long: `pktforge builds raw network frames layer by layer: Ethernet framing,
IPv4 encapsulation and a TCP, UDP or ICMP transport, with all lengths
and checksums computed for you.

Forged frames can be hexdumped, visualized layer by layer, written to a
pcap file for Wireshark, or described as JSON records and exchanged
between the bundled client and server.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		return log.Init(cfg.Log)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (optional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level: debug, info, warn, error")
}
