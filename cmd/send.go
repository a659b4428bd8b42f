package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"forgelab.xyz/pktforge/internal/builder"
	"forgelab.xyz/pktforge/internal/record"
)

var sendFlags struct {
	target   string
	protocol string
	count    int
	interval time.Duration
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Forge packets and send them to a record server as records",
	Long: `
Forge frames from the configured defaults, describe each as a JSON
record and send the records to a running record server.

Examples:
  pktforge send -p tcp                              # 10 records, 1s apart
  pktforge send -p udp --count 100 --interval 100ms
  pktforge send -p icmp --count 0                   # until interrupted
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		target := cfg.Send.Target
		if cmd.Flags().Changed("target") {
			target = sendFlags.target
		}
		count := cfg.Send.Count
		if cmd.Flags().Changed("count") {
			count = sendFlags.count
		}
		interval := cfg.Send.Interval
		if cmd.Flags().Changed("interval") {
			interval = sendFlags.interval
		}

		b := cfg.BuilderFrom()
		switch sendFlags.protocol {
		case "tcp":
			b.SetTCP(builder.TCPConfig(cfg.Defaults.TCP))
		case "udp":
			b.SetUDP(builder.UDPConfig(cfg.Defaults.UDP))
		case "icmp":
			b.SetICMP(builder.ICMPConfig(cfg.Defaults.ICMP))
		default:
			return fmt.Errorf("unknown protocol %q (want tcp, udp or icmp)", sendFlags.protocol)
		}

		client, err := record.Dial(target)
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(context.Background(),
			syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := client.Run(ctx, b, count, interval); err != nil && ctx.Err() == nil {
			return err
		}
		fmt.Println(client.Stats().Summary())
		return nil
	},
}

func init() {
	f := sendCmd.Flags()
	f.StringVarP(&sendFlags.target, "target", "t", "127.0.0.1:9999", "record server address")
	f.StringVarP(&sendFlags.protocol, "protocol", "p", "tcp", "transport protocol: tcp, udp or icmp")
	f.IntVarP(&sendFlags.count, "count", "n", 10, "number of records to send, 0 for unlimited")
	f.DurationVarP(&sendFlags.interval, "interval", "i", time.Second, "delay between records")
	rootCmd.AddCommand(sendCmd)
}
