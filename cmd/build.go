package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"forgelab.xyz/pktforge/internal/builder"
	"forgelab.xyz/pktforge/internal/layers"
	"forgelab.xyz/pktforge/internal/pcap"
	"forgelab.xyz/pktforge/internal/visual"
)

var buildFlags struct {
	protocol string

	ethSrc string
	ethDst string

	ipSrc string
	ipDst string
	ipTTL uint8
	ipID  uint16

	tcpSrcPort uint16
	tcpDstPort uint16
	tcpSeq     uint32
	tcpAck     uint32
	tcpFlags   string
	tcpWindow  uint16

	udpSrcPort uint16
	udpDstPort uint16

	icmpType uint8
	icmpCode uint8
	icmpID   uint16
	icmpSeq  uint16

	payload   string
	visualize bool
	hexdump   bool
	output    string
	pcapFile  string
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a packet and display or save it",
	Long: `
Build an Ethernet frame carrying an IPv4 packet with the selected
transport protocol. Fields not given as flags come from the config file
defaults, or the built-in defaults.

Examples:
  pktforge build -p tcp                                 # TCP SYN to port 80
  pktforge build -p tcp --tcp-flags SYN,ACK --visualize
  pktforge build -p udp --udp-dport 53 --payload "query"
  pktforge build -p icmp --hexdump
  pktforge build -p tcp --pcap out.pcap                 # open in Wireshark
`,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	b, err := builderFromFlags(cmd)
	if err != nil {
		return err
	}

	frame, err := b.Build()
	if err != nil {
		return err
	}
	built, err := b.Layers()
	if err != nil {
		return err
	}

	fmt.Printf("Packet built successfully (%d bytes)\n", len(frame))

	switch {
	case buildFlags.visualize:
		fmt.Println("\n" + visual.RenderPacket(frame, built))
	case buildFlags.hexdump:
		fmt.Println("\n" + visual.Hexdump(frame))
		fmt.Printf("\nTotal size: %d bytes\n", len(frame))
	default:
		fmt.Println("\n" + visual.RenderLayers(built))
	}

	if buildFlags.output != "" {
		if err := os.WriteFile(buildFlags.output, frame, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", buildFlags.output, err)
		}
		fmt.Printf("Packet saved to %s\n", buildFlags.output)
	}

	if buildFlags.pcapFile != "" {
		if err := pcap.WriteFile(buildFlags.pcapFile, frame); err != nil {
			return err
		}
		fmt.Printf("Pcap saved to %s (open with Wireshark)\n", buildFlags.pcapFile)
	}

	return nil
}

// builderFromFlags layers the explicit flags over the config file
// defaults. Only flags the user actually set override the file.
func builderFromFlags(cmd *cobra.Command) (*builder.Builder, error) {
	flags := cmd.Flags()
	defaults := cfg.Defaults

	eth := builder.EthernetConfig(defaults.Ethernet)
	if flags.Changed("eth-src") {
		addr, err := layers.ParseMAC(buildFlags.ethSrc)
		if err != nil {
			return nil, err
		}
		eth.SrcMAC = addr
	}
	if flags.Changed("eth-dst") {
		addr, err := layers.ParseMAC(buildFlags.ethDst)
		if err != nil {
			return nil, err
		}
		eth.DstMAC = addr
	}

	ip := builder.IPConfig(defaults.IP)
	if flags.Changed("ip-src") {
		addr, err := layers.ParseIPv4(buildFlags.ipSrc)
		if err != nil {
			return nil, err
		}
		ip.SrcIP = addr
	}
	if flags.Changed("ip-dst") {
		addr, err := layers.ParseIPv4(buildFlags.ipDst)
		if err != nil {
			return nil, err
		}
		ip.DstIP = addr
	}
	if flags.Changed("ip-ttl") {
		ip.TTL = buildFlags.ipTTL
	}
	if flags.Changed("ip-id") {
		ip.ID = buildFlags.ipID
	}

	payload := defaults.Payload
	if flags.Changed("payload") {
		payload = buildFlags.payload
	}

	b := builder.New().
		SetPayload([]byte(payload)).
		SetEthernet(eth).
		SetIP(ip)

	switch buildFlags.protocol {
	case "tcp":
		tcp := builder.TCPConfig(defaults.TCP)
		if flags.Changed("tcp-sport") {
			tcp.SrcPort = buildFlags.tcpSrcPort
		}
		if flags.Changed("tcp-dport") {
			tcp.DstPort = buildFlags.tcpDstPort
		}
		if flags.Changed("tcp-seq") {
			tcp.Seq = buildFlags.tcpSeq
		}
		if flags.Changed("tcp-ack") {
			tcp.Ack = buildFlags.tcpAck
		}
		if flags.Changed("tcp-flags") {
			parsed, err := layers.ParseTCPFlags(buildFlags.tcpFlags)
			if err != nil {
				return nil, err
			}
			tcp.Flags = parsed
		}
		if flags.Changed("tcp-window") {
			tcp.Window = buildFlags.tcpWindow
		}
		b.SetTCP(tcp)
	case "udp":
		udp := builder.UDPConfig(defaults.UDP)
		if flags.Changed("udp-sport") {
			udp.SrcPort = buildFlags.udpSrcPort
		}
		if flags.Changed("udp-dport") {
			udp.DstPort = buildFlags.udpDstPort
		}
		b.SetUDP(udp)
	case "icmp":
		icmp := builder.ICMPConfig(defaults.ICMP)
		if flags.Changed("icmp-type") {
			icmp.Type = buildFlags.icmpType
		}
		if flags.Changed("icmp-code") {
			icmp.Code = buildFlags.icmpCode
		}
		if flags.Changed("icmp-id") {
			icmp.Identifier = buildFlags.icmpID
		}
		if flags.Changed("icmp-seq") {
			icmp.Sequence = buildFlags.icmpSeq
		}
		b.SetICMP(icmp)
	default:
		return nil, fmt.Errorf("unknown protocol %q (want tcp, udp or icmp)", buildFlags.protocol)
	}

	return b, nil
}

func init() {
	f := buildCmd.Flags()

	f.StringVarP(&buildFlags.protocol, "protocol", "p", "",
		"transport protocol: tcp, udp or icmp (required)")
	buildCmd.MarkFlagRequired("protocol")

	f.StringVar(&buildFlags.ethSrc, "eth-src", builder.DefaultSrcMAC, "source MAC address")
	f.StringVar(&buildFlags.ethDst, "eth-dst", builder.DefaultDstMAC, "destination MAC address")

	f.StringVar(&buildFlags.ipSrc, "ip-src", builder.DefaultSrcIP, "source IPv4 address")
	f.StringVar(&buildFlags.ipDst, "ip-dst", builder.DefaultDstIP, "destination IPv4 address")
	f.Uint8Var(&buildFlags.ipTTL, "ip-ttl", builder.DefaultTTL, "IP time to live")
	f.Uint16Var(&buildFlags.ipID, "ip-id", builder.DefaultIPID, "IP identification")

	f.Uint16Var(&buildFlags.tcpSrcPort, "tcp-sport", builder.DefaultTCPSrcPort, "TCP source port")
	f.Uint16Var(&buildFlags.tcpDstPort, "tcp-dport", builder.DefaultTCPDstPort, "TCP destination port")
	f.Uint32Var(&buildFlags.tcpSeq, "tcp-seq", 0, "TCP sequence number")
	f.Uint32Var(&buildFlags.tcpAck, "tcp-ack", 0, "TCP acknowledgment number")
	f.StringVar(&buildFlags.tcpFlags, "tcp-flags", "SYN", "TCP flags, comma-separated (e.g. SYN,ACK)")
	f.Uint16Var(&buildFlags.tcpWindow, "tcp-window", builder.DefaultTCPWindow, "TCP window size")

	f.Uint16Var(&buildFlags.udpSrcPort, "udp-sport", builder.DefaultUDPSrcPort, "UDP source port")
	f.Uint16Var(&buildFlags.udpDstPort, "udp-dport", builder.DefaultUDPDstPort, "UDP destination port")

	f.Uint8Var(&buildFlags.icmpType, "icmp-type", layers.ICMPTypeEchoRequest, "ICMP type")
	f.Uint8Var(&buildFlags.icmpCode, "icmp-code", 0, "ICMP code")
	f.Uint16Var(&buildFlags.icmpID, "icmp-id", 1, "ICMP identifier")
	f.Uint16Var(&buildFlags.icmpSeq, "icmp-seq", 1, "ICMP sequence number")

	f.StringVar(&buildFlags.payload, "payload", builder.DefaultPayload, "payload data")

	f.BoolVarP(&buildFlags.visualize, "visualize", "V", false, "show full layer breakdown and hexdump")
	f.BoolVarP(&buildFlags.hexdump, "hexdump", "x", false, "show hexdump only")
	f.StringVarP(&buildFlags.output, "output", "o", "", "write raw frame bytes to file")
	f.StringVar(&buildFlags.pcapFile, "pcap", "", "write frame to a pcap file")

	rootCmd.AddCommand(buildCmd)
}
