package builder

import (
	"forgelab.xyz/pktforge/internal/layers"
)

// DefaultPayload is the placeholder application data used when none is set.
const DefaultPayload = "Default payload data"

// Documented default values for each layer, applied by New.
const (
	DefaultSrcMAC = "00:11:22:33:44:55"
	DefaultDstMAC = "ff:ff:ff:ff:ff:ff"

	DefaultSrcIP = "192.168.1.100"
	DefaultDstIP = "192.168.1.1"
	DefaultTTL   = 64
	DefaultIPID  = 54321

	DefaultTCPSrcPort = 12345
	DefaultTCPDstPort = 80
	DefaultTCPWindow  = 65535

	DefaultUDPSrcPort = 12345
	DefaultUDPDstPort = 53
)

func mustMAC(s string) layers.MACAddr {
	addr, err := layers.ParseMAC(s)
	if err != nil {
		panic(err)
	}
	return addr
}

func mustIPv4(s string) layers.IPv4Addr {
	addr, err := layers.ParseIPv4(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// DefaultEthernet returns the default link-layer configuration:
// a broadcast frame from a fixed local address.
func DefaultEthernet() EthernetConfig {
	return EthernetConfig{
		SrcMAC: mustMAC(DefaultSrcMAC),
		DstMAC: mustMAC(DefaultDstMAC),
	}
}

// DefaultIP returns the default network-layer configuration.
func DefaultIP() IPConfig {
	return IPConfig{
		SrcIP: mustIPv4(DefaultSrcIP),
		DstIP: mustIPv4(DefaultDstIP),
		TTL:   DefaultTTL,
		ID:    DefaultIPID,
	}
}

// DefaultTCP returns the default TCP configuration: a SYN to port 80.
func DefaultTCP() TCPConfig {
	return TCPConfig{
		SrcPort: DefaultTCPSrcPort,
		DstPort: DefaultTCPDstPort,
		Flags:   layers.FlagSYN,
		Window:  DefaultTCPWindow,
	}
}

// DefaultUDP returns the default UDP configuration: a datagram to port 53.
func DefaultUDP() UDPConfig {
	return UDPConfig{
		SrcPort: DefaultUDPSrcPort,
		DstPort: DefaultUDPDstPort,
	}
}

// DefaultICMP returns the default ICMP configuration: an Echo Request.
func DefaultICMP() ICMPConfig {
	return ICMPConfig{
		Type:       layers.ICMPTypeEchoRequest,
		Code:       0,
		Identifier: 1,
		Sequence:   1,
	}
}
