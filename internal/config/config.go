// Package config loads the optional pktforge configuration file. The file
// overrides the built-in layer defaults and tool settings; every field is
// optional and CLI flags override the file in turn.
package config

import (
	"time"

	"gopkg.in/yaml.v3"

	"forgelab.xyz/pktforge/internal/builder"
	"forgelab.xyz/pktforge/internal/layers"
	"forgelab.xyz/pktforge/internal/log"
)

// Config is the top-level configuration document.
type Config struct {
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
	Log      log.Config     `mapstructure:"log" yaml:"log"`
	Serve    ServeConfig    `mapstructure:"serve" yaml:"serve"`
	Send     SendConfig     `mapstructure:"send" yaml:"send"`
}

// DefaultsConfig overrides the built-in per-layer defaults used when a
// flag is not given on the command line.
type DefaultsConfig struct {
	Payload  string         `mapstructure:"payload" yaml:"payload"`
	Ethernet EthernetConfig `mapstructure:"ethernet" yaml:"ethernet"`
	IP       IPConfig       `mapstructure:"ip" yaml:"ip"`
	TCP      TCPConfig      `mapstructure:"tcp" yaml:"tcp"`
	UDP      UDPConfig      `mapstructure:"udp" yaml:"udp"`
	ICMP     ICMPConfig     `mapstructure:"icmp" yaml:"icmp"`
}

// EthernetConfig holds link-layer defaults. Addresses decode from their
// usual text forms via the mapstructure hooks in this package.
type EthernetConfig struct {
	SrcMAC layers.MACAddr `mapstructure:"src_mac" yaml:"src_mac"`
	DstMAC layers.MACAddr `mapstructure:"dst_mac" yaml:"dst_mac"`
}

// IPConfig holds network-layer defaults.
type IPConfig struct {
	SrcIP layers.IPv4Addr `mapstructure:"src_ip" yaml:"src_ip"`
	DstIP layers.IPv4Addr `mapstructure:"dst_ip" yaml:"dst_ip"`
	TTL   uint8           `mapstructure:"ttl" yaml:"ttl"`
	ID    uint16          `mapstructure:"id" yaml:"id"`
}

// TCPConfig holds TCP defaults. Flags decode from a comma-separated list
// such as "SYN,ACK".
type TCPConfig struct {
	SrcPort uint16          `mapstructure:"src_port" yaml:"src_port"`
	DstPort uint16          `mapstructure:"dst_port" yaml:"dst_port"`
	Seq     uint32          `mapstructure:"seq" yaml:"seq"`
	Ack     uint32          `mapstructure:"ack" yaml:"ack"`
	Flags   layers.TCPFlags `mapstructure:"flags" yaml:"flags"`
	Window  uint16          `mapstructure:"window" yaml:"window"`
}

// UDPConfig holds UDP defaults.
type UDPConfig struct {
	SrcPort uint16 `mapstructure:"src_port" yaml:"src_port"`
	DstPort uint16 `mapstructure:"dst_port" yaml:"dst_port"`
}

// ICMPConfig holds ICMP defaults.
type ICMPConfig struct {
	Type       uint8  `mapstructure:"type" yaml:"type"`
	Code       uint8  `mapstructure:"code" yaml:"code"`
	Identifier uint16 `mapstructure:"identifier" yaml:"identifier"`
	Sequence   uint16 `mapstructure:"sequence" yaml:"sequence"`
}

// ServeConfig configures the record demo server.
type ServeConfig struct {
	Listen string `mapstructure:"listen" yaml:"listen"`
}

// SendConfig configures the record demo client.
type SendConfig struct {
	Target   string        `mapstructure:"target" yaml:"target"`
	Count    int           `mapstructure:"count" yaml:"count"`
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

// Default returns the configuration used when no file is present,
// mirroring the builder's documented defaults.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Payload:  builder.DefaultPayload,
			Ethernet: EthernetConfig(builder.DefaultEthernet()),
			IP:       IPConfig(builder.DefaultIP()),
			TCP:      TCPConfig(builder.DefaultTCP()),
			UDP:      UDPConfig(builder.DefaultUDP()),
			ICMP:     ICMPConfig(builder.DefaultICMP()),
		},
		Log: log.Config{Level: "info"},
		Serve: ServeConfig{
			Listen: "127.0.0.1:9999",
		},
		Send: SendConfig{
			Target:   "127.0.0.1:9999",
			Count:    10,
			Interval: time.Second,
		},
	}
}

// YAML renders the configuration as a YAML document, in the same shape
// the loader reads back.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// BuilderFrom constructs a Builder pre-loaded with these defaults.
func (c *Config) BuilderFrom() *builder.Builder {
	return builder.New().
		SetPayload([]byte(c.Defaults.Payload)).
		SetEthernet(builder.EthernetConfig(c.Defaults.Ethernet)).
		SetIP(builder.IPConfig(c.Defaults.IP))
}
