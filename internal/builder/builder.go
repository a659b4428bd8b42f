// Package builder assembles the layer codecs into complete Ethernet
// frames. Configuration is typed per layer; the transport choice is a
// closed enum, so an unselected protocol is the zero value rather than a
// missing map key.
package builder

import (
	"forgelab.xyz/pktforge/internal/layers"
)

// Protocol selects the active transport layer.
type Protocol uint8

const (
	ProtocolNone Protocol = iota
	ProtocolTCP
	ProtocolUDP
	ProtocolICMP
)

func (p Protocol) String() string {
	switch p {
	case ProtocolTCP:
		return "tcp"
	case ProtocolUDP:
		return "udp"
	case ProtocolICMP:
		return "icmp"
	default:
		return "none"
	}
}

// EthernetConfig carries the link-layer parameters.
type EthernetConfig struct {
	SrcMAC layers.MACAddr
	DstMAC layers.MACAddr
}

// IPConfig carries the network-layer parameters.
type IPConfig struct {
	SrcIP layers.IPv4Addr
	DstIP layers.IPv4Addr
	TTL   uint8
	ID    uint16
}

// TCPConfig carries the TCP header parameters.
type TCPConfig struct {
	SrcPort uint16
	DstPort uint16
	Seq     uint32
	Ack     uint32
	Flags   layers.TCPFlags
	Window  uint16
}

// UDPConfig carries the UDP header parameters.
type UDPConfig struct {
	SrcPort uint16
	DstPort uint16
}

// ICMPConfig carries the ICMP header parameters.
type ICMPConfig struct {
	Type       uint8
	Code       uint8
	Identifier uint16
	Sequence   uint16
}

// Layers holds the typed layer objects of one build, for inspection and
// visualization. Transport is nil when no protocol was selected.
type Layers struct {
	Ethernet  *layers.EthernetFrame
	IP        *layers.IPv4Packet
	Transport layers.Transport
	Payload   []byte
}

// Builder accumulates per-layer configuration and produces frames on
// demand. Every Build recomputes all lengths and checksums from the
// current configuration; nothing is cached between calls. A Builder is
// not safe for concurrent use.
type Builder struct {
	payload  []byte
	ethernet EthernetConfig
	ip       IPConfig

	protocol Protocol
	tcp      TCPConfig
	udp      UDPConfig
	icmp     ICMPConfig
}

// New returns a Builder pre-loaded with the documented defaults, so
// selecting a protocol is the only configuration required to build a
// valid frame.
func New() *Builder {
	return &Builder{
		payload:  []byte(DefaultPayload),
		ethernet: DefaultEthernet(),
		ip:       DefaultIP(),
		tcp:      DefaultTCP(),
		udp:      DefaultUDP(),
		icmp:     DefaultICMP(),
	}
}

// SetPayload sets the application-layer data.
func (b *Builder) SetPayload(data []byte) *Builder {
	b.payload = data
	return b
}

// SetEthernet sets the link-layer addresses.
func (b *Builder) SetEthernet(cfg EthernetConfig) *Builder {
	b.ethernet = cfg
	return b
}

// SetIP sets the network-layer parameters.
func (b *Builder) SetIP(cfg IPConfig) *Builder {
	b.ip = cfg
	return b
}

// SetTCP selects TCP as the transport, discarding any previous choice.
func (b *Builder) SetTCP(cfg TCPConfig) *Builder {
	b.protocol = ProtocolTCP
	b.tcp = cfg
	return b
}

// SetUDP selects UDP as the transport, discarding any previous choice.
func (b *Builder) SetUDP(cfg UDPConfig) *Builder {
	b.protocol = ProtocolUDP
	b.udp = cfg
	return b
}

// SetICMP selects ICMP as the transport, discarding any previous choice.
func (b *Builder) SetICMP(cfg ICMPConfig) *Builder {
	b.protocol = ProtocolICMP
	b.icmp = cfg
	return b
}

// Protocol returns the currently selected transport.
func (b *Builder) Protocol() Protocol {
	return b.protocol
}

// transport instantiates the configured transport codec with the current
// payload and the IP addresses needed for the pseudo-header checksum.
// Returns the codec and the IP protocol number, or nil and 0 when no
// transport is selected.
func (b *Builder) transport() (layers.Transport, uint8, error) {
	switch b.protocol {
	case ProtocolTCP:
		seg := layers.NewTCPSegment()
		seg.SrcPort = b.tcp.SrcPort
		seg.DstPort = b.tcp.DstPort
		seg.Seq = b.tcp.Seq
		seg.Ack = b.tcp.Ack
		seg.Flags = b.tcp.Flags
		seg.Window = b.tcp.Window
		seg.SrcIP = b.ip.SrcIP
		seg.DstIP = b.ip.DstIP
		seg.Payload = b.payload
		return seg, layers.ProtocolTCP, nil

	case ProtocolUDP:
		dgram := &layers.UDPDatagram{
			SrcPort: b.udp.SrcPort,
			DstPort: b.udp.DstPort,
			SrcIP:   b.ip.SrcIP,
			DstIP:   b.ip.DstIP,
			Payload: b.payload,
		}
		return dgram, layers.ProtocolUDP, nil

	case ProtocolICMP:
		msg := &layers.ICMPMessage{
			Type:       b.icmp.Type,
			Code:       b.icmp.Code,
			Identifier: b.icmp.Identifier,
			Sequence:   b.icmp.Sequence,
			Payload:    b.payload,
		}
		return msg, layers.ProtocolICMP, nil

	case ProtocolNone:
		return nil, 0, nil

	default:
		// Unreachable through the setters; guards against a corrupted enum.
		return nil, 0, layers.ErrUnknownProtocol
	}
}

// maxTransportLen caps the encoded transport layer so the 16-bit IPv4
// total-length and UDP length fields cannot wrap.
const maxTransportLen = 0xFFFF - layers.IPv4HeaderLen

// assemble runs the bottom-up encapsulation: transport bytes wrapped in an
// IPv4 packet wrapped in an Ethernet frame.
func (b *Builder) assemble() (Layers, error) {
	transport, protoNum, err := b.transport()
	if err != nil {
		return Layers{}, err
	}

	var transportBytes []byte
	if transport != nil {
		if transport.Len() > maxTransportLen {
			return Layers{}, layers.ErrPayloadTooLarge
		}
		transportBytes = transport.Encode()
	}

	ip := layers.NewIPv4Packet()
	ip.TTL = b.ip.TTL
	ip.ID = b.ip.ID
	ip.Protocol = protoNum
	ip.SrcIP = b.ip.SrcIP
	ip.DstIP = b.ip.DstIP
	ip.Payload = transportBytes

	eth := &layers.EthernetFrame{
		DstMAC:    b.ethernet.DstMAC,
		SrcMAC:    b.ethernet.SrcMAC,
		EtherType: layers.EtherTypeIPv4,
		Payload:   ip.Encode(),
	}

	return Layers{
		Ethernet:  eth,
		IP:        ip,
		Transport: transport,
		Payload:   b.payload,
	}, nil
}

// Build encodes the full frame from the current configuration. It fails
// with ErrNoTransport when no transport protocol has been selected, and
// with ErrPayloadTooLarge when the payload would overflow the 16-bit
// length fields.
func (b *Builder) Build() ([]byte, error) {
	if b.protocol == ProtocolNone {
		return nil, layers.ErrNoTransport
	}

	built, err := b.assemble()
	if err != nil {
		return nil, err
	}

	return built.Ethernet.Encode(), nil
}

// Layers performs the same construction as Build but returns the typed
// layer objects. Unlike Build it tolerates an unselected transport, so a
// partially configured packet can still be inspected: the Transport field
// is nil and the IPv4 payload empty.
func (b *Builder) Layers() (Layers, error) {
	return b.assemble()
}
