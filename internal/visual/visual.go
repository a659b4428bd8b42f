// Package visual renders built packets as structured text and hexdumps
// for terminal output. It consumes the typed layer objects returned by
// the builder; it never re-parses wire bytes.
package visual

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"forgelab.xyz/pktforge/internal/builder"
	"forgelab.xyz/pktforge/internal/layers"
)

const (
	bytesPerLine = 16
	rulerWidth   = 70
)

var (
	headerColor = color.New(color.Bold)
	ethColor    = color.New(color.FgBlue)
	ipColor     = color.New(color.FgCyan)
	tcpColor    = color.New(color.FgGreen)
	udpColor    = color.New(color.FgYellow)
	icmpColor   = color.New(color.FgYellow)
	okColor     = color.New(color.FgGreen)
	loadColor   = color.New(color.FgMagenta)
)

// Hexdump formats data as offset, hex bytes and an ASCII gutter,
// 16 bytes per line.
func Hexdump(data []byte) string {
	var sb strings.Builder

	for i := 0; i < len(data); i += bytesPerLine {
		chunk := data[i:]
		if len(chunk) > bytesPerLine {
			chunk = chunk[:bytesPerLine]
		}

		var hexPart strings.Builder
		var asciiPart strings.Builder
		for _, b := range chunk {
			fmt.Fprintf(&hexPart, "%02x ", b)
			if b >= 32 && b < 127 {
				asciiPart.WriteByte(b)
			} else {
				asciiPart.WriteByte('.')
			}
		}

		fmt.Fprintf(&sb, "%04x: %-*s| %s\n", i, bytesPerLine*3, hexPart.String(), asciiPart.String())
	}

	return strings.TrimRight(sb.String(), "\n")
}

// RenderPacket renders the full layer breakdown followed by a hexdump of
// the complete frame.
func RenderPacket(frame []byte, built builder.Layers) string {
	var sb strings.Builder

	ruler := strings.Repeat("=", rulerWidth)
	sb.WriteString(ruler + "\n")
	sb.WriteString(headerColor.Sprint("PACKET STRUCTURE") + "\n")
	sb.WriteString(ruler + "\n")
	sb.WriteString(renderLayerDetails(built))

	sb.WriteString("\n" + ruler + "\n")
	sb.WriteString(headerColor.Sprint("HEX DUMP") + "\n")
	sb.WriteString(ruler + "\n")
	sb.WriteString(Hexdump(frame) + "\n\n")
	sb.WriteString(okColor.Sprintf("Total packet size: %d bytes", len(frame)) + "\n")
	sb.WriteString(ruler)

	return sb.String()
}

// RenderLayers renders only the per-layer information, one stanza per
// layer, without a hexdump.
func RenderLayers(built builder.Layers) string {
	var sb strings.Builder

	if built.Ethernet != nil {
		sb.WriteString(built.Ethernet.String() + "\n\n")
	}
	if built.IP != nil {
		sb.WriteString(built.IP.String() + "\n\n")
	}
	if built.Transport != nil {
		sb.WriteString(built.Transport.String() + "\n\n")
	}

	sb.WriteString(fmt.Sprintf("Payload: %d bytes", len(built.Payload)))
	if preview := payloadPreview(built.Payload, 50); preview != "" {
		sb.WriteString(fmt.Sprintf("\n  %q", preview))
	}

	return sb.String()
}

func renderLayerDetails(built builder.Layers) string {
	var sb strings.Builder

	if eth := built.Ethernet; eth != nil {
		sb.WriteString("\n" + ethColor.Sprintf("[Ethernet Frame] %d bytes", eth.Len()) + "\n")
		fmt.Fprintf(&sb, "  Dst MAC: %s\n", eth.DstMAC)
		fmt.Fprintf(&sb, "  Src MAC: %s\n", eth.SrcMAC)
		fmt.Fprintf(&sb, "  EtherType: 0x%04x\n", eth.EtherType)
	}

	if ip := built.IP; ip != nil {
		sb.WriteString("\n" + ipColor.Sprintf("[IPv4 Packet] %d bytes header", layers.IPv4HeaderLen) + "\n")
		fmt.Fprintf(&sb, "  Version: %d | IHL: %d | TOS: 0x%02x\n", ip.Version, ip.IHL, ip.TOS)
		fmt.Fprintf(&sb, "  Total Length: %d bytes\n", ip.Len())
		fmt.Fprintf(&sb, "  ID: 0x%04x | Flags: %d | Offset: %d\n", ip.ID, ip.Flags, ip.FragOffset)
		fmt.Fprintf(&sb, "  TTL: %d | Protocol: %d\n", ip.TTL, ip.Protocol)
		fmt.Fprintf(&sb, "  Checksum: 0x%04x\n", ip.Checksum)
		fmt.Fprintf(&sb, "  Src IP: %s\n", ip.SrcIP)
		fmt.Fprintf(&sb, "  Dst IP: %s\n", ip.DstIP)
	}

	// Closed union: one stanza per transport variant.
	switch transport := built.Transport.(type) {
	case *layers.TCPSegment:
		sb.WriteString("\n" + tcpColor.Sprintf("[TCP Segment] %d bytes header", layers.TCPHeaderLen) + "\n")
		fmt.Fprintf(&sb, "  Src Port: %d | Dst Port: %d\n", transport.SrcPort, transport.DstPort)
		fmt.Fprintf(&sb, "  Sequence: 0x%08x\n", transport.Seq)
		fmt.Fprintf(&sb, "  Acknowledgment: 0x%08x\n", transport.Ack)
		fmt.Fprintf(&sb, "  Offset: %d | Flags: [%s]\n", transport.DataOffset, transport.Flags)
		fmt.Fprintf(&sb, "  Window: %d\n", transport.Window)
		fmt.Fprintf(&sb, "  Checksum: 0x%04x\n", transport.Checksum)

	case *layers.UDPDatagram:
		sb.WriteString("\n" + udpColor.Sprint("[UDP Datagram] 8 bytes header") + "\n")
		fmt.Fprintf(&sb, "  Src Port: %d | Dst Port: %d\n", transport.SrcPort, transport.DstPort)
		fmt.Fprintf(&sb, "  Length: %d bytes\n", transport.Len())
		fmt.Fprintf(&sb, "  Checksum: 0x%04x\n", transport.Checksum)

	case *layers.ICMPMessage:
		sb.WriteString("\n" + icmpColor.Sprint("[ICMP Message] 8 bytes header") + "\n")
		fmt.Fprintf(&sb, "  Type: %d | Code: %d\n", transport.Type, transport.Code)
		fmt.Fprintf(&sb, "  Checksum: 0x%04x\n", transport.Checksum)
		fmt.Fprintf(&sb, "  Identifier: %d\n", transport.Identifier)
		fmt.Fprintf(&sb, "  Sequence: %d\n", transport.Sequence)

	case nil:
		// Partial inspection: no transport configured.
	}

	sb.WriteString("\n" + loadColor.Sprintf("[Payload] %d bytes", len(built.Payload)) + "\n")
	if preview := payloadPreview(built.Payload, 100); preview != "" {
		fmt.Fprintf(&sb, "  %q\n", preview)
	}

	return sb.String()
}

// payloadPreview returns a printable prefix of payload, truncated to max
// runes with an ellipsis.
func payloadPreview(payload []byte, max int) string {
	if len(payload) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, b := range payload {
		if b >= 32 && b < 127 {
			sb.WriteByte(b)
		} else {
			sb.WriteByte('.')
		}
	}

	preview := sb.String()
	if len(preview) > max {
		preview = preview[:max] + "..."
	}
	return preview
}
