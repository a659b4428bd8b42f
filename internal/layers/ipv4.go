package layers

import (
	"encoding/binary"
	"fmt"
)

const (
	// IPv4HeaderLen is the option-less header size the encoder always
	// emits (IHL 5).
	IPv4HeaderLen = 20

	ipv4Version = 4
	ipv4MinIHL  = 5
)

// IP protocol numbers for the transports this package produces.
const (
	ProtocolICMP uint8 = 1
	ProtocolTCP  uint8 = 6
	ProtocolUDP  uint8 = 17
)

// IPv4Packet is an IPv4 packet (RFC 791).
//
//	0   1   Version (4 bits) + IHL (4 bits)
//	1   1   Type of service
//	2   2   Total length (header + payload)
//	4   2   Identification
//	6   2   Flags (3 bits) + fragment offset (13 bits)
//	8   1   TTL
//	9   1   Protocol
//	10  2   Header checksum
//	12  4   Source IP
//	16  4   Destination IP
//	20  …   Payload
//
// Options are not supported: Encode always emits a 20-byte header, and
// decoding a packet whose IHL exceeds 5 skips the option bytes without
// retaining them.
type IPv4Packet struct {
	Version    uint8
	IHL        uint8 // header length in 32-bit words, as seen on the wire
	TOS        uint8
	TotalLen   uint16 // filled in by Encode; as-received after decode
	ID         uint16
	Flags      uint8  // 3-bit field: 0x2 = don't fragment, 0x1 = more fragments
	FragOffset uint16 // 13-bit field
	TTL        uint8
	Protocol   uint8
	Checksum   uint16 // filled in by Encode; as-received after decode
	SrcIP      IPv4Addr
	DstIP      IPv4Addr
	Payload    []byte
}

// NewIPv4Packet returns a packet with the version and header length fixed
// for option-less IPv4.
func NewIPv4Packet() *IPv4Packet {
	return &IPv4Packet{Version: ipv4Version, IHL: ipv4MinIHL}
}

// Encode serialises the packet, computing the header checksum over the
// 20-byte header with the checksum field zeroed. The total-length field
// is 16 bits; callers keep header + payload within 65535 bytes (the
// builder enforces this before encoding).
func (p *IPv4Packet) Encode() []byte {
	p.TotalLen = uint16(IPv4HeaderLen + len(p.Payload))

	buf := make([]byte, IPv4HeaderLen+len(p.Payload))

	buf[0] = ipv4Version<<4 | ipv4MinIHL
	buf[1] = p.TOS
	binary.BigEndian.PutUint16(buf[2:4], p.TotalLen)
	binary.BigEndian.PutUint16(buf[4:6], p.ID)
	binary.BigEndian.PutUint16(buf[6:8], uint16(p.Flags)<<13|p.FragOffset&0x1FFF)
	buf[8] = p.TTL
	buf[9] = p.Protocol
	// buf[10:12] stays zero while the checksum is computed
	copy(buf[12:16], p.SrcIP[:])
	copy(buf[16:20], p.DstIP[:])

	p.Checksum = Checksum(buf[:IPv4HeaderLen])
	binary.BigEndian.PutUint16(buf[10:12], p.Checksum)

	copy(buf[IPv4HeaderLen:], p.Payload)
	return buf
}

// DecodeIPv4 parses a packet from raw bytes. The payload boundary comes
// from the header's own IHL field; it is not validated against the total
// byte count, so trailing bytes beyond the declared header are included
// as payload verbatim. The checksum is stored as received, never verified.
func DecodeIPv4(data []byte) (*IPv4Packet, error) {
	if len(data) < IPv4HeaderLen {
		return nil, ErrTruncated
	}

	flagsOffset := binary.BigEndian.Uint16(data[6:8])

	p := &IPv4Packet{
		Version:    data[0] >> 4,
		IHL:        data[0] & 0x0F,
		TOS:        data[1],
		TotalLen:   binary.BigEndian.Uint16(data[2:4]),
		ID:         binary.BigEndian.Uint16(data[4:6]),
		Flags:      uint8(flagsOffset >> 13),
		FragOffset: flagsOffset & 0x1FFF,
		TTL:        data[8],
		Protocol:   data[9],
		Checksum:   binary.BigEndian.Uint16(data[10:12]),
	}
	copy(p.SrcIP[:], data[12:16])
	copy(p.DstIP[:], data[16:20])

	headerLen := int(p.IHL) * 4
	if headerLen > len(data) {
		headerLen = len(data)
	}
	p.Payload = data[headerLen:]

	return p, nil
}

// Len returns the total packet length in bytes as the encoder would emit it.
func (p *IPv4Packet) Len() int {
	return IPv4HeaderLen + len(p.Payload)
}

func (p *IPv4Packet) String() string {
	return fmt.Sprintf(
		"IPv4 Packet:\n"+
			"  Version: %d | IHL: %d | TOS: 0x%02x\n"+
			"  Total Length: %d bytes\n"+
			"  ID: 0x%04x | Flags: %d | Offset: %d\n"+
			"  TTL: %d | Protocol: %s (%d)\n"+
			"  Checksum: 0x%04x\n"+
			"  Src IP: %s\n"+
			"  Dst IP: %s\n"+
			"  Payload: %d bytes",
		p.Version, p.IHL, p.TOS,
		p.Len(),
		p.ID, p.Flags, p.FragOffset,
		p.TTL, protocolName(p.Protocol), p.Protocol,
		p.Checksum,
		p.SrcIP, p.DstIP,
		len(p.Payload),
	)
}

func protocolName(protocol uint8) string {
	switch protocol {
	case ProtocolICMP:
		return "ICMP"
	case ProtocolTCP:
		return "TCP"
	case ProtocolUDP:
		return "UDP"
	default:
		return fmt.Sprintf("%d", protocol)
	}
}
