package layers

import (
	"encoding/binary"
	"fmt"
)

// ICMPHeaderLen is the fixed ICMP header size.
const ICMPHeaderLen = 8

// ICMP message types this package names; other values round-trip opaquely.
const (
	ICMPTypeEchoReply       uint8 = 0
	ICMPTypeDestUnreachable uint8 = 3
	ICMPTypeRedirect        uint8 = 5
	ICMPTypeEchoRequest     uint8 = 8
	ICMPTypeTimeExceeded    uint8 = 11
)

// ICMPMessage is an ICMP message (RFC 792).
//
//	0  1   Type
//	1  1   Code
//	2  2   Checksum
//	4  2   Identifier
//	6  2   Sequence number
//	8  …   Payload
//
// The 4-byte rest-of-header is modelled as identifier + sequence, which is
// exact for Echo Request/Reply and carried verbatim for other types.
type ICMPMessage struct {
	Type       uint8
	Code       uint8
	Checksum   uint16 // filled in by Encode; as-received after decode
	Identifier uint16
	Sequence   uint16
	Payload    []byte
}

// Encode serialises the message, computing the checksum over the whole
// message (header + payload, checksum field zeroed). ICMP uses no
// pseudo-header.
func (m *ICMPMessage) Encode() []byte {
	buf := make([]byte, ICMPHeaderLen+len(m.Payload))

	buf[0] = m.Type
	buf[1] = m.Code
	// buf[2:4] stays zero while the checksum is computed
	binary.BigEndian.PutUint16(buf[4:6], m.Identifier)
	binary.BigEndian.PutUint16(buf[6:8], m.Sequence)
	copy(buf[ICMPHeaderLen:], m.Payload)

	m.Checksum = Checksum(buf)
	binary.BigEndian.PutUint16(buf[2:4], m.Checksum)

	return buf
}

// DecodeICMP parses a message from raw bytes. The checksum is stored as
// received, never verified.
func DecodeICMP(data []byte) (*ICMPMessage, error) {
	if len(data) < ICMPHeaderLen {
		return nil, ErrTruncated
	}

	m := &ICMPMessage{
		Type:       data[0],
		Code:       data[1],
		Checksum:   binary.BigEndian.Uint16(data[2:4]),
		Identifier: binary.BigEndian.Uint16(data[4:6]),
		Sequence:   binary.BigEndian.Uint16(data[6:8]),
		Payload:    data[ICMPHeaderLen:],
	}

	return m, nil
}

// Len returns the total message length in bytes.
func (m *ICMPMessage) Len() int {
	return ICMPHeaderLen + len(m.Payload)
}

func (m *ICMPMessage) String() string {
	return fmt.Sprintf(
		"ICMP Message:\n"+
			"  Type: %s (%d)\n"+
			"  Code: %d\n"+
			"  Checksum: 0x%04x\n"+
			"  Identifier: %d\n"+
			"  Sequence: %d\n"+
			"  Payload: %d bytes",
		icmpTypeName(m.Type), m.Type,
		m.Code, m.Checksum,
		m.Identifier, m.Sequence,
		len(m.Payload),
	)
}

func icmpTypeName(t uint8) string {
	switch t {
	case ICMPTypeEchoReply:
		return "Echo Reply"
	case ICMPTypeDestUnreachable:
		return "Destination Unreachable"
	case ICMPTypeRedirect:
		return "Redirect"
	case ICMPTypeEchoRequest:
		return "Echo Request"
	case ICMPTypeTimeExceeded:
		return "Time Exceeded"
	default:
		return fmt.Sprintf("Type %d", t)
	}
}
