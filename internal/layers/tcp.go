package layers

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	// TCPHeaderLen is the option-less header size the encoder always
	// emits (data offset 5).
	TCPHeaderLen = 20

	tcpMinOffset = 5
)

// TCPFlags is the 9-bit flag field of a TCP header.
type TCPFlags uint16

const (
	FlagFIN TCPFlags = 1 << iota
	FlagSYN
	FlagRST
	FlagPSH
	FlagACK
	FlagURG
	FlagECE
	FlagCWR
	FlagNS
)

// Has reports whether every bit of f is set.
func (f TCPFlags) Has(flag TCPFlags) bool {
	return f&flag == flag
}

var tcpFlagNames = []struct {
	flag TCPFlags
	name string
}{
	{FlagNS, "NS"},
	{FlagCWR, "CWR"},
	{FlagECE, "ECE"},
	{FlagURG, "URG"},
	{FlagACK, "ACK"},
	{FlagPSH, "PSH"},
	{FlagRST, "RST"},
	{FlagSYN, "SYN"},
	{FlagFIN, "FIN"},
}

func (f TCPFlags) String() string {
	var names []string
	for _, fn := range tcpFlagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, ",")
}

// MarshalYAML renders the flags as a comma-separated list.
func (f TCPFlags) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

// ParseTCPFlags parses a comma-separated flag list such as "SYN,ACK"
// (case-insensitive).
func ParseTCPFlags(s string) (TCPFlags, error) {
	var flags TCPFlags

	for _, name := range strings.Split(s, ",") {
		name = strings.ToUpper(strings.TrimSpace(name))
		if name == "" || name == "NONE" {
			continue
		}
		found := false
		for _, fn := range tcpFlagNames {
			if fn.name == name {
				flags |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("pktforge: unknown tcp flag %q", name)
		}
	}

	return flags, nil
}

// TCPSegment is a TCP segment (RFC 793).
//
//	0   2   Source port
//	2   2   Destination port
//	4   4   Sequence number
//	8   4   Acknowledgment number
//	12  2   Data offset (4 bits) + reserved (3 bits) + flags (9 bits)
//	14  2   Window size
//	16  2   Checksum
//	18  2   Urgent pointer
//	20  …   Payload
//
// SrcIP and DstIP are not part of the wire header: they feed the
// pseudo-header checksum and must match the enclosing IPv4 packet.
type TCPSegment struct {
	SrcPort    uint16
	DstPort    uint16
	Seq        uint32
	Ack        uint32
	DataOffset uint8 // header length in 32-bit words, as seen on the wire
	Flags      TCPFlags
	Window     uint16
	Checksum   uint16 // filled in by Encode; as-received after decode
	UrgentPtr  uint16

	SrcIP IPv4Addr
	DstIP IPv4Addr

	Payload []byte
}

// NewTCPSegment returns a segment with the header length fixed for
// option-less TCP.
func NewTCPSegment() *TCPSegment {
	return &TCPSegment{DataOffset: tcpMinOffset}
}

// Encode serialises the segment, computing the checksum over the 12-byte
// pseudo-header followed by header and payload with the checksum field
// zeroed.
func (s *TCPSegment) Encode() []byte {
	buf := make([]byte, TCPHeaderLen+len(s.Payload))

	binary.BigEndian.PutUint16(buf[0:2], s.SrcPort)
	binary.BigEndian.PutUint16(buf[2:4], s.DstPort)
	binary.BigEndian.PutUint32(buf[4:8], s.Seq)
	binary.BigEndian.PutUint32(buf[8:12], s.Ack)
	binary.BigEndian.PutUint16(buf[12:14], uint16(tcpMinOffset)<<12|uint16(s.Flags)&0x1FF)
	binary.BigEndian.PutUint16(buf[14:16], s.Window)
	// buf[16:18] stays zero while the checksum is computed
	binary.BigEndian.PutUint16(buf[18:20], s.UrgentPtr)
	copy(buf[TCPHeaderLen:], s.Payload)

	s.Checksum = transportChecksum(s.SrcIP, s.DstIP, ProtocolTCP, buf)
	binary.BigEndian.PutUint16(buf[16:18], s.Checksum)

	return buf
}

// DecodeTCP parses a segment from raw bytes. src and dst are the enclosing
// IPv4 addresses, carried along so the segment can be re-encoded with a
// valid pseudo-header checksum. The payload boundary comes from the data
// offset field and is not validated against the byte count; the checksum
// is stored as received, never verified.
func DecodeTCP(data []byte, src, dst IPv4Addr) (*TCPSegment, error) {
	if len(data) < TCPHeaderLen {
		return nil, ErrTruncated
	}

	offsetFlags := binary.BigEndian.Uint16(data[12:14])

	s := &TCPSegment{
		SrcPort:    binary.BigEndian.Uint16(data[0:2]),
		DstPort:    binary.BigEndian.Uint16(data[2:4]),
		Seq:        binary.BigEndian.Uint32(data[4:8]),
		Ack:        binary.BigEndian.Uint32(data[8:12]),
		DataOffset: uint8(offsetFlags >> 12),
		Flags:      TCPFlags(offsetFlags & 0x1FF),
		Window:     binary.BigEndian.Uint16(data[14:16]),
		Checksum:   binary.BigEndian.Uint16(data[16:18]),
		UrgentPtr:  binary.BigEndian.Uint16(data[18:20]),
		SrcIP:      src,
		DstIP:      dst,
	}

	headerLen := int(s.DataOffset) * 4
	if headerLen > len(data) {
		headerLen = len(data)
	}
	s.Payload = data[headerLen:]

	return s, nil
}

// Len returns the total segment length in bytes as the encoder would emit it.
func (s *TCPSegment) Len() int {
	return TCPHeaderLen + len(s.Payload)
}

func (s *TCPSegment) String() string {
	return fmt.Sprintf(
		"TCP Segment:\n"+
			"  Src Port: %d | Dst Port: %d\n"+
			"  Sequence: 0x%08x\n"+
			"  Acknowledgment: 0x%08x\n"+
			"  Offset: %d | Flags: [%s]\n"+
			"  Window: %d\n"+
			"  Checksum: 0x%04x\n"+
			"  Urgent Pointer: %d\n"+
			"  Payload: %d bytes",
		s.SrcPort, s.DstPort,
		s.Seq, s.Ack,
		s.DataOffset, s.Flags,
		s.Window, s.Checksum, s.UrgentPtr,
		len(s.Payload),
	)
}
