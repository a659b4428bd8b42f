package layers

import (
	"encoding/binary"
	"fmt"
)

// UDPHeaderLen is the fixed UDP header size.
const UDPHeaderLen = 8

// UDPDatagram is a UDP datagram (RFC 768).
//
//	0   2   Source port
//	2   2   Destination port
//	4   2   Length (header + payload)
//	6   2   Checksum
//	8   …   Payload
//
// SrcIP and DstIP are not part of the wire header: they feed the
// pseudo-header checksum and must match the enclosing IPv4 packet.
type UDPDatagram struct {
	SrcPort  uint16
	DstPort  uint16
	Length   uint16 // filled in by Encode; as-received after decode
	Checksum uint16 // filled in by Encode; as-received after decode

	SrcIP IPv4Addr
	DstIP IPv4Addr

	Payload []byte
}

// Encode serialises the datagram, computing the pseudo-header checksum.
// A computed checksum of 0x0000 is transmitted as 0xFFFF: on the wire a
// zero checksum means "no checksum" (RFC 768). The length field is
// 16 bits; callers keep header + payload within 65535 bytes (the builder
// enforces this before encoding).
func (d *UDPDatagram) Encode() []byte {
	d.Length = uint16(UDPHeaderLen + len(d.Payload))

	buf := make([]byte, UDPHeaderLen+len(d.Payload))

	binary.BigEndian.PutUint16(buf[0:2], d.SrcPort)
	binary.BigEndian.PutUint16(buf[2:4], d.DstPort)
	binary.BigEndian.PutUint16(buf[4:6], d.Length)
	// buf[6:8] stays zero while the checksum is computed
	copy(buf[UDPHeaderLen:], d.Payload)

	sum := transportChecksum(d.SrcIP, d.DstIP, ProtocolUDP, buf)
	if sum == 0 {
		sum = 0xFFFF
	}
	d.Checksum = sum
	binary.BigEndian.PutUint16(buf[6:8], d.Checksum)

	return buf
}

// DecodeUDP parses a datagram from raw bytes. src and dst are the
// enclosing IPv4 addresses, carried along for re-encoding. Everything
// after the 8-byte header is payload regardless of the length field; the
// checksum is stored as received, never verified.
func DecodeUDP(data []byte, src, dst IPv4Addr) (*UDPDatagram, error) {
	if len(data) < UDPHeaderLen {
		return nil, ErrTruncated
	}

	d := &UDPDatagram{
		SrcPort:  binary.BigEndian.Uint16(data[0:2]),
		DstPort:  binary.BigEndian.Uint16(data[2:4]),
		Length:   binary.BigEndian.Uint16(data[4:6]),
		Checksum: binary.BigEndian.Uint16(data[6:8]),
		SrcIP:    src,
		DstIP:    dst,
		Payload:  data[UDPHeaderLen:],
	}

	return d, nil
}

// Len returns the total datagram length in bytes as the encoder would emit it.
func (d *UDPDatagram) Len() int {
	return UDPHeaderLen + len(d.Payload)
}

func (d *UDPDatagram) String() string {
	return fmt.Sprintf(
		"UDP Datagram:\n"+
			"  Src Port: %d | Dst Port: %d\n"+
			"  Length: %d bytes\n"+
			"  Checksum: 0x%04x\n"+
			"  Payload: %d bytes",
		d.SrcPort, d.DstPort,
		d.Len(), d.Checksum,
		len(d.Payload),
	)
}
