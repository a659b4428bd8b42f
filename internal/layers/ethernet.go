package layers

import (
	"encoding/binary"
	"fmt"
)

const (
	// EthernetHeaderLen is the fixed Ethernet II header size.
	EthernetHeaderLen = 14
)

// EtherType values carried in the payload-protocol field.
const (
	EtherTypeIPv4 uint16 = 0x0800
	EtherTypeARP  uint16 = 0x0806
	EtherTypeIPv6 uint16 = 0x86DD
)

// EthernetFrame is an Ethernet II frame.
//
//	0   6   Destination MAC
//	6   6   Source MAC
//	12  2   EtherType
//	14  …   Payload
type EthernetFrame struct {
	DstMAC    MACAddr
	SrcMAC    MACAddr
	EtherType uint16
	Payload   []byte
}

// Encode serialises the frame. Ethernet II carries no checksum of its own.
func (f *EthernetFrame) Encode() []byte {
	buf := make([]byte, EthernetHeaderLen+len(f.Payload))

	copy(buf[0:6], f.DstMAC[:])
	copy(buf[6:12], f.SrcMAC[:])
	binary.BigEndian.PutUint16(buf[12:14], f.EtherType)
	copy(buf[EthernetHeaderLen:], f.Payload)

	return buf
}

// DecodeEthernet parses a frame from raw bytes. Everything after the
// 14-byte header is payload; EtherType values other than IPv4 round-trip
// opaquely.
func DecodeEthernet(data []byte) (*EthernetFrame, error) {
	if len(data) < EthernetHeaderLen {
		return nil, ErrTruncated
	}

	f := &EthernetFrame{
		EtherType: binary.BigEndian.Uint16(data[12:14]),
		Payload:   data[EthernetHeaderLen:],
	}
	copy(f.DstMAC[:], data[0:6])
	copy(f.SrcMAC[:], data[6:12])

	return f, nil
}

// Len returns the total frame length in bytes.
func (f *EthernetFrame) Len() int {
	return EthernetHeaderLen + len(f.Payload)
}

func (f *EthernetFrame) String() string {
	return fmt.Sprintf(
		"Ethernet Frame:\n"+
			"  Dst MAC: %s\n"+
			"  Src MAC: %s\n"+
			"  EtherType: 0x%04x\n"+
			"  Payload: %d bytes",
		f.DstMAC, f.SrcMAC, f.EtherType, len(f.Payload),
	)
}
