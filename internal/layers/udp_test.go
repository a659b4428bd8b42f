package layers

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func testUDPDatagram() *UDPDatagram {
	return &UDPDatagram{
		SrcPort: 12345,
		DstPort: 53,
		SrcIP:   IPv4Addr{192, 168, 1, 100},
		DstIP:   IPv4Addr{192, 168, 1, 1},
		Payload: []byte("DNS query"),
	}
}

func TestUDPEncodeHeader(t *testing.T) {
	d := testUDPDatagram()
	data := d.Encode()

	if len(data) != UDPHeaderLen+len(d.Payload) {
		t.Fatalf("Expected %d bytes, got %d", UDPHeaderLen+len(d.Payload), len(data))
	}

	if got := binary.BigEndian.Uint16(data[0:2]); got != 12345 {
		t.Errorf("Expected source port 12345, got %d", got)
	}
	if got := binary.BigEndian.Uint16(data[2:4]); got != 53 {
		t.Errorf("Expected destination port 53, got %d", got)
	}

	// Length covers header + payload.
	if got := binary.BigEndian.Uint16(data[4:6]); int(got) != UDPHeaderLen+len(d.Payload) {
		t.Errorf("Expected length %d, got %d", UDPHeaderLen+len(d.Payload), got)
	}
}

func TestUDPChecksumVerifies(t *testing.T) {
	d := testUDPDatagram()
	data := d.Encode()

	buf := append(pseudoHeader(d.SrcIP, d.DstIP, ProtocolUDP, uint16(len(data))), data...)
	if sum := Checksum(buf); sum != 0 {
		t.Errorf("UDP checksum does not verify: residual 0x%04x", sum)
	}
}

func TestUDPRoundTripMaxLengthPayload(t *testing.T) {
	// The largest payload the 16-bit length field can carry.
	d := testUDPDatagram()
	d.Payload = make([]byte, 0xFFFF-UDPHeaderLen)

	data := d.Encode()
	if got := binary.BigEndian.Uint16(data[4:6]); got != 0xFFFF {
		t.Fatalf("Expected length 0xFFFF on the wire, got 0x%04x", got)
	}

	decoded, err := DecodeUDP(data, d.SrcIP, d.DstIP)
	if err != nil {
		t.Fatalf("DecodeUDP failed: %v", err)
	}
	if decoded.Length != 0xFFFF {
		t.Errorf("Expected length 65535, got %d", decoded.Length)
	}
	if len(decoded.Payload) != len(d.Payload) {
		t.Errorf("Expected %d payload bytes, got %d", len(d.Payload), len(decoded.Payload))
	}
}

func TestUDPZeroChecksumTransmittedAsFFFF(t *testing.T) {
	// Crafted so the one's-complement sum over pseudo-header and datagram
	// is exactly 0xFFFF: zero addresses and ports contribute nothing, the
	// protocol word adds 17, both length words add 10 each, and the
	// payload word 0xFFDA tops the sum up to 0xFFFF. The complement is
	// 0x0000, which must go on the wire as 0xFFFF.
	d := &UDPDatagram{Payload: []byte{0xFF, 0xDA}}

	data := d.Encode()

	if d.Checksum != 0xFFFF {
		t.Errorf("Expected checksum 0xFFFF, got 0x%04x", d.Checksum)
	}
	if got := binary.BigEndian.Uint16(data[6:8]); got != 0xFFFF {
		t.Errorf("Expected wire checksum 0xFFFF, got 0x%04x", got)
	}
}

func TestUDPRoundTrip(t *testing.T) {
	d := testUDPDatagram()

	decoded, err := DecodeUDP(d.Encode(), d.SrcIP, d.DstIP)
	if err != nil {
		t.Fatalf("DecodeUDP failed: %v", err)
	}

	if decoded.SrcPort != d.SrcPort || decoded.DstPort != d.DstPort {
		t.Errorf("Expected ports %d->%d, got %d->%d",
			d.SrcPort, d.DstPort, decoded.SrcPort, decoded.DstPort)
	}
	if decoded.Length != d.Length {
		t.Errorf("Expected length %d, got %d", d.Length, decoded.Length)
	}
	if decoded.Checksum != d.Checksum {
		t.Errorf("Expected stored checksum 0x%04x, got 0x%04x", d.Checksum, decoded.Checksum)
	}
	if !bytes.Equal(decoded.Payload, d.Payload) {
		t.Errorf("Expected payload %q, got %q", d.Payload, decoded.Payload)
	}
}

func TestUDPRoundTripEmptyPayload(t *testing.T) {
	d := &UDPDatagram{SrcPort: 0, DstPort: 65535}

	decoded, err := DecodeUDP(d.Encode(), d.SrcIP, d.DstIP)
	if err != nil {
		t.Fatalf("DecodeUDP failed: %v", err)
	}
	if decoded.Length != UDPHeaderLen {
		t.Errorf("Expected length %d, got %d", UDPHeaderLen, decoded.Length)
	}
	if len(decoded.Payload) != 0 {
		t.Errorf("Expected empty payload, got %d bytes", len(decoded.Payload))
	}
}

func TestUDPDecodeTruncated(t *testing.T) {
	data := make([]byte, UDPHeaderLen-1)

	if _, err := DecodeUDP(data, IPv4Addr{}, IPv4Addr{}); !errors.Is(err, ErrTruncated) {
		t.Errorf("Expected ErrTruncated, got %v", err)
	}
}

func TestUDPReencodeIdempotent(t *testing.T) {
	d := testUDPDatagram()
	original := d.Encode()

	decoded, err := DecodeUDP(original, d.SrcIP, d.DstIP)
	if err != nil {
		t.Fatalf("DecodeUDP failed: %v", err)
	}

	if !bytes.Equal(decoded.Encode(), original) {
		t.Errorf("Re-encoded datagram differs from original")
	}
}
