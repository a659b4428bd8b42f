package layers

import (
	"bytes"
	"errors"
	"testing"
)

func testICMPMessage() *ICMPMessage {
	return &ICMPMessage{
		Type:       ICMPTypeEchoRequest,
		Code:       0,
		Identifier: 1,
		Sequence:   1,
		Payload:    []byte("ICMP Test Data"),
	}
}

func TestICMPEncodeHeader(t *testing.T) {
	m := testICMPMessage()
	data := m.Encode()

	if len(data) != ICMPHeaderLen+len(m.Payload) {
		t.Fatalf("Expected %d bytes, got %d", ICMPHeaderLen+len(m.Payload), len(data))
	}

	if data[0] != ICMPTypeEchoRequest {
		t.Errorf("Expected type 8, got %d", data[0])
	}
	if data[1] != 0 {
		t.Errorf("Expected code 0, got %d", data[1])
	}
}

func TestICMPChecksumVerifies(t *testing.T) {
	// The checksum covers the full message with no pseudo-header, so the
	// encoded message must sum to zero as-is.
	data := testICMPMessage().Encode()

	if sum := Checksum(data); sum != 0 {
		t.Errorf("ICMP checksum does not verify: residual 0x%04x", sum)
	}
}

func TestICMPRoundTrip(t *testing.T) {
	m := &ICMPMessage{
		Type:       ICMPTypeEchoReply,
		Code:       0,
		Identifier: 65535,
		Sequence:   0,
		Payload:    []byte("pong"),
	}

	decoded, err := DecodeICMP(m.Encode())
	if err != nil {
		t.Fatalf("DecodeICMP failed: %v", err)
	}

	if decoded.Type != m.Type || decoded.Code != m.Code {
		t.Errorf("Expected type/code %d/%d, got %d/%d", m.Type, m.Code, decoded.Type, decoded.Code)
	}
	if decoded.Identifier != m.Identifier {
		t.Errorf("Expected identifier %d, got %d", m.Identifier, decoded.Identifier)
	}
	if decoded.Sequence != m.Sequence {
		t.Errorf("Expected sequence %d, got %d", m.Sequence, decoded.Sequence)
	}
	if decoded.Checksum != m.Checksum {
		t.Errorf("Expected stored checksum 0x%04x, got 0x%04x", m.Checksum, decoded.Checksum)
	}
	if !bytes.Equal(decoded.Payload, m.Payload) {
		t.Errorf("Expected payload %q, got %q", m.Payload, decoded.Payload)
	}
}

func TestICMPRoundTripOpaqueType(t *testing.T) {
	// Non-echo types carry the 4-byte rest-of-header verbatim.
	m := &ICMPMessage{
		Type:       ICMPTypeTimeExceeded,
		Code:       1,
		Identifier: 0xABCD,
		Sequence:   0x1234,
	}

	decoded, err := DecodeICMP(m.Encode())
	if err != nil {
		t.Fatalf("DecodeICMP failed: %v", err)
	}
	if decoded.Identifier != 0xABCD || decoded.Sequence != 0x1234 {
		t.Errorf("Expected rest-of-header 0xABCD/0x1234, got 0x%04x/0x%04x",
			decoded.Identifier, decoded.Sequence)
	}
}

func TestICMPDecodeTruncated(t *testing.T) {
	data := make([]byte, ICMPHeaderLen-1)

	if _, err := DecodeICMP(data); !errors.Is(err, ErrTruncated) {
		t.Errorf("Expected ErrTruncated, got %v", err)
	}
}

func TestICMPReencodeIdempotent(t *testing.T) {
	original := testICMPMessage().Encode()

	decoded, err := DecodeICMP(original)
	if err != nil {
		t.Fatalf("DecodeICMP failed: %v", err)
	}

	if !bytes.Equal(decoded.Encode(), original) {
		t.Errorf("Re-encoded message differs from original")
	}
}
