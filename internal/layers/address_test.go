package layers

import (
	"errors"
	"testing"
)

func TestParseMAC(t *testing.T) {
	addr, err := ParseMAC("00:11:22:33:44:55")
	if err != nil {
		t.Fatalf("ParseMAC failed: %v", err)
	}

	expected := MACAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	if addr != expected {
		t.Errorf("Expected %v, got %v", expected, addr)
	}

	if addr.String() != "00:11:22:33:44:55" {
		t.Errorf("Expected string form 00:11:22:33:44:55, got %s", addr)
	}
}

func TestParseMACHyphens(t *testing.T) {
	addr, err := ParseMAC("aa-bb-cc-dd-ee-ff")
	if err != nil {
		t.Fatalf("ParseMAC failed: %v", err)
	}

	expected := MACAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	if addr != expected {
		t.Errorf("Expected %v, got %v", expected, addr)
	}
}

func TestParseMACMalformed(t *testing.T) {
	cases := []string{
		"00:11:22",                // wrong byte count
		"00:11:22:33:44:55:66:77", // EUI-64, not a 6-byte address
		"zz:11:22:33:44:55",       // not hex
		"",                        // empty
		"001122334455",            // no separators
		"0011.2233.4455",          // Cisco dot notation
		"00.11.22.33.44.55",       // dot-separated pairs
	}

	for _, s := range cases {
		if _, err := ParseMAC(s); !errors.Is(err, ErrMalformedAddress) {
			t.Errorf("ParseMAC(%q): expected ErrMalformedAddress, got %v", s, err)
		}
	}
}

func TestParseIPv4(t *testing.T) {
	addr, err := ParseIPv4("192.168.1.100")
	if err != nil {
		t.Fatalf("ParseIPv4 failed: %v", err)
	}

	expected := IPv4Addr{192, 168, 1, 100}
	if addr != expected {
		t.Errorf("Expected %v, got %v", expected, addr)
	}

	if addr.String() != "192.168.1.100" {
		t.Errorf("Expected string form 192.168.1.100, got %s", addr)
	}
}

func TestParseIPv4Malformed(t *testing.T) {
	cases := []string{
		"192.168.1",     // too few octets
		"192.168.1.256", // octet out of range
		"::1",           // IPv6
		"not-an-ip",
		"",
	}

	for _, s := range cases {
		if _, err := ParseIPv4(s); !errors.Is(err, ErrMalformedAddress) {
			t.Errorf("ParseIPv4(%q): expected ErrMalformedAddress, got %v", s, err)
		}
	}
}
