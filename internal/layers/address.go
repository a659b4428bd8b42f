package layers

import (
	"fmt"
	"net"
	"net/netip"
)

// MACAddr is a raw 6-byte Ethernet hardware address, stored in wire order
// and never byte-swapped.
type MACAddr [6]byte

func (a MACAddr) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		a[0], a[1], a[2], a[3], a[4], a[5])
}

// ParseMAC parses a colon- or hyphen-separated hardware address
// (e.g. "00:11:22:33:44:55"). Other notations net.ParseMAC would take,
// like Cisco dot groups or EUI-64, fail with ErrMalformedAddress.
func ParseMAC(s string) (MACAddr, error) {
	var addr MACAddr

	// Six hex pairs with five separators; net.ParseMAC checks the
	// separator is used consistently.
	if len(s) != 17 || (s[2] != ':' && s[2] != '-') {
		return addr, fmt.Errorf("%w: %q", ErrMalformedAddress, s)
	}

	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return addr, fmt.Errorf("%w: %q", ErrMalformedAddress, s)
	}

	copy(addr[:], hw)
	return addr, nil
}

// MarshalYAML renders the address in its usual colon-separated form.
func (a MACAddr) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// IPv4Addr is a raw 4-byte network address in wire order.
type IPv4Addr [4]byte

func (a IPv4Addr) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", a[0], a[1], a[2], a[3])
}

// MarshalYAML renders the address in dotted-decimal form.
func (a IPv4Addr) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// ParseIPv4 parses a dotted-decimal address (e.g. "192.168.1.1").
// IPv6 or otherwise malformed text fails with ErrMalformedAddress.
func ParseIPv4(s string) (IPv4Addr, error) {
	var addr IPv4Addr

	ip, err := netip.ParseAddr(s)
	if err != nil || !ip.Is4() {
		return addr, fmt.Errorf("%w: %q", ErrMalformedAddress, s)
	}

	addr = ip.As4()
	return addr, nil
}
