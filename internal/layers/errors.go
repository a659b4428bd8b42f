// Package layers implements the L2-L4 codecs: Ethernet framing, IPv4
// packets and the TCP/UDP/ICMP transports, including all checksum
// computation. Every multi-byte field is big-endian (network order).
package layers

import "errors"

// Sentinel errors returned by the codecs and the builder.
var (
	// Decoding errors
	ErrTruncated        = errors.New("pktforge: truncated input")
	ErrMalformedAddress = errors.New("pktforge: malformed address")

	// Encoding errors
	ErrNoTransport     = errors.New("pktforge: no transport protocol selected")
	ErrUnknownProtocol = errors.New("pktforge: unknown transport protocol")
	ErrPayloadTooLarge = errors.New("pktforge: payload too large")
)
