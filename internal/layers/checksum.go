package layers

import "encoding/binary"

// Checksum computes the 16-bit Internet checksum (RFC 1071) over data:
// the one's-complement sum of all big-endian 16-bit words, with odd-length
// input zero-padded, end-around carry folded back in, then complemented.
func Checksum(data []byte) uint16 {
	var sum uint32

	n := len(data)
	for i := 0; i+1 < n; i += 2 {
		sum += uint32(binary.BigEndian.Uint16(data[i : i+2]))
	}

	// Odd trailing byte is treated as the high byte of a zero-padded word.
	if n%2 == 1 {
		sum += uint32(data[n-1]) << 8
	}

	// Fold the carry bits back into the low 16 bits.
	for sum>>16 != 0 {
		sum = (sum & 0xFFFF) + (sum >> 16)
	}

	return ^uint16(sum)
}

// pseudoHeaderLen is the size of the TCP/UDP checksum pseudo-header.
const pseudoHeaderLen = 12

// pseudoHeader builds the 12-byte pseudo-header that prefixes TCP and UDP
// checksum input. It is never transmitted.
//
//	0   4   Source IP
//	4   4   Destination IP
//	8   1   Zero
//	9   1   Protocol (6=TCP, 17=UDP)
//	10  2   Segment length (header + payload)
func pseudoHeader(src, dst IPv4Addr, protocol uint8, length uint16) []byte {
	ph := make([]byte, pseudoHeaderLen)
	copy(ph[0:4], src[:])
	copy(ph[4:8], dst[:])
	ph[8] = 0
	ph[9] = protocol
	binary.BigEndian.PutUint16(ph[10:12], length)
	return ph
}

// transportChecksum computes the pseudo-header checksum shared by TCP and
// UDP: pseudo-header followed by the segment bytes (checksum field zeroed
// by the caller).
func transportChecksum(src, dst IPv4Addr, protocol uint8, segment []byte) uint16 {
	buf := make([]byte, 0, pseudoHeaderLen+len(segment))
	buf = append(buf, pseudoHeader(src, dst, protocol, uint16(len(segment)))...)
	buf = append(buf, segment...)
	return Checksum(buf)
}
