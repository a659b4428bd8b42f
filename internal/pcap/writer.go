// Package pcap writes built frames into libpcap capture files so they can
// be opened with wireshark/tcpdump. Only writing is implemented; headers
// are emitted big-endian, which readers detect from the magic number.
package pcap

import (
	"encoding/binary"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
)

const (
	// magicNumber identifies a microsecond-resolution capture file.
	magicNumber  = 0xA1B2C3D4
	versionMajor = 2
	versionMinor = 4

	// snapLen is the maximum captured length advertised in the global header.
	snapLen = 65535

	// linkTypeEthernet is DLT_EN10MB.
	linkTypeEthernet = 1

	globalHeaderLen = 24
	recordHeaderLen = 16
)

// Writer emits a capture file onto an io.Writer: one global header
// followed by a (record header, frame bytes) pair per packet.
type Writer struct {
	w           io.Writer
	wroteHeader bool
}

// NewWriter returns a Writer; the global header is written lazily by the
// first WritePacket.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// writeGlobalHeader emits the 24-byte file header.
//
//	0   4   Magic number (0xA1B2C3D4)
//	4   2   Version major (2)
//	6   2   Version minor (4)
//	8   4   Timezone correction (0)
//	12  4   Timestamp accuracy (0)
//	16  4   Snap length (65535)
//	20  4   Link type (1 = Ethernet)
func (w *Writer) writeGlobalHeader() error {
	var hdr [globalHeaderLen]byte

	binary.BigEndian.PutUint32(hdr[0:4], magicNumber)
	binary.BigEndian.PutUint16(hdr[4:6], versionMajor)
	binary.BigEndian.PutUint16(hdr[6:8], versionMinor)
	// hdr[8:16] timezone and accuracy stay zero
	binary.BigEndian.PutUint32(hdr[16:20], snapLen)
	binary.BigEndian.PutUint32(hdr[20:24], linkTypeEthernet)

	if _, err := w.w.Write(hdr[:]); err != nil {
		return errors.Wrap(err, "pcap: write global header")
	}

	w.wroteHeader = true
	return nil
}

// WritePacket appends one frame with the given capture timestamp. The
// captured and original lengths are both the full frame length; nothing
// is ever truncated by this writer.
func (w *Writer) WritePacket(frame []byte, ts time.Time) error {
	if !w.wroteHeader {
		if err := w.writeGlobalHeader(); err != nil {
			return err
		}
	}

	var hdr [recordHeaderLen]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(ts.Unix()))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(ts.Nanosecond()/1_000))
	binary.BigEndian.PutUint32(hdr[8:12], uint32(len(frame)))
	binary.BigEndian.PutUint32(hdr[12:16], uint32(len(frame)))

	if _, err := w.w.Write(hdr[:]); err != nil {
		return errors.Wrap(err, "pcap: write record header")
	}
	if _, err := w.w.Write(frame); err != nil {
		return errors.Wrap(err, "pcap: write frame")
	}

	return nil
}

// WriteFile saves a single frame to path as a complete capture file,
// stamped with the current time.
func WriteFile(path string, frame []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "pcap: create %s", path)
	}

	w := NewWriter(f)
	if err := w.WritePacket(frame, time.Now()); err != nil {
		f.Close()
		return err
	}

	return errors.Wrapf(f.Close(), "pcap: close %s", path)
}
