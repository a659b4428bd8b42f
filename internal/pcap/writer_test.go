package pcap

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	golayers "github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

func TestGlobalHeaderLayout(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	ts := time.Unix(1700000000, 123456000)
	frame := []byte{0xde, 0xad, 0xbe, 0xef}
	if err := w.WritePacket(frame, ts); err != nil {
		t.Fatalf("WritePacket failed: %v", err)
	}

	data := buf.Bytes()
	if len(data) != globalHeaderLen+recordHeaderLen+len(frame) {
		t.Fatalf("Expected %d bytes, got %d", globalHeaderLen+recordHeaderLen+len(frame), len(data))
	}

	if got := binary.BigEndian.Uint32(data[0:4]); got != magicNumber {
		t.Errorf("Expected magic 0xA1B2C3D4, got 0x%08x", got)
	}
	if got := binary.BigEndian.Uint16(data[4:6]); got != 2 {
		t.Errorf("Expected version major 2, got %d", got)
	}
	if got := binary.BigEndian.Uint16(data[6:8]); got != 4 {
		t.Errorf("Expected version minor 4, got %d", got)
	}
	if got := binary.BigEndian.Uint64(data[8:16]); got != 0 {
		t.Errorf("Expected zero timezone/accuracy, got %d", got)
	}
	if got := binary.BigEndian.Uint32(data[16:20]); got != snapLen {
		t.Errorf("Expected snap length 65535, got %d", got)
	}
	if got := binary.BigEndian.Uint32(data[20:24]); got != linkTypeEthernet {
		t.Errorf("Expected link type 1, got %d", got)
	}

	record := data[globalHeaderLen:]
	if got := binary.BigEndian.Uint32(record[0:4]); got != 1700000000 {
		t.Errorf("Expected ts seconds 1700000000, got %d", got)
	}
	if got := binary.BigEndian.Uint32(record[4:8]); got != 123456 {
		t.Errorf("Expected ts microseconds 123456, got %d", got)
	}
	if got := binary.BigEndian.Uint32(record[8:12]); got != uint32(len(frame)) {
		t.Errorf("Expected captured length %d, got %d", len(frame), got)
	}
	if got := binary.BigEndian.Uint32(record[12:16]); got != uint32(len(frame)) {
		t.Errorf("Expected original length %d, got %d", len(frame), got)
	}
	if !bytes.Equal(record[recordHeaderLen:], frame) {
		t.Errorf("Frame bytes corrupted: %x", record[recordHeaderLen:])
	}
}

func TestHeaderWrittenOnce(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	for i := 0; i < 3; i++ {
		if err := w.WritePacket([]byte{0x01}, time.Unix(0, 0)); err != nil {
			t.Fatalf("WritePacket failed: %v", err)
		}
	}

	expected := globalHeaderLen + 3*(recordHeaderLen+1)
	if buf.Len() != expected {
		t.Errorf("Expected %d bytes for 3 packets, got %d", expected, buf.Len())
	}
}

// TestPcapgoReadsOurFile feeds the written file to gopacket's pcapgo
// reader as an independent check of the on-disk format.
func TestPcapgoReadsOurFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.pcap")

	frame := []byte{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0x00, 0x11, 0x22, 0x33, 0x44, 0x55,
		0x08, 0x00,
		0x45, 0x00,
	}

	if err := WriteFile(path, frame); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	r, err := pcapgo.NewReader(f)
	if err != nil {
		t.Fatalf("pcapgo rejected our file: %v", err)
	}

	if r.LinkType() != golayers.LinkTypeEthernet {
		t.Errorf("Expected link type Ethernet, got %v", r.LinkType())
	}

	data, ci, err := r.ReadPacketData()
	if err != nil {
		t.Fatalf("ReadPacketData failed: %v", err)
	}
	if !bytes.Equal(data, frame) {
		t.Errorf("Expected frame %x, got %x", frame, data)
	}
	if ci.CaptureLength != len(frame) || ci.Length != len(frame) {
		t.Errorf("Expected lengths %d/%d, got %d/%d",
			len(frame), len(frame), ci.CaptureLength, ci.Length)
	}
}
