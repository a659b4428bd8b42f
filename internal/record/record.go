// Package record implements the JSON exchange demo: a client that
// describes forged frames as JSON records and a server that receives
// and logs them. Records travel over TCP with a 4-byte big-endian
// length prefix in front of each JSON body.
package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"forgelab.xyz/pktforge/internal/layers"
)

// Endpoint is one side of the described conversation.
type Endpoint struct {
	IP   string `json:"ip"`
	Port uint16 `json:"port"`
}

// Metadata carries the secondary header fields of the described frame.
type Metadata struct {
	TTL      uint8  `json:"ttl"`
	Protocol string `json:"protocol"`
	Sequence uint64 `json:"sequence"`
}

// Record is the JSON document exchanged between client and server. It
// describes a frame rather than carrying its wire bytes.
type Record struct {
	ID          string   `json:"id"`
	Timestamp   string   `json:"timestamp"`
	Type        string   `json:"type"`
	Source      Endpoint `json:"source"`
	Destination Endpoint `json:"destination"`
	Size        int      `json:"size"`
	Payload     string   `json:"payload"`
	Flags       []string `json:"flags"`
	Metadata    Metadata `json:"metadata"`
}

// maxPayloadPreview bounds the payload text carried in a record.
const maxPayloadPreview = 64

// FromFrame decodes an Ethernet frame and describes it as a Record with
// the given sequence number.
func FromFrame(frame []byte, seq uint64) (*Record, error) {
	eth, err := layers.DecodeEthernet(frame)
	if err != nil {
		return nil, err
	}
	ip, err := layers.DecodeIPv4(eth.Payload)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC().Format(time.RFC3339Nano),
		Source:      Endpoint{IP: ip.SrcIP.String()},
		Destination: Endpoint{IP: ip.DstIP.String()},
		Size:        len(frame),
		Metadata: Metadata{
			TTL:      ip.TTL,
			Protocol: "IPv4",
			Sequence: seq,
		},
	}

	switch ip.Protocol {
	case layers.ProtocolTCP:
		tcp, err := layers.DecodeTCP(ip.Payload, ip.SrcIP, ip.DstIP)
		if err != nil {
			return nil, err
		}
		rec.Type = "TCP"
		rec.Source.Port = tcp.SrcPort
		rec.Destination.Port = tcp.DstPort
		if tcp.Flags != 0 {
			rec.Flags = strings.Split(tcp.Flags.String(), ",")
		}
		rec.Payload = payloadPreview(tcp.Payload)
	case layers.ProtocolUDP:
		udp, err := layers.DecodeUDP(ip.Payload, ip.SrcIP, ip.DstIP)
		if err != nil {
			return nil, err
		}
		rec.Type = "UDP"
		rec.Source.Port = udp.SrcPort
		rec.Destination.Port = udp.DstPort
		rec.Payload = payloadPreview(udp.Payload)
	case layers.ProtocolICMP:
		icmp, err := layers.DecodeICMP(ip.Payload)
		if err != nil {
			return nil, err
		}
		rec.Type = "ICMP"
		rec.Payload = payloadPreview(icmp.Payload)
	default:
		rec.Type = "IPv4"
		rec.Payload = payloadPreview(ip.Payload)
	}

	return rec, nil
}

// payloadPreview renders payload bytes as display text, replacing
// non-printable bytes and truncating long payloads.
func payloadPreview(data []byte) string {
	if len(data) > maxPayloadPreview {
		data = data[:maxPayloadPreview]
	}
	var b strings.Builder
	for _, c := range data {
		if c >= 0x20 && c < 0x7F {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// String renders the record on one line for log output.
func (r *Record) String() string {
	flags := "None"
	if len(r.Flags) > 0 {
		flags = strings.Join(r.Flags, ",")
	}
	return fmt.Sprintf("[%s] %s -> %s | Size: %dB | Seq: %d | Flags: %s",
		r.Type, r.Source, r.Destination, r.Size, r.Metadata.Sequence, flags)
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d", e.IP, e.Port)
}
