package record

import (
	"encoding/binary"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// maxRecordLen rejects length prefixes that cannot belong to a record.
const maxRecordLen = 1 << 20

// WriteRecord frames rec as a length-prefixed JSON message on w.
func WriteRecord(w io.Writer, rec *Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encode record")
	}

	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(body)))
	if _, err := w.Write(prefix[:]); err != nil {
		return errors.Wrap(err, "write record length")
	}
	if _, err := w.Write(body); err != nil {
		return errors.Wrap(err, "write record body")
	}
	return nil
}

// ReadRecord reads one length-prefixed JSON message from r. It returns
// io.EOF unwrapped when the stream ends cleanly between records.
func ReadRecord(r io.Reader) (*Record, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "read record length")
	}

	n := binary.BigEndian.Uint32(prefix[:])
	if n > maxRecordLen {
		return nil, errors.Errorf("record length %d exceeds limit", n)
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, errors.Wrap(err, "read record body")
	}

	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, errors.Wrap(err, "decode record")
	}
	return &rec, nil
}
