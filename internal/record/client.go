package record

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"forgelab.xyz/pktforge/internal/builder"
	"forgelab.xyz/pktforge/internal/log"
)

// Client forges frames, describes them as records and sends them to a
// record server. The sequence counter lives here; the builder stays
// free of sending state.
type Client struct {
	conn   net.Conn
	seq    atomic.Uint64
	stats  *Stats
	logger log.Logger
}

// Dial connects to the record server at target.
func Dial(target string) (*Client, error) {
	conn, err := net.Dial("tcp", target)
	if err != nil {
		return nil, errors.Wrapf(err, "connect to %s", target)
	}
	logger := log.GetLogger().WithField("component", "record-client")
	logger.Infof("connected to %s", conn.RemoteAddr())
	return &Client{
		conn:   conn,
		stats:  NewStats(),
		logger: logger,
	}, nil
}

// Close closes the connection to the server.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Stats returns the client's counters.
func (c *Client) Stats() *Stats {
	return c.stats
}

// Send builds one frame, describes it with the next sequence number and
// writes the record to the server.
func (c *Client) Send(b *builder.Builder) (*Record, error) {
	frame, err := b.Build()
	if err != nil {
		return nil, err
	}

	rec, err := FromFrame(frame, c.seq.Add(1))
	if err != nil {
		return nil, err
	}

	if err := WriteRecord(c.conn, rec); err != nil {
		return nil, err
	}
	c.stats.Add(rec.Size)
	return rec, nil
}

// Run sends count records, sleeping interval between sends. A count of
// zero sends until ctx is cancelled.
func (c *Client) Run(ctx context.Context, b *builder.Builder, count int, interval time.Duration) error {
	for sent := 0; count == 0 || sent < count; sent++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, err := c.Send(b)
		if err != nil {
			return err
		}
		c.logger.Infof("sent %s", rec)

		if interval > 0 && (count == 0 || sent < count-1) {
			select {
			case <-time.After(interval):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	c.logger.Infof("done, %s", c.stats.Summary())
	return nil
}
