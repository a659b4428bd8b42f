package record

import (
	"context"
	"io"
	"net"
	"sync"

	"github.com/pkg/errors"

	"forgelab.xyz/pktforge/internal/log"
)

// Server receives records over TCP and logs each one. Each client
// connection is handled on its own goroutine.
type Server struct {
	listen string
	logger log.Logger
	stats  *Stats

	mu    sync.Mutex
	ln    net.Listener
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

// NewServer returns a server that will listen on the given address.
func NewServer(listen string) *Server {
	return &Server{
		listen: listen,
		logger: log.GetLogger().WithField("component", "record-server"),
		stats:  NewStats(),
		conns:  make(map[net.Conn]struct{}),
	}
}

// Stats returns the server's counters.
func (s *Server) Stats() *Stats {
	return s.stats
}

// Addr returns the bound listen address, or nil before ListenAndServe.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// ListenAndServe accepts clients until ctx is cancelled, then closes the
// listener and all open connections and waits for the handlers to end.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.listen)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.listen)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.logger.Infof("server started on %s", ln.Addr())

	go func() {
		<-ctx.Done()
		s.shutdown()
	}()

	var acceptErr error
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() == nil {
				acceptErr = errors.Wrap(err, "accept")
			}
			break
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.handleConn(conn)
	}

	// Whatever ended the accept loop, close the open connections and wait
	// for the handlers before returning.
	s.shutdown()
	s.wg.Wait()

	if acceptErr != nil {
		return acceptErr
	}
	s.logger.Infof("server stopped, final stats: %s", s.stats.Summary())
	return nil
}

func (s *Server) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		s.ln.Close()
	}
	for conn := range s.conns {
		conn.Close()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()

	client := conn.RemoteAddr().String()
	logger := s.logger.WithField("client", client)
	logger.Info("client connected")

	defer func() {
		conn.Close()
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		logger.Info("client disconnected")
	}()

	for {
		rec, err := ReadRecord(conn)
		if err != nil {
			if err != io.EOF && !errors.Is(err, net.ErrClosed) {
				logger.WithError(err).Warn("read failed")
			}
			return
		}

		s.stats.Add(rec.Size)
		logger.WithFields(map[string]interface{}{
			"type": rec.Type,
			"seq":  rec.Metadata.Sequence,
			"size": rec.Size,
		}).Info(rec.String())
	}
}
