package record

import (
	"fmt"
	"sync"
	"time"
)

// Stats tracks packet and byte totals over the lifetime of a client or
// server. Safe for concurrent use.
type Stats struct {
	mu         sync.Mutex
	totalCount uint64
	totalBytes uint64
	start      time.Time
}

// NewStats returns a tracker whose rates are measured from now.
func NewStats() *Stats {
	return &Stats{start: time.Now()}
}

// Add counts one packet of the given size.
func (s *Stats) Add(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalCount++
	s.totalBytes += uint64(size)
}

// Count returns the number of packets counted so far.
func (s *Stats) Count() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalCount
}

// Bytes returns the byte total counted so far.
func (s *Stats) Bytes() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalBytes
}

// Rate returns the average packets per second since the tracker started.
func (s *Stats) Rate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := time.Since(s.start).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(s.totalCount) / elapsed
}

// Throughput returns the average bytes per second since the tracker
// started.
func (s *Stats) Throughput() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := time.Since(s.start).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(s.totalBytes) / elapsed
}

// Summary renders totals and rates on one line.
func (s *Stats) Summary() string {
	s.mu.Lock()
	count, bytes := s.totalCount, s.totalBytes
	elapsed := time.Since(s.start)
	s.mu.Unlock()

	rate := 0.0
	throughput := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(count) / secs
		throughput = float64(bytes) / secs
	}
	return fmt.Sprintf("Packets: %d | Data: %s | Duration: %s | Rate: %.2f pkt/s | Throughput: %s/s",
		count, FormatBytes(bytes), FormatDuration(elapsed), rate, FormatBytes(uint64(throughput)))
}

// FormatBytes renders a byte count in the largest fitting unit.
func FormatBytes(n uint64) string {
	value := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if value < 1024 {
			return fmt.Sprintf("%.2f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.2f TB", value)
}

// FormatDuration renders a duration at a precision fitting its size.
func FormatDuration(d time.Duration) string {
	switch secs := d.Seconds(); {
	case secs < 1:
		return fmt.Sprintf("%.2fms", secs*1000)
	case secs < 60:
		return fmt.Sprintf("%.2fs", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm %.0fs", int(secs/60), secs-float64(int(secs/60)*60))
	default:
		return fmt.Sprintf("%dh %dm", int(secs/3600), int(secs)%3600/60)
	}
}
