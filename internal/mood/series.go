// Package mood holds the rolling confidence series behind the mood chart.
package mood

import (
	"sync"
	"time"
)

// Capacity is the number of samples the chart keeps.
const Capacity = 20

// Sample is one chart point.
type Sample struct {
	Label string // clock label, e.g. "14:03:22"
	At    time.Time
	Value float64
}

// Series is a fixed-capacity FIFO of samples. Safe for concurrent use.
type Series struct {
	mu    sync.Mutex
	buf   []Sample
	start int
	n     int
}

// NewSeries creates an empty series holding at most Capacity samples.
func NewSeries() *Series {
	return &Series{buf: make([]Sample, Capacity)}
}

// Append adds a sample, evicting the oldest one first when full.
func (s *Series) Append(at time.Time, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sample := Sample{Label: at.Format("15:04:05"), At: at, Value: value}
	if s.n == len(s.buf) {
		s.buf[s.start] = sample
		s.start = (s.start + 1) % len(s.buf)
		return
	}
	s.buf[(s.start+s.n)%len(s.buf)] = sample
	s.n++
}

// Samples returns a copy of the series, oldest first.
func (s *Series) Samples() []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Sample, s.n)
	for i := 0; i < s.n; i++ {
		out[i] = s.buf[(s.start+i)%len(s.buf)]
	}
	return out
}

// Len returns the number of samples held.
func (s *Series) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}
