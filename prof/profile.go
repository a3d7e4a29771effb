// Package prof records wall-clock durations of labelled stages.
package prof

import (
	"log/slog"
	"sync"
	"time"
)

// Entry represents a single timing measurement.
type Entry struct {
	Label string
	Dur   time.Duration
}

// Recorder collects entries; it is safe for concurrent use. The zero value
// is ready to use.
type Recorder struct {
	mu     sync.Mutex
	record []Entry
}

// Track records the duration since start under label and returns it.
//
//	defer rec.Track(time.Now(), "q=31")
func (r *Recorder) Track(start time.Time, label string) time.Duration {
	elapsed := time.Since(start)
	r.mu.Lock()
	r.record = append(r.record, Entry{Label: label, Dur: elapsed})
	r.mu.Unlock()
	return elapsed
}

// Entries returns a copy of the collected entries in recording order.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.record))
	copy(out, r.record)
	return out
}

// Total is the sum of all recorded durations.
func (r *Recorder) Total() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	var t time.Duration
	for _, e := range r.record {
		t += e.Dur
	}
	return t
}

// LogValue groups the entries as label=duration attributes.
func (r *Recorder) LogValue() slog.Value {
	entries := r.Entries()
	attrs := make([]slog.Attr, 0, len(entries))
	for _, e := range entries {
		attrs = append(attrs, slog.Duration(e.Label, e.Dur))
	}
	return slog.GroupValue(attrs...)
}
