// Package attendance keeps the per-session tally of attendee appearance
// counts. The record only grows between explicit resets.
package attendance

import (
	"sort"
	"time"
)

// Entry is one attendee's tally.
type Entry struct {
	Name      string      `json:"name"`
	Count     int         `json:"count"`
	FirstSeen time.Time   `json:"first_seen"`
	Seen      []time.Time `json:"seen"`
}

// Record maps attendee name to appearance data. It is not safe for
// concurrent use; Session serializes access where handlers share it.
type Record struct {
	entries map[string]*Entry
}

func NewRecord() *Record {
	return &Record{entries: make(map[string]*Entry)}
}

// Apply increments the count of every given name by one, creating entries
// at count 1. Callers decide whether the slice carries distinct names or
// raw occurrences; Apply counts exactly what it is handed.
func (r *Record) Apply(names []string, at time.Time) {
	for _, name := range names {
		e, ok := r.entries[name]
		if !ok {
			e = &Entry{Name: name, FirstSeen: at}
			r.entries[name] = e
		}
		e.Count++
		e.Seen = append(e.Seen, at)
	}
}

// Count returns the tally for name, zero if absent.
func (r *Record) Count(name string) int {
	if e, ok := r.entries[name]; ok {
		return e.Count
	}
	return 0
}

// Snapshot returns copies of all entries in alphabetical name order, the
// stable presentation order used everywhere.
func (r *Record) Snapshot() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		cp := *e
		cp.Seen = append([]time.Time(nil), e.Seen...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of distinct attendees.
func (r *Record) Len() int { return len(r.entries) }

// Total returns the sum of all counts.
func (r *Record) Total() int {
	n := 0
	for _, e := range r.entries {
		n += e.Count
	}
	return n
}

// Reset clears the record back to empty.
func (r *Record) Reset() {
	r.entries = make(map[string]*Entry)
}
