// Package console captures recent log activity in a fixed-capacity ring,
// the way the editor's console panel keeps the last N entries. The serve
// surface exposes it so operators can see what a long-running process has
// been doing without shell access to its stderr.
package console

import (
	"strings"
	"sync"
	"time"
)

// Record is one captured log entry. Seq increases monotonically for the
// lifetime of the ring and never repeats, so clients can poll with
// Since(lastSeen).
type Record struct {
	Seq     uint64    `json:"seq"`
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// Ring is a fixed-capacity log buffer that overwrites its oldest entry
// on wrap. Safe for concurrent use.
type Ring struct {
	mu      sync.Mutex
	buf     []Record
	start   int // index of the oldest record
	count   int
	nextSeq uint64
}

// NewRing creates a ring holding up to capacity records. Capacity floors
// at 1.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{buf: make([]Record, capacity), nextSeq: 1}
}

// Append adds a record, assigning its sequence number. The oldest record
// is overwritten when the ring is full.
func (r *Ring) Append(rec Record) Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.Seq = r.nextSeq
	r.nextSeq++
	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}

	if r.count < len(r.buf) {
		r.buf[(r.start+r.count)%len(r.buf)] = rec
		r.count++
	} else {
		r.buf[r.start] = rec
		r.start = (r.start + 1) % len(r.buf)
	}
	return rec
}

// Len returns the number of records currently held.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// snapshotLocked returns held records oldest-first.
func (r *Ring) snapshotLocked() []Record {
	out := make([]Record, 0, r.count)
	for i := 0; i < r.count; i++ {
		out = append(out, r.buf[(r.start+i)%len(r.buf)])
	}
	return out
}

// Tail returns the most recent n records, oldest-first, optionally
// restricted to a minimum level ("" keeps everything).
func (r *Ring) Tail(n int, minLevel string) []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs := filterLevel(r.snapshotLocked(), minLevel)
	if n > 0 && len(recs) > n {
		recs = recs[len(recs)-n:]
	}
	return recs
}

// Since returns every held record with a sequence number greater than
// seq, oldest-first.
func (r *Ring) Since(seq uint64) []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Record
	for _, rec := range r.snapshotLocked() {
		if rec.Seq > seq {
			out = append(out, rec)
		}
	}
	return out
}

// severity ranks the level names logrus uses. Unknown levels pass every
// filter rather than silently disappearing.
var severity = map[string]int{
	"debug":   0,
	"info":    1,
	"warning": 2,
	"warn":    2,
	"error":   3,
	"fatal":   4,
}

func filterLevel(recs []Record, minLevel string) []Record {
	if minLevel == "" {
		return recs
	}
	min, ok := severity[strings.ToLower(minLevel)]
	if !ok {
		return recs
	}
	var out []Record
	for _, rec := range recs {
		if rank, ok := severity[strings.ToLower(rec.Level)]; !ok || rank >= min {
			out = append(out, rec)
		}
	}
	return out
}
