package domain

// BoundedLog keeps the most recent directive lines in a fixed-capacity
// circular buffer. Entry k lands at slot k mod capacity, overwriting the
// oldest entry once the buffer wraps; the log never grows. A capacity of
// zero disables recording entirely. Single writer, no locking.
type BoundedLog struct {
	entries []string
	count   uint64
}

// NewBoundedLog creates a log retaining up to capacity entries.
// Capacities below zero are treated as zero (disabled).
func NewBoundedLog(capacity int) *BoundedLog {
	if capacity < 0 {
		capacity = 0
	}
	return &BoundedLog{entries: make([]string, capacity)}
}

// Append records one directive line. With capacity zero this is a no-op
// apart from the iteration count.
func (l *BoundedLog) Append(line string) {
	if len(l.entries) > 0 {
		l.entries[l.count%uint64(len(l.entries))] = line
	}
	l.count++
}

// Cap returns the configured capacity.
func (l *BoundedLog) Cap() int { return len(l.entries) }

// Count returns the total number of appends, including overwritten ones.
func (l *BoundedLog) Count() uint64 { return l.count }

// Len returns the number of retained entries.
func (l *BoundedLog) Len() int {
	if uint64(len(l.entries)) < l.count {
		return len(l.entries)
	}
	return int(l.count)
}

// Snapshot returns the retained entries in append order, oldest first.
// The returned slice is a copy; the log keeps sole ownership of its
// buffer.
func (l *BoundedLog) Snapshot() []string {
	n := l.Len()
	out := make([]string, 0, n)
	if n == 0 {
		return out
	}
	cap64 := uint64(len(l.entries))
	start := uint64(0)
	if l.count > cap64 {
		start = l.count % cap64
	}
	for i := 0; i < n; i++ {
		out = append(out, l.entries[(start+uint64(i))%cap64])
	}
	return out
}
