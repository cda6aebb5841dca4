package tui

import "github.com/ShayCichocki/daneel/pkg/models"

// ThoughtRing is the dashboard's local scrollback of recent thoughts. It is
// owned by the render loop and is not safe for concurrent use.
type ThoughtRing struct {
	items   []models.Thought
	head    int
	count   int
	lastSeq uint64
	evicted uint64
}

// ScrollbackCapacity is the ring size for a terminal of the given height:
// four screens of history, never below floor.
func ScrollbackCapacity(height, floor int) int {
	return max(height*4, floor, 1)
}

// NewThoughtRing creates a ring holding up to capacity thoughts.
func NewThoughtRing(capacity int) *ThoughtRing {
	if capacity <= 0 {
		capacity = 1
	}
	return &ThoughtRing{items: make([]models.Thought, capacity)}
}

// Len returns the number of buffered thoughts.
func (r *ThoughtRing) Len() int { return r.count }

// Cap returns the ring capacity.
func (r *ThoughtRing) Cap() int { return len(r.items) }

// Evicted returns how many thoughts have been pushed out of the ring.
func (r *ThoughtRing) Evicted() uint64 { return r.evicted }

// LastSeq returns the highest sequence number ingested.
func (r *ThoughtRing) LastSeq() uint64 { return r.lastSeq }

// Append adds t, evicting the oldest thought when full.
func (r *ThoughtRing) Append(t models.Thought) {
	if r.count == len(r.items) {
		r.evictOldest()
	}
	r.items[(r.head+r.count)%len(r.items)] = t
	r.count++
	if t.Seq > r.lastSeq {
		r.lastSeq = t.Seq
	}
}

// Ingest appends the thoughts newer than anything seen so far and returns
// how many were added. Input is expected oldest first.
func (r *ThoughtRing) Ingest(thoughts []models.Thought) int {
	added := 0
	for _, t := range thoughts {
		if t.Seq <= r.lastSeq {
			continue
		}
		r.Append(t)
		added++
	}
	return added
}

// SnapshotInto copies the buffered thoughts, oldest first, into dst.
func (r *ThoughtRing) SnapshotInto(dst []models.Thought) []models.Thought {
	if cap(dst) < r.count {
		dst = make([]models.Thought, r.count)
	} else {
		dst = dst[:r.count]
	}
	for i := 0; i < r.count; i++ {
		dst[i] = r.items[(r.head+i)%len(r.items)]
	}
	return dst
}

// Resize changes the capacity, keeping the newest thoughts that fit.
func (r *ThoughtRing) Resize(capacity int) {
	if capacity <= 0 {
		capacity = 1
	}
	if capacity == len(r.items) {
		return
	}
	kept := r.SnapshotInto(nil)
	if len(kept) > capacity {
		r.evicted += uint64(len(kept) - capacity)
		kept = kept[len(kept)-capacity:]
	}
	items := make([]models.Thought, capacity)
	copy(items, kept)
	r.items = items
	r.head = 0
	r.count = len(kept)
}

// Reset empties the ring and forgets the last sequence number.
func (r *ThoughtRing) Reset() {
	clear(r.items)
	r.head = 0
	r.count = 0
	r.lastSeq = 0
}

func (r *ThoughtRing) evictOldest() {
	if r.count == 0 {
		return
	}
	r.items[r.head] = models.Thought{}
	r.head = (r.head + 1) % len(r.items)
	r.count--
	r.evicted++
}
