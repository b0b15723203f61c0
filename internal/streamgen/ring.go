package streamgen

// RingWindow is a fixed-capacity FIFO of raw audio chunks. Once full,
// pushing evicts the oldest chunk rather than failing. It is owned
// exclusively by the generator goroutine and is not safe for concurrent use.
type RingWindow struct {
	chunks [][]float32
	next   int
	count  int
}

// NewRingWindow creates a ring holding at most capacity chunks.
// Capacities below one are clamped to one.
func NewRingWindow(capacity int) *RingWindow {
	if capacity < 1 {
		capacity = 1
	}
	return &RingWindow{chunks: make([][]float32, capacity)}
}

// Push appends a chunk, evicting the oldest when the ring is full.
func (r *RingWindow) Push(chunk []float32) {
	r.chunks[r.next] = chunk
	r.next = (r.next + 1) % len(r.chunks)
	if r.count < len(r.chunks) {
		r.count++
	}
}

// Len reports the number of stored chunks.
func (r *RingWindow) Len() int {
	return r.count
}

// Capacity reports the fixed chunk capacity.
func (r *RingWindow) Capacity() int {
	return len(r.chunks)
}

// Chunks returns an oldest-first snapshot of the stored chunks.
func (r *RingWindow) Chunks() [][]float32 {
	return r.TailChunks(r.count)
}

// TailChunks returns the newest n chunks, oldest-first. It returns fewer
// when the ring holds fewer.
func (r *RingWindow) TailChunks(n int) [][]float32 {
	if n > r.count {
		n = r.count
	}
	if n <= 0 {
		return nil
	}
	out := make([][]float32, 0, n)
	start := r.next - n
	if start < 0 {
		start += len(r.chunks)
	}
	for i := 0; i < n; i++ {
		out = append(out, r.chunks[(start+i)%len(r.chunks)])
	}
	return out
}
