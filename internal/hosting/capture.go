// SPDX-License-Identifier: MPL-2.0

package hosting

import (
	"bytes"
	"sync"
)

// ChunkRecorder is an io.Writer that keeps every Write as its own chunk.
// Bytes returns the chunks joined in write order.
type ChunkRecorder struct {
	mu     sync.Mutex
	chunks [][]byte
	size   int
}

// Write records a copy of p. It never fails.
func (r *ChunkRecorder) Write(p []byte) (int, error) {
	chunk := bytes.Clone(p)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks = append(r.chunks, chunk)
	r.size += len(chunk)
	return len(p), nil
}

// Bytes returns all recorded bytes concatenated in write order.
func (r *ChunkRecorder) Bytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]byte, 0, r.size)
	for _, chunk := range r.chunks {
		out = append(out, chunk...)
	}
	return out
}

// Chunks returns the number of Write calls recorded.
func (r *ChunkRecorder) Chunks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chunks)
}

// Len returns the total number of bytes recorded.
func (r *ChunkRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}
