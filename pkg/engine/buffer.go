package engine

import "sync"

// OwnedBuffer is memory handed over by the routing engine. The holder owns
// it and must call Release exactly once; further calls are no-ops. A nil
// *OwnedBuffer is valid and empty.
type OwnedBuffer struct {
	data    []byte
	release func()
	once    sync.Once
}

// NewOwnedBuffer wraps data whose backing memory is freed by release.
// release may be nil for memory managed by the Go runtime.
func NewOwnedBuffer(data []byte, release func()) *OwnedBuffer {
	return &OwnedBuffer{data: data, release: release}
}

// Bytes returns the buffer contents. The slice must not be used after
// Release.
func (b *OwnedBuffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// String copies the contents into a Go string that outlives the buffer.
func (b *OwnedBuffer) String() string {
	if b == nil {
		return ""
	}
	return string(b.data)
}

// Len returns the number of bytes held.
func (b *OwnedBuffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Release frees the underlying memory. It is safe to call more than once
// and from multiple goroutines; the release function runs once.
func (b *OwnedBuffer) Release() {
	if b == nil {
		return
	}
	b.once.Do(func() {
		b.data = nil
		if b.release != nil {
			b.release()
		}
	})
}
