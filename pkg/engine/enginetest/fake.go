// Package enginetest provides an in-memory routing engine binding for tests.
package enginetest

import (
	"sync"
	"sync/atomic"
	"time"

	"naviroute/gateway/pkg/engine"
	"naviroute/gateway/pkg/navi"
)

// Binding is a scripted engine.Binding. The zero value succeeds on every
// call and returns route id "route-1" with payload "payload".
type Binding struct {
	// InitStatus is returned from Init.
	InitStatus int32

	// Status is returned from FindPath.
	Status int32

	// RouteID and Payload are returned on success.
	RouteID string
	Payload string

	// Delay holds each FindPath call before it returns.
	Delay time.Duration

	// Block, when non-nil, holds each FindPath call until it is closed.
	Block chan struct{}

	mu       sync.Mutex
	requests [][]byte
	initPath []string

	calls    atomic.Int64
	released atomic.Int64
	issued   atomic.Int64
}

// Init records the configuration path and returns InitStatus.
func (b *Binding) Init(configPath string) int32 {
	b.mu.Lock()
	b.initPath = append(b.initPath, configPath)
	b.mu.Unlock()
	return b.InitStatus
}

// FindPath records the request and returns the scripted outcome. Buffers it
// hands out are counted on release.
func (b *Binding) FindPath(request []byte, format uint32) (int32, *engine.OwnedBuffer, *engine.OwnedBuffer) {
	b.calls.Add(1)

	b.mu.Lock()
	b.requests = append(b.requests, append([]byte(nil), request...))
	b.mu.Unlock()

	if b.Block != nil {
		<-b.Block
	}
	if b.Delay > 0 {
		time.Sleep(b.Delay)
	}

	if b.Status != 0 || format != engine.FormatProtobuf {
		status := b.Status
		if status == 0 {
			status = 3
		}
		return status, nil, nil
	}

	id := b.RouteID
	if id == "" {
		id = "route-1"
	}
	payload := b.Payload
	if payload == "" {
		payload = "payload"
	}

	b.issued.Add(2)
	return 0, b.buffer(payload), b.buffer(id)
}

func (b *Binding) buffer(s string) *engine.OwnedBuffer {
	return engine.NewOwnedBuffer([]byte(s), func() { b.released.Add(1) })
}

// Calls returns the number of FindPath calls.
func (b *Binding) Calls() int {
	return int(b.calls.Load())
}

// Issued returns the number of buffers handed out.
func (b *Binding) Issued() int {
	return int(b.issued.Load())
}

// Released returns the number of buffers released.
func (b *Binding) Released() int {
	return int(b.released.Load())
}

// InitPaths returns the paths passed to Init.
func (b *Binding) InitPaths() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.initPath...)
}

// Requests decodes every request received so far.
func (b *Binding) Requests() ([]*navi.NormalizedRouteRequest, error) {
	b.mu.Lock()
	raw := append([][]byte(nil), b.requests...)
	b.mu.Unlock()

	out := make([]*navi.NormalizedRouteRequest, 0, len(raw))
	for _, r := range raw {
		req, err := navi.DecodeServerParameter(r)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}
