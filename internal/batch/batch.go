// Package batch implements the patch-batching layer: when a server is
// configured with a non-zero batchDelay, patches produced
// within that window are buffered and flushed together as one
// patch-batch message rather than emitted one at a time.
package batch

import (
	"sync"
	"time"

	"github.com/hypcn/yuzu-go/internal/protocol"
)

// EmitFunc delivers a flushed batch of patches, in the order they were
// appended.
type EmitFunc func([]protocol.Patch)

// Batcher buffers patches and flushes them on a one-shot timer. A Batcher
// with Delay == 0 flushes synchronously on every Append — the batching
// layer becomes a pass-through, emitting every patch individually with no
// buffering.
//
// The buffering timer is one-shot, not a reset-on-append debounce: once
// started by the first patch in a window, it fires at its original
// deadline regardless of how many further patches arrive before then — the
// window does not extend each time a new patch arrives. This bounds
// worst-case latency to Delay even under sustained write pressure.
type Batcher struct {
	Delay time.Duration
	Emit  EmitFunc

	mu      sync.Mutex
	pending []protocol.Patch
	timer   *time.Timer
	closed  bool
}

// NewBatcher constructs a Batcher with the given delay and emit callback.
func NewBatcher(delay time.Duration, emit EmitFunc) *Batcher {
	return &Batcher{Delay: delay, Emit: emit}
}

// Append adds a patch to the current window. If Delay is zero, it is
// flushed immediately. Otherwise it joins the pending buffer, starting the
// flush timer if this is the first patch since the last flush.
func (b *Batcher) Append(p protocol.Patch) {
	if b.Delay <= 0 {
		b.Emit([]protocol.Patch{p})
		return
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.pending = append(b.pending, p)
	startTimer := b.timer == nil
	if startTimer {
		b.timer = time.AfterFunc(b.Delay, b.flush)
	}
	b.mu.Unlock()
}

func (b *Batcher) flush() {
	b.mu.Lock()
	if len(b.pending) == 0 {
		b.timer = nil
		b.mu.Unlock()
		return
	}
	batch := b.pending
	b.pending = nil
	b.timer = nil
	b.mu.Unlock()

	b.Emit(batch)
}

// Flush forces an immediate flush of any pending patches, bypassing the
// timer. Used on graceful shutdown so no buffered patch is silently lost.
func (b *Batcher) Flush() {
	if b.timer != nil {
		b.timer.Stop()
	}
	b.flush()
}

// Close stops accepting further patches. Any patches already pending are
// dropped, not flushed — an abrupt connection close during a buffering
// window means the client simply missed them; a well-behaved shutdown
// calls Flush first.
func (b *Batcher) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.pending = nil
	b.closed = true
}
