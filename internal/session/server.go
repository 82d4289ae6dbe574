// Package session implements the connection-handling layer sitting between
// internal/transport (raw bytes in and out) and the tracker/mirror state
// layers (structured patches).
package session

import (
	"time"

	"github.com/hypcn/yuzu-go/internal/batch"
	"github.com/hypcn/yuzu-go/internal/logging"
	"github.com/hypcn/yuzu-go/internal/protocol"
	"github.com/hypcn/yuzu-go/internal/transport"
)

// SnapshotFunc returns the current full state tree, used to answer a
// `complete` request.
type SnapshotFunc func() any

// Server wires a transport.Server to a state tree: it answers `complete`
// requests with the current snapshot, and publishes patches and
// patch-batches as they're produced upstream.
type Server struct {
	transport transport.Server
	snapshot  SnapshotFunc
	batcher   *batch.Batcher
	log       logging.Logger

	onPatchesEmitted func(n int)
	onBatchFlushed   func()
}

// NewServer constructs a Server. snapshot is called fresh on every
// `complete` request, never cached, so a client always receives the state
// as of the moment its request was serviced.
func NewServer(t transport.Server, snapshot SnapshotFunc, batchDelay time.Duration, log logging.Logger) *Server {
	s := &Server{transport: t, snapshot: snapshot, log: log}
	s.batcher = batch.NewBatcher(batchDelay, s.flush)
	t.SetHandlers(transport.Handlers{
		OnConnect: s.handleConnect,
		OnMessage: s.handleMessage,
	})
	return s
}

// OnMetrics installs optional counters for emitted patches and flushed
// batches; both may be left nil.
func (s *Server) OnMetrics(onPatchesEmitted func(n int), onBatchFlushed func()) {
	s.onPatchesEmitted = onPatchesEmitted
	s.onBatchFlushed = onBatchFlushed
}

func (s *Server) handleConnect(id transport.ConnID) {
	s.log.Debug().Str("conn", string(id)).Msg("connection established")
}

func (s *Server) handleMessage(id transport.ConnID, data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		s.log.Error().Str("conn", string(id)).Err(err).Msg("failed to decode message")
		return
	}
	switch msg.Type {
	case protocol.TypeComplete:
		s.sendSnapshot(id)
	default:
		// Unknown or client-only message types are ignored.
	}
}

func (s *Server) sendSnapshot(id transport.ConnID) {
	data, err := protocol.Encode(protocol.CompleteReply(s.snapshot()))
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode complete reply")
		return
	}
	if err := s.transport.Send(id, data); err != nil {
		s.log.Error().Str("conn", string(id)).Err(err).Msg("failed to send complete reply")
	}
}

// Patch broadcasts one patch to every connected client, subject to
// batching.
func (s *Server) Patch(p protocol.Patch) {
	s.batcher.Append(p)
}

func (s *Server) flush(patches []protocol.Patch) {
	var msg protocol.Message
	if s.batcher.Delay <= 0 {
		// Passthrough mode: Batcher.Append calls flush synchronously with
		// exactly one patch per call, so it is always sent as a plain patch.
		msg = protocol.PatchMessage(patches[0])
	} else {
		// Batching mode always drains into one patch-batch message, even
		// when only one patch landed in the window.
		msg = protocol.PatchBatchMessage(patches)
		if s.onBatchFlushed != nil {
			s.onBatchFlushed()
		}
	}
	data, err := protocol.Encode(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode patch message")
		return
	}
	s.transport.Broadcast(data)
	if s.onPatchesEmitted != nil {
		s.onPatchesEmitted(len(patches))
	}
}

// Close flushes any buffered patches and stops accepting new ones.
func (s *Server) Close() {
	s.batcher.Flush()
	s.batcher.Close()
}
