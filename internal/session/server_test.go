package session

import (
	"context"
	"testing"
	"time"

	"github.com/hypcn/yuzu-go/internal/logging"
	"github.com/hypcn/yuzu-go/internal/protocol"
	"github.com/hypcn/yuzu-go/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	broadcasts [][]byte
}

func (f *fakeTransport) SetHandlers(transport.Handlers)      {}
func (f *fakeTransport) Run(ctx context.Context) error       { <-ctx.Done(); return ctx.Err() }
func (f *fakeTransport) Send(transport.ConnID, []byte) error { return nil }
func (f *fakeTransport) Broadcast(data []byte)               { f.broadcasts = append(f.broadcasts, data) }

func TestSinglePatchInBatchedModeStillSendsPatchBatch(t *testing.T) {
	tr := &fakeTransport{}
	srv := NewServer(tr, func() any { return nil }, 10*time.Millisecond, logging.Nop())
	defer srv.Close()

	srv.Patch(protocol.Patch{Path: protocol.Path{"count"}, Value: float64(1)})

	require.Eventually(t, func() bool { return len(tr.broadcasts) == 1 }, time.Second, 5*time.Millisecond)

	msg, err := protocol.Decode(tr.broadcasts[0])
	require.NoError(t, err)
	assert.Equal(t, protocol.TypePatchBatch, msg.Type)
	require.Len(t, msg.Patches, 1)
	assert.Equal(t, protocol.Path{"count"}, msg.Patches[0].Path)
}

func TestZeroDelaySendsPlainPatch(t *testing.T) {
	tr := &fakeTransport{}
	srv := NewServer(tr, func() any { return nil }, 0, logging.Nop())
	defer srv.Close()

	srv.Patch(protocol.Patch{Path: protocol.Path{"count"}, Value: float64(1)})

	require.Len(t, tr.broadcasts, 1)
	msg, err := protocol.Decode(tr.broadcasts[0])
	require.NoError(t, err)
	assert.Equal(t, protocol.TypePatch, msg.Type)
}
