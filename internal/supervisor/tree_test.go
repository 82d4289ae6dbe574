package supervisor

import (
	"context"
	"testing"
	"time"

	"github.com/hypcn/yuzu-go/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestTreeRunsServiceUntilCanceled(t *testing.T) {
	tree := NewTree(logging.Nop(), TreeConfig{})

	started := make(chan struct{})
	tree.Add("test-service", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tree.Serve(ctx) }()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("service never started")
	}

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop")
	}
	assert.True(t, true)
}
