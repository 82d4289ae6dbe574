package subscription

import (
	"testing"

	"github.com/hypcn/yuzu-go/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reader(state map[string]any) ReadFunc {
	return func(p protocol.Path) (any, bool) {
		if p.Empty() {
			return state, true
		}
		cur := any(state)
		for _, seg := range p {
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			v, ok := m[seg]
			if !ok {
				return nil, false
			}
			cur = v
		}
		return cur, true
	}
}

func TestNotifySinglePrefixMatch(t *testing.T) {
	r := NewRegistry()
	state := map[string]any{"user": map[string]any{"profile": map[string]any{"name": "alice"}}}

	var fired []protocol.Path
	r.Subscribe(protocol.Path{"user"}, func(path protocol.Path, value any, ok bool) {
		fired = append(fired, path)
	})
	r.Subscribe(protocol.Path{"other"}, func(path protocol.Path, value any, ok bool) {
		fired = append(fired, path)
	})

	r.NotifySingle(protocol.Path{"user", "profile", "name"}, reader(state))

	require.Len(t, fired, 1)
	assert.Equal(t, protocol.Path{"user", "profile", "name"}, fired[0])
}

func TestNotifyBatchFiresEachListenerAtMostOnceWithOwnPath(t *testing.T) {
	r := NewRegistry()
	state := map[string]any{"user": map[string]any{"a": 1, "b": 2}}

	var calls int
	var reportedPath protocol.Path
	r.Subscribe(protocol.Path{"user"}, func(path protocol.Path, value any, ok bool) {
		calls++
		reportedPath = path
	})

	r.NotifyBatch([]protocol.Path{
		{"user", "a"},
		{"user", "b"},
	}, reader(state))

	assert.Equal(t, 1, calls)
	assert.Equal(t, protocol.Path{"user"}, reportedPath)
}

func TestListenersFireInSubscriptionOrder(t *testing.T) {
	r := NewRegistry()
	state := map[string]any{"x": 1}

	var order []int
	r.Subscribe(protocol.Path{}, func(path protocol.Path, value any, ok bool) { order = append(order, 1) })
	r.Subscribe(protocol.Path{}, func(path protocol.Path, value any, ok bool) { order = append(order, 2) })
	r.Subscribe(protocol.Path{}, func(path protocol.Path, value any, ok bool) { order = append(order, 3) })

	r.NotifyAll(reader(state))

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestNotifyAllReportsEmptyPathEvenForNonRootSubscribers(t *testing.T) {
	r := NewRegistry()
	state := map[string]any{"count": 42}

	var reportedPath protocol.Path
	var reportedValue any
	r.Subscribe(protocol.Path{"count"}, func(path protocol.Path, value any, ok bool) {
		reportedPath = path
		reportedValue = value
	})

	r.NotifyAll(reader(state))

	assert.Equal(t, protocol.Path{}, reportedPath)
	assert.Equal(t, 42, reportedValue)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	r := NewRegistry()
	state := map[string]any{"x": 1}

	calls := 0
	h := r.Subscribe(protocol.Path{"x"}, func(path protocol.Path, value any, ok bool) { calls++ })

	h.Unsubscribe()
	h.Unsubscribe()

	r.NotifySingle(protocol.Path{"x"}, reader(state))
	assert.Equal(t, 0, calls)
}

func TestPanicInListenerIsRecoveredAndReported(t *testing.T) {
	r := NewRegistry()
	state := map[string]any{"x": 1}

	var recoveredAt protocol.Path
	r.OnListenerPanic = func(path protocol.Path, recovered any) { recoveredAt = path }

	calledAfter := false
	r.Subscribe(protocol.Path{"x"}, func(path protocol.Path, value any, ok bool) {
		panic("boom")
	})
	r.Subscribe(protocol.Path{"x"}, func(path protocol.Path, value any, ok bool) {
		calledAfter = true
	})

	require.NotPanics(t, func() {
		r.NotifySingle(protocol.Path{"x"}, reader(state))
	})
	assert.Equal(t, protocol.Path{"x"}, recoveredAt)
	assert.True(t, calledAfter)
}

func TestComposedHandleUnsubscribesAll(t *testing.T) {
	r := NewRegistry()
	state := map[string]any{"x": 1}

	calls := 0
	h1 := r.Subscribe(protocol.Path{"x"}, func(path protocol.Path, value any, ok bool) { calls++ })
	h2 := r.Subscribe(protocol.Path{"x"}, func(path protocol.Path, value any, ok bool) { calls++ })

	combined := h1.Add(h2)
	combined.Unsubscribe()

	r.NotifySingle(protocol.Path{"x"}, reader(state))
	assert.Equal(t, 0, calls)
}
