package mirror

import (
	"testing"

	"github.com/hypcn/yuzu-go/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceSeedsTreeAndNotifiesAll(t *testing.T) {
	m := New()

	var fired int
	m.Root().Subscribe(func(path protocol.Path, value any, ok bool) { fired++ })

	m.Replace(map[string]any{"count": float64(1)})

	assert.Equal(t, 1, fired)
	v, ok := m.Root().Child("count").Get()
	require.True(t, ok)
	assert.Equal(t, float64(1), v)
}

func TestApplyUpdatesTreeAndNotifiesSubscribers(t *testing.T) {
	m := New()
	m.Replace(map[string]any{"user": map[string]any{"name": "alice"}})

	var seen any
	m.Root().Child("user").Child("name").Subscribe(func(path protocol.Path, value any, ok bool) {
		seen = value
	})

	m.Apply(protocol.Patch{Path: protocol.Path{"user", "name"}, Value: "bob"})

	assert.Equal(t, "bob", seen)
	v, ok := m.Root().Child("user").Child("name").Get()
	require.True(t, ok)
	assert.Equal(t, "bob", v)
}

func TestApplyBatchFiresEachListenerOnce(t *testing.T) {
	m := New()
	m.Replace(map[string]any{"user": map[string]any{"a": 1, "b": 2}})

	calls := 0
	m.Root().Child("user").Subscribe(func(path protocol.Path, value any, ok bool) { calls++ })

	m.ApplyBatch([]protocol.Patch{
		{Path: protocol.Path{"user", "a"}, Value: 10},
		{Path: protocol.Path{"user", "b"}, Value: 20},
	})

	assert.Equal(t, 1, calls)

	v, ok := m.Root().Child("user").Child("a").Get()
	require.True(t, ok)
	assert.Equal(t, 10, v)
}

func TestApplyGrowsArrayOnPushPatchSequence(t *testing.T) {
	m := New()
	m.Replace(map[string]any{"items": []any{float64(1), float64(2), float64(3)}})

	m.ApplyBatch([]protocol.Patch{
		{Path: protocol.Path{"items", "3"}, Value: float64(4)},
		{Path: protocol.Path{"items", "length"}, Value: float64(4)},
	})

	v, ok := m.Root().Child("items").Get()
	require.True(t, ok)
	assert.Equal(t, []any{float64(1), float64(2), float64(3), float64(4)}, v)
}

func TestApplyTruncatesArrayOnPopPatchSequence(t *testing.T) {
	m := New()
	m.Replace(map[string]any{"items": []any{float64(1), float64(2), float64(3)}})

	m.ApplyBatch([]protocol.Patch{
		{Path: protocol.Path{"items", "2"}, Value: protocol.Absent},
		{Path: protocol.Path{"items", "length"}, Value: float64(2)},
	})

	v, ok := m.Root().Child("items").Get()
	require.True(t, ok)
	assert.Equal(t, []any{float64(1), float64(2)}, v)
}

func TestReplaceNotifiesNonRootSubscribersWithEmptyTriggeringPath(t *testing.T) {
	m := New()
	m.Replace(map[string]any{"count": float64(1)})

	var reportedPath protocol.Path
	var reportedValue any
	m.Root().Child("count").Subscribe(func(path protocol.Path, value any, ok bool) {
		reportedPath = path
		reportedValue = value
	})

	m.Replace(map[string]any{"count": float64(42)})

	assert.Equal(t, protocol.Path{}, reportedPath)
	assert.Equal(t, float64(42), reportedValue)
}

func TestApplyAbsentKeepsKeyPresentWithAbsentValue(t *testing.T) {
	m := New()
	m.Replace(map[string]any{"nickname": "al"})

	m.Apply(protocol.Patch{Path: protocol.Path{"nickname"}, Value: protocol.Absent})

	v, ok := m.Root().Child("nickname").Get()
	require.True(t, ok)
	assert.True(t, protocol.IsAbsent(v))
}
