package protocol

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathIsPrefixOf(t *testing.T) {
	tests := []struct {
		name string
		p    Path
		q    Path
		want bool
	}{
		{"empty prefix matches all", Path{}, Path{"user", "profile"}, true},
		{"empty prefix matches empty", Path{}, Path{}, true},
		{"exact match", Path{"a", "b"}, Path{"a", "b"}, true},
		{"proper prefix", Path{"user"}, Path{"user", "profile", "name"}, true},
		{"longer than target", Path{"user", "profile", "name"}, Path{"user"}, false},
		{"diverges", Path{"other"}, Path{"user", "profile"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.IsPrefixOf(tt.q))
		})
	}
}

func TestPatchJSONRoundTrip(t *testing.T) {
	p := Patch{Path: Path{"count"}, Value: float64(5)}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":["count"],"value":5}`, string(data))

	var decoded Patch
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, p.Path, decoded.Path)
	assert.Equal(t, p.Value, decoded.Value)
}

func TestPatchAbsentRoundTrip(t *testing.T) {
	p := Patch{Path: Path{"user", "nickname"}, Value: Absent}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":["user","nickname"],"value":null}`, string(data))

	var decoded Patch
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, IsAbsent(decoded.Value))
}

func TestMessageEnvelopes(t *testing.T) {
	t.Run("complete request", func(t *testing.T) {
		data, err := Encode(CompleteRequest())
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"complete"}`, string(data))
	})

	t.Run("complete reply", func(t *testing.T) {
		data, err := Encode(CompleteReply(map[string]any{"count": float64(42)}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"complete","state":{"count":42}}`, string(data))
	})

	t.Run("patch", func(t *testing.T) {
		data, err := Encode(PatchMessage(Patch{Path: Path{"count"}, Value: float64(5)}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"patch","patch":{"path":["count"],"value":5}}`, string(data))
	})

	t.Run("patch batch preserves order", func(t *testing.T) {
		data, err := Encode(PatchBatchMessage([]Patch{
			{Path: Path{"count"}, Value: float64(1)},
			{Path: Path{"value"}, Value: float64(2)},
		}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"patch-batch","patches":[{"path":["count"],"value":1},{"path":["value"],"value":2}]}`, string(data))
	})

	t.Run("unknown type decodes without error", func(t *testing.T) {
		msg, err := Decode([]byte(`{"type":"future-message","extra":true}`))
		require.NoError(t, err)
		assert.Equal(t, "future-message", msg.Type)
	})
}
