package ledger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weznn/Blockchain-BasedAutomotiveDamageTrackingSystem3DAdvancedModel/internal/models"
)

func TestNewBlock_Deterministic(t *testing.T) {
	r := models.NewMaintenanceRecord("ABC123", "Servis A", "front bumper damage")

	for _, d := range []Digest{SHA256, SHA3_256, BLAKE2b256} {
		t.Run(d.String(), func(t *testing.T) {
			b1, err := NewBlock(1, 1700000000.25, RecordPayload(r), "abc", d)
			require.NoError(t, err)
			b2, err := NewBlock(1, 1700000000.25, RecordPayload(r), "abc", d)
			require.NoError(t, err)

			assert.Equal(t, b1.Hash(), b2.Hash())
			assert.Len(t, b1.Hash(), 64)
		})
	}
}

func TestNewBlock_HashCoversEveryField(t *testing.T) {
	r := models.NewMaintenanceRecord("ABC123", "Servis A", "front bumper damage")
	base, err := NewBlock(1, 1700000000.25, RecordPayload(r), "abc", SHA256)
	require.NoError(t, err)

	other := models.NewMaintenanceRecord("ABC123", "Servis A", "rear bumper damage")
	variants := map[string]func() (Block, error){
		"index":     func() (Block, error) { return NewBlock(2, 1700000000.25, RecordPayload(r), "abc", SHA256) },
		"timestamp": func() (Block, error) { return NewBlock(1, 1700000000.5, RecordPayload(r), "abc", SHA256) },
		"payload":   func() (Block, error) { return NewBlock(1, 1700000000.25, RecordPayload(other), "abc", SHA256) },
		"previous":  func() (Block, error) { return NewBlock(1, 1700000000.25, RecordPayload(r), "abd", SHA256) },
		"digest":    func() (Block, error) { return NewBlock(1, 1700000000.25, RecordPayload(r), "abc", SHA3_256) },
	}
	for name, build := range variants {
		t.Run(name, func(t *testing.T) {
			b, err := build()
			require.NoError(t, err)
			assert.NotEqual(t, base.Hash(), b.Hash())
		})
	}
}

func TestNewBlock_HashInputLayout(t *testing.T) {
	// sha256("0" + "1700000000" + `"Genesis Block"` + "0")
	b, err := NewBlock(0, 1700000000, GenesisPayload(), ZeroHash, SHA256)
	require.NoError(t, err)
	assert.Equal(t, SHA256.Sum([]byte(`01700000000"Genesis Block"0`)), b.Hash())
}

func TestNewBlock_EncodingError(t *testing.T) {
	r := models.NewMaintenanceRecord("ABC123", "Servis A", "ok").
		WithAttributes(map[string]any{"ch": make(chan int)})
	_, err := NewBlock(1, 1, RecordPayload(r), "abc", SHA256)

	var encErr *EncodingError
	assert.ErrorAs(t, err, &encErr)
}

func TestBlock_Accessors(t *testing.T) {
	r := models.NewMaintenanceRecord("ABC123", "Servis A", "front bumper damage")
	b, err := NewBlock(3, 1700000000.5, RecordPayload(r), "prev", SHA256)
	require.NoError(t, err)

	assert.Equal(t, 3, b.Index())
	assert.Equal(t, 1700000000.5, b.Timestamp())
	assert.Equal(t, "prev", b.PreviousHash())
	assert.False(t, b.IsGenesis())
	assert.Equal(t, int64(1700000000), b.Time().Unix())
	assert.Equal(t, 500000000, b.Time().Nanosecond())

	got, ok := b.Record()
	require.True(t, ok)
	assert.True(t, r.Equal(got))
}

func TestBlock_JSONKeepsStoredHash(t *testing.T) {
	r := models.NewMaintenanceRecord("ABC123", "Servis A", "front bumper damage")
	b, err := NewBlock(1, 1700000000.25, RecordPayload(r), "prev", SHA256)
	require.NoError(t, err)

	data, err := json.Marshal(b)
	require.NoError(t, err)

	var decoded Block
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, b.Hash(), decoded.Hash())
	assert.Equal(t, b.Index(), decoded.Index())
	assert.Equal(t, b.Timestamp(), decoded.Timestamp())

	recomputed, err := decoded.recompute(SHA256)
	require.NoError(t, err)
	assert.Equal(t, b.Hash(), recomputed)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	raw["hash"] = "deadbeef"
	tampered, err := json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(tampered, &decoded))
	assert.Equal(t, "deadbeef", decoded.Hash())
}

func TestBlock_UnmarshalRejectsNegativeIndex(t *testing.T) {
	var b Block
	err := json.Unmarshal([]byte(`{"index":-1,"timestamp":1,"payload":"Genesis Block","previous_hash":"0","hash":"x"}`), &b)
	assert.ErrorIs(t, err, ErrInvalidBlock)
	assert.NotErrorIs(t, err, ErrInvalidPayload)
}
