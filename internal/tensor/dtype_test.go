package tensor

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataTypeRoundTrip(t *testing.T) {
	for dt := Float32; dt <= Bool; dt++ {
		parsed, err := ParseDataType(dt.String())
		require.NoError(t, err)
		assert.Equal(t, dt, parsed)
	}
	_, err := ParseDataType("bfloat16")
	assert.Error(t, err)
}

func TestDataTypeClasses(t *testing.T) {
	assert.True(t, Float32.IsFloat())
	assert.False(t, Float32.IsInt())
	assert.True(t, Int8.IsInt())
	assert.True(t, Int8.IsSigned())
	assert.True(t, Uint8.IsInt())
	assert.False(t, Uint8.IsSigned())
	assert.Equal(t, 8, Int8.Bits())
	assert.Equal(t, 32, Float32.Bits())
}

func TestDataTypeIntRange(t *testing.T) {
	lo, hi := Int8.IntRange()
	assert.Equal(t, int64(-128), lo)
	assert.Equal(t, int64(127), hi)

	lo, hi = Uint8.IntRange()
	assert.Equal(t, int64(0), lo)
	assert.Equal(t, int64(255), hi)

	assert.Panics(t, func() { Float32.IntRange() })
}

func TestSignedInt(t *testing.T) {
	for bits, want := range map[int]DataType{8: Int8, 16: Int16, 32: Int32, 64: Int64} {
		got, err := SignedInt(bits)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := SignedInt(12)
	assert.Error(t, err)
}

func TestDataTypeWrap(t *testing.T) {
	assert.Equal(t, int64(-128), Int8.Wrap(128))
	assert.Equal(t, int64(-1), Int16.Wrap(65535))
	assert.Equal(t, int64(255), Uint8.Wrap(-1))
	assert.Equal(t, int64(1), Bool.Wrap(42))
	assert.Equal(t, int64(1)<<40, Int64.Wrap(1<<40))
}

func TestDataTypeJSON(t *testing.T) {
	type holder struct {
		DType DataType `json:"dtype"`
	}
	data, err := json.Marshal(holder{DType: Int32})
	require.NoError(t, err)
	assert.JSONEq(t, `{"dtype":"int32"}`, string(data))

	var h holder
	require.NoError(t, json.Unmarshal([]byte(`{"dtype":"uint8"}`), &h))
	assert.Equal(t, Uint8, h.DType)

	assert.Error(t, json.Unmarshal([]byte(`{"dtype":"complex"}`), &h))
}
