package codec

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type item struct {
	ID    int       `json:"id" msgpack:"id" cbor:"id"`
	Name  string    `json:"name" msgpack:"name" cbor:"name"`
	Stamp time.Time `json:"stamp" msgpack:"stamp" cbor:"stamp"`
}

func roundTrip[V any](t *testing.T, c Codec[V], v V) V {
	t.Helper()
	b, err := c.Encode(v)
	require.NoError(t, err)
	out, err := c.Decode(b)
	require.NoError(t, err)
	return out
}

func TestStructCodecs(t *testing.T) {
	in := item{ID: 7, Name: "ada", Stamp: time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)}
	codecs := map[string]Codec[item]{
		"json":        JSON[item]{},
		"msgpack":     Msgpack[item]{},
		"cbor":        MustCBOR[item](false),
		"cbor_det":    MustCBOR[item](true),
		"limit(json)": Limit[item]{Inner: JSON[item]{}, MaxDecode: 1024},
	}
	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			out := roundTrip(t, c, in)
			assert.Equal(t, in.ID, out.ID)
			assert.Equal(t, in.Name, out.Name)
			assert.True(t, in.Stamp.Equal(out.Stamp))
		})
	}
}

func TestCBORDeterministic(t *testing.T) {
	c := MustCBOR[map[string]int](true)
	m := map[string]int{"b": 2, "a": 1, "c": 3}
	first, err := c.Encode(m)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		b, err := c.Encode(m)
		require.NoError(t, err)
		assert.Equal(t, first, b)
	}
}

func TestRawCodecs(t *testing.T) {
	assert.Equal(t, []byte{0, 1, 2}, roundTrip[[]byte](t, Bytes{}, []byte{0, 1, 2}))
	assert.Equal(t, "héllo", roundTrip[string](t, String{}, "héllo"))
}

func TestProtobuf(t *testing.T) {
	c := NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} })
	out := roundTrip(t, Codec[*wrapperspb.StringValue](c), wrapperspb.String("hi"))
	assert.Equal(t, "hi", out.GetValue())

	_, err := c.Decode([]byte{0xff, 0xff})
	assert.Error(t, err)
}

func TestLimit(t *testing.T) {
	c := Limit[string]{Inner: JSON[string]{}, MaxDecode: 8}
	_, err := c.Decode([]byte(`"` + strings.Repeat("x", 16) + `"`))
	assert.Error(t, err)

	unlimited := Limit[string]{Inner: JSON[string]{}}
	v, err := unlimited.Decode([]byte(`"` + strings.Repeat("x", 16) + `"`))
	require.NoError(t, err)
	assert.Len(t, v, 16)
}

func TestIsNative(t *testing.T) {
	assert.True(t, IsNative(JSON[int]{}))
	assert.True(t, IsNative(Limit[int]{Inner: JSON[int]{}}))
	assert.False(t, IsNative(Limit[int]{Inner: Msgpack[int]{}}))
	assert.False(t, IsNative(Msgpack[int]{}))
	assert.False(t, IsNative(MustCBOR[int](false)))
	assert.False(t, IsNative(Bytes{}))
	assert.False(t, IsNative(nil))
}
