package codec

import "encoding/json"

// JSON encodes with encoding/json. The zero value is ready to use and is the
// default codec: values land in the entry as plain JSON.
type JSON[V any] struct{}

var (
	_ Codec[struct{}] = JSON[struct{}]{}
	_ Native          = JSON[struct{}]{}
)

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}

func (JSON[V]) NativeJSON() bool { return true }
