// Package json provides JSON serialization on goccy/go-json with pooled buffers
package json

import (
	"bytes"
	"io"
	"sync"

	gojson "github.com/goccy/go-json"
)

// Indent is the indentation used for every human-facing JSON document
const Indent = "    "

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// GetBuffer gets a pooled bytes.Buffer
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the pool
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 1024*1024 { // Don't pool very large buffers
		return
	}
	bufferPool.Put(buf)
}

// NewEncoder returns an encoder that leaves <, > and & unescaped
func NewEncoder(w io.Writer) *gojson.Encoder {
	enc := gojson.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}

// Marshal encodes v without HTML escaping and without a trailing newline
func Marshal(v interface{}) ([]byte, error) {
	return encode(v, "")
}

// MarshalIndent encodes v with four-space indentation, no HTML escaping and
// no trailing newline
func MarshalIndent(v interface{}) ([]byte, error) {
	return encode(v, Indent)
}

func encode(v interface{}, indent string) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	enc := NewEncoder(buf)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	out := bytes.TrimRight(buf.Bytes(), "\n")
	result := make([]byte, len(out))
	copy(result, out)
	return result, nil
}

// Unmarshal is a drop-in replacement for json.Unmarshal
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// Valid reports whether data is a valid JSON encoding
func Valid(data []byte) bool {
	return gojson.Valid(data)
}
