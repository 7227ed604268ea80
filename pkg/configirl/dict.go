package configirl

import (
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/pygitrepo/pkg/json"
)

// Dict is a string keyed mapping that remembers insertion order. Dumps use it
// so output follows field declaration order.
type Dict struct {
	keys   []string
	values map[string]any
}

// NewDict returns an empty Dict.
func NewDict() *Dict {
	return &Dict{values: make(map[string]any)}
}

// Set stores v under key. A new key goes last; an existing key keeps its
// position.
func (d *Dict) Set(key string, v any) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// Get returns the value under key.
func (d *Dict) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Has reports whether key is present.
func (d *Dict) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string { return append([]string(nil), d.keys...) }

// Len returns the number of keys.
func (d *Dict) Len() int { return len(d.keys) }

// Map returns an unordered copy.
func (d *Dict) Map() map[string]any {
	out := make(map[string]any, len(d.values))
	for k, v := range d.values {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the keys in insertion order.
func (d *Dict) MarshalJSON() ([]byte, error) {
	buf := json.GetBuffer()
	defer json.PutBuffer(buf)

	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(d.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// MarshalYAML encodes the keys in insertion order.
func (d *Dict) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range d.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valNode := &yaml.Node{}
		if err := valNode.Encode(d.values[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}
