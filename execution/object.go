package execution

import (
	"bytes"
	"encoding/json"
)

// Object is a completed object value. It serializes its response keys in the order they were
// selected.
type Object struct {
	keys   []string
	values map[string]interface{}
}

func newObject(groups []*fieldGroup) *Object {
	o := &Object{keys: make([]string, len(groups)), values: make(map[string]interface{}, len(groups))}
	for i, group := range groups {
		o.keys[i] = group.key
	}
	return o
}

// Keys returns the response keys in selection order.
func (o *Object) Keys() []string {
	return o.keys
}

// Get returns the value of a response key.
func (o *Object) Get(key string) (interface{}, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(o.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
