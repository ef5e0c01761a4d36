package model

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Payload is a raw tagged JSON document as returned by a data source. Its tags are read without
// decoding the whole document so the dispatch table can pick the concrete type first.
type Payload []byte

var null = []byte("null")

// IsNull reports whether p is absent, which data sources use to signal "not found".
func (p Payload) IsNull() bool {
	return len(bytes.TrimSpace(p)) == 0 || bytes.Equal(bytes.TrimSpace(p), null)
}

func (p Payload) Valid() bool {
	return gjson.ValidBytes(p)
}

func (p Payload) Discriminator() Discriminator {
	return Discriminator(gjson.GetBytes(p, "discriminator").String())
}

// Type is the entity type tag of entity and entity revision payloads.
func (p Payload) Type() string {
	return gjson.GetBytes(p, "type").String()
}

// Typename is the tag notification event payloads are keyed by.
func (p Payload) Typename() string {
	return gjson.GetBytes(p, "__typename").String()
}

func (p Payload) ID() int {
	return int(gjson.GetBytes(p, "id").Int())
}

func (p Payload) MarshalJSON() ([]byte, error) {
	if p == nil {
		return null, nil
	}
	return p, nil
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	*p = append((*p)[0:0], data...)
	return nil
}

var (
	_ json.Marshaler   = Payload(nil)
	_ json.Unmarshaler = (*Payload)(nil)
)
