package ast

import (
	"bytes"
	"encoding/json"
)

// Param is one directive parameter. A bare key is a flag and reads as true.
type Param struct {
	Key   string
	Value string
	Flag  bool
}

// Params is an insertion-ordered parameter map with unique keys.
type Params []Param

// Set stores p. An existing key keeps its position and takes the new value.
func (ps *Params) Set(p Param) {
	for i := range *ps {
		if (*ps)[i].Key == p.Key {
			(*ps)[i] = p
			return
		}
	}
	*ps = append(*ps, p)
}

// Get returns the parameter named key.
func (ps Params) Get(key string) (Param, bool) {
	for _, p := range ps {
		if p.Key == key {
			return p, true
		}
	}
	return Param{}, false
}

// Has reports whether key is present.
func (ps Params) Has(key string) bool {
	_, ok := ps.Get(key)
	return ok
}

// String returns the string value of key. Flags read as "true".
func (ps Params) String(key string) string {
	p, ok := ps.Get(key)
	switch {
	case !ok:
		return ""
	case p.Flag:
		return "true"
	}
	return p.Value
}

// Bool reports whether key is a flag or carries the value "true".
func (ps Params) Bool(key string) bool {
	p, ok := ps.Get(key)
	return ok && (p.Flag || p.Value == "true")
}

// Keys returns the keys in insertion order.
func (ps Params) Keys() []string {
	keys := make([]string, len(ps))
	for i, p := range ps {
		keys[i] = p.Key
	}
	return keys
}

// MarshalJSON encodes the params as an object in insertion order. Flags
// become true, values become strings.
func (ps Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range ps {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		if p.Flag {
			buf.WriteString("true")
			continue
		}
		v, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
