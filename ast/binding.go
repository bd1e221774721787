package ast

// Attr is one output attribute. A Boolean attribute renders without a value.
type Attr struct {
	Key     string `json:"key"`
	Value   string `json:"value,omitempty"`
	Boolean bool   `json:"boolean,omitempty"`
}

// Attrs is an ordered attribute list with unique keys.
type Attrs []Attr

// Set stores a string attribute, replacing an existing key in place.
func (as *Attrs) Set(key, value string) {
	as.put(Attr{Key: key, Value: value})
}

// SetBool stores a boolean attribute. False removes the key.
func (as *Attrs) SetBool(key string, on bool) {
	if !on {
		as.Del(key)
		return
	}
	as.put(Attr{Key: key, Boolean: true})
}

func (as *Attrs) put(a Attr) {
	for i := range *as {
		if (*as)[i].Key == a.Key {
			(*as)[i] = a
			return
		}
	}
	*as = append(*as, a)
}

// Get returns the value of key.
func (as Attrs) Get(key string) (string, bool) {
	for _, a := range as {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Del removes key.
func (as *Attrs) Del(key string) {
	out := (*as)[:0]
	for _, a := range *as {
		if a.Key != key {
			out = append(out, a)
		}
	}
	*as = out
}

// Binding tells a renderer how to present a node: the target element, its
// attributes, and synthetic content rendered before and after the node's
// own children.
type Binding struct {
	Element string  `json:"element"`
	Attrs   Attrs   `json:"attrs,omitempty"`
	Prefix  []*Node `json:"prefix,omitempty"`
	Suffix  []*Node `json:"suffix,omitempty"`
}

// Bind returns a binding for element with attributes given as key/value pairs.
func Bind(element string, kv ...string) *Binding {
	b := &Binding{Element: element}
	for i := 0; i+1 < len(kv); i += 2 {
		b.Attrs.Set(kv[i], kv[i+1])
	}
	return b
}

// Attr returns the value of key, or "" when absent or unbound.
func (b *Binding) Attr(key string) string {
	if b == nil {
		return ""
	}
	v, _ := b.Attrs.Get(key)
	return v
}
