package urlparam

import (
	"net/url"
	"strings"
)

// Values is an ordered set of query parameters with one value per key.
// The zero value is an empty set ready to use.
type Values struct {
	keys []string
	vals map[string]string
}

// NewValues creates an empty parameter set.
func NewValues() *Values {
	return &Values{vals: make(map[string]string)}
}

// ParseQuery parses a raw query string ("a=1&b=2", with or without a leading
// "?"). For repeated keys the first position and the last value win.
func ParseQuery(raw string) (*Values, error) {
	v := NewValues()
	raw = strings.TrimPrefix(raw, "?")
	for raw != "" {
		var pair string
		pair, raw, _ = strings.Cut(raw, "&")
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			return nil, err
		}
		val, err := url.QueryUnescape(value)
		if err != nil {
			return nil, err
		}
		v.Set(k, val)
	}
	return v, nil
}

// FromMap builds a parameter set from m, ordering keys alphabetically.
func FromMap(m map[string]string) *Values {
	q := make(url.Values, len(m))
	for k, val := range m {
		q.Set(k, val)
	}
	v, _ := ParseQuery(q.Encode())
	return v
}

// Get returns the value for key.
func (v *Values) Get(key string) (string, bool) {
	if v == nil || v.vals == nil {
		return "", false
	}
	val, ok := v.vals[key]
	return val, ok
}

// Has reports whether key is present.
func (v *Values) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Set sets key to value, keeping its position if it already exists.
// Unlike the read methods, Set requires a non-nil receiver.
func (v *Values) Set(key, value string) {
	if v.vals == nil {
		v.vals = make(map[string]string)
	}
	if _, ok := v.vals[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.vals[key] = value
}

// Del removes key. It is a no-op on a nil receiver.
func (v *Values) Del(key string) {
	if v == nil {
		return
	}
	if _, ok := v.vals[key]; !ok {
		return
	}
	delete(v.vals, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			return
		}
	}
}

// Keys returns the keys in order.
func (v *Values) Keys() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.keys...)
}

// Len returns the number of parameters.
func (v *Values) Len() int {
	if v == nil {
		return 0
	}
	return len(v.keys)
}

// Clone returns an independent copy.
func (v *Values) Clone() *Values {
	c := NewValues()
	if v == nil {
		return c
	}
	for _, k := range v.keys {
		c.Set(k, v.vals[k])
	}
	return c
}

// Map returns the parameters as a plain map.
func (v *Values) Map() map[string]string {
	m := make(map[string]string, v.Len())
	if v == nil {
		return m
	}
	for _, k := range v.keys {
		m[k] = v.vals[k]
	}
	return m
}

// Encode renders the set as "a=1&b=2" in insertion order.
func (v *Values) Encode() string {
	if v.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for i, k := range v.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v.vals[k]))
	}
	return b.String()
}

// String is Encode.
func (v *Values) String() string {
	return v.Encode()
}

// Target joins path and the encoded parameters as "path?query". The "?" is
// omitted when there are no parameters.
func Target(path string, params *Values) string {
	if q := params.Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

// SplitTarget splits "path?query" into its path and parsed parameters.
func SplitTarget(target string) (string, *Values, error) {
	path, query, _ := strings.Cut(target, "?")
	if i := strings.IndexByte(query, '#'); i >= 0 {
		query = query[:i]
	}
	if i := strings.IndexByte(path, '#'); i >= 0 {
		path = path[:i]
	}
	params, err := ParseQuery(query)
	if err != nil {
		return "", nil, err
	}
	return path, params, nil
}
