package domain

// Payload is a decoded request body. Presence checks look at keys, so a key
// holding an empty or null value still counts as present.
type Payload map[string]any

// Has reports whether key is present.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns the value at key when it is present and holds a string.
func (p Payload) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Str is String without the ok flag.
func (p Payload) Str(key string) string {
	s, _ := p.String(key)
	return s
}
