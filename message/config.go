package message

// Config carries per-request engine options. Keys are defined by the
// components that consume them (for example the redirect subscriber
// and the save-to-disk listener); values are read back through the
// typed accessors, which report false when a key is absent or holds a
// different type.
type Config map[string]any

// Value returns the raw entry for key.
func (c Config) Value(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// Bool returns the entry for key when it holds a bool.
func (c Config) Bool(key string) (bool, bool) {
	v, ok := c[key].(bool)
	return v, ok
}

// Int returns the entry for key when it holds an int.
func (c Config) Int(key string) (int, bool) {
	v, ok := c[key].(int)
	return v, ok
}

// String returns the entry for key when it holds a string.
func (c Config) String(key string) (string, bool) {
	v, ok := c[key].(string)
	return v, ok
}
