package cmds

// Arguments maps option and token names to parsed values. Keys are either
// literal command tokens ("node", "ssh") holding true, or flag names in
// "--name" form holding a bool, string or []string. An absent key means the
// option was not given.
type Arguments map[string]any

// Truthy reports whether key is present with a value that selects it:
// true, a non-empty string or a non-empty list.
func (a Arguments) Truthy(key string) bool {
	switch v := a[key].(type) {
	case bool:
		return v
	case string:
		return v != ""
	case []string:
		return len(v) > 0
	case nil:
		return false
	}
	return true
}

// Bool returns the boolean value of key, or false.
func (a Arguments) Bool(key string) bool {
	v, _ := a[key].(bool)
	return v
}

// String returns the string value of key, or "".
func (a Arguments) String(key string) string {
	v, _ := a[key].(string)
	return v
}

// Strings returns the list value of key, or nil.
func (a Arguments) Strings(key string) []string {
	v, _ := a[key].([]string)
	return v
}

// Subset returns a copy holding only the listed keys that are present.
func (a Arguments) Subset(keys []string) Arguments {
	out := make(Arguments, len(keys))
	for _, k := range keys {
		if v, ok := a[k]; ok {
			out[k] = v
		}
	}
	return out
}
