package query

import "strings"

// Keys carrying query-language operators must never reach the store:
// a leading '$' selects an operator, a '.' addresses a nested field path.
const operatorPrefix = "$"

// SafeKey reports whether a filter key is free of operator syntax
func SafeKey(key string) bool {
	return !strings.HasPrefix(key, operatorPrefix) && !strings.Contains(key, ".")
}

// Sanitize recursively removes operator-injection keys from an arbitrary
// decoded value graph (maps and slices included). The value is modified
// in place and also returned for convenience.
func Sanitize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, nested := range v {
			if !SafeKey(key) {
				delete(v, key)
				continue
			}
			v[key] = Sanitize(nested)
		}
	case []any:
		for i, nested := range v {
			v[i] = Sanitize(nested)
		}
	}
	return value
}

// SanitizeValues removes operator-injection keys from flat URL query
// values (the url.Values form used by list endpoints)
func SanitizeValues(values map[string][]string) {
	for key := range values {
		if !SafeKey(key) {
			delete(values, key)
		}
	}
}
