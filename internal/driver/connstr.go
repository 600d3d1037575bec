package driver

import (
	"fmt"
	"strings"
)

// ParseConnectionString splits "key=value;key=value" into a parameter map.
// Keys are lower cased, values are kept as is. Empty segments are skipped.
func ParseConnectionString(s string) (map[string]string, error) {
	params := map[string]string{}
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrConnectionString, part)
		}
		params[key] = strings.TrimSpace(value)
	}
	return params, nil
}

func requireParams(params map[string]string, keys ...string) error {
	for _, k := range keys {
		if params[k] == "" {
			return fmt.Errorf("%w: %s", ErrMissingParam, k)
		}
	}
	return nil
}
