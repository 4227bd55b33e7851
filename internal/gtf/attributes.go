package gtf

import (
	"fmt"
	"strings"
)

// ParseAttributes parses a GTF attribute column.
// Format: key "value"; key "value"; ...
//
// Values spanning several whitespace-separated tokens are rejoined with a
// single space. Empty segments, including the one after a trailing
// semicolon, are ignored. A key without a value is a FormatError.
// The returned keys are in order of first appearance; duplicate keys keep the
// last value.
func ParseAttributes(attrStr string) (map[string]string, []string, error) {
	attrs := make(map[string]string)
	var keys []string

	for _, part := range strings.Split(attrStr, ";") {
		tokens := strings.Fields(part)
		if len(tokens) == 0 {
			continue
		}
		if len(tokens) == 1 {
			return nil, nil, &FormatError{
				Message: fmt.Sprintf("attribute %q has no value", tokens[0]),
			}
		}

		key := tokens[0]
		value := strings.Trim(strings.Join(tokens[1:], " "), "\"")

		if _, seen := attrs[key]; !seen {
			keys = append(keys, key)
		}
		attrs[key] = value
	}

	return attrs, keys, nil
}

// FormatAttributes serializes attributes in the given key order, producing
// `key "value";` pairs separated by a single space.
// Keys absent from attrs are skipped.
func FormatAttributes(attrs map[string]string, keys []string) string {
	var b strings.Builder
	for _, k := range keys {
		v, ok := attrs[k]
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s \"%s\";", k, v)
	}
	return b.String()
}
