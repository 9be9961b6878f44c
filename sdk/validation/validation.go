package validation

import "strings"

// Field pairs an input name with its raw value for presence checks.
type Field struct {
	Name  string
	Value string
}

// Blank reports whether s is empty once surrounding whitespace is removed.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// MissingFields returns the names of fields with blank values, in input order.
func MissingFields(fields ...Field) []string {
	var missing []string
	for _, f := range fields {
		if Blank(f.Value) {
			missing = append(missing, f.Name)
		}
	}
	return missing
}
