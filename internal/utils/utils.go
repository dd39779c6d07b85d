package utils

// TruncateString shortens a string to max runes, appending an ellipsis
// when anything was cut.
func TruncateString(s string, max int) string {
	if max <= 3 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
