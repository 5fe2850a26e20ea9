package util

// TruncateString truncates a string to maxRunes characters (rune-based, not
// byte-based). If truncated, appends "..." to the result.
func TruncateString(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// Longest returns the longer of two strings, preferring the first on ties.
func Longest(a, b string) string {
	if len(b) > len(a) {
		return b
	}
	return a
}
