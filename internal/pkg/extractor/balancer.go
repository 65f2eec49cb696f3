package extractor

// FindBalancedSpan returns the substring of text running from start
// (which must sit on an opening brace) through the matching closing
// brace, inclusive. Brace depth is only counted outside quoted literals;
// single, double and backtick quotes all open a quoted region, and a
// backslash escapes exactly the next character so an escaped quote never
// toggles quote state. Reaching the end of text before the braces
// balance returns ok == false, never an error.
func FindBalancedSpan(text string, start int) (span string, ok bool) {
	if start < 0 || start >= len(text) || text[start] != '{' {
		return "", false
	}

	var (
		depth   int
		quote   byte
		escaped bool
	)

	for i := start; i < len(text); i++ {
		c := text[i]

		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}
