package ingest

import (
	"strconv"
	"strings"
)

// ParseSample attempts to read a line as a numeric sample. Whitespace is
// trimmed first. Parsing uses the invariant decimal format ('.' as the
// decimal separator, optional sign and exponent) regardless of locale.
// Non-numeric lines are not an error; they are simply not samples.
func ParseSample(line string) (float64, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
