// Package ingest turns raw serial chunks into text events and numeric
// samples and publishes them onto the hand-off queues.
package ingest

// Fragment is one token of a split chunk: either line content or a line
// separator. Separators are kept so line boundaries stay visible to the
// caller.
type Fragment struct {
	Text string
	Sep  bool
}

// SplitLines splits a chunk on line-ending boundaries, recognizing
// "\r\n", "\n" and "\r". Separators appear as their own fragments. A
// trailing partial line is returned as-is; chunks are never reassembled
// across calls.
func SplitLines(chunk string) []Fragment {
	var frags []Fragment
	start := 0
	i := 0
	for i < len(chunk) {
		c := chunk[i]
		if c != '\n' && c != '\r' {
			i++
			continue
		}
		if i > start {
			frags = append(frags, Fragment{Text: chunk[start:i]})
		}
		sepEnd := i + 1
		if c == '\r' && sepEnd < len(chunk) && chunk[sepEnd] == '\n' {
			sepEnd++
		}
		frags = append(frags, Fragment{Text: chunk[i:sepEnd], Sep: true})
		i = sepEnd
		start = sepEnd
	}
	if start < len(chunk) {
		frags = append(frags, Fragment{Text: chunk[start:]})
	}
	return frags
}

// LineEnding selects the suffix appended to outgoing writes.
type LineEnding int

const (
	EndNone LineEnding = iota
	EndLF
	EndCR
	EndCRLF
)

// Suffix returns the bytes appended after an outgoing payload.
func (e LineEnding) Suffix() string {
	switch e {
	case EndLF:
		return "\n"
	case EndCR:
		return "\r"
	case EndCRLF:
		return "\r\n"
	default:
		return ""
	}
}

func (e LineEnding) String() string {
	switch e {
	case EndLF:
		return "LF"
	case EndCR:
		return "CR"
	case EndCRLF:
		return "CRLF"
	default:
		return "none"
	}
}
