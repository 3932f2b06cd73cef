package prompt

import "strings"

// Complete returns the candidates starting with prefix, or every candidate when none match.
func Complete(prefix string, candidates []string) []string {
	var hits []string
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) {
			hits = append(hits, c)
		}
	}
	if len(hits) == 0 {
		return candidates
	}
	return hits
}

// completer adapts Complete to readline's AutoCompleter
type completer struct {
	candidates []string
}

// Do implements readline.AutoCompleter. Matching candidates are offered as suffixes of
// the typed text; non-matching ones are listed whole.
func (c completer) Do(line []rune, pos int) ([][]rune, int) {
	prefix := string(line[:pos])
	var out [][]rune
	for _, cand := range Complete(prefix, c.candidates) {
		if strings.HasPrefix(cand, prefix) {
			out = append(out, []rune(cand[len(prefix):]))
		} else {
			out = append(out, []rune(cand))
		}
	}
	return out, len([]rune(prefix))
}

// IsYes reports whether an answer means yes ("y" or "yes", any case)
func IsYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
