package usecase

import (
	"fmt"
	"strings"
)

// SearchDescriptors returns the non-blank lines of content containing
// keyword, case-insensitively, in file order and otherwise untouched.
func SearchDescriptors(content, keyword string) []string {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Contains(strings.ToLower(line), kw) {
			out = append(out, line)
		}
	}
	return out
}

func (d *Dispatcher) formatMatches(keyword string, matches []string) string {
	switch len(matches) {
	case 0:
		return d.t.T("descriptors.no_match", keyword)
	case 1:
		return matches[0]
	}
	var b strings.Builder
	for i, m := range matches {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, m)
	}
	return b.String()
}
