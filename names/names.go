// Package names turns the raw extraction response into a clean list of
// distinct attendee names. The input is untrusted free text from a hosted
// model; the only shape assumed is "one candidate name per line".
package names

import "strings"

// roleMarkers are trailing annotations meeting clients append to display
// names. The model is asked to remove them, but the parser does not trust it.
var roleMarkers = map[string]bool{
	"host":    true,
	"co-host": true,
	"cohost":  true,
	"me":      true,
	"guest":   true,
	"you":     true,
	"ホスト":     true,
	"共同ホスト":   true,
	"自分":      true,
	"ゲスト":     true,
}

const minNameRunes = 2

// Normalize parses raw model output into trimmed, deduplicated names,
// preserving first-seen order. Empty lines and entries shorter than two
// runes are dropped. Normalize is idempotent on its own output.
func Normalize(raw string) []string {
	seen := make(map[string]bool)
	var out []string

	for _, line := range strings.Split(raw, "\n") {
		name := Clean(line)
		if name == "" {
			continue
		}
		if len([]rune(name)) < minNameRunes {
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Occurrences is Normalize without deduplication: every surviving line is
// returned, duplicates included. Used by the per-occurrence count policy.
func Occurrences(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		name := Clean(line)
		if name == "" {
			continue
		}
		if len([]rune(name)) < minNameRunes {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Clean normalizes a single candidate line: trims whitespace, collapses
// internal runs of whitespace, and strips trailing role markers.
func Clean(line string) string {
	name := strings.TrimSpace(line)
	name = strings.Join(strings.Fields(name), " ")

	for {
		stripped := stripRoleSuffix(name)
		if stripped == name {
			break
		}
		name = strings.TrimSpace(stripped)
	}
	return name
}

func stripRoleSuffix(name string) string {
	for _, pair := range [][2]string{{"(", ")"}, {"（", "）"}} {
		open, closing := pair[0], pair[1]
		if !strings.HasSuffix(name, closing) {
			continue
		}
		i := strings.LastIndex(name, open)
		if i < 0 {
			continue
		}
		inner := name[i+len(open) : len(name)-len(closing)]
		if roleMarkers[strings.ToLower(strings.TrimSpace(inner))] {
			return name[:i]
		}
	}
	return name
}
