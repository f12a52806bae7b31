package canvas

import "strings"

// Wrap performs greedy line breaking of text using measure for widths.
// Explicit newlines always break. A word wider than maxWidth is split
// between runes so that no line exceeds the limit unless a single rune does.
func Wrap(text string, maxWidth float64, measure func(string) float64) []string {
	if text == "" {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, w := range words {
			candidate := w
			if line != "" {
				candidate = line + " " + w
			}
			if measure(candidate) <= maxWidth {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			if measure(w) <= maxWidth {
				line = w
				continue
			}
			pieces := splitRunes(w, maxWidth, measure)
			lines = append(lines, pieces[:len(pieces)-1]...)
			line = pieces[len(pieces)-1]
		}
		lines = append(lines, line)
	}
	return lines
}

func splitRunes(word string, maxWidth float64, measure func(string) float64) []string {
	var out []string
	cur := ""
	for _, r := range word {
		next := cur + string(r)
		if cur != "" && measure(next) > maxWidth {
			out = append(out, cur)
			next = string(r)
		}
		cur = next
	}
	return append(out, cur)
}
