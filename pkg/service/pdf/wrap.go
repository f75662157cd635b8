package pdf

import "strings"

// Wrap splits a logical source line into rendered lines using greedy word
// wrap: words accumulate into a buffer until adding the next word would
// exceed maxWidth, then the buffer is flushed. Width is measured by the
// caller-supplied function so the wrap follows the active font metrics.
// Words are never dropped, reordered, or split; a single word wider than
// maxWidth occupies its own line.
func Wrap(line string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}

	var out []string
	buf := words[0]
	for _, word := range words[1:] {
		test := buf + " " + word
		if measure(test) > maxWidth {
			out = append(out, buf)
			buf = word
			continue
		}
		buf = test
	}
	return append(out, buf)
}
