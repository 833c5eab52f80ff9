// Package splitter implements recursive character splitting: text is cut on
// the highest-priority separator that still occurs in it, oversized pieces are
// re-split on the next separator down, and the resulting fragments are merged
// back into chunks bounded by a rune budget with a configurable overlap.
package splitter

import (
	"strings"

	"github.com/oluseyi-dev/docdex/internal/core"
)

// DefaultSeparators is the priority order used when none is supplied:
// paragraph break, line break, sentence end, word boundary, then a hard cut.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Recursive splits text into chunks of at most chunkSize runes with roughly
// overlap runes carried between consecutive chunks.
type Recursive struct {
	chunkSize  int
	overlap    int
	separators []string
}

var _ core.TextSplitter = (*Recursive)(nil)

func NewRecursive(chunkSize, overlap int) *Recursive {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 10
	}
	return &Recursive{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: DefaultSeparators,
	}
}

// Split returns the ordered chunk sequence for text. Empty and
// whitespace-only input yields no chunks.
func (r *Recursive) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return r.split(text, r.separators)
}

func (r *Recursive) split(text string, separators []string) []string {
	sep, rest := pickSeparator(text, separators)

	var pieces []string
	if sep == "" {
		pieces = hardCut(text, r.chunkSize)
	} else {
		pieces = splitKeepSeparator(text, sep)
	}

	// Fragments under the budget are merged; oversized ones recurse onto the
	// next separator tier before merging.
	var chunks []string
	var pending []string
	flushPending := func() {
		if len(pending) == 0 {
			return
		}
		chunks = append(chunks, r.merge(pending)...)
		pending = nil
	}

	for _, p := range pieces {
		if runeLen(p) <= r.chunkSize {
			pending = append(pending, p)
			continue
		}
		flushPending()
		chunks = append(chunks, r.split(p, rest)...)
	}
	flushPending()
	return chunks
}

// merge joins small fragments into chunks close to (but never over) the rune
// budget, carrying an overlap-sized tail of fragments into the next chunk.
func (r *Recursive) merge(pieces []string) []string {
	var out []string
	var window []string
	total := 0

	emit := func() {
		text := strings.TrimSpace(strings.Join(window, ""))
		if text != "" {
			out = append(out, text)
		}
	}

	for _, p := range pieces {
		n := runeLen(p)
		if total+n > r.chunkSize && total > 0 {
			emit()
			// Shrink the window until the kept tail fits the overlap budget
			// and leaves room for the incoming fragment.
			for total > r.overlap || (total+n > r.chunkSize && total > 0) {
				total -= runeLen(window[0])
				window = window[1:]
			}
		}
		window = append(window, p)
		total += n
	}
	if total > 0 {
		emit()
	}
	return out
}

// pickSeparator returns the first separator present in text and the tiers
// below it. The final "" separator always matches.
func pickSeparator(text string, separators []string) (string, []string) {
	for i, sep := range separators {
		if sep == "" {
			return "", nil
		}
		if strings.Contains(text, sep) {
			return sep, separators[i+1:]
		}
	}
	return "", nil
}

// splitKeepSeparator cuts text on sep, keeping the separator attached to the
// end of each piece so merged chunks reconstruct the original text.
func splitKeepSeparator(text, sep string) []string {
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, part := range parts {
		if i < len(parts)-1 {
			part += sep
		}
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// hardCut splits text into size-rune slices; last resort when no separator
// fits.
func hardCut(text string, size int) []string {
	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}
