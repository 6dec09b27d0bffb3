// Package batch packs caption texts into length-bounded translation requests
// and maps translated requests back onto the captions they came from.
package batch

import (
	"strings"
	"unicode/utf8"
)

// Options controls how texts are packed.
type Options struct {
	// Separator delimits texts inside a batch. It must survive translation untouched.
	Separator string
	// Limit bounds the accumulated length of a batch, counting every text plus
	// one separator, in characters.
	Limit int
}

// Batch is a contiguous run of texts sent as one translation request.
type Batch struct {
	Index  int    // position among the batches of one file
	Start  int    // first text index, inclusive
	End    int    // last text index, exclusive
	Length int    // accumulated text + separator length
	Text   string // submitted content
}

// Size returns the number of texts in the batch
func (b Batch) Size() int {
	return b.End - b.Start
}

// Make packs texts in order into the fewest batches whose Length stays within
// opts.Limit. A batch is closed before a text that would overflow it, unless
// the batch is still empty: a text longer than the limit gets a batch of its
// own and is never split. No texts means no batches.
func Make(texts []string, opts Options) []Batch {
	if len(texts) == 0 {
		return nil
	}

	sepLen := utf8.RuneCountInString(opts.Separator)

	var batches []Batch
	var content strings.Builder
	current := Batch{}

	flush := func(end int) {
		current.End = end
		current.Text = content.String()
		batches = append(batches, current)
		content.Reset()
	}

	for i, text := range texts {
		delta := utf8.RuneCountInString(text) + sepLen

		if current.Length+delta > opts.Limit && i > current.Start {
			flush(i)
			current = Batch{Index: len(batches), Start: i}
		}

		content.WriteString(text)
		content.WriteString("\n")
		content.WriteString(opts.Separator)
		content.WriteString("\n")
		current.Length += delta
	}
	flush(len(texts))

	return batches
}
