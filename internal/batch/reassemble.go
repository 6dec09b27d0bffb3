package batch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAlignment marks a translated batch whose segments do not match its texts one to one.
var ErrAlignment = errors.New("translated segment count does not match batch")

// AlignmentError describes a count mismatch for one batch
type AlignmentError struct {
	Batch int
	Start int
	End   int
	Want  int
	Got   int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("batch %d (lines %d-%d): expected %d translated segments, got %d",
		e.Batch, e.Start+1, e.End, e.Want, e.Got)
}

func (e *AlignmentError) Unwrap() error {
	return ErrAlignment
}

// Policy decides what happens on a count mismatch
type Policy string

const (
	// PolicyStrict fails the batch on any mismatch
	PolicyStrict Policy = "strict"
	// PolicyLenient maps segments by position inside the batch, keeps the
	// original text for missing ones and drops extras
	PolicyLenient Policy = "lenient"
)

// ParsePolicy maps a config value to a Policy, defaulting to strict
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyStrict:
		return PolicyStrict, nil
	case PolicyLenient:
		return PolicyLenient, nil
	default:
		return "", fmt.Errorf("unknown alignment policy %q", s)
	}
}

// Split cuts a translated blob on the separator. Only the split artifact after
// the final separator is discarded, and only when it is blank; a segment is
// never dropped because of its content. Every segment is trimmed.
func Split(blob, separator string) []string {
	parts := strings.Split(blob, separator)
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

// Result is the outcome of reassembling one file
type Result struct {
	Texts      []string          // translated texts, one per original text
	Mismatches []*AlignmentError // tolerated mismatches under PolicyLenient
}

// Reassemble maps translated blobs back onto texts. blobs[i] must be the
// translation of batches[i]. texts is not modified.
func Reassemble(texts []string, batches []Batch, blobs []string, separator string, policy Policy) (*Result, error) {
	if len(blobs) != len(batches) {
		return nil, fmt.Errorf("got %d translated batches for %d batches", len(blobs), len(batches))
	}

	out := append([]string(nil), texts...)
	result := &Result{Texts: out}

	for i, b := range batches {
		if b.Start < 0 || b.End > len(texts) || b.Start > b.End {
			return nil, fmt.Errorf("batch %d range [%d,%d) outside %d texts", b.Index, b.Start, b.End, len(texts))
		}

		segments := Split(blobs[i], separator)
		if len(segments) != b.Size() {
			mismatch := &AlignmentError{
				Batch: b.Index,
				Start: b.Start,
				End:   b.End,
				Want:  b.Size(),
				Got:   len(segments),
			}
			if policy != PolicyLenient {
				return nil, mismatch
			}
			result.Mismatches = append(result.Mismatches, mismatch)
		}

		for j := 0; j < b.Size() && j < len(segments); j++ {
			out[b.Start+j] = segments[j]
		}
	}

	return result, nil
}
