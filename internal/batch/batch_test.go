package batch

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sep = "------"

func opts(limit int) Options {
	return Options{Separator: sep, Limit: limit}
}

func TestMake_SplitsAtBoundary(t *testing.T) {
	t.Parallel()

	long := []string{strings.Repeat("a", 3000), strings.Repeat("b", 3000)}
	batches := Make(long, opts(4500))
	require.Len(t, batches, 2)
	assert.Equal(t, 1, batches[0].Size())
	assert.Equal(t, 3006, batches[0].Length)
	assert.Equal(t, 1, batches[1].Size())

	short := []string{strings.Repeat("a", 1000), strings.Repeat("b", 1000)}
	batches = Make(short, opts(4500))
	require.Len(t, batches, 1)
	assert.Equal(t, 2, batches[0].Size())
	assert.Equal(t, 2012, batches[0].Length)
}

func TestMake_ExactLimitFits(t *testing.T) {
	t.Parallel()

	// 4 + 6 = 10 per text
	batches := Make([]string{"abcd", "efgh", "ijkl"}, opts(20))
	require.Len(t, batches, 2)
	assert.Equal(t, 0, batches[0].Start)
	assert.Equal(t, 2, batches[0].End)
	assert.Equal(t, 20, batches[0].Length)
	assert.Equal(t, 2, batches[1].Start)
	assert.Equal(t, 3, batches[1].End)
}

func TestMake_OversizedTextGetsOwnBatch(t *testing.T) {
	t.Parallel()

	huge := strings.Repeat("x", 100)
	batches := Make([]string{"hi", huge, "yo"}, opts(50))
	require.Len(t, batches, 3)
	assert.Equal(t, 1, batches[1].Size())
	assert.Equal(t, 106, batches[1].Length)
	assert.Equal(t, huge+"\n"+sep+"\n", batches[1].Text, "oversized text is never truncated")
}

func TestMake_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Make(nil, opts(4500)))
	assert.Empty(t, Make([]string{}, opts(4500)))
}

func TestMake_TextLayout(t *testing.T) {
	t.Parallel()

	batches := Make([]string{"Hello", "Two\nrows"}, opts(4500))
	require.Len(t, batches, 1)
	assert.Equal(t, "Hello\n------\nTwo\nrows\n------\n", batches[0].Text)
}

func TestMake_CountsCharactersNotBytes(t *testing.T) {
	t.Parallel()

	// 4 characters, 12 bytes in UTF-8
	text := "日本語だ"
	require.Equal(t, 12, len(text))

	batches := Make([]string{text, text}, opts(20))
	require.Len(t, batches, 1)
	assert.Equal(t, 20, batches[0].Length)
}

func TestMake_BoundAndOrder(t *testing.T) {
	t.Parallel()

	var texts []string
	for i := 0; i < 200; i++ {
		texts = append(texts, strings.Repeat("w", (i*37)%120))
	}
	const limit = 300

	batches := Make(texts, opts(limit))

	next := 0
	for i, b := range batches {
		assert.Equal(t, i, b.Index)
		assert.Equal(t, next, b.Start, "batches must be contiguous")
		require.Greater(t, b.End, b.Start, "batch %d is empty", i)

		sum := 0
		for _, text := range texts[b.Start:b.End] {
			sum += utf8.RuneCountInString(text) + len(sep)
		}
		assert.Equal(t, sum, b.Length)
		if b.Size() > 1 {
			assert.LessOrEqual(t, b.Length, limit, "batch %d exceeds limit", i)
		}
		next = b.End
	}
	assert.Equal(t, len(texts), next, "every text lands in exactly one batch")
}
