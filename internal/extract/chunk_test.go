package extract_test

import (
	"strings"
	"testing"

	"github.com/miljoverk/samsvar/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(text string, max int) []string {
	var chunks []string
	for chunk := range extract.Chunk(text, max) {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func TestChunk_roundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		max  int
	}{
		{name: "empty", text: "", max: 10},
		{name: "single word", text: "tiltak", max: 10},
		{name: "exact boundary", text: "en to tre fire", max: 2},
		{name: "uneven boundary", text: "en to tre fire fem", max: 2},
		{name: "max one", text: "en to tre", max: 1},
		{name: "messy whitespace", text: "  en\tto\n\ntre  fire ", max: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			chunks := collect(tt.text, tt.max)

			// Joining all chunks with single spaces reconstructs the token sequence.
			normalized := strings.Join(strings.Fields(tt.text), " ")
			assert.Equal(t, normalized, strings.Join(chunks, " "))

			for _, chunk := range chunks {
				assert.LessOrEqual(t, len(strings.Fields(chunk)), tt.max)
			}
		})
	}
}

func TestChunk_chunkCounts(t *testing.T) {
	t.Parallel()

	words := make([]string, 7)
	for i := range words {
		words[i] = "ord"
	}
	text := strings.Join(words, " ")

	require.Len(t, collect(text, 3), 3)
	require.Len(t, collect(text, 7), 1)
	require.Len(t, collect(text, 100), 1)
	require.Empty(t, collect("", 3))
}

func TestChunk_restartable(t *testing.T) {
	t.Parallel()

	seq := extract.Chunk("en to tre fire fem seks", 2)

	var first, second []string
	for chunk := range seq {
		first = append(first, chunk)
	}
	for chunk := range seq {
		second = append(second, chunk)
	}
	require.Equal(t, first, second)
}

func TestChunk_stopEarly(t *testing.T) {
	t.Parallel()

	seq := extract.Chunk("en to tre fire fem seks", 2)
	for range seq {
		break
	}
	// The sequence stays usable after an abandoned iteration.
	require.Len(t, collect("en to tre fire fem seks", 2), 3)
}

func TestChunk_invalidMax(t *testing.T) {
	t.Parallel()

	// max below one degrades to single-token chunks instead of panicking.
	require.Len(t, collect("en to tre", 0), 3)
}
