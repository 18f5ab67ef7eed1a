package extract

import (
	"iter"
	"strings"
)

// Default chunk sizes for the two places text gets split: prompts to the model and
// extraction-stage batching of very large documents.
const (
	DefaultPromptChunkSize  = 3000
	DefaultExtractChunkSize = 7500
)

// Chunk splits text into pieces of at most max whitespace-delimited tokens. The
// returned sequence is lazy and restartable: ranging over it again re-yields the same
// chunks in the same order. Joining all chunks with single spaces reconstructs the
// original token sequence exactly.
func Chunk(text string, max int) iter.Seq[string] {
	if max < 1 {
		max = 1
	}
	return func(yield func(string) bool) {
		words := strings.Fields(text)
		for start := 0; start < len(words); start += max {
			end := min(start+max, len(words))
			if !yield(strings.Join(words[start:end], " ")) {
				return
			}
		}
	}
}
