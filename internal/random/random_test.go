package random_test

import (
	"testing"

	"github.com/miljoverk/samsvar/internal/random"
	"github.com/stretchr/testify/require"
)

func TestLetters(t *testing.T) {
	t.Parallel()

	s, err := random.Letters(20)
	require.NoError(t, err)
	require.Len(t, s, 20)

	other, err := random.Letters(20)
	require.NoError(t, err)
	require.NotEqual(t, s, other)
}
