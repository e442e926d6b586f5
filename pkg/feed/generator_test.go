package feed

import (
	"encoding/hex"
	"errors"
	"iter"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asIs(s string) string { return s }

// seqOf yields the given values, then err if not nil
func seqOf[V any](err error, values ...V) iter.Seq2[V, error] {
	return func(yield func(V, error) bool) {
		for _, v := range values {
			if !yield(v, nil) {
				return
			}
		}
		if err != nil {
			var zero V
			yield(zero, err)
		}
	}
}

func TestAssemble(t *testing.T) {
	t.Run("one value per line", func(t *testing.T) {
		body, err := Assemble(seqOf(nil, "a.example", "b.example"), asIs)
		require.NoError(t, err)
		assert.Equal(t, "a.example\nb.example\n", body)
	})

	t.Run("empty", func(t *testing.T) {
		body, err := Assemble(seqOf[string](nil), asIs)
		require.NoError(t, err)
		assert.Empty(t, body)
	})

	t.Run("formats values", func(t *testing.T) {
		body, err := Assemble(seqOf(nil, netip.MustParsePrefix("10.0.0.0/24"), netip.MustParsePrefix("::1/128")),
			netip.Prefix.String)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.0/24\n::1/128\n", body)
	})

	t.Run("error discards partial body", func(t *testing.T) {
		boom := errors.New("connection reset")
		body, err := Assemble(seqOf(boom, "a", "b"), asIs)
		require.ErrorIs(t, err, boom)
		assert.Empty(t, body)
	})
}

func TestDigest(t *testing.T) {
	d := Digest("10.0.0.0/24\n")
	assert.Len(t, d, 16)
	assert.Equal(t, d, Digest("10.0.0.0/24\n"), "same body, same digest")
	assert.NotEqual(t, d, Digest("10.0.0.0/25\n"))
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", hex.EncodeToString(Digest("")))
}
