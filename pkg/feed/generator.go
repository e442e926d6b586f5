package feed

import (
	"crypto/md5" //nolint:gosec // digest is a content fingerprint, not a security boundary
	"fmt"
	"iter"
	"strings"
)

// Assemble drains values into a plaintext body, one formatted value per line,
// each line terminated by "\n". The first error aborts assembly and no partial body is returned.
func Assemble[V any](values iter.Seq2[V, error], format func(V) string) (string, error) {
	var sb strings.Builder
	for v, err := range values {
		if err != nil {
			return "", fmt.Errorf("assemble body: %w", err)
		}
		sb.WriteString(format(v))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// Digest returns the 128-bit MD5 fingerprint of a rendered body
func Digest(body string) []byte {
	sum := md5.Sum([]byte(body)) //nolint:gosec // see import
	return sum[:]
}
