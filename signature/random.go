package signature

import "math/rand"

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NonceLength is the length of generated nonce_str values.
const NonceLength = 16

// Intn is a source of uniformly distributed integers in [0, n).
// *rand.Rand satisfies it.
type Intn interface {
	Intn(n int) int
}

type globalSource struct{}

func (globalSource) Intn(n int) int {
	return rand.Intn(n)
}

// DefaultSource draws from the math/rand global source, which is safe for
// concurrent use.
var DefaultSource Intn = globalSource{}

// RandomString returns length characters drawn uniformly from letters and digits.
// Not suitable for secrets.
func RandomString(src Intn, length int) string {
	if length <= 0 {
		return ""
	}
	if src == nil {
		src = DefaultSource
	}
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = alphanumeric[src.Intn(len(alphanumeric))]
	}
	return string(buf)
}
