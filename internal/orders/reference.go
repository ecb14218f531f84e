package orders

import (
	"crypto/rand"
	"errors"
	"fmt"
)

const (
	referencePrefix   = "ord_"
	referenceLength   = 10
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// MaxReferenceAttempts bounds the generate-and-check loop in order creation.
// With a 62^10 keyspace this many consecutive collisions means the random
// source or the store is broken, not bad luck.
const MaxReferenceAttempts = 10

// ErrReferenceExhausted is returned when reference generation keeps colliding
// past MaxReferenceAttempts.
var ErrReferenceExhausted = errors.New("orders: reference generation attempts exhausted")

// NewReference returns a candidate order reference, "ord_" followed by ten
// random alphanumerics. Uniqueness is only guaranteed by the store's
// conditional put; callers treat ExistsByReference as a cheap pre-check.
func NewReference() (string, error) {
	buf := make([]byte, referenceLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}
	return referencePrefix + string(buf), nil
}
