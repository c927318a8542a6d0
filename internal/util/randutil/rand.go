package randutil

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"
)

// Paste keys use both letter cases and digits, like the live service.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// PasteID returns a uniformly random key of length n.
func PasteID(n int) (string, error) {
	result := make([]byte, n)
	max := big.NewInt(int64(len(alphabet)))

	for i := range result {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", errors.Wrap(err, "reading crypto/rand")
		}
		result[i] = alphabet[num.Int64()]
	}
	return string(result), nil
}
