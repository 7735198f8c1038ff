// Package security generates the random values the CLI hands out: signing
// secrets for the server and passphrases for new households.
package security

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	SecretKeyLength = 48

	secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// No 0/O or 1/l/I so a passphrase read off a screen is typed correctly.
	passphraseAlphabet = "abcdefghijkmnpqrstuvwxyz23456789"
	passphraseGroups   = 4
	passphraseGroupLen = 5
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// RandomString draws length characters uniformly from alphabet using
// crypto/rand.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if alphabet == "" {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}
	return string(value), nil
}

// GenerateSecretKey returns a value suitable for SECRET_KEY.
func GenerateSecretKey() (string, error) {
	return RandomString(SecretKeyLength, secretAlphabet)
}

// GeneratePassphrase returns grouped lowercase characters such as
// "k3fma-7xq2p-hw9rd-u4cne".
func GeneratePassphrase() (string, error) {
	groups := make([]string, 0, passphraseGroups)
	for i := 0; i < passphraseGroups; i++ {
		group, err := RandomString(passphraseGroupLen, passphraseAlphabet)
		if err != nil {
			return "", err
		}
		groups = append(groups, group)
	}
	return strings.Join(groups, "-"), nil
}
