package services

import (
	"strings"
	"unicode/utf8"
)

const (
	MinPassphraseLength = 8
	// bcrypt ignores input past 72 bytes.
	maxPassphraseBytes     = 72
	MaxHouseholdNameLength = 80
)

func ValidatePassphrase(passphrase string) error {
	if utf8.RuneCountInString(passphrase) < MinPassphraseLength || len(passphrase) > maxPassphraseBytes {
		return ErrInvalidPassphrase
	}
	if strings.TrimSpace(passphrase) == "" {
		return ErrInvalidPassphrase
	}
	return nil
}

func NormalizeHouseholdName(name string) (string, error) {
	normalized := strings.Join(strings.Fields(name), " ")
	if normalized == "" || utf8.RuneCountInString(normalized) > MaxHouseholdNameLength {
		return "", ErrInvalidHouseholdName
	}
	return normalized, nil
}
