package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	errNoTerminal         = errors.New("stdin is not a terminal")
	errPassphraseMismatch = errors.New("passphrases do not match")
)

// promptPassphrase asks twice without echo. It returns errNoTerminal when
// stdin cannot be switched to no-echo mode.
func promptPassphrase(stdin *os.File, out io.Writer) (string, error) {
	fmt.Fprint(out, "Household passphrase: ")
	first, err := readPassphraseNoEcho(stdin)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}

	fmt.Fprint(out, "Repeat passphrase: ")
	second, err := readPassphraseNoEcho(stdin)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errPassphraseMismatch
	}
	return first, nil
}
