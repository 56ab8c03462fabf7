//go:build !darwin

package crypto

import "fmt"

// PassphraseFromKeychain is unavailable off macOS; callers fall back to
// the passphrase environment variable.
func PassphraseFromKeychain(service, account string) (string, error) {
	return "", fmt.Errorf("keychain access is only supported on macOS")
}
