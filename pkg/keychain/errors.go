package keychain

import "fmt"

// KeychainNotFoundError is returned when no keychain file could be located
// for the given reference.
type KeychainNotFoundError struct {
	Reference string
}

func (e *KeychainNotFoundError) Error() string {
	return fmt.Sprintf("Could not locate the provided keychain '%s'. Please provide a keychain name in ~/Library/Keychains or an absolute path to an existing keychain", e.Reference)
}

// CredentialFileNotFoundError is returned when the certificate, identity or
// PKCS#12 file to operate on does not exist.
type CredentialFileNotFoundError struct {
	Path string
}

func (e *CredentialFileNotFoundError) Error() string {
	return fmt.Sprintf("could not find file '%s'", e.Path)
}

// ImportFailedError wraps a failed `security import` run together with the
// output the tool produced.
type ImportFailedError struct {
	Path     string
	Keychain string
	Output   string
	Err      error
}

func (e *ImportFailedError) Error() string {
	return fmt.Sprintf("security import of %s into %s failed: %v\nOutput: %s", e.Path, e.Keychain, e.Err, e.Output)
}

func (e *ImportFailedError) Unwrap() error { return e.Err }
