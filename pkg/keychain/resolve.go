// Package keychain locates macOS keychain files and imports signing
// credentials into them with the security(1) tool.
package keychain

import (
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/spf13/afero"
)

// legacySuffix is appended to keychain file names since macOS Sierra.
const legacySuffix = "-db"

// candidate builds one possible location for a keychain reference. ok is
// false when the candidate does not apply to the reference.
type candidate func(home, reference string) (path string, ok bool)

// candidates are tried in order, first existing file wins.
var candidates = []candidate{
	absolutePath,
	defaultDirectory,
	legacyDatabase,
	literalPath,
}

func absolutePath(_, reference string) (string, bool) {
	return reference, filepath.IsAbs(reference)
}

func defaultDirectory(home, reference string) (string, bool) {
	if home == "" {
		return "", false
	}
	return filepath.Join(KeychainsDir(home), reference), true
}

func legacyDatabase(home, reference string) (string, bool) {
	if home == "" {
		return "", false
	}
	return filepath.Join(KeychainsDir(home), reference+legacySuffix), true
}

func literalPath(_, reference string) (string, bool) {
	return reference, reference != ""
}

// KeychainsDir returns the per-user keychain directory below home.
func KeychainsDir(home string) string {
	return filepath.Join(home, "Library", "Keychains")
}

// Resolver maps a keychain reference (a bare name such as "login.keychain"
// or a path) to an existing keychain file.
type Resolver struct {
	fs   afero.Fs
	home string
}

// NewResolver creates a Resolver probing fs. An empty home falls back to the
// current user's home directory at resolution time.
func NewResolver(fs afero.Fs, home string) *Resolver {
	return &Resolver{fs: fs, home: home}
}

func (r *Resolver) homeDir() string {
	if r.home != "" {
		return r.home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		log.Debugf("failed to get user home directory: %v", err)
		return ""
	}
	return home
}

// Resolve returns the path of the keychain file reference names. The
// filesystem is probed on every call.
func (r *Resolver) Resolve(reference string) (string, error) {
	home := r.homeDir()
	for _, c := range candidates {
		path, ok := c(home, reference)
		if !ok {
			continue
		}
		if fileExists(r.fs, path) {
			log.Debugf("Resolved keychain %s to %s", reference, path)
			return path, nil
		}
	}
	return "", &KeychainNotFoundError{Reference: reference}
}

func fileExists(fs afero.Fs, path string) bool {
	fi, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return !fi.IsDir()
}
