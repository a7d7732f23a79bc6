package keychain

import (
	"github.com/apex/log"
	"github.com/spf13/afero"
)

// Importer adds certificates and identities to a keychain.
type Importer struct {
	fs       afero.Fs
	resolver *Resolver
	runner   Runner
}

// NewImporter creates an Importer. The resolver decides which keychain file
// receives the item, runner executes the security(1) calls.
func NewImporter(fs afero.Fs, resolver *Resolver, runner Runner) *Importer {
	return &Importer{
		fs:       fs,
		resolver: resolver,
		runner:   runner,
	}
}

// Import adds the certificate or identity at itemPath to the keychain named
// by reference and then updates the key partition list so codesign can use
// the key without prompting.
func (i *Importer) Import(itemPath, reference string) error {
	keychainPath, err := i.resolver.Resolve(reference)
	if err != nil {
		return err
	}
	if !fileExists(i.fs, itemPath) {
		return &CredentialFileNotFoundError{Path: itemPath}
	}

	log.WithFields(log.Fields{
		"item":     itemPath,
		"keychain": keychainPath,
	}).Info("Importing into keychain")

	cmd := ImportCommand(itemPath, keychainPath)
	out, err := i.runner.Run(cmd)
	if err != nil {
		return &ImportFailedError{
			Path:     itemPath,
			Keychain: keychainPath,
			Output:   string(out),
			Err:      err,
		}
	}
	log.Debugf("Security import output: %s", string(out))

	PartitionListCommand(keychainPath).RunIgnoringFailure(i.runner)

	return nil
}
