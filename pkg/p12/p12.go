// Package p12 loads PKCS#12 (.p12) signing identities.
package p12

import (
	"crypto"
	"crypto/x509"
	"encoding/asn1"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/blacktop/match/pkg/keychain"
	"github.com/spf13/afero"
	"software.sslmate.com/src/go-pkcs12"
)

// CredentialFileNotFoundError is returned when the .p12 file does not exist.
type CredentialFileNotFoundError = keychain.CredentialFileNotFoundError

// MalformedCredentialError is returned when the file is not a PKCS#12
// archive that can be decoded with the given password.
type MalformedCredentialError struct {
	Path string
	Err  error
}

func (e *MalformedCredentialError) Error() string {
	return fmt.Sprintf("failed to parse pkcs12 file %s: %v", e.Path, e.Err)
}

func (e *MalformedCredentialError) Unwrap() error { return e.Err }

// Credential is a decoded PKCS#12 identity.
type Credential struct {
	Certificate *x509.Certificate
	PrivateKey  crypto.PrivateKey
	// Chain holds every certificate in the archive, Certificate included.
	Chain []*x509.Certificate
}

// Load reads the PKCS#12 file at path. Exports made for keychain import
// carry no password, so the empty password is used.
func Load(fs afero.Fs, path string) (*Credential, error) {
	return LoadWithPassword(fs, path, "")
}

// LoadWithPassword reads the PKCS#12 file at path protected by password.
func LoadWithPassword(fs afero.Fs, path, password string) (*Credential, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &CredentialFileNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read certificate file %s: %w", path, err)
	}
	cred, err := Decode(data, password)
	if err != nil {
		return nil, &MalformedCredentialError{Path: path, Err: err}
	}
	return cred, nil
}

// Decode parses PKCS#12 data, legacy (RC2/3DES, SHA-1 MAC) and modern
// (PBES2/AES, SHA-256 MAC) alike. The certificate matching the private key
// becomes the Credential's Certificate.
func Decode(data []byte, password string) (*Credential, error) {
	key, leaf, caCerts, err := pkcs12.DecodeChain(data, password)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, errors.New("no private key found")
	}
	if leaf == nil {
		return nil, errors.New("no certificate found")
	}

	cred := &Credential{
		Certificate: leaf,
		PrivateKey:  key,
		Chain:       append([]*x509.Certificate{leaf}, caCerts...),
	}
	if !matchesKey(leaf, key) {
		for _, cert := range caCerts {
			if matchesKey(cert, key) {
				cred.Certificate = cert
				break
			}
		}
	}

	return cred, nil
}

func matchesKey(cert *x509.Certificate, key crypto.PrivateKey) bool {
	signer, ok := key.(crypto.Signer)
	if !ok {
		return false
	}
	pub, ok := cert.PublicKey.(interface{ Equal(crypto.PublicKey) bool })
	return ok && pub.Equal(signer.Public())
}

var oidUserID = asn1.ObjectIdentifier{0, 9, 2342, 19200300, 100, 1, 1}

// Info summarizes a signing certificate's subject and validity window.
type Info struct {
	UserID             string
	CommonName         string
	OrganizationalUnit string
	Organization       string
	Country            string
	NotBefore          time.Time
	NotAfter           time.Time
}

// Info returns the summary of the credential's certificate.
func (c *Credential) Info() Info {
	cert := c.Certificate
	info := Info{
		CommonName: cert.Subject.CommonName,
		NotBefore:  cert.NotBefore,
		NotAfter:   cert.NotAfter,
	}
	if len(cert.Subject.OrganizationalUnit) > 0 {
		info.OrganizationalUnit = cert.Subject.OrganizationalUnit[0]
	}
	if len(cert.Subject.Organization) > 0 {
		info.Organization = cert.Subject.Organization[0]
	}
	if len(cert.Subject.Country) > 0 {
		info.Country = cert.Subject.Country[0]
	}
	for _, name := range cert.Subject.Names {
		if name.Type.Equal(oidUserID) {
			if s, ok := name.Value.(string); ok {
				info.UserID = s
			}
		}
	}
	return info
}

// Valid reports whether now falls inside the certificate's validity window.
func (c *Credential) Valid(now time.Time) bool {
	return !now.Before(c.Certificate.NotBefore) && !now.After(c.Certificate.NotAfter)
}
