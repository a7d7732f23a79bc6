package p12

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gopkcs12 "software.sslmate.com/src/go-pkcs12"
)

func selfSigned(t *testing.T, key crypto.Signer, parent *x509.Certificate, parentKey crypto.Signer, isCA bool) *x509.Certificate {
	t.Helper()
	serial, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:         "Apple Development: Felix Krause (ABCDE12345)",
			OrganizationalUnit: []string{"ABCDE12345"},
			Organization:       []string{"Felix Krause"},
			Country:            []string{"US"},
			ExtraNames: []pkix.AttributeTypeAndValue{
				{Type: oidUserID, Value: "QWERTY1234"},
			},
		},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageCodeSigning},
		BasicConstraintsValid: true,
		IsCA:                  isCA,
	}
	if isCA {
		tmpl.Subject = pkix.Name{CommonName: "Match Test CA"}
		tmpl.KeyUsage |= x509.KeyUsageCertSign
	}
	if parent == nil {
		parent, parentKey = tmpl, key
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, key.Public(), parentKey)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return cert
}

func writeP12(t *testing.T, fs afero.Fs, path string, key crypto.Signer, cert *x509.Certificate, ca []*x509.Certificate, password string) {
	t.Helper()
	data, err := gopkcs12.Legacy.Encode(key, cert, ca, password)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, path, data, 0600))
}

func TestLoadRSA(t *testing.T) {
	fs := afero.NewMemMapFs()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	cert := selfSigned(t, key, nil, nil, false)
	writeP12(t, fs, "match_self_signed.p12", key, cert, nil, "")

	cred, err := Load(fs, "match_self_signed.p12")
	require.NoError(t, err)

	require.IsType(t, &x509.Certificate{}, cred.Certificate)
	require.IsType(t, &rsa.PrivateKey{}, cred.PrivateKey)
	assert.True(t, cert.Equal(cred.Certificate))
	assert.True(t, key.Equal(cred.PrivateKey))
	assert.Len(t, cred.Chain, 1)
}

func TestLoadECDSAWithChain(t *testing.T) {
	fs := afero.NewMemMapFs()
	caKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	ca := selfSigned(t, caKey, nil, nil, true)
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	leaf := selfSigned(t, key, ca, caKey, false)
	writeP12(t, fs, "chain.p12", key, leaf, []*x509.Certificate{ca}, "")

	cred, err := Load(fs, "chain.p12")
	require.NoError(t, err)

	require.IsType(t, &ecdsa.PrivateKey{}, cred.PrivateKey)
	assert.True(t, leaf.Equal(cred.Certificate))
	assert.Len(t, cred.Chain, 2)
}

func TestLoadWithPassword(t *testing.T) {
	fs := afero.NewMemMapFs()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	cert := selfSigned(t, key, nil, nil, false)
	writeP12(t, fs, "protected.p12", key, cert, nil, "s3cret")

	_, err = Load(fs, "protected.p12")
	var malformed *MalformedCredentialError
	require.True(t, errors.As(err, &malformed))

	cred, err := LoadWithPassword(fs, "protected.p12", "s3cret")
	require.NoError(t, err)
	assert.True(t, cert.Equal(cred.Certificate))
}

func TestLoadErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "corrupt.p12", []byte("this is not a pkcs12 archive"), 0600))

	_, err := Load(fs, "corrupt.p12")
	require.Error(t, err)
	var malformed *MalformedCredentialError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "corrupt.p12", malformed.Path)
	assert.Contains(t, err.Error(), "corrupt.p12")

	_, err = Load(fs, "missing.p12")
	require.Error(t, err)
	var notFound *CredentialFileNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "missing.p12", notFound.Path)
}

func TestInfo(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	cert := selfSigned(t, key, nil, nil, false)
	cred := &Credential{Certificate: cert, PrivateKey: key, Chain: []*x509.Certificate{cert}}

	info := cred.Info()
	assert.Equal(t, "Apple Development: Felix Krause (ABCDE12345)", info.CommonName)
	assert.Equal(t, "QWERTY1234", info.UserID)
	assert.Equal(t, "ABCDE12345", info.OrganizationalUnit)
	assert.Equal(t, "Felix Krause", info.Organization)
	assert.Equal(t, "US", info.Country)
	assert.Equal(t, cert.NotAfter, info.NotAfter)

	assert.True(t, cred.Valid(time.Now()))
	assert.False(t, cred.Valid(cert.NotAfter.Add(time.Second)))
	assert.False(t, cred.Valid(cert.NotBefore.Add(-time.Second)))
}

func TestLoadEncoders(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	cert := selfSigned(t, key, nil, nil, false)

	tests := []struct {
		name string
		enc  *gopkcs12.Encoder
	}{
		{"legacy rc2", gopkcs12.LegacyRC2},
		{"legacy des", gopkcs12.LegacyDES},
		{"modern", gopkcs12.Modern},
		{"modern 2023", gopkcs12.Modern2023},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			data, err := tt.enc.Encode(key, cert, nil, "")
			require.NoError(t, err)
			require.NoError(t, afero.WriteFile(fs, "identity.p12", data, 0600))

			cred, err := Load(fs, "identity.p12")
			require.NoError(t, err)
			require.IsType(t, &rsa.PrivateKey{}, cred.PrivateKey)
			assert.True(t, cert.Equal(cred.Certificate))
			assert.True(t, key.Equal(cred.PrivateKey))
		})
	}
}
