package certificates

import (
	"context"
	"crypto/x509"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockObjectStore implements ObjectStore for testing.
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) GetObject(_ context.Context, key string) (map[string]string, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	result, ok := args.Get(0).(map[string]string)
	if !ok {
		return nil, args.Error(1)
	}

	return result, args.Error(1)
}

func selfSignedPEM(t *testing.T) (certPEM, keyPEM string) {
	t.Helper()

	c, err := SelfSigned("sip2.example.org")
	require.NoError(t, err)

	return EncodePEM(c)
}

func TestSelfSigned(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cn   string
		dns  []string
		ips  int
	}{
		{name: "host name", cn: "sip2.example.org", dns: []string{"sip2.example.org"}},
		{name: "ip address", cn: "127.0.0.1", ips: 1},
		{name: "default", cn: "", dns: []string{"localhost"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c, err := SelfSigned(tc.cn)
			require.NoError(t, err)

			leaf, err := x509.ParseCertificate(c.Certificate[0])
			require.NoError(t, err)

			assert.Equal(t, tc.dns, leaf.DNSNames)
			assert.Len(t, leaf.IPAddresses, tc.ips)
			assert.Contains(t, leaf.ExtKeyUsage, x509.ExtKeyUsageServerAuth)
		})
	}
}

func TestParseFromPEM(t *testing.T) {
	t.Parallel()

	certPEM, keyPEM := selfSignedPEM(t)

	c, err := ParseFromPEM(certPEM, keyPEM)
	require.NoError(t, err)
	assert.Len(t, c.Certificate, 1)

	_, err = ParseFromPEM("invalid", keyPEM)
	require.ErrorIs(t, err, ErrDecodeCertificatePEM)

	_, err = ParseFromPEM(certPEM, "invalid")
	require.ErrorIs(t, err, ErrDecodePrivateKeyPEM)
}

func TestLoadFromStore(t *testing.T) {
	t.Parallel()

	certPEM, keyPEM := selfSignedPEM(t)
	errStore := errors.New("vault sealed")

	tests := []struct {
		name string
		data map[string]string
		err  error
		want error
	}{
		{name: "success", data: map[string]string{"cert": certPEM, "key": keyPEM}},
		{name: "missing cert", data: map[string]string{"key": keyPEM}, want: ErrCertFieldNotFound},
		{name: "missing key", data: map[string]string{"cert": certPEM}, want: ErrKeyFieldNotFound},
		{name: "store error", err: errStore, want: errStore},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := new(MockObjectStore)
			if tc.data != nil {
				store.On("GetObject", "certs/sip2").Return(tc.data, tc.err)
			} else {
				store.On("GetObject", "certs/sip2").Return(nil, tc.err)
			}

			_, err := LoadFromStore(context.Background(), store, "sip2")
			if tc.want != nil {
				require.ErrorIs(t, err, tc.want)
			} else {
				require.NoError(t, err)
			}

			store.AssertExpectations(t)
		})
	}
}

func TestLoadFromFiles(t *testing.T) {
	t.Parallel()

	certPEM, keyPEM := selfSignedPEM(t)

	dir := t.TempDir()
	certFile := filepath.Join(dir, "cert.pem")
	keyFile := filepath.Join(dir, "key.pem")

	require.NoError(t, os.WriteFile(certFile, []byte(certPEM), 0o600))
	require.NoError(t, os.WriteFile(keyFile, []byte(keyPEM), 0o600))

	_, err := LoadFromFiles(certFile, keyFile)
	require.NoError(t, err)

	_, err = LoadFromFiles(certFile, "")
	require.ErrorIs(t, err, ErrCertKeyMismatch)

	_, err = LoadFromFiles(certFile, filepath.Join(dir, "missing.pem"))
	require.ErrorIs(t, err, ErrCertFilesNotFound)
}

func TestLoadPrecedence(t *testing.T) {
	t.Parallel()

	certPEM, keyPEM := selfSignedPEM(t)

	store := new(MockObjectStore)
	store.On("GetObject", "certs/sip2").Return(map[string]string{"cert": certPEM, "key": keyPEM}, nil).Once()

	fromStore, err := Load(context.Background(), Source{SecretName: "sip2", CommonName: "other"}, store)
	require.NoError(t, err)

	leaf, err := x509.ParseCertificate(fromStore.Certificate[0])
	require.NoError(t, err)
	assert.Equal(t, "sip2.example.org", leaf.Subject.CommonName)

	generated, err := Load(context.Background(), Source{SecretName: "sip2", CommonName: "gateway"}, nil)
	require.NoError(t, err)

	leaf, err = x509.ParseCertificate(generated.Certificate[0])
	require.NoError(t, err)
	assert.Equal(t, "gateway", leaf.Subject.CommonName)

	_, err = Load(context.Background(), Source{CertFile: "only-cert.pem", SecretName: "sip2"}, store)
	require.ErrorIs(t, err, ErrCertKeyMismatch)

	store.AssertExpectations(t)
}
