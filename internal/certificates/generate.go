// Package certificates loads or creates the TLS certificates the gateway's
// listeners present to terminals and operators.
package certificates

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"os"
	"time"
)

const (
	rsaKeyBits      = 2048
	selfSignedValid = 365 * 24 * time.Hour
	serialBits      = 128
	storePrefix     = "certs/"
)

// Sentinel errors for certificate operations.
var (
	ErrCertFieldNotFound    = errors.New("cert field not found in secret")
	ErrKeyFieldNotFound     = errors.New("key field not found in secret")
	ErrDecodeCertificatePEM = errors.New("failed to decode certificate PEM")
	ErrDecodePrivateKeyPEM  = errors.New("failed to decode private key PEM")
	ErrCertFilesNotFound    = errors.New("certificate files not found")
	ErrCertKeyMismatch      = errors.New("both cert and key files must be set")
)

// ObjectStore reads secrets stored as string fields.
type ObjectStore interface {
	GetObject(ctx context.Context, key string) (map[string]string, error)
}

// Source says where a listener's certificate comes from. Files win over the
// store; with neither, a self-signed certificate is generated for CommonName.
type Source struct {
	CertFile   string
	KeyFile    string
	SecretName string
	CommonName string
}

// Load resolves src to a certificate. store may be nil.
func Load(ctx context.Context, src Source, store ObjectStore) (tls.Certificate, error) {
	switch {
	case src.CertFile != "" || src.KeyFile != "":
		return LoadFromFiles(src.CertFile, src.KeyFile)
	case src.SecretName != "" && store != nil:
		return LoadFromStore(ctx, store, src.SecretName)
	default:
		return SelfSigned(src.CommonName)
	}
}

// LoadFromStore reads the {cert, key} PEM pair stored at certs/{name}.
func LoadFromStore(ctx context.Context, store ObjectStore, name string) (tls.Certificate, error) {
	data, err := store.GetObject(ctx, storePrefix+name)
	if err != nil {
		return tls.Certificate{}, err
	}

	certPEM, ok := data["cert"]
	if !ok {
		return tls.Certificate{}, ErrCertFieldNotFound
	}

	keyPEM, ok := data["key"]
	if !ok {
		return tls.Certificate{}, ErrKeyFieldNotFound
	}

	return ParseFromPEM(certPEM, keyPEM)
}

// ParseFromPEM builds a certificate from PEM encoded cert and key.
func ParseFromPEM(certPEM, keyPEM string) (tls.Certificate, error) {
	if block, _ := pem.Decode([]byte(certPEM)); block == nil {
		return tls.Certificate{}, ErrDecodeCertificatePEM
	}

	if block, _ := pem.Decode([]byte(keyPEM)); block == nil {
		return tls.Certificate{}, ErrDecodePrivateKeyPEM
	}

	return tls.X509KeyPair([]byte(certPEM), []byte(keyPEM))
}

// LoadFromFiles reads a PEM cert and key from disk.
func LoadFromFiles(certFile, keyFile string) (tls.Certificate, error) {
	if certFile == "" || keyFile == "" {
		return tls.Certificate{}, ErrCertKeyMismatch
	}

	for _, path := range []string{certFile, keyFile} {
		if _, err := os.Stat(path); err != nil {
			return tls.Certificate{}, fmt.Errorf("%w: %s", ErrCertFilesNotFound, path)
		}
	}

	return tls.LoadX509KeyPair(certFile, keyFile)
}

// SelfSigned generates a certificate for commonName, valid for one year.
func SelfSigned(commonName string) (tls.Certificate, error) {
	if commonName == "" {
		commonName = "localhost"
	}

	key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return tls.Certificate{}, err
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), serialBits))
	if err != nil {
		return tls.Certificate{}, err
	}

	now := time.Now()

	tmpl := x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: commonName},
		NotBefore:             now.Add(-time.Minute),
		NotAfter:              now.Add(selfSignedValid),
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}

	if ip := net.ParseIP(commonName); ip != nil {
		tmpl.IPAddresses = []net.IP{ip}
	} else {
		tmpl.DNSNames = []string{commonName}
	}

	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, err
	}

	return tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  key,
	}, nil
}

// EncodePEM returns the PEM encoding of the leaf certificate and RSA key of c.
func EncodePEM(c tls.Certificate) (certPEM, keyPEM string) {
	if len(c.Certificate) > 0 {
		certPEM = string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: c.Certificate[0]}))
	}

	if key, ok := c.PrivateKey.(*rsa.PrivateKey); ok {
		keyPEM = string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}))
	}

	return certPEM, keyPEM
}
