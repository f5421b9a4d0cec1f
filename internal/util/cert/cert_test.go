package cert

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"github.com/stretchr/testify/require"
	"github.com/youmark/pkcs8"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func generate(t *testing.T) (certPem string, key *ecdsa.PrivateKey) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(42),
		Subject:      pkix.Name{CommonName: "tonconv.test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		DNSNames:     []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})), key
}

func plainKey(t *testing.T, key *ecdsa.PrivateKey) string {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
}

func Test_ServerConfig_Inline(t *testing.T) {
	certPem, key := generate(t)
	conf := &ServerConfig{
		Config: Config{
			Certificate: certPem,
			PrivateKey:  plainKey(t, key),
		},
		RequireClientCert: true,
	}

	tlsConf, err := conf.GetTlsConfig()
	require.NoError(t, err)
	require.Len(t, tlsConf.Certificates, 1)
	require.Equal(t, tls.RequireAndVerifyClientCert, tlsConf.ClientAuth)
}

func Test_ServerConfig_EncryptedKeyFromFile(t *testing.T) {
	certPem, key := generate(t)
	password := "s3cret"

	der, err := pkcs8.ConvertPrivateKeyToPKCS8(key, []byte(password))
	require.NoError(t, err)

	dir := t.TempDir()
	keyFile := filepath.Join(dir, "key.pem")
	certFile := filepath.Join(dir, "cert.pem")
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "ENCRYPTED PRIVATE KEY", Bytes: der}), 0600))
	require.NoError(t, os.WriteFile(certFile, []byte(certPem), 0600))

	conf := &ServerConfig{
		Config: Config{
			CertificateFile:    certFile,
			PrivateKeyFile:     keyFile,
			PrivateKeyPassword: &password,
			CaCertificate:      certPem,
		},
	}
	tlsConf, err := conf.GetTlsConfig()
	require.NoError(t, err)
	require.Len(t, tlsConf.Certificates, 1)
	require.NotNil(t, tlsConf.ClientCAs)

	conf.PrivateKeyPassword = nil
	_, err = conf.GetTlsConfig()
	require.Error(t, err, "Encrypted key without a password should fail")

	conf.PrivateKeyPasswordProgram = "echo " + password
	_, err = conf.GetTlsConfig()
	require.NoError(t, err)
}

func Test_ServerConfig_NoCertificate(t *testing.T) {
	conf := &ServerConfig{}
	require.False(t, conf.HasCertificate())
	_, err := conf.GetTlsConfig()
	require.Error(t, err)
}

func Test_Config_InvalidPem(t *testing.T) {
	conf := &Config{
		PrivateKey: "not a pem",
	}
	_, err := conf.GetPrivateKey()
	require.Error(t, err)
}
