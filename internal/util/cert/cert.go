package cert

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"github.com/bokysan/tonconv/internal/args"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/youmark/pkcs8"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Config is the generic certificate configuration. Every PEM can be given inline or as a file; relative file
// names are first looked up next to the configuration file.
type Config struct {
	CaCertificate             string  `json:"caCertificate" long:"ca-certificate" env:"CA_CERTIFICATE" description:"CA certificate(s)"`
	CaCertificateFile         string  `json:"caCertificateFile" long:"ca-certificate-file" env:"CA_CERTIFICATE_FILE" description:"File with CA certificate(s)"`
	Certificate               string  `json:"certificate" long:"certificate" env:"CERTIFICATE" description:"Server certificate"`
	CertificateFile           string  `json:"certificateFile" long:"certificate-file" env:"CERTIFICATE_FILE" description:"File with the server certificate"`
	PrivateKey                string  `json:"privateKey" long:"private-key" env:"PRIVATE_KEY" description:"Server private key"`
	PrivateKeyFile            string  `json:"privateKeyFile" long:"private-key-file" env:"PRIVATE_KEY_FILE" description:"File with the server private key"`
	PrivateKeyPassword        *string `json:"privateKeyPassword" long:"private-key-password" env:"PRIVATE_KEY_PASSWORD" description:"Decryption password"`
	PrivateKeyPasswordProgram string  `json:"privateKeyPasswordProgram" long:"private-key-password-program" env:"PRIVATE_KEY_PASSWORD_PROGRAM" description:"Program to run to get the decryption key"`
}

// ServerConfig is the certificate configuration with server-specific extensions
type ServerConfig struct {
	Config
	RequireClientCert bool `json:"requireClientCert" long:"require-client-cert" env:"REQUIRE_CLIENT_CERT" description:"If set, the client must authenticate with its certificate."`
}

func readPem(file, inline, what string) ([]byte, error) {
	if file != "" {
		block, err := os.ReadFile(findFile(file))
		if err != nil {
			return nil, errors.Wrapf(err, "Could not read %s file: %s", what, file)
		}
		return block, nil
	} else if inline != "" {
		return []byte(strings.TrimSpace(inline)), nil
	}
	return nil, nil
}

func (m *Config) GetCertificate() ([]byte, error) {
	return readPem(m.CertificateFile, m.Certificate, "certificate")
}

func (m *Config) GetCaCertificates() ([]byte, error) {
	return readPem(m.CaCertificateFile, m.CaCertificate, "ca certificate")
}

// GetPrivateKey returns the private key PEM, decrypted if needed. Both PKCS#8 encrypted keys and legacy
// encrypted PEM blocks are supported.
func (m *Config) GetPrivateKey() ([]byte, error) {
	privateKeyPemBlock, err := readPem(m.PrivateKeyFile, m.PrivateKey, "private key")
	if err != nil || len(privateKeyPemBlock) == 0 {
		return privateKeyPemBlock, err
	}

	block, _ := pem.Decode(privateKeyPemBlock)
	if block == nil {
		return nil, errors.Errorf("Private key is not PEM encoded")
	}

	if block.Type == "ENCRYPTED PRIVATE KEY" {
		password, err := m.GetPrivateKeyPassword()
		if err != nil {
			return nil, errors.Wrapf(err, "Failed getting the key password")
		}

		key, err := pkcs8.ParsePKCS8PrivateKey(block.Bytes, password)
		if err != nil {
			return nil, errors.Wrapf(err, "Could not decrypt private key!")
		}

		der, err := x509.MarshalPKCS8PrivateKey(key)
		if err != nil {
			return nil, errors.Wrapf(err, "Don't know how to handle %T", key)
		}
		return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil

	} else if x509.IsEncryptedPEMBlock(block) { //nolint:staticcheck
		password, err := m.GetPrivateKeyPassword()
		if err != nil {
			return nil, errors.Wrapf(err, "Failed getting the key password")
		}

		der, err := x509.DecryptPEMBlock(block, password) //nolint:staticcheck
		if err != nil {
			return nil, errors.Wrapf(err, "Could not decrypt private key!")
		}
		return pem.EncodeToMemory(&pem.Block{Type: block.Type, Bytes: der}), nil
	}

	return privateKeyPemBlock, nil
}

func (m *Config) GetPrivateKeyPassword() ([]byte, error) {
	if m.PrivateKeyPassword != nil {
		return []byte(*m.PrivateKeyPassword), nil
	} else if m.PrivateKeyPasswordProgram != "" {
		cmd := exec.Command("sh", "-c", m.PrivateKeyPasswordProgram)
		out := bytes.NewBuffer([]byte{})
		cmd.Stdout = out
		if err := cmd.Run(); err != nil {
			return nil, errors.Wrapf(err, "Failed executing %s", m.PrivateKeyPasswordProgram)
		}
		return bytes.TrimRight(out.Bytes(), "\r\n"), nil
	}
	return nil, errors.Errorf("Private key is encrypted and no password or password program defined!")
}

// HasCertificate returns true if any server certificate material is configured
func (m *Config) HasCertificate() bool {
	return m.Certificate != "" || m.CertificateFile != ""
}

func (m *Config) GetX509KeyPair() (*tls.Certificate, error) {
	certPemBlock, err := m.GetCertificate()
	if err != nil {
		return nil, err
	}
	privateKeyPemBlock, err := m.GetPrivateKey()
	if err != nil {
		return nil, err
	}

	if len(certPemBlock) == 0 && len(privateKeyPemBlock) == 0 {
		return nil, nil
	}

	cert, err := tls.X509KeyPair(certPemBlock, privateKeyPemBlock)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not create a X509 key pair from given data!")
	}
	return &cert, nil
}

func (m *Config) GetTlsConfig() (*tls.Config, error) {
	conf := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if crt, err := m.GetX509KeyPair(); err != nil {
		return nil, errors.Wrapf(err, "Could not read certificate pair")
	} else if crt != nil {
		conf.Certificates = []tls.Certificate{*crt}
	}

	caCert, err := m.GetCaCertificates()
	if err != nil {
		return nil, errors.Wrapf(err, "Could not load CA certificates")
	}
	if caCert != nil {
		caCertPool := x509.NewCertPool()
		if ok := caCertPool.AppendCertsFromPEM(caCert); !ok {
			return nil, errors.Errorf("Could not parse CA certificates")
		}
		conf.ClientCAs = caCertPool
		conf.RootCAs = caCertPool
	}

	return conf, nil
}

func (m *ServerConfig) GetTlsConfig() (*tls.Config, error) {
	log.Debug("ServerConfig.GetTlsConfig()")
	conf, err := m.Config.GetTlsConfig()
	if err != nil {
		return nil, err
	}

	if len(conf.Certificates) == 0 {
		return nil, errors.Errorf("TLS requested but no certificate configured")
	}
	if m.RequireClientCert {
		conf.ClientAuth = tls.RequireAndVerifyClientCert
	}
	LogCertificates(conf)

	return conf, nil
}

// findFile will try to locate the file based on relative path of the configuration location and,
// failing that, return the provided location as is
func findFile(name string) string {
	if args.General.ConfigurationFilePath != "" {
		path := filepath.Dir(args.General.ConfigurationFilePath)
		file := filepath.Join(path, name)

		_, err := os.Stat(file)
		if !os.IsNotExist(err) {
			return file
		}
	}

	return name
}
