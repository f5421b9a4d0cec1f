package cert

import (
	"crypto/tls"
	"crypto/x509"
	log "github.com/sirupsen/logrus"
)

// LogCertificates prints the subject and validity of the leaf of every configured certificate chain
func LogCertificates(conf *tls.Config) {
	for _, c := range conf.Certificates {
		if len(c.Certificate) == 0 {
			continue
		}
		leaf, err := x509.ParseCertificate(c.Certificate[0])
		if err != nil {
			log.WithError(err).Warnf("Could not parse certificate: %v", err)
			continue
		}
		log.Infof(
			"Server certificate: subject=%v, serial=%v, valid=%v..%v",
			leaf.Subject,
			leaf.SerialNumber,
			leaf.NotBefore,
			leaf.NotAfter,
		)
	}
}
