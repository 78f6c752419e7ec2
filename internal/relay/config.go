package relay

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config is read from the environment. The certificate/key pair may be given
// inline (CORA_CERT / CORA_KEY) or as file paths; inline wins when both are
// set. The process refuses to start without a plausible PEM pair.
type Config struct {
	Port          int    `envconfig:"RELAY_PORT" default:"8443"`
	AllowedOrigin string `envconfig:"RELAY_ALLOWED_ORIGIN" default:"*"`

	CertPEM  string `envconfig:"CORA_CERT"`
	KeyPEM   string `envconfig:"CORA_KEY"`
	CertFile string `envconfig:"CORA_CERT_FILE"`
	KeyFile  string `envconfig:"CORA_KEY_FILE"`

	StageURL      string `envconfig:"CORA_STAGE_URL" default:"https://matls-clients.api.stage.cora.com.br"`
	ProductionURL string `envconfig:"CORA_PRODUCTION_URL" default:"https://matls-clients.api.cora.com.br"`

	TimeoutSeconds int `envconfig:"RELAY_TIMEOUT_SECONDS" default:"30"`
}

// ErrMissingCertificate is fatal: without the client pair there is nothing
// this process can do.
var ErrMissingCertificate = errors.New("relay: client certificate and key are required (CORA_CERT/CORA_KEY or CORA_CERT_FILE/CORA_KEY_FILE)")

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("relay: read environment: %w", err)
	}
	return &cfg, nil
}

// looksLikePEM is a heuristic sanity check, not cryptographic validation:
// the block must carry BEGIN/END markers of the expected kind.
func looksLikePEM(data, kind string) bool {
	return strings.Contains(data, "-----BEGIN") &&
		strings.Contains(data, "-----END") &&
		strings.Contains(data, kind)
}

// LoadKeyPair resolves the PEM pair from the environment or from files and
// parses it into a TLS client certificate.
func (c *Config) LoadKeyPair() (tls.Certificate, error) {
	certPEM, keyPEM := c.CertPEM, c.KeyPEM

	if certPEM == "" && c.CertFile != "" {
		raw, err := os.ReadFile(c.CertFile)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("relay: read certificate file: %w", err)
		}
		certPEM = string(raw)
	}
	if keyPEM == "" && c.KeyFile != "" {
		raw, err := os.ReadFile(c.KeyFile)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("relay: read key file: %w", err)
		}
		keyPEM = string(raw)
	}

	if certPEM == "" || keyPEM == "" {
		return tls.Certificate{}, ErrMissingCertificate
	}
	if !looksLikePEM(certPEM, "CERTIFICATE") {
		return tls.Certificate{}, fmt.Errorf("relay: CORA_CERT does not look like a PEM certificate")
	}
	if !looksLikePEM(keyPEM, "PRIVATE KEY") {
		return tls.Certificate{}, fmt.Errorf("relay: CORA_KEY does not look like a PEM private key")
	}

	cert, err := tls.X509KeyPair([]byte(certPEM), []byte(keyPEM))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("relay: parse key pair: %w", err)
	}
	return cert, nil
}

// BaseURL picks the provider host for the requested environment. Anything
// that is not explicitly "production" goes to stage.
func (c *Config) BaseURL(env string) string {
	if env == "production" {
		return c.ProductionURL
	}
	return c.StageURL
}
