package cache

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v9"
)

type RedisConfig struct {
	// Local connections are plain TCP without credentials.
	Local      bool
	Addr       string
	Username   string
	Password   string
	KeyFile    string
	CertFile   string
	CAFile     string
	MaxRetries int
	Timeout    time.Duration
}

// NewRedisOptions builds client options; remote connections use mutual TLS.
func NewRedisOptions(config RedisConfig) (*redis.Options, error) {
	options := &redis.Options{
		Addr:            config.Addr,
		MaxRetries:      config.MaxRetries,
		MinRetryBackoff: MIN_RETRY_BACKOFF,
		MaxRetryBackoff: MAX_RETRY_BACKOFF,
	}
	if config.Timeout > 0 {
		options.DialTimeout = config.Timeout
		options.ReadTimeout = config.Timeout
		options.WriteTimeout = config.Timeout
	}
	if config.Local {
		return options, nil
	}

	tlsConfig, err := newTLSConfig(config.KeyFile, config.CertFile, config.CAFile)
	if err != nil {
		return nil, err
	}
	options.TLSConfig = tlsConfig
	options.Username = config.Username
	options.Password = config.Password
	return options, nil
}

func newTLSConfig(keyFile, certFile, caFile string) (*tls.Config, error) {
	if keyFile == "" || certFile == "" || caFile == "" {
		return nil, errors.New("redis key, certificate and CA files are required")
	}
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("could not load redis client certificate: %w", err)
	}
	ca, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("could not read redis CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(ca) {
		return nil, errors.New("redis CA file contains no certificates")
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      pool,
		MinVersion:   tls.VersionTLS12,
	}, nil
}
