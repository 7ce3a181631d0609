package security

import (
	"crypto/tls"
	"io"
	"net/http"
	"time"
)

// HTTPClientConfig holds configuration for creating hardened HTTP clients
type HTTPClientConfig struct {
	Timeout            time.Duration
	InsecureSkipVerify bool   // The dish serves a self-signed certificate
	MaxResponseSize    int64  // Maximum response body size in bytes
	MinTLSVersion      uint16 // Minimum TLS version (default: TLS 1.2)
}

// DefaultClientConfig returns the configuration used for dish diagnostic fetches
func DefaultClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:            5 * time.Second,
		InsecureSkipVerify: true,
		MaxResponseSize:    10 * 1024 * 1024, // 10MB
		MinTLSVersion:      tls.VersionTLS12,
	}
}

// NewHTTPClient creates an HTTP client with bounded timeouts and connection reuse
func NewHTTPClient(config HTTPClientConfig) *http.Client {
	return &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: config.InsecureSkipVerify,
				MinVersion:         config.MinTLSVersion,
			},
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     30 * time.Second,
		},
	}
}

// LimitedReadAll reads a response body with a size limit to prevent unbounded reads
func LimitedReadAll(body io.ReadCloser, maxSize int64) ([]byte, error) {
	defer body.Close()
	limitedReader := io.LimitReader(body, maxSize)
	return io.ReadAll(limitedReader)
}
