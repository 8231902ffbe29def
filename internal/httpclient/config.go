package httpclient

import "time"

// HTTPClientConfig holds configuration for the HTTP client
type HTTPClientConfig struct {
	Timeout               time.Duration
	DialTimeout           time.Duration
	KeepAlive             time.Duration
	TLSHandshakeTimeout   time.Duration
	IdleConnTimeout       time.Duration
	ExpectContinueTimeout time.Duration
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	MaxConnsPerHost       int
	FollowRedirects       bool
	MaxRedirects          int
	InsecureSkipVerify    bool
	EnableHTTP2           bool
	UserAgent             string
	CustomHeaders         map[string]string
}

// DefaultHTTPClientConfig returns default HTTP client configuration
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:               30 * time.Second,
		DialTimeout:           10 * time.Second,
		KeepAlive:             30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       0,
		FollowRedirects:       true,
		MaxRedirects:          10,
		InsecureSkipVerify:    false,
		EnableHTTP2:           true,
		UserAgent:             "iocscan/1.0",
	}
}
