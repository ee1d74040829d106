package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// DefaultHTTPTimeout bounds a single HEAD request.
const DefaultHTTPTimeout = 1 * time.Second

// HTTPProber checks an HTTP endpoint with a HEAD request and compares the
// response status against an expected code.
type HTTPProber struct {
	ExpectedStatus int
	// AllowSelfSigned skips TLS certificate verification. Off by default;
	// it must be enabled explicitly per endpoint.
	AllowSelfSigned bool
	// Timeout for the whole request. Zero means DefaultHTTPTimeout.
	Timeout time.Duration

	clientOnce sync.Once
	client     *http.Client
}

// NewHTTPProber creates a prober for the given expected status code.
func NewHTTPProber(expectedStatus int, allowSelfSigned bool) *HTTPProber {
	return &HTTPProber{
		ExpectedStatus:  expectedStatus,
		AllowSelfSigned: allowSelfSigned,
	}
}

// httpClient builds the client on first use. Probes of the same endpoint
// may overlap, so initialization must be safe for concurrent callers.
func (p *HTTPProber) httpClient() *http.Client {
	p.clientOnce.Do(func() {
		timeout := p.Timeout
		if timeout <= 0 {
			timeout = DefaultHTTPTimeout
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if p.AllowSelfSigned {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // Explicit per-endpoint opt-in for self-signed certs
		}
		p.client = &http.Client{
			Timeout:   timeout,
			Transport: transport,
		}
	})
	return p.client
}

// Probe issues a HEAD request to url. The outcome is OK when the response
// status equals ExpectedStatus, Failed when the endpoint answers with a
// different status or the connection cannot be established, and Unknown
// for anything else (DNS failure, malformed URL, timeout).
func (p *HTTPProber) Probe(ctx context.Context, url string) Outcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return Outcome{Status: StatusUnknown, Detail: fmt.Sprintf("Error: %v", err)}
	}

	resp, err := p.httpClient().Do(req)
	if err != nil {
		return classifyHTTPError(err)
	}
	defer resp.Body.Close()

	status := StatusFailed
	if resp.StatusCode == p.ExpectedStatus {
		status = StatusOK
	}
	// resp.Request points at the final request after redirects.
	return Outcome{
		Status: status,
		Detail: fmt.Sprintf("Status %d %s", resp.StatusCode, resp.Request.URL),
	}
}

// classifyHTTPError maps transport errors onto the tri-state outcome.
// Connection-level failures (refused, reset, unreachable, bad certificate)
// are normal monitoring signal and map to Failed; resolver failures and
// timeouts mean we couldn't even try, so they map to Unknown.
func classifyHTTPError(err error) Outcome {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return Outcome{Status: StatusUnknown, Detail: fmt.Sprintf("Error: %v", err)}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Outcome{Status: StatusUnknown, Detail: fmt.Sprintf("Error: %v", err)}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return Outcome{Status: StatusFailed, Detail: fmt.Sprintf("Connection failed: %v", err)}
	}

	var tlsErr *tls.CertificateVerificationError
	var authErr x509.UnknownAuthorityError
	var hostErr x509.HostnameError
	if errors.As(err, &tlsErr) || errors.As(err, &authErr) || errors.As(err, &hostErr) {
		return Outcome{Status: StatusFailed, Detail: fmt.Sprintf("Connection failed: %v", err)}
	}

	return Outcome{Status: StatusUnknown, Detail: fmt.Sprintf("Error: %v", err)}
}
