package feed

import (
	"net"
	"net/http"
	"time"
)

// UserAgent identifies the bot on every outgoing request
const UserAgent = "Mozilla/5.0 (compatible; AnimeNewsBot/1.0)"

var httpTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 60 * time.Second,
	}).DialContext,
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
	DisableCompression:  false,
}

// userAgentTransport injects the User-Agent header into every request
type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", UserAgent)
	return t.base.RoundTrip(req)
}

// Transport returns the shared transport wrapped with the bot User-Agent
func Transport() http.RoundTripper {
	return &userAgentTransport{base: httpTransport}
}

// NewHTTPClient returns a client on the shared transport bounded by timeout
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: Transport(),
		Timeout:   timeout,
	}
}
