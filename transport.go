package otelclient

import "net/http"

// WrapClient returns a shallow copy of client whose transport traces
// every request through the same span lifecycle as Client. A nil
// client means http.DefaultClient.
func WrapClient(client *http.Client, cfg Config) *http.Client {
	if client == nil {
		client = http.DefaultClient
	}
	ret := *client
	ret.Transport = NewRoundTripper(ret.Transport, cfg)
	return &ret
}

// NewRoundTripper wraps base with request tracing. A nil base means
// http.DefaultTransport. Wrapping an already-wrapped round tripper
// returns it unchanged.
func NewRoundTripper(base http.RoundTripper, cfg Config) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if _, ok := base.(*roundTripper); ok {
		return base
	}
	return &roundTripper{
		base:   base,
		client: &Client{base: doerFunc(base.RoundTrip), cfg: cfg.resolve()},
	}
}

type roundTripper struct {
	base   http.RoundTripper
	client *Client
}

// RoundTrip traces the request. The request is cloned first:
// round trippers must not mutate the caller's request, and injection
// writes headers.
func (rt *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	return rt.client.Send(ctx, req.Clone(ctx))
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }
