package http

import "net/http"

// Wrapper decorates a round tripper.
type Wrapper func(next http.RoundTripper) http.RoundTripper

// Chain applies wrappers to base so that the first wrapper sees the request first.
// A nil base means http.DefaultTransport.
func Chain(base http.RoundTripper, wrappers ...Wrapper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	for i := len(wrappers) - 1; i >= 0; i-- {
		base = wrappers[i](base)
	}

	return base
}

// WithUserAgent returns a Wrapper injecting the User-Agent supplied by provider.
func WithUserAgent(provider UserAgentProvider) Wrapper {
	return func(next http.RoundTripper) http.RoundTripper {
		return NewUserAgentInjector(next, provider)
	}
}
