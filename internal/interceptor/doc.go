// Package interceptor attaches the traffic printer to concrete HTTP clients.
//
// Three adapters are provided: Transport wraps any net/http RoundTripper,
// RestyMiddleware hooks into go-resty request and response middleware, and
// RetryableHooks plugs into go-retryablehttp's log hooks. Each adapter only
// describes its client's native objects as model sources; gating,
// classification and rendering are shared. None of them changes the outcome
// of the HTTP call they observe.
package interceptor
