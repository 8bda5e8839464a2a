package http

import "github.com/oshokin/traffic-logger/internal/version"

//go:generate $MOCKGEN -source=user_agent_provider.go -destination=mocks/user_agent_provider_mock.go

// UserAgentProvider is an interface that defines a method for retrieving a User-Agent string.
type UserAgentProvider interface {
	// GetUserAgent returns a User-Agent string.
	GetUserAgent() string
}

// StaticUserAgentProvider returns the same User-Agent for every request.
type StaticUserAgentProvider struct {
	userAgent string
}

// NewUserAgentProvider creates a provider for userAgent.
// An empty userAgent falls back to DefaultUserAgent.
func NewUserAgentProvider(userAgent string) UserAgentProvider {
	if userAgent == "" {
		userAgent = DefaultUserAgent()
	}

	return &StaticUserAgentProvider{userAgent: userAgent}
}

// GetUserAgent returns a User-Agent string.
func (p *StaticUserAgentProvider) GetUserAgent() string {
	return p.userAgent
}

// DefaultUserAgent identifies the tool and its version, e.g. "traffic-logger/0.1.0".
func DefaultUserAgent() string {
	return userAgentProduct + "/" + version.Version
}
